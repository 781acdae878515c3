package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// set via -ldflags at build time
var (
	Version    = "dev"
	CommitHash = ""
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("vendorstats %s %s/%s", Version, runtime.GOOS, runtime.GOARCH)
		if CommitHash != "" {
			fmt.Printf(" (%s)", CommitHash)
		}
		fmt.Println()
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
