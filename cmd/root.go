package cmd

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"vendorstats/config"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "vendorstats",
	Short: "vendorstats builds a vendor sales summary from flat-file inventory data",
	Long: `vendorstats is a batch pipeline over a single SQLite database. The
ingest sub-command loads every delimited-text file in the data directory
into a same-named table, replacing any prior contents. The summary
sub-command aggregates the purchases, purchase_prices, vendor_invoice
and sales tables into one vendor_sales_summary table with per-vendor
profit ratios. The run sub-command does both in order.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./vendorstats.toml)")
}

// initConfig reads in the config file and environment variables if set.
func initConfig() {
	config.SetDefaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("toml")
		viper.SetConfigName("vendorstats")
	}

	viper.SetEnvPrefix("vendorstats")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		log.Info().Str("ConfigFN", viper.ConfigFileUsed()).Msg("using config file")
	}
}
