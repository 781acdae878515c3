package cmd

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"vendorstats/config"
	"vendorstats/database"
	"vendorstats/loader"
	"vendorstats/logging"
	"vendorstats/summary"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline: ingest then summary",
	Long: `The run sub-command executes both pipeline stages in order against
one database connection: first the bulk loader, then the vendor summary
builder.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()

		db, err := database.Open(cfg.DBPath)
		if err != nil {
			log.Fatal().Err(err).Str("db", cfg.DBPath).Msg("could not open database")
		}
		defer db.Close()

		ingestLog, ingestClose, err := logging.NewComponentLogger(cfg.LogDir, "ingestion")
		if err != nil {
			log.Fatal().Err(err).Msg("could not set up ingestion log")
		}
		defer ingestClose.Close()

		if err := loader.LoadAll(db, cfg.DataDir, ingestLog); err != nil {
			ingestLog.Fatal().Err(err).Str("dir", cfg.DataDir).Msg("ingestion failed")
		}

		summaryLog, summaryClose, err := logging.NewComponentLogger(cfg.LogDir, "vendor_summary")
		if err != nil {
			log.Fatal().Err(err).Msg("could not set up vendor summary log")
		}
		defer summaryClose.Close()

		if err := summary.Run(db, cfg.SummaryTable, summaryLog); err != nil {
			summaryLog.Fatal().Err(err).Msg("vendor summary failed")
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
