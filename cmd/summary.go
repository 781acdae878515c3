package cmd

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"vendorstats/config"
	"vendorstats/database"
	"vendorstats/logging"
	"vendorstats/summary"
)

// summaryCmd represents the summary command
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Build the vendor sales summary table",
	Long: `The summary sub-command aggregates the pre-loaded purchases,
purchase_prices, vendor_invoice and sales tables into one row per
(vendor, brand), appends gross profit and ratio columns, and writes the
result back to the database, replacing any prior summary table. Run
ingest first to populate the base tables.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()

		logger, closer, err := logging.NewComponentLogger(cfg.LogDir, "vendor_summary")
		if err != nil {
			log.Fatal().Err(err).Msg("could not set up vendor summary log")
		}
		defer closer.Close()

		db, err := database.Open(cfg.DBPath)
		if err != nil {
			logger.Fatal().Err(err).Str("db", cfg.DBPath).Msg("could not open database")
		}
		defer db.Close()

		if err := summary.Run(db, cfg.SummaryTable, logger); err != nil {
			logger.Fatal().Err(err).Msg("vendor summary failed")
		}
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}
