package cmd

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"vendorstats/config"
	"vendorstats/database"
	"vendorstats/loader"
	"vendorstats/logging"
)

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Load every delimited-text file in the data directory into the database",
	Long: `The ingest sub-command scans the data directory for .csv and .tsv
files and loads each one fully into a table named after the file,
replacing any prior table of that name. A single bad file aborts the
whole run.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()

		logger, closer, err := logging.NewComponentLogger(cfg.LogDir, "ingestion")
		if err != nil {
			log.Fatal().Err(err).Msg("could not set up ingestion log")
		}
		defer closer.Close()

		db, err := database.Open(cfg.DBPath)
		if err != nil {
			logger.Fatal().Err(err).Str("db", cfg.DBPath).Msg("could not open database")
		}
		defer db.Close()

		if err := loader.LoadAll(db, cfg.DataDir, logger); err != nil {
			logger.Fatal().Err(err).Str("dir", cfg.DataDir).Msg("ingestion failed")
		}
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}
