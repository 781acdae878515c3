package config

import "github.com/spf13/viper"

// Config holds the resolved settings for one run. Resolution order is
// viper defaults, then an optional config file, then environment
// variables (VENDORSTATS_*).
type Config struct {
	DataDir      string
	DBPath       string
	LogDir       string
	SummaryTable string
}

// SetDefaults registers the built-in values with viper. Called before
// the config file and environment are read.
func SetDefaults() {
	viper.SetDefault("data_dir", "data")
	viper.SetDefault("db_path", "inventory.db")
	viper.SetDefault("log_dir", "logs")
	viper.SetDefault("summary_table", "vendor_sales_summary")
}

// Load materializes the current viper state into a Config.
func Load() Config {
	return Config{
		DataDir:      viper.GetString("data_dir"),
		DBPath:       viper.GetString("db_path"),
		LogDir:       viper.GetString("log_dir"),
		SummaryTable: viper.GetString("summary_table"),
	}
}
