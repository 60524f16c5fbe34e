package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:           "pulsar",
	Short:         "Absolute phase reference tooling for pulsar timing models",
	Long:          "Pulsar loads TOML par files, sets up the absolute phase reference (TZRMJD, TZRSITE, TZRFRQ), and builds the normalized reference arrival.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default .pulsar.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().String("clock-db", "", "SQLite clock correction store")
	rootCmd.PersistentFlags().String("ephem", "", "solar system ephemeris (default DE421)")
	rootCmd.PersistentFlags().String("telemetry", "", "append JSONL telemetry to this file")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("clock_db", rootCmd.PersistentFlags().Lookup("clock-db"))
	_ = viper.BindPFlag("ephem", rootCmd.PersistentFlags().Lookup("ephem"))
	_ = viper.BindPFlag("telemetry_path", rootCmd.PersistentFlags().Lookup("telemetry"))
}

func initConfig() {
	if cfgFile, _ := rootCmd.PersistentFlags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".pulsar")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix("PULSAR")
	viper.AutomaticEnv()

	// It's fine if no config file is found; we use defaults.
	_ = viper.ReadInConfig()
}
