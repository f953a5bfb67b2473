package cmd

import (
	"github.com/spf13/cobra"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "santralytics",
	Short: "Imbalance analysis for EPIAS generation plants",
	Long: `santralytics fetches day-ahead prices, system marginal prices,
production forecasts and realized generation from the EPIAS transparency
platform for a pair of plants and writes a comparative imbalance report.`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }
