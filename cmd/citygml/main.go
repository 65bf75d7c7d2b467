package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

func main() {
	_ = godotenv.Load(".env")

	if err := newRootCmd(loadConfig()).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(cfg config) *cobra.Command {
	var logFile string
	verbosity := cfg.Verbosity

	rootCmd := &cobra.Command{
		Use:          "citygml",
		Short:        "Inspect and query CityGML city models",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			commonlog.Initialize(verbosity, logFile)
		},
	}

	rootCmd.PersistentFlags().IntVarP(&verbosity, "verbosity", "v", verbosity, "log verbosity (-4 none, 0 notice, 1 info, 2 debug)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log", "", "write logs to this file instead of stderr")

	rootCmd.AddCommand(newInfoCmd(cfg))
	rootCmd.AddCommand(newQueryCmd(cfg))
	rootCmd.AddCommand(newIndexCmd(cfg))
	return rootCmd
}
