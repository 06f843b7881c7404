package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

const version = "0.1.0"

var (
	configFile string
	verbosity  int
	logFile    string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "stubgen",
		Short:         "Generate Python type stubs for JVM class libraries",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			var path *string
			if logFile != "" {
				path = &logFile
			}
			commonlog.Configure(verbosity, path)
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: stubgen.toml in this or a parent directory)")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase log verbosity")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to this file instead of stderr")

	rootCmd.AddCommand(newGenerateCmd())
	rootCmd.AddCommand(newDumpCmd())
	rootCmd.AddCommand(newLSPCmd())

	return rootCmd
}
