package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	addr       string
	configPath string
)

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	envAddr := os.Getenv("QUIZ_ADDR")
	envConfig := os.Getenv("CONFIG_PATH")
	if envConfig == "" {
		envConfig = "config/config.yaml"
	}

	cmd := &cobra.Command{
		Use:   "cs212-quiz",
		Short: "Roll-number authenticated quiz server over TCP",
	}

	cmd.PersistentFlags().StringVar(&addr, "addr", envAddr, "listen address, e.g. :12345")
	cmd.PersistentFlags().StringVar(&configPath, "config", envConfig, "path to YAML config")
	cmd.AddCommand(NewServeCmd(&configPath, &addr))
	cmd.AddCommand(NewMigrateCmd(&configPath))
	cmd.AddCommand(NewClientCmd())
	return cmd
}
