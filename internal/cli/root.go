package cli

import (
	"os"

	"livequiz/internal/config"

	"github.com/spf13/cobra"
)

var (
	port       string
	configPath string
	env        string
)

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	envPort := os.Getenv("PORT")
	if envPort == "" {
		envPort = config.DefaultPort
	}
	envConfig := os.Getenv("CONFIG_PATH")
	if envConfig == "" {
		envConfig = "config/config.yaml"
	}
	envName := os.Getenv("APP_ENV")
	if envName == "" {
		envName = "production"
	}

	cmd := &cobra.Command{
		Use:   "livequiz",
		Short: "Real-time host-driven quiz service powered by Gorilla WebSocket",
	}

	cmd.PersistentFlags().StringVar(&port, "port", envPort, "port to listen on")
	cmd.PersistentFlags().StringVar(&configPath, "config", envConfig, "path to YAML config")
	cmd.PersistentFlags().StringVar(&env, "env", envName, "runtime environment (production|development)")
	cmd.AddCommand(NewStartCmd(&configPath, &port, &env))
	cmd.AddCommand(NewMigrateCmd(&configPath))
	return cmd
}
