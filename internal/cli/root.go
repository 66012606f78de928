package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/youmna-rabie/rag-gateway/internal/config"
)

var (
	configPath  string
	envFilePath string
)

var rootCmd = &cobra.Command{
	Use:   "gateway",
	Short: "RAG gateway",
	Long:  "gateway accepts prompts over HTTP, forwards them to a RAG backend, and returns its answers.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return config.LoadEnvFile(envFilePath)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "gateway.yaml", "path to configuration file (empty for defaults and environment only)")
	rootCmd.PersistentFlags().StringVar(&envFilePath, "env-file", ".env", "path to a dotenv file loaded before the configuration")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
