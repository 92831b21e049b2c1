// Command villacare-duo is a terminal client for the VillaCare chat demo:
// talk to one persona, or to Alan and Amanda together.
package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/leadballoon/villacare/internal/version"
)

var (
	serverURL string
	verbose   bool
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "villacare-duo",
		Short:        "Chat with the VillaCare personas from the terminal",
		Version:      version.Short(),
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&serverURL, "server", envOr("VILLACARE_URL", "http://localhost:3000"), "VillaCare server base URL")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log failed persona calls to stderr")

	root.AddCommand(chatCmd(), signupCmd())
	return root
}

func newLogger() *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
