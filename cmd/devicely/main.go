// Devicely compiles natural-language instructions into line-oriented
// command scripts for mobile device automation.
//
// Usage:
//
//	devicely serve [--config devicely.yaml]
//	devicely convert "open chrome and scroll down" --platform both
//	devicely providers
//
// @title       devicely API
// @version     1.0
// @description Compiles natural-language instructions into device automation command scripts.
// @BasePath    /
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

// version is set at build time via ldflags.
var version = "dev"

const flushTimeout = 2 * time.Second

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("error: "+err.Error()))
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "devicely",
		Short: "Natural-language to device command compiler",
		Long: `Devicely turns instructions like "open chrome and scroll down" into
command scripts (launch, click, swipe, WAIT ...) for iOS and Android
automation, using the configured language-model provider.

Provider credentials are read from the environment or a .env file
(OPENAI_API_KEY, GEMINI_API_KEY, CLAUDE_API_KEY, GITHUB_TOKEN,
GROQ_API_KEY, COHERE_API_KEY, MISTRAL_API_KEY, OLLAMA_HOST).`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "path to config file (e.g. configs/devicely.yaml)")

	cmd.AddCommand(
		serveCmd(&configFile),
		convertCmd(&configFile),
		providersCmd(&configFile),
		versionCmd(),
	)
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and exit",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "devicely %s\n", version)
		},
	}
}
