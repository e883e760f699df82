package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nadzzz/devicely/internal/apps"
	"github.com/nadzzz/devicely/internal/grammar"
	"github.com/nadzzz/devicely/internal/message"
	"github.com/nadzzz/devicely/internal/provider"
)

func convertCmd(configFile *string) *cobra.Command {
	var (
		platform   string
		providerID string
		model      string
		resolve    string
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "convert <instruction>",
		Short: "Convert one instruction into a command script",
		Long: `Convert one natural-language instruction and print the resulting script.

Examples:
  devicely convert "open chrome and scroll down" --platform both
  devicely convert "turn on airplane mode" --provider groq
  devicely convert "take a screenshot" --provider claude --model claude-3-5-haiku-20241022 --json
  devicely convert "open settings" --platform both --resolve android`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if resolve != "" && resolve != "ios" && resolve != "android" {
				return fmt.Errorf("--resolve must be ios or android, got %q", resolve)
			}
			a, err := loadApp(ctx, *configFile)
			if err != nil {
				return err
			}
			defer a.close()

			if model != "" {
				target := provider.NormalizeID(providerID)
				if target == "" {
					target = a.registry.Current().ID
				}
				if !a.registry.SetActive(target, model) {
					return fmt.Errorf("provider %q is not available, set %s", target, credentialEnv(a.registry, target))
				}
			}

			res, err := a.converter.Convert(ctx, &message.ConvertRequest{
				Source:   "cli",
				Text:     strings.Join(args, " "),
				Platform: platform,
				Provider: providerID,
			})
			if err != nil {
				return err
			}
			if resolve != "" {
				resolveLaunches(a.table, res, resolve)
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			printResult(cmd.OutOrStdout(), res)
			return nil
		},
	}

	cmd.Flags().StringVarP(&platform, "platform", "p", "", "target platform: ios, android or both")
	cmd.Flags().StringVar(&providerID, "provider", "", "provider for this request (default: configured provider)")
	cmd.Flags().StringVarP(&model, "model", "m", "", "model override for the provider")
	cmd.Flags().StringVar(&resolve, "resolve", "", "rewrite launch targets to ios or android package identifiers")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full result as JSON")
	return cmd
}

// resolveLaunches rewrites generic "launch <app>" lines in res to the
// package identifiers of platform and rebuilds the script.
func resolveLaunches(table apps.Table, res *message.ConvertResult, platform string) {
	lines := make([]string, len(res.Commands))
	for i, c := range res.Commands {
		if c.Category == grammar.Keyword && c.Keyword == "launch" {
			if pkg := apps.Resolve(table, c.Arg, platform); pkg != c.Arg {
				res.Commands[i] = grammar.Classify(c.Keyword + " " + pkg)
			}
		}
		lines[i] = res.Commands[i].Line
	}
	res.Script = strings.Join(lines, "\n")
}

func printResult(w io.Writer, res *message.ConvertResult) {
	for _, c := range res.Commands {
		fmt.Fprintln(w, styleCommand(c))
	}

	meta := fmt.Sprintf("%s / %s  %s", res.Provider, res.Model, res.Duration.Round(time.Millisecond))
	if res.FellBack {
		meta += "  (fallback model)"
	}
	if res.Cached {
		meta += "  (cached)"
	}
	fmt.Fprintln(w, infoStyle.Render(meta))
}

func styleCommand(c grammar.Command) string {
	switch c.Category {
	case grammar.Wait:
		return waitStyle.Render(c.Line)
	case grammar.Bare, grammar.Keyword:
		return commandStyle.Render(c.Line)
	default:
		return textStyle.Render(c.Line)
	}
}

func credentialEnv(reg *provider.Registry, id provider.ID) string {
	if d, ok := reg.Descriptor(id); ok {
		return d.CredentialEnv
	}
	return "its credential"
}
