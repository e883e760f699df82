package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nadzzz/devicely/internal/provider"
)

func providersCmd(configFile *string) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "providers",
		Short: "List providers, their models and which ones have credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd.Context(), *configFile)
			if err != nil {
				return err
			}
			defer a.close()

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(struct {
					Active    provider.Snapshot     `json:"active"`
					Providers []provider.Descriptor `json:"providers"`
				}{a.registry.Current(), a.registry.All()})
			}
			printProviders(cmd.OutOrStdout(), a.registry)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

func printProviders(w io.Writer, reg *provider.Registry) {
	snap := reg.Current()
	fmt.Fprintln(w, titleStyle.Render("Providers"))

	for _, d := range reg.All() {
		mark := errorStyle.Render("✗")
		if reg.IsAvailable(d.ID) {
			mark = activeStyle.Render("✓")
		}

		name := d.DisplayName
		if d.ID == snap.ID {
			name = activeStyle.Render(name + " (active)")
		}
		fmt.Fprintf(w, "%s %-10s %s\n", mark, d.ID, name)

		model := d.DefaultModel()
		if d.ID == snap.ID {
			model = snap.Model
		}
		fmt.Fprintln(w, infoStyle.Render(fmt.Sprintf("    model %s, credential %s", model, d.CredentialEnv)))
	}

	if len(snap.Available) == 0 {
		fmt.Fprintln(w, errorStyle.Render("\nno provider has a credential; set one of the variables above"))
	}
}
