package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"vtlint/internal/plugin"
	"vtlint/internal/plugins"
	"vtlint/internal/registry"
)

var pluginsCmd = &cobra.Command{
	Use:   "plugins",
	Short: "List the plugin catalogue",
	Args:  cobra.NoArgs,
	RunE:  runPlugins,
}

func init() {
	pluginsCmd.Flags().Bool("update", false, "list the update-mode catalogue")
	pluginsCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

type pluginInfo struct {
	Name        string `json:"name"`
	Phase       string `json:"phase"`
	Variant     string `json:"variant"`
	Fixer       bool   `json:"fixer"`
	Description string `json:"description"`
}

func describeCatalogue(cat registry.Catalogue) ([]pluginInfo, error) {
	if err := cat.Validate(); err != nil {
		return nil, err
	}
	var out []pluginInfo
	add := func(phase string, list []plugin.Plugin) {
		for _, p := range list {
			kind, _ := plugin.Variant(p)
			out = append(out, pluginInfo{
				Name:        p.Name(),
				Phase:       phase,
				Variant:     kind.String(),
				Fixer:       plugin.CanFix(p),
				Description: p.Description(),
			})
		}
	}
	add("pre-run", cat.PreRun)
	add("per-file", cat.PerFile)
	return out, nil
}

func runPlugins(cmd *cobra.Command, _ []string) error {
	update, err := cmd.Flags().GetBool("update")
	if err != nil {
		return fmt.Errorf("failed to get update flag: %w", err)
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}

	cat := plugins.Standard()
	if update {
		cat = plugins.Update(nil)
	}
	infos, err := describeCatalogue(cat)
	if err != nil {
		return err
	}

	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	case "pretty":
		return renderPlugins(cmd.OutOrStdout(), infos)
	}
	return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
}

func renderPlugins(out io.Writer, infos []pluginInfo) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tPHASE\tVARIANT\tFIX\tDESCRIPTION")
	for _, p := range infos {
		fix := ""
		if p.Fixer {
			fix = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", p.Name, p.Phase, p.Variant, fix, p.Description)
	}
	return tw.Flush()
}
