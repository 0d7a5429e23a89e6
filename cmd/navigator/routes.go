package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vango-dev/navigator/pkg/inspector"
)

func routesCmd(opts *globalOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "List registered routes",
		Long: `List every route in registration order with its path, view and parent.

Examples:
  navigator routes
  navigator routes --config routes.yaml --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, reg, err := opts.load(cmd.Context())
			if err != nil {
				return err
			}

			infos := make([]inspector.RouteInfo, 0, reg.Len())
			for _, rt := range reg.GetAll() {
				infos = append(infos, inspector.NewRouteInfo(rt))
			}

			w := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(infos)
			}

			tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tPATH\tVIEW\tPARENT\tDEFAULTS")
			for _, info := range infos {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
					info.Name, info.Path, info.View, dash(info.Parent), formatAttributes(info.AttributeDefaults))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print routes as JSON")

	return cmd
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// formatAttributes renders attributes as sorted key=value pairs.
func formatAttributes(attrs map[string]any) string {
	if len(attrs) == 0 {
		return "-"
	}
	pairs := make([]string, 0, len(attrs))
	for _, k := range sortedKeys(attrs) {
		pairs = append(pairs, fmt.Sprintf("%s=%v", k, attrs[k]))
	}
	return strings.Join(pairs, " ")
}
