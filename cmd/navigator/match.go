package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/vango-dev/navigator/internal/errors"
	"github.com/vango-dev/navigator/pkg/history"
	"github.com/vango-dev/navigator/pkg/inspector"
	"github.com/vango-dev/navigator/pkg/router"
	"github.com/vango-dev/navigator/pkg/urlparam"
)

func matchCmd(opts *globalOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "match <url>",
		Short: "Resolve a URL to a route and its attributes",
		Long: `Resolve a URL the way the router does on page load: match the path,
parse the query string, fill defaults and print the normalized URL.

Examples:
  navigator match /snippets/5
  navigator match "/snippets/5?locale=de&page=2" --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, reg, err := opts.load(cmd.Context())
			if err != nil {
				return err
			}

			loc, err := history.ParseLocation(args[0])
			if err != nil {
				return errors.New("NAV301").Wrap(err).
					WithDetail(fmt.Sprintf("%q is not a relative URL: %v", args[0], err))
			}

			mem := history.NewMemory(loc.String())
			r := router.New(reg, mem, router.WithLogger(opts.logger(cmd.ErrOrStderr())))
			defer r.Close()

			st := inspector.Snapshot(r, mem)
			if st.Route == "" {
				return errors.New("NAV399").
					WithDetail(fmt.Sprintf("No route matches %s", loc.String()))
			}

			w := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(st)
			}

			fmt.Fprintf(w, "Route:    %s\n", st.Route)
			fmt.Fprintf(w, "View:     %s\n", st.View)
			fmt.Fprintf(w, "URL:      %s\n", st.URL)
			fmt.Fprintf(w, "View key: %s\n", st.ViewKey)
			fmt.Fprintln(w, "Attributes:")
			for _, k := range sortedKeys(st.Attributes) {
				fmt.Fprintf(w, "  %s = %s\n", k, displayValue(st.Attributes[k]))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the state as JSON")

	return cmd
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func displayValue(v any) string {
	switch t := v.(type) {
	case time.Time:
		return t.Format(urlparam.DateLayout)
	case string:
		return fmt.Sprintf("%q", t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
