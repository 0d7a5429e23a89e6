package main

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/navigator/internal/errors"
	"github.com/vango-dev/navigator/pkg/history"
	"github.com/vango-dev/navigator/pkg/router"
	"github.com/vango-dev/navigator/pkg/urlparam"
)

func urlCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "url <route> [key=value...]",
		Short: "Generate the URL for a route",
		Long: `Generate the URL for a route from key=value attributes. Values are
parsed like query-string values. Nested keys use dots and array
indexes use brackets.

Examples:
  navigator url snippet_edit id=5
  navigator url snippet_list page=2 filter.locale=de "ids[0]=3"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			attrs, err := parseAttributeArgs(args[1:])
			if err != nil {
				return err
			}

			_, reg, err := opts.load(cmd.Context())
			if err != nil {
				return err
			}

			r := router.New(reg, history.NewMemory("/"), router.WithLogger(opts.logger(cmd.ErrOrStderr())))
			defer r.Close()

			u, err := r.URLFor(args[0], attrs)
			if err != nil {
				return errors.FromError(err, "NAV399")
			}
			fmt.Fprintln(cmd.OutOrStdout(), u)
			return nil
		},
	}

	return cmd
}

// parseAttributeArgs turns key=value arguments into attributes.
func parseAttributeArgs(args []string) (router.Attributes, error) {
	pairs := make([]string, 0, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, errors.New("NAV301").
				WithDetail(fmt.Sprintf("%q is not a key=value pair", arg)).
				WithSuggestion("Pass attributes like id=5 or filter.locale=de")
		}
		pairs = append(pairs, url.QueryEscape(key)+"="+url.QueryEscape(value))
	}
	return router.Attributes(urlparam.DecodeQuery(strings.Join(pairs, "&"))), nil
}
