package router

import (
	"testing"

	"github.com/vango-dev/navigator/pkg/route"
)

func TestViewKey(t *testing.T) {
	plain := route.MustNew(route.Definition{Name: "list", View: "list", Path: "/list"})
	keyed := route.MustNew(route.Definition{
		Name:               "form",
		View:               "form",
		Path:               "/form/:id",
		RerenderAttributes: []string{"locale", "id"},
	})

	tests := []struct {
		name  string
		route *route.Route
		attrs Attributes
		want  string
	}{
		{"no route", nil, nil, ""},
		{"no rerender attributes", plain, Attributes{"locale": "de"}, "list"},
		{"all absent", keyed, Attributes{"page": 2}, "form"},
		{"declared order", keyed, Attributes{"id": 5, "locale": "de"}, "form-de__5"},
		{"absent skipped", keyed, Attributes{"id": 5}, "form-5"},
		{"empty skipped", keyed, Attributes{"id": 5, "locale": ""}, "form-5"},
		{"boolean", keyed, Attributes{"id": true}, "form-true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ViewKey(tt.route, tt.attrs); got != tt.want {
				t.Errorf("ViewKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRouterViewKey(t *testing.T) {
	def := snippetRoute
	def.RerenderAttributes = []string{"locale"}
	r, _ := testRouter(t, "/snippets/1?locale=de", def)

	if got := r.ViewKey(); got != "snippet-de" {
		t.Errorf("ViewKey() = %q, want snippet-de", got)
	}
}
