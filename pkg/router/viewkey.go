package router

import (
	"fmt"
	"strings"

	"github.com/vango-dev/navigator/pkg/route"
	"github.com/vango-dev/navigator/pkg/urlparam"
)

// ViewKey returns the key a view layer uses to decide whether to remount
// the view of rt. It is the route name, followed by "-" and the present
// values of the route's rerender attributes joined by "__".
func ViewKey(rt *route.Route, attrs Attributes) string {
	if rt == nil {
		return ""
	}

	var values []string
	for _, name := range rt.RerenderAttributes() {
		v := attrs.Get(name)
		if v == nil || v == "" {
			continue
		}
		s, ok := urlparam.FormatValue(v)
		if !ok {
			s = fmt.Sprint(v)
		}
		values = append(values, s)
	}

	if len(values) == 0 {
		return rt.Name()
	}
	return rt.Name() + "-" + strings.Join(values, "__")
}

// ViewKey returns the view key of the active route.
func (r *Router) ViewKey() string {
	return ViewKey(r.route, r.attributes)
}
