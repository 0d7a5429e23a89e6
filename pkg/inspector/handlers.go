package inspector

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vango-dev/navigator/pkg/history"
	"github.com/vango-dev/navigator/pkg/route"
	"github.com/vango-dev/navigator/pkg/router"
	"github.com/vango-dev/navigator/pkg/urlparam"
)

// RouteInfo is the JSON form of a registered route.
type RouteInfo struct {
	Name               string         `json:"name"`
	View               string         `json:"view"`
	Path               string         `json:"path"`
	Params             []string       `json:"params,omitempty"`
	Parent             string         `json:"parent,omitempty"`
	Children           []string       `json:"children,omitempty"`
	AttributeDefaults  map[string]any `json:"attributeDefaults,omitempty"`
	RerenderAttributes []string       `json:"rerenderAttributes,omitempty"`
	Options            map[string]any `json:"options,omitempty"`
}

// NewRouteInfo describes rt with its inherited defaults and options.
func NewRouteInfo(rt *route.Route) RouteInfo {
	info := RouteInfo{
		Name:               rt.Name(),
		View:               rt.View(),
		Path:               rt.Path(),
		Params:             rt.Pattern().Params(),
		Parent:             rt.ParentName(),
		AttributeDefaults:  rt.AttributeDefaults(),
		RerenderAttributes: rt.RerenderAttributes(),
		Options:            rt.Options(),
	}
	for _, child := range rt.Children() {
		info.Children = append(info.Children, child.Name())
	}
	return info
}

// State is a router snapshot sent to clients.
type State struct {
	Type         string            `json:"type"`
	Session      string            `json:"session,omitempty"`
	Route        string            `json:"route,omitempty"`
	View         string            `json:"view,omitempty"`
	Attributes   router.Attributes `json:"attributes"`
	URL          string            `json:"url"`
	ViewKey      string            `json:"viewKey,omitempty"`
	Revision     uint64            `json:"revision"`
	CanGoBack    bool              `json:"canGoBack"`
	CanGoForward bool              `json:"canGoForward"`
}

// ErrorMessage reports a failed request or command.
type ErrorMessage struct {
	Type  string `json:"type"`
	Code  string `json:"code,omitempty"`
	Error string `json:"error"`
}

// Snapshot captures the state of r driven by mem.
func Snapshot(r *router.Router, mem *history.Memory) State {
	st := State{
		Type:         "state",
		Attributes:   r.Attributes(),
		URL:          r.URL(),
		ViewKey:      r.ViewKey(),
		Revision:     r.Revision(),
		CanGoBack:    mem.CanGoBack(),
		CanGoForward: mem.CanGoForward(),
	}
	if st.Attributes == nil {
		st.Attributes = router.Attributes{}
	}
	if rt := r.Route(); rt != nil {
		st.Route = rt.Name()
		st.View = rt.View()
	}
	return st
}

type coded interface {
	ErrorCode() string
}

func errorMessage(err error) ErrorMessage {
	msg := ErrorMessage{Type: "error", Error: err.Error()}
	var c coded
	if errors.As(err, &c) {
		msg.Code = c.ErrorCode()
	}
	return msg
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, router.ErrRouteNotFound):
		return http.StatusNotFound
	case errors.Is(err, route.ErrMissingParam):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("write response", "error", err)
	}
}

func (s *Server) handleRoutes(w http.ResponseWriter, r *http.Request) {
	routes := s.config.Registry.GetAll()
	infos := make([]RouteInfo, 0, len(routes))
	for _, rt := range routes {
		infos = append(infos, NewRouteInfo(rt))
	}
	s.writeJSON(w, http.StatusOK, infos)
}

func (s *Server) handleRoute(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	rt, ok := s.config.Registry.Get(name)
	if !ok {
		err := &router.RouteNotFoundError{Name: name}
		s.writeJSON(w, http.StatusNotFound, errorMessage(err))
		return
	}
	s.writeJSON(w, http.StatusOK, NewRouteInfo(rt))
}

// handleMatch reports the state a fresh router reaches for ?url=.
func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("url")
	if raw == "" {
		raw = "/"
	}
	loc, err := history.ParseLocation(raw)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorMessage(err))
		return
	}

	mem := history.NewMemory(loc.String())
	rtr := router.New(s.config.Registry, mem, router.WithLogger(s.config.Logger))
	defer rtr.Close()

	st := Snapshot(rtr, mem)
	if st.Route == "" {
		s.writeJSON(w, http.StatusNotFound, ErrorMessage{Type: "error", Error: "no route matches " + loc.String()})
		return
	}
	s.writeJSON(w, http.StatusOK, st)
}

// handleURL generates the URL for a route from query-string attributes.
func (s *Server) handleURL(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	attrs := router.Attributes(urlparam.DecodeQuery(r.URL.RawQuery))

	rtr := router.New(s.config.Registry, history.NewMemory("/"), router.WithLogger(s.config.Logger))
	defer rtr.Close()

	url, err := rtr.URLFor(name, attrs)
	if err != nil {
		s.writeJSON(w, errorStatus(err), errorMessage(err))
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"route": name, "url": url})
}
