package router

import (
	"errors"
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/navigator/pkg/history"
	"github.com/vango-dev/navigator/pkg/route"
)

var (
	snippetRoute = route.Definition{Name: "snippet", View: "form", Path: "/snippets/:id"}
	pageRoute    = route.Definition{Name: "page", View: "page_form", Path: "/pages/:id"}
)

func testRouter(t *testing.T, initial string, defs ...route.Definition) (*Router, *history.Memory) {
	t.Helper()

	routes := make([]*route.Route, 0, len(defs))
	for _, def := range defs {
		rt, err := route.New(def)
		if err != nil {
			t.Fatalf("route.New(%q): %v", def.Name, err)
		}
		routes = append(routes, rt)
	}

	reg := route.NewRegistry()
	if err := reg.AddCollection(routes); err != nil {
		t.Fatalf("AddCollection: %v", err)
	}

	h := history.NewMemory(initial)
	r := New(reg, h)
	t.Cleanup(r.Close)
	return r, h
}

func sameMap(a, b Attributes) bool {
	return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
}

func TestNavigateGeneratesURLWithNestedQuery(t *testing.T) {
	r, h := testRouter(t, "/", route.Definition{Name: "page", View: "form", Path: "/pages/:uuid"})

	err := r.Navigate("page", Attributes{
		"uuid":   "some-uuid",
		"filter": map[string]any{"firstName": map[string]any{"eq": "Max"}},
	})
	if err != nil {
		t.Fatalf("Navigate: %v", err)
	}

	want := "/pages/some-uuid?filter.firstName.eq=Max"
	if got := r.URL(); got != want {
		t.Errorf("URL() = %q, want %q", got, want)
	}
	if got := h.Location().String(); got != want {
		t.Errorf("history location = %q, want %q", got, want)
	}
	if h.Len() != 2 {
		t.Errorf("history length = %d, want 2", h.Len())
	}
	if r.Route() == nil || r.Route().Name() != "page" {
		t.Errorf("Route() = %v, want page", r.Route())
	}
}

func TestNavigateKeepsLeadingZeroString(t *testing.T) {
	r, _ := testRouter(t, "/", route.Definition{Name: "page", View: "form", Path: "/pages/:code"})

	if err := r.Navigate("page", Attributes{"code": "012345"}); err != nil {
		t.Fatalf("Navigate: %v", err)
	}
	if got := r.URL(); got != "/pages/012345" {
		t.Errorf("URL() = %q, want /pages/012345", got)
	}
	if got := r.Attribute("code"); got != "012345" {
		t.Errorf("code = %#v, want \"012345\"", got)
	}
}

func TestNavigateParsesNumericStrings(t *testing.T) {
	r, h := testRouter(t, "/", pageRoute)

	if err := r.Navigate("page", Attributes{"id": "12345", "filter": map[string]any{"ids": []string{"1", "02"}}}); err != nil {
		t.Fatalf("Navigate: %v", err)
	}
	want := Attributes{"id": 12345, "filter": map[string]any{"ids": []any{1, "02"}}}
	if diff := cmp.Diff(want, r.Attributes()); diff != "" {
		t.Errorf("attributes mismatch (-want +got):\n%s", diff)
	}

	first := r.Attributes()
	rev := r.Revision()
	entries := h.Len()

	r.Reload()
	if !sameMap(first, r.Attributes()) {
		t.Error("parsing the written URL must keep the attributes map")
	}
	if r.Revision() != rev {
		t.Errorf("Revision() = %d, want %d", r.Revision(), rev)
	}
	if h.Len() != entries {
		t.Errorf("history length %d -> %d", entries, h.Len())
	}
	if n := len(r.AttributesHistory("page")); n != 1 {
		t.Errorf("attributes history entries = %d, want 1", n)
	}
}

func TestFailedWriteKeepsState(t *testing.T) {
	r, h := testRouter(t, "/snippets/1", snippetRoute,
		route.Definition{Name: "code", View: "code", Path: "/:code"})

	before := r.Attributes()
	rev := r.Revision()

	err := r.Navigate("code", Attributes{"code": ".."})
	if !errors.Is(err, history.ErrPathEscapesRoot) {
		t.Fatalf("Navigate error = %v, want ErrPathEscapesRoot", err)
	}
	if r.Route() == nil || r.Route().Name() != "snippet" {
		t.Errorf("Route() = %v, want snippet", r.Route())
	}
	if !sameMap(before, r.Attributes()) || r.Revision() != rev {
		t.Error("a failed write must not change the attributes")
	}
	if r.URL() != "/snippets/1" || h.Location().String() != "/snippets/1" {
		t.Errorf("URL() = %q, location = %q", r.URL(), h.Location())
	}
	if n := len(r.AttributesHistory("code")); n != 0 {
		t.Errorf("attributes history entries = %d, want 0", n)
	}
}

func TestOptionalParamAfterAbsentOptional(t *testing.T) {
	def := route.Definition{Name: "list", View: "list", Path: "/list/:x?/:y?"}

	tests := []struct {
		name    string
		attrs   Attributes
		wantURL string
	}{
		{"both", Attributes{"x": "a", "y": "b"}, "/list/a/b"},
		{"first only", Attributes{"x": "a"}, "/list/a"},
		{"second only", Attributes{"y": "keep"}, "/list?y=keep"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, h := testRouter(t, "/", def)
			if err := r.Navigate("list", tt.attrs); err != nil {
				t.Fatalf("Navigate: %v", err)
			}
			if got := r.URL(); got != tt.wantURL {
				t.Errorf("URL() = %q, want %q", got, tt.wantURL)
			}

			other, _ := testRouter(t, h.Location().String(), def)
			if diff := cmp.Diff(tt.attrs, other.Attributes()); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLocationParsesNumbers(t *testing.T) {
	tests := []struct {
		url  string
		want any
	}{
		{"/pages/012345", "012345"},
		{"/pages/12345", 12345},
		{"/pages/00.12345", "00.12345"},
		{"/pages/1.5", 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			r, _ := testRouter(t, tt.url, route.Definition{Name: "page", View: "form", Path: "/pages/:code"})
			if got := r.Attribute("code"); got != tt.want {
				t.Errorf("code = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestNavigateToChildRoute(t *testing.T) {
	r, _ := testRouter(t, "/",
		route.Definition{Name: "snippet_tab", View: "tab", Path: "/snippets/:uuid", AttributeDefaults: map[string]any{"locale": "en"}},
		route.Definition{Name: "snippet_details", View: "form", Path: "/snippets/:uuid/details", Parent: "snippet_tab"},
		route.Definition{Name: "snippet_taxonomies", View: "form", Path: "/snippets/:uuid/taxonomies", Parent: "snippet_tab"},
	)

	if err := r.Navigate("snippet_details", Attributes{"uuid": "abc"}); err != nil {
		t.Fatalf("Navigate: %v", err)
	}

	rt := r.Route()
	if rt.Parent() == nil || rt.Parent().View() != "tab" {
		t.Fatalf("parent = %v, want view tab", rt.Parent())
	}
	if n := len(rt.Parent().Children()); n != 2 {
		t.Errorf("parent children = %d, want 2", n)
	}
	if got := r.URL(); got != "/snippets/abc/details" {
		t.Errorf("URL() = %q", got)
	}
	if got := r.Attribute("locale"); got != "en" {
		t.Errorf("inherited default locale = %v, want en", got)
	}
}

func TestHigherPriorityVetoStopsLowerHooks(t *testing.T) {
	r, h := testRouter(t, "/", snippetRoute)

	lowCalled := false
	r.AddUpdateRouteHookWithPriority(func(*route.Route, Attributes, NavigateFunc) bool {
		lowCalled = true
		return true
	}, 512)
	r.AddUpdateRouteHookWithPriority(func(*route.Route, Attributes, NavigateFunc) bool {
		return false
	}, 1024)

	if err := r.Navigate("snippet", Attributes{"id": 1}); err != nil {
		t.Fatalf("a veto is not an error: %v", err)
	}
	if lowCalled {
		t.Error("lower priority hook must not run after a veto")
	}
	if r.Route() != nil {
		t.Errorf("Route() = %v, want nil", r.Route())
	}
	if r.URL() != "/" || h.Len() != 1 {
		t.Errorf("URL/len = %q/%d, want unchanged", r.URL(), h.Len())
	}
}

func TestVetoLeavesStateUnchanged(t *testing.T) {
	r, h := testRouter(t, "/snippets/1", snippetRoute, pageRoute)
	before := r.Attributes()
	rev := r.Revision()

	r.AddUpdateRouteHook(func(rt *route.Route, attrs Attributes, _ NavigateFunc) bool {
		return rt.Name() != "page"
	})

	if err := r.Navigate("page", Attributes{"id": 2}); err != nil {
		t.Fatal(err)
	}
	if r.Route().Name() != "snippet" || !sameMap(before, r.Attributes()) || r.Revision() != rev {
		t.Error("vetoed navigation changed the state")
	}
	if h.Location().Path != "/snippets/1" {
		t.Errorf("location = %q, want /snippets/1", h.Location().Path)
	}
}

func TestRouteHookOrder(t *testing.T) {
	r, _ := testRouter(t, "/", snippetRoute)

	var order []string
	hook := func(name string) UpdateRouteHook {
		return func(*route.Route, Attributes, NavigateFunc) bool {
			order = append(order, name)
			return true
		}
	}

	r.AddUpdateRouteHook(hook("default"))
	r.AddUpdateRouteHookWithPriority(hook("high-a"), 10)
	r.AddUpdateRouteHookWithPriority(hook("low"), -5)
	r.AddUpdateRouteHookWithPriority(hook("high-b"), 10)
	dispose := r.AddUpdateRouteHookWithPriority(hook("highest"), 100)

	if err := r.Navigate("snippet", Attributes{"id": 1}); err != nil {
		t.Fatal(err)
	}
	want := []string{"highest", "high-a", "high-b", "default", "low"}
	if diff := cmp.Diff(want, order); diff != "" {
		t.Errorf("hook order mismatch (-want +got):\n%s", diff)
	}

	dispose()
	order = nil
	if err := r.Navigate("snippet", Attributes{"id": 2}); err != nil {
		t.Fatal(err)
	}
	want = []string{"high-a", "high-b", "default", "low"}
	if diff := cmp.Diff(want, order); diff != "" {
		t.Errorf("hook order after dispose mismatch (-want +got):\n%s", diff)
	}
	if len(r.routeHooks) != 3 {
		t.Errorf("buckets = %d, want 3 after the last hook of a bucket is removed", len(r.routeHooks))
	}
}

func TestRouteHookReceivesResolvedAttributes(t *testing.T) {
	def := snippetRoute
	def.AttributeDefaults = map[string]any{"locale": "en"}
	r, _ := testRouter(t, "/", def)

	var got Attributes
	r.AddUpdateRouteHook(func(_ *route.Route, attrs Attributes, _ NavigateFunc) bool {
		got = attrs
		return true
	})

	if err := r.Navigate("snippet", Attributes{"id": 1}); err != nil {
		t.Fatal(err)
	}
	want := Attributes{"id": 1, "locale": "en"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("hook attributes mismatch (-want +got):\n%s", diff)
	}
}

func TestHookReplaysNavigation(t *testing.T) {
	r, h := testRouter(t, "/snippets/1", snippetRoute)

	var pending NavigateFunc
	dispose := r.AddUpdateRouteHook(func(_ *route.Route, _ Attributes, navigate NavigateFunc) bool {
		pending = navigate
		return false
	})

	if err := r.Redirect("snippet", Attributes{"id": 2}); err != nil {
		t.Fatal(err)
	}
	if r.Attribute("id") != 1 {
		t.Fatal("navigation should be cancelled")
	}

	dispose()
	if err := pending("snippet", Attributes{"id": 2}); err != nil {
		t.Fatal(err)
	}
	if r.Attribute("id") != 2 {
		t.Errorf("id = %v, want 2", r.Attribute("id"))
	}
	if h.Len() != 1 {
		t.Errorf("replayed redirect should replace, history length = %d", h.Len())
	}
}

func TestHandleNavigationPassesNavigateFunc(t *testing.T) {
	r, _ := testRouter(t, "/", snippetRoute)

	var received NavigateFunc
	r.AddUpdateRouteHook(func(_ *route.Route, _ Attributes, navigate NavigateFunc) bool {
		received = navigate
		return true
	})

	calls := 0
	custom := func(string, Attributes) error {
		calls++
		return nil
	}

	committed, err := r.HandleNavigation("snippet", Attributes{"id": 3}, custom)
	if err != nil || !committed {
		t.Fatalf("HandleNavigation = %v, %v", committed, err)
	}
	if r.URL() != "/snippets/3" {
		t.Errorf("URL() = %q", r.URL())
	}

	_ = received("snippet", nil)
	if calls != 1 {
		t.Errorf("hook did not receive the custom navigate function")
	}
}

func TestNavigateUnknownRoute(t *testing.T) {
	r, _ := testRouter(t, "/", snippetRoute)

	for name, fn := range map[string]func(string, Attributes) error{
		"navigate": r.Navigate,
		"redirect": r.Redirect,
		"restore":  r.Restore,
	} {
		err := fn("missing", nil)
		if !errors.Is(err, ErrRouteNotFound) {
			t.Errorf("%s: error = %v, want ErrRouteNotFound", name, err)
		}
		var nf *RouteNotFoundError
		if !errors.As(err, &nf) || nf.Name != "missing" {
			t.Errorf("%s: error should carry the route name", name)
		}
	}
}

func TestNavigateMissingRequiredParam(t *testing.T) {
	r, _ := testRouter(t, "/", snippetRoute)

	err := r.Navigate("snippet", Attributes{"locale": "de"})
	if !errors.Is(err, route.ErrMissingParam) {
		t.Fatalf("error = %v, want ErrMissingParam", err)
	}
	if r.Route() != nil {
		t.Error("failed navigation must not change the route")
	}
}

func TestRedirectReplacesEntry(t *testing.T) {
	r, h := testRouter(t, "/snippets/1", snippetRoute)

	if err := r.Redirect("snippet", Attributes{"id": 2}); err != nil {
		t.Fatal(err)
	}
	if h.Len() != 1 || h.Location().Path != "/snippets/2" {
		t.Errorf("history = %v, want single /snippets/2 entry", h.Entries())
	}
}

func TestIdentityStability(t *testing.T) {
	def := snippetRoute
	def.AttributeDefaults = map[string]any{"locale": "en"}
	r, h := testRouter(t, "/", def)

	if err := r.Navigate("snippet", Attributes{"id": 1, "filter": map[string]any{"ids": []any{1, 2}}}); err != nil {
		t.Fatal(err)
	}
	first := r.Attributes()
	rev := r.Revision()
	entries := h.Len()

	err := r.Navigate("snippet", Attributes{"id": 1.0, "locale": "en", "filter": map[string]any{"ids": []int{1, 2}}})
	if err != nil {
		t.Fatal(err)
	}
	if !sameMap(first, r.Attributes()) {
		t.Error("navigating to equal attributes must keep the attributes map")
	}
	if r.Revision() != rev {
		t.Errorf("Revision() = %d, want %d", r.Revision(), rev)
	}
	if h.Len() != entries {
		t.Errorf("an unchanged URL must not be written, history length %d -> %d", entries, h.Len())
	}

	if err := r.Navigate("snippet", Attributes{"id": 2}); err != nil {
		t.Fatal(err)
	}
	if sameMap(first, r.Attributes()) {
		t.Error("different attributes must replace the map")
	}
}

func TestAttributesHistoryStacking(t *testing.T) {
	r, _ := testRouter(t, "/", snippetRoute, pageRoute)

	steps := []struct {
		name  string
		attrs Attributes
	}{
		{"snippet", Attributes{"id": 1, "locale": "de"}},
		{"page", Attributes{"id": 7}},
		{"snippet", Attributes{"id": 1, "locale": "de"}},
		{"snippet", Attributes{"id": 1, "locale": "en"}},
	}
	for _, s := range steps {
		if err := r.Navigate(s.name, s.attrs); err != nil {
			t.Fatal(err)
		}
	}

	got := r.AttributesHistory("snippet")
	want := []Attributes{
		{"id": 1, "locale": "de"},
		{"id": 1, "locale": "en"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("attributes history mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultsDoNotPushHistory(t *testing.T) {
	def := snippetRoute
	def.AttributeDefaults = map[string]any{"locale": "en"}
	r, _ := testRouter(t, "/", def)

	_ = r.Navigate("snippet", Attributes{"id": 1})
	_ = r.Navigate("snippet", Attributes{"id": 1, "locale": "en"})

	if n := len(r.AttributesHistory("snippet")); n != 1 {
		t.Errorf("history entries = %d, want 1", n)
	}
}

func TestRestore(t *testing.T) {
	r, h := testRouter(t, "/", snippetRoute, pageRoute)

	_ = r.Navigate("snippet", Attributes{"id": 1, "test": "a"})
	_ = r.Navigate("snippet", Attributes{"id": 2, "test": "b", "locale": "de"})
	_ = r.Navigate("page", Attributes{"id": 3})
	entries := h.Len()

	if n := len(r.AttributesHistory("snippet")); n != 2 {
		t.Fatalf("snippet history = %d, want 2", n)
	}

	if err := r.Restore("snippet", Attributes{"test": "new-test", "locale": "en"}); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	want := Attributes{"id": 2, "test": "new-test", "locale": "en"}
	if diff := cmp.Diff(want, r.Attributes()); diff != "" {
		t.Errorf("restored attributes mismatch (-want +got):\n%s", diff)
	}
	if r.Route().Name() != "snippet" {
		t.Errorf("Route() = %v, want snippet", r.Route())
	}

	history := r.AttributesHistory("snippet")
	if diff := cmp.Diff([]Attributes{{"id": 1, "test": "a"}}, history); diff != "" {
		t.Errorf("snippet history after restore mismatch (-want +got):\n%s", diff)
	}
	if got := r.URL(); got != "/snippets/2?locale=en&test=new-test" {
		t.Errorf("URL() = %q", got)
	}
	if h.Len() != entries {
		t.Errorf("restore should replace the history entry, length %d -> %d", entries, h.Len())
	}
}

func TestRestoreWithoutHistoryNavigates(t *testing.T) {
	r, h := testRouter(t, "/", snippetRoute)

	if err := r.Restore("snippet", Attributes{"id": 4}); err != nil {
		t.Fatal(err)
	}
	if r.URL() != "/snippets/4" || h.Len() != 2 {
		t.Errorf("URL/len = %q/%d, want /snippets/4 pushed", r.URL(), h.Len())
	}
}

func TestRestoreVetoKeepsSnapshot(t *testing.T) {
	r, _ := testRouter(t, "/", snippetRoute, pageRoute)
	_ = r.Navigate("snippet", Attributes{"id": 1})
	_ = r.Navigate("page", Attributes{"id": 2})

	r.AddUpdateRouteHook(func(*route.Route, Attributes, NavigateFunc) bool { return false })
	if err := r.Restore("snippet", nil); err != nil {
		t.Fatal(err)
	}
	if n := len(r.AttributesHistory("snippet")); n != 1 {
		t.Errorf("snippet history = %d, want 1", n)
	}
}

func TestAttributePrecedence(t *testing.T) {
	def := snippetRoute
	def.AttributeDefaults = map[string]any{"locale": "en", "page": 1, "sort": "asc"}
	r, _ := testRouter(t, "/", def)

	var seen Attributes
	r.AddUpdateAttributesHook(func(_ *route.Route, attrs Attributes) Attributes {
		seen = attrs
		return Attributes{"locale": "fr", "page": 2, "view": "list"}
	})
	r.AddUpdateAttributesHook(func(_ *route.Route, attrs Attributes) Attributes {
		return Attributes{"view": "grid"}
	})

	if err := r.Navigate("snippet", Attributes{"id": 1, "locale": "de", "sort": nil}); err != nil {
		t.Fatal(err)
	}

	want := Attributes{"id": 1, "locale": "de", "page": 2, "sort": "asc", "view": "grid"}
	if diff := cmp.Diff(want, r.Attributes()); diff != "" {
		t.Errorf("attributes mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(Attributes{"id": 1, "locale": "de"}, seen); diff != "" {
		t.Errorf("attribute hook input mismatch (-want +got):\n%s", diff)
	}
	if got := r.URL(); got != "/snippets/1?locale=de&page=2&view=grid" {
		t.Errorf("URL() = %q", got)
	}
}

func TestAttributesHookDispose(t *testing.T) {
	r, _ := testRouter(t, "/", snippetRoute)

	dispose := r.AddUpdateAttributesHook(func(*route.Route, Attributes) Attributes {
		return Attributes{"locale": "fr"}
	})
	_ = r.Navigate("snippet", Attributes{"id": 1})
	if r.Attribute("locale") != "fr" {
		t.Fatalf("locale = %v, want fr", r.Attribute("locale"))
	}

	dispose()
	_ = r.Navigate("snippet", Attributes{"id": 2})
	if r.Attribute("locale") != nil {
		t.Errorf("locale = %v, want absent", r.Attribute("locale"))
	}
}

func TestExplicitNilFallsBackToDefault(t *testing.T) {
	def := snippetRoute
	def.AttributeDefaults = map[string]any{"locale": "en"}
	r, _ := testRouter(t, "/", def)

	if err := r.Navigate("snippet", Attributes{"id": 1, "locale": nil}); err != nil {
		t.Fatal(err)
	}
	if r.Attribute("locale") != "en" {
		t.Errorf("locale = %v, want en", r.Attribute("locale"))
	}
	if r.URL() != "/snippets/1" {
		t.Errorf("defaults must not be written to the URL, got %q", r.URL())
	}
}

func TestLocationChangeUpdatesState(t *testing.T) {
	def := snippetRoute
	def.AttributeDefaults = map[string]any{"locale": "en"}
	r, h := testRouter(t, "/", def)

	hookCalls := 0
	r.AddUpdateRouteHook(func(*route.Route, Attributes, NavigateFunc) bool {
		hookCalls++
		return false
	})

	if err := h.Push("/snippets/5?locale=de&page=2"); err != nil {
		t.Fatal(err)
	}
	want := Attributes{"id": 5, "locale": "de", "page": 2}
	if diff := cmp.Diff(want, r.Attributes()); diff != "" {
		t.Errorf("attributes mismatch (-want +got):\n%s", diff)
	}
	if hookCalls != 0 {
		t.Error("route hooks must not run for location changes")
	}

	h.Back()
	if r.Route() != nil {
		t.Errorf("Route() after Back = %v, want nil", r.Route())
	}
	h.Forward()
	if r.Attribute("id") != 5 {
		t.Errorf("id after Forward = %v, want 5", r.Attribute("id"))
	}
}

func TestLocationWithoutMatchKeepsQuery(t *testing.T) {
	r, _ := testRouter(t, "/snippets/1", snippetRoute)

	_ = r.History().(*history.Memory).Push("/unknown/path?token=abc&n=3")

	if r.Route() != nil {
		t.Errorf("Route() = %v, want nil", r.Route())
	}
	want := Attributes{"token": "abc", "n": 3}
	if diff := cmp.Diff(want, r.Attributes()); diff != "" {
		t.Errorf("attributes mismatch (-want +got):\n%s", diff)
	}
	if r.URL() != "/unknown/path?token=abc&n=3" {
		t.Errorf("URL() = %q", r.URL())
	}
}

func TestInitialLocationIsNormalized(t *testing.T) {
	def := snippetRoute
	def.AttributeDefaults = map[string]any{"locale": "en"}
	r, h := testRouter(t, "/snippets/5?locale=en&b=1&a=2", def)

	if got := r.URL(); got != "/snippets/5?a=2&b=1" {
		t.Errorf("URL() = %q", got)
	}
	if got := h.Location().String(); got != "/snippets/5?a=2&b=1" {
		t.Errorf("location = %q", got)
	}
	if h.Len() != 1 {
		t.Errorf("normalization must replace, history length = %d", h.Len())
	}
	if r.Attribute("locale") != "en" {
		t.Errorf("locale = %v", r.Attribute("locale"))
	}
}

func TestRoundTrip(t *testing.T) {
	r, h := testRouter(t, "/", route.Definition{Name: "list", View: "list", Path: "/list/:type/:page?"})

	attrs := Attributes{
		"type":   "articles",
		"page":   3,
		"code":   "007",
		"price":  1.25,
		"search": "a b&c",
		"filter": map[string]any{"ids": []any{1, 2}, "status": map[string]any{"eq": "published"}},
	}
	if err := r.Navigate("list", attrs); err != nil {
		t.Fatal(err)
	}

	other, _ := testRouter(t, h.Location().String(), route.Definition{Name: "list", View: "list", Path: "/list/:type/:page?"})
	if diff := cmp.Diff(attrs, other.Attributes()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestReload(t *testing.T) {
	r, h := testRouter(t, "/snippets/1", snippetRoute)

	r.Close()
	_ = h.Push("/snippets/2")
	if r.Attribute("id") != 1 {
		t.Fatal("closed router must not follow the history")
	}
	r.Reload()
	if r.Attribute("id") != 2 {
		t.Errorf("id after Reload = %v, want 2", r.Attribute("id"))
	}
}

func TestBeforeUnload(t *testing.T) {
	r, h := testRouter(t, "/snippets/1", snippetRoute)

	if h.Unload() {
		t.Error("no hooks, no confirmation")
	}

	gotRoute := r.Route()
	gotAttrs := Attributes{}
	dirty := true
	r.AddUpdateRouteHook(func(rt *route.Route, attrs Attributes, navigate NavigateFunc) bool {
		gotRoute, gotAttrs = rt, attrs
		if navigate != nil {
			t.Error("unload hook should receive a nil navigate function")
		}
		return !dirty
	})

	if !h.Unload() {
		t.Error("a vetoing hook should ask for confirmation")
	}
	if gotRoute != nil || gotAttrs != nil {
		t.Error("unload hook should receive a nil route and attributes")
	}

	dirty = false
	if h.Unload() {
		t.Error("a passing hook should not ask for confirmation")
	}
}

func TestURLFor(t *testing.T) {
	def := snippetRoute
	def.AttributeDefaults = map[string]any{"locale": "en"}
	r, h := testRouter(t, "/", def)

	got, err := r.URLFor("snippet", Attributes{"id": 9, "locale": "de"})
	if err != nil || got != "/snippets/9?locale=de" {
		t.Errorf("URLFor = %q, %v", got, err)
	}
	if h.Len() != 1 || r.Route() != nil {
		t.Error("URLFor must not navigate")
	}
	if _, err := r.URLFor("missing", nil); !errors.Is(err, ErrRouteNotFound) {
		t.Errorf("URLFor(missing) error = %v", err)
	}
}

type recordedNavigation struct {
	action  Action
	name    string
	outcome Outcome
}

type recordingInstrumentation struct {
	events []recordedNavigation
}

func (ri *recordingInstrumentation) StartNavigation(action Action, name string) func(Outcome, error) {
	return func(o Outcome, _ error) {
		ri.events = append(ri.events, recordedNavigation{action: action, name: name, outcome: o})
	}
}

func TestInstrumentation(t *testing.T) {
	reg := route.NewRegistry()
	_ = reg.Add(route.MustNew(snippetRoute))
	rec := &recordingInstrumentation{}
	r := New(reg, history.NewMemory("/"), WithInstrumentation(rec))
	defer r.Close()

	_ = r.Navigate("snippet", Attributes{"id": 1})
	veto := r.AddUpdateRouteHook(func(*route.Route, Attributes, NavigateFunc) bool { return false })
	_ = r.Redirect("snippet", Attributes{"id": 2})
	veto()
	_ = r.Navigate("missing", nil)

	want := []recordedNavigation{
		{ActionLocation, "", OutcomeCommitted},
		{ActionNavigate, "snippet", OutcomeCommitted},
		{ActionRedirect, "snippet", OutcomeCancelled},
		{ActionNavigate, "missing", OutcomeFailed},
	}
	if diff := cmp.Diff(want, rec.events, cmp.AllowUnexported(recordedNavigation{})); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}
