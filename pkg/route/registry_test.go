package route

import (
	"errors"
	"testing"
)

func TestRegistryAddAndGet(t *testing.T) {
	reg := NewRegistry()
	page := MustNew(Definition{Name: "page", Path: "/pages/:uuid"})

	if err := reg.Add(page); err != nil {
		t.Fatalf("Add error: %v", err)
	}

	got, ok := reg.Get("page")
	if !ok || got != page {
		t.Errorf("Get(page) = %v, %v", got, ok)
	}
	if _, ok := reg.Get("snippet"); ok {
		t.Error("Get(snippet) should not be found")
	}
	if reg.Len() != 1 {
		t.Errorf("Len() = %d, want 1", reg.Len())
	}
}

func TestRegistryDuplicate(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Add(MustNew(Definition{Name: "page", Path: "/pages"})); err != nil {
		t.Fatal(err)
	}

	err := reg.Add(MustNew(Definition{Name: "page", Path: "/other"}))
	if !errors.Is(err, ErrDuplicateRoute) {
		t.Fatalf("expected ErrDuplicateRoute, got %v", err)
	}
	var de *DuplicateRouteError
	if !errors.As(err, &de) || de.Name != "page" {
		t.Errorf("error should carry the name, got %v", err)
	}

	r, _ := reg.Get("page")
	if r.Path() != "/pages" {
		t.Error("original route must be kept")
	}
}

func TestRegistryAddCollectionIsAtomic(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Add(MustNew(Definition{Name: "existing", Path: "/e"})); err != nil {
		t.Fatal(err)
	}

	err := reg.AddCollection([]*Route{
		MustNew(Definition{Name: "a", Path: "/a"}),
		MustNew(Definition{Name: "existing", Path: "/x"}),
	})
	if !errors.Is(err, ErrDuplicateRoute) {
		t.Fatalf("expected ErrDuplicateRoute, got %v", err)
	}
	if _, ok := reg.Get("a"); ok {
		t.Error("no route of a failed collection may be added")
	}

	err = reg.AddCollection([]*Route{
		MustNew(Definition{Name: "b", Path: "/b"}),
		MustNew(Definition{Name: "b", Path: "/b2"}),
	})
	var de *DuplicateRouteError
	if !errors.As(err, &de) || de.Name != "b" {
		t.Fatalf("duplicate inside a collection should fail with its name, got %v", err)
	}
	if reg.Len() != 1 {
		t.Errorf("Len() = %d, want 1", reg.Len())
	}
}

func TestRegistryInsertionOrder(t *testing.T) {
	reg := NewRegistry()
	names := []string{"zeta", "alpha", "mid", "beta"}
	var routes []*Route
	for _, n := range names {
		routes = append(routes, MustNew(Definition{Name: n, Path: "/" + n}))
	}
	if err := reg.AddCollection(routes); err != nil {
		t.Fatal(err)
	}

	for i, r := range reg.GetAll() {
		if r.Name() != names[i] {
			t.Errorf("GetAll()[%d] = %q, want %q", i, r.Name(), names[i])
		}
	}
	for i, n := range reg.Names() {
		if n != names[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, n, names[i])
		}
	}
}

func TestRegistryRouteTree(t *testing.T) {
	reg := NewRegistry()
	err := reg.AddCollection([]*Route{
		MustNew(Definition{Name: "snippet", View: "tab", Path: "/snippets/:uuid"}),
		MustNew(Definition{Name: "snippet_details", View: "form", Path: "/snippets/:uuid/details", Parent: "snippet"}),
		MustNew(Definition{Name: "snippet_taxonomies", View: "form", Path: "/snippets/:uuid/taxonomies", Parent: "snippet"}),
	})
	if err != nil {
		t.Fatal(err)
	}

	child, _ := reg.Get("snippet_details")
	if child.Parent() == nil {
		t.Fatal("child should be linked to its parent")
	}
	if child.Parent().View() != "tab" {
		t.Errorf("parent view = %q, want tab", child.Parent().View())
	}
	children := child.Parent().Children()
	if len(children) != 2 {
		t.Fatalf("len(children) = %d, want 2", len(children))
	}
	if children[0].Name() != "snippet_details" || children[1].Name() != "snippet_taxonomies" {
		t.Errorf("children order = %v", children)
	}
}

func TestRegistryLinksParentAddedLater(t *testing.T) {
	reg := NewRegistry()
	child := MustNew(Definition{Name: "child", Path: "/c", Parent: "parent"})
	if err := reg.Add(child); err != nil {
		t.Fatal(err)
	}
	if !errors.Is(reg.Validate(), ErrUnknownParent) {
		t.Error("Validate should report the unknown parent")
	}

	if err := reg.Add(MustNew(Definition{Name: "parent", Path: "/p"})); err != nil {
		t.Fatal(err)
	}
	if child.Parent() == nil || child.Parent().Name() != "parent" {
		t.Error("child should be linked once the parent is registered")
	}
	if err := reg.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestRegistryClear(t *testing.T) {
	reg := NewRegistry()
	parent := MustNew(Definition{Name: "p", Path: "/p"})
	child := MustNew(Definition{Name: "c", Path: "/c", Parent: "p"})
	if err := reg.AddCollection([]*Route{parent, child}); err != nil {
		t.Fatal(err)
	}

	reg.Clear()

	if reg.Len() != 0 || len(reg.GetAll()) != 0 {
		t.Error("registry should be empty after Clear")
	}
	if child.Parent() != nil || len(parent.Children()) != 0 {
		t.Error("Clear should detach links")
	}
	if err := reg.Add(MustNew(Definition{Name: "p", Path: "/p"})); err != nil {
		t.Errorf("name should be free after Clear: %v", err)
	}
}

func TestRegistryRejectsNil(t *testing.T) {
	if err := NewRegistry().Add(nil); err == nil {
		t.Error("Add(nil) should fail")
	}
}
