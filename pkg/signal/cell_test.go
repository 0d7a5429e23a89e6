package signal

import (
	"testing"
	"time"
)

func TestCellConvertsValues(t *testing.T) {
	page := New(1)
	c := page.Cell()

	if err := c.Set("3"); err != nil {
		t.Fatalf("Set(\"3\") error: %v", err)
	}
	if got := page.Get(); got != 3 {
		t.Errorf("page = %d, want 3", got)
	}
	if err := c.Set(4.0); err != nil {
		t.Fatalf("Set(4.0) error: %v", err)
	}
	if got := c.Get(); got != 4 {
		t.Errorf("Get() = %v, want 4", got)
	}
	if err := c.Set("many"); err == nil {
		t.Error("Set(\"many\") should fail")
	}
	if err := c.Set(nil); err != nil || page.Get() != 0 {
		t.Errorf("Set(nil) = %v, page = %d; want reset to 0", err, page.Get())
	}
}

func TestCellBoolAndDate(t *testing.T) {
	active := New(false)
	if err := active.Cell().Set("true"); err != nil || !active.Get() {
		t.Errorf("Set(\"true\") = %v, active = %v", err, active.Get())
	}

	from := New(time.Time{})
	if err := from.Cell().Set("2024-03-01 14:30"); err != nil {
		t.Fatalf("Set(date) error: %v", err)
	}
	want := time.Date(2024, 3, 1, 14, 30, 0, 0, time.Local)
	if !from.Get().Equal(want) {
		t.Errorf("from = %v, want %v", from.Get(), want)
	}
}

func TestCellAnySignal(t *testing.T) {
	s := New[any](nil)
	c := s.Cell()
	if err := c.Set(map[string]any{"a": 1}); err != nil {
		t.Fatal(err)
	}
	if err := c.Set(nil); err != nil {
		t.Fatal(err)
	}
	if s.Get() != nil {
		t.Errorf("Get() = %v, want nil", s.Get())
	}
}

func TestCellObserveAndIntercept(t *testing.T) {
	s := New("de")
	c := s.Cell()

	var seen []any
	stop := c.Observe(func(v any) { seen = append(seen, v) })
	c.Intercept(func(next any) bool { return next != "fr" })

	_ = c.Set("en")
	_ = c.Set("fr")
	stop()
	_ = c.Set("it")

	if len(seen) != 1 || seen[0] != "en" {
		t.Errorf("seen = %v, want [en]", seen)
	}
	if got := s.Get(); got != "it" {
		t.Errorf("Get() = %q, want it", got)
	}
}
