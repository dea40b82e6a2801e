package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault_Valid(t *testing.T) {
	c := Default()
	if c.Len() == 0 {
		t.Fatal("default catalog is empty")
	}
	e, err := c.Get("troponin-hs")
	if err != nil {
		t.Fatalf("Get(troponin-hs): %v", err)
	}
	if e.Sensitivity != 0.90 || e.Specificity != 0.95 {
		t.Errorf("troponin-hs = %v/%v, want 0.90/0.95", e.Sensitivity, e.Specificity)
	}
}

func TestGet_Unknown(t *testing.T) {
	_, err := Default().Get("tea-leaves")
	if !errors.Is(err, ErrUnknownTest) {
		t.Fatalf("got %v, want ErrUnknownTest", err)
	}
	if !strings.Contains(err.Error(), "tea-leaves") {
		t.Errorf("error should name the ID, got: %v", err)
	}
}

func TestNew_DetectsProblems(t *testing.T) {
	entries := []Entry{
		{ID: "a", Name: "A", Category: CategoryLab, Sensitivity: 0.8, Specificity: 0.9},
		{ID: "a", Name: "A again", Category: CategoryLab, Sensitivity: 0.8, Specificity: 0.9},
		{ID: "b", Name: "", Category: CategoryLab, Sensitivity: 0.8, Specificity: 0.9},
		{ID: "c", Name: "C", Category: "astrology", Sensitivity: 0.8, Specificity: 0.9},
		{ID: "d", Name: "D", Category: CategoryImaging, Sensitivity: 1.2, Specificity: 0.9},
		{ID: "", Name: "E", Category: CategoryImaging, Sensitivity: 0.5, Specificity: 0.5},
	}
	_, err := New(entries)
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	for _, want := range []string{`duplicate test id: "a"`, `"b" has no name`, `unknown category "astrology"`, `test "d"`, "test 5 has no id"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error should mention %q, got: %v", want, err)
		}
	}
}

func TestTests_PreservesOrder(t *testing.T) {
	c := Default()
	tests, err := c.Tests("ctpa", "d-dimer")
	if err != nil {
		t.Fatalf("Tests: %v", err)
	}
	if len(tests) != 2 || tests[0].ID != "ctpa" || tests[1].ID != "d-dimer" {
		t.Errorf("got %+v, want ctpa then d-dimer", tests)
	}

	all, err := c.Tests()
	if err != nil {
		t.Fatalf("Tests(): %v", err)
	}
	if len(all) != c.Len() {
		t.Errorf("Tests() returned %d, want %d", len(all), c.Len())
	}

	if _, err := c.Tests("ctpa", "nope"); !errors.Is(err, ErrUnknownTest) {
		t.Errorf("got %v, want ErrUnknownTest", err)
	}
}

func TestByCategory(t *testing.T) {
	c := Default()
	imaging := c.ByCategory(CategoryImaging)
	if len(imaging) == 0 {
		t.Fatal("expected imaging tests")
	}
	for _, e := range imaging {
		if e.Category != CategoryImaging {
			t.Errorf("%s has category %q", e.ID, e.Category)
		}
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tests.yaml")
	data := "tests:\n  - id: lactate\n    name: Lactate\n    category: lab\n    sensitivity: 0.7\n    specificity: 0.8\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Len() != 1 {
		t.Fatalf("Len = %d, want 1", c.Len())
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestParseObservation(t *testing.T) {
	c := Default()
	tests := []struct {
		in       string
		name     string
		positive bool
	}{
		{"troponin-hs+", "High-sensitivity troponin", true},
		{"d-dimer-", "D-dimer (ELISA)", false},
		{"Lactate:0.7:0.8:+", "Lactate", true},
		{"Lactate:0.7:0.8:neg", "Lactate", false},
	}
	for _, tt := range tests {
		obs, err := c.ParseObservation(tt.in)
		if err != nil {
			t.Errorf("ParseObservation(%q): %v", tt.in, err)
			continue
		}
		if obs.Test.Name != tt.name || obs.IsPositive != tt.positive {
			t.Errorf("ParseObservation(%q) = %s/%v, want %s/%v", tt.in, obs.Test.Name, obs.IsPositive, tt.name, tt.positive)
		}
	}

	for _, bad := range []string{"", "x", "troponin-hs?", "nope+", "Lactate:0.7:+", "Lactate:abc:0.8:+"} {
		if _, err := c.ParseObservation(bad); err == nil {
			t.Errorf("ParseObservation(%q): expected error", bad)
		}
	}
}
