// Package catalog provides named diagnostic tests with known operating
// characteristics, loaded from YAML.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/bayesdx/internal/bayes"
)

//go:embed catalog.yaml
var defaultYAML []byte

// Category groups tests by how they are performed.
type Category string

const (
	CategoryLab      Category = "lab"
	CategoryImaging  Category = "imaging"
	CategoryClinical Category = "clinical"
	CategoryBedside  Category = "bedside"
)

var knownCategories = map[Category]bool{
	CategoryLab:      true,
	CategoryImaging:  true,
	CategoryClinical: true,
	CategoryBedside:  true,
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool { return knownCategories[c] }

// Entry is a single catalog test.
type Entry struct {
	ID          string   `yaml:"id" json:"id"`
	Name        string   `yaml:"name" json:"name"`
	Category    Category `yaml:"category" json:"category"`
	Condition   string   `yaml:"condition" json:"condition"`
	Sensitivity float64  `yaml:"sensitivity" json:"sensitivity"`
	Specificity float64  `yaml:"specificity" json:"specificity"`
	Notes       string   `yaml:"notes,omitempty" json:"notes,omitempty"`
}

// DiagnosticTest returns the engine representation of the entry.
func (e Entry) DiagnosticTest() bayes.DiagnosticTest {
	return bayes.DiagnosticTest{
		ID:          e.ID,
		Name:        e.Name,
		Sensitivity: e.Sensitivity,
		Specificity: e.Specificity,
	}
}

// ErrUnknownTest is matched by *UnknownTestError via errors.Is.
var ErrUnknownTest = errors.New("unknown test")

// UnknownTestError reports a lookup of an ID that is not in the catalog.
type UnknownTestError struct {
	ID string
}

func (e *UnknownTestError) Error() string {
	return fmt.Sprintf("unknown test %q", e.ID)
}

func (e *UnknownTestError) Is(target error) bool { return target == ErrUnknownTest }

// Catalog is an immutable, indexed set of tests.
type Catalog struct {
	entries    []Entry
	byID       map[string]int
	byCategory map[Category][]int
}

type catalogFile struct {
	Tests []Entry `yaml:"tests"`
}

// Parse decodes and validates a YAML catalog.
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return New(f.Tests)
}

// Load reads a catalog from a YAML file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

var loadDefault = sync.OnceValues(func() (*Catalog, error) {
	return Parse(defaultYAML)
})

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := loadDefault()
	if err != nil {
		panic(fmt.Sprintf("built-in catalog is invalid: %v", err))
	}
	return c
}

// New builds a catalog from entries, preserving their order.
func New(entries []Entry) (*Catalog, error) {
	if err := validateEntries(entries); err != nil {
		return nil, err
	}
	c := &Catalog{
		entries:    append([]Entry(nil), entries...),
		byID:       make(map[string]int, len(entries)),
		byCategory: make(map[Category][]int),
	}
	for i, e := range c.entries {
		c.byID[e.ID] = i
		c.byCategory[e.Category] = append(c.byCategory[e.Category], i)
	}
	return c, nil
}

// validateEntries returns a combined error describing all problems found.
func validateEntries(entries []Entry) error {
	var errs []string
	seen := make(map[string]bool, len(entries))

	for i, e := range entries {
		if strings.TrimSpace(e.ID) == "" {
			errs = append(errs, fmt.Sprintf("test %d has no id", i))
		} else if seen[e.ID] {
			errs = append(errs, fmt.Sprintf("duplicate test id: %q", e.ID))
		}
		seen[e.ID] = true

		if strings.TrimSpace(e.Name) == "" {
			errs = append(errs, fmt.Sprintf("test %q has no name", e.ID))
		}
		if !e.Category.Valid() {
			errs = append(errs, fmt.Sprintf("test %q has unknown category %q", e.ID, e.Category))
		}
		if err := bayes.ValidateTest(e.DiagnosticTest()); err != nil {
			errs = append(errs, fmt.Sprintf("test %q: %v", e.ID, err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("catalog validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

// Len returns the number of tests.
func (c *Catalog) Len() int { return len(c.entries) }

// Get returns the entry with the given ID.
func (c *Catalog) Get(id string) (Entry, error) {
	i, ok := c.byID[id]
	if !ok {
		return Entry{}, &UnknownTestError{ID: id}
	}
	return c.entries[i], nil
}

// All returns every entry in file order.
func (c *Catalog) All() []Entry {
	return append([]Entry(nil), c.entries...)
}

// ByCategory returns entries of one category in file order.
func (c *Catalog) ByCategory(cat Category) []Entry {
	idx := c.byCategory[cat]
	out := make([]Entry, 0, len(idx))
	for _, i := range idx {
		out = append(out, c.entries[i])
	}
	return out
}

// Tests resolves IDs into engine tests, in the order given. With no IDs
// every test in the catalog is returned.
func (c *Catalog) Tests(ids ...string) ([]bayes.DiagnosticTest, error) {
	if len(ids) == 0 {
		out := make([]bayes.DiagnosticTest, 0, len(c.entries))
		for _, e := range c.entries {
			out = append(out, e.DiagnosticTest())
		}
		return out, nil
	}
	out := make([]bayes.DiagnosticTest, 0, len(ids))
	for _, id := range ids {
		e, err := c.Get(id)
		if err != nil {
			return nil, err
		}
		out = append(out, e.DiagnosticTest())
	}
	return out, nil
}
