package reply

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zhouzirui/career-companion/backend/internal/analysis/intent"
)

var (
	ErrIncompleteTable = errors.New("reply table is missing an intent")
	ErrUnknownIntent   = errors.New("unknown intent in reply catalog")
)

// Table maps every intent to exactly one canned response. It is built once
// and never mutated afterwards.
type Table struct {
	entries map[intent.Label]string
}

// Resolve returns the canned response for label. Labels outside the closed
// set resolve to the Default entry.
func (t Table) Resolve(label intent.Label) string {
	if text, ok := t.entries[label]; ok {
		return text
	}
	return t.entries[intent.Default]
}

// Entries returns a copy of the table in intent priority order.
func (t Table) Entries() []Entry {
	out := make([]Entry, 0, len(t.entries))
	for _, l := range intent.Labels() {
		out = append(out, Entry{Intent: l, Text: t.entries[l]})
	}
	return out
}

// Entry is a single intent/response pair.
type Entry struct {
	Intent intent.Label `json:"intent" yaml:"intent"`
	Text   string       `json:"text" yaml:"text"`
}

// NewTable builds a table from entries and checks that every intent has a
// non-empty response.
func NewTable(entries map[intent.Label]string) (Table, error) {
	copied := make(map[intent.Label]string, len(entries))
	for label, text := range entries {
		if !label.Valid() {
			return Table{}, fmt.Errorf("%w: %q", ErrUnknownIntent, label)
		}
		copied[label] = strings.TrimSpace(text)
	}
	for _, l := range intent.Labels() {
		if copied[l] == "" {
			return Table{}, fmt.Errorf("%w: %s", ErrIncompleteTable, l)
		}
	}
	return Table{entries: copied}, nil
}

// Catalog bundles everything the chat assistant says on its own.
type Catalog struct {
	Table   Table
	Welcome string
	Prompts []string
}

// SuggestedPrompts returns a copy of the starter prompts.
func (c Catalog) SuggestedPrompts() []string {
	return append([]string(nil), c.Prompts...)
}

type catalogFile struct {
	Welcome   string            `yaml:"welcome"`
	Prompts   []string          `yaml:"prompts"`
	Responses map[string]string `yaml:"responses"`
}

// Load reads a YAML catalog from path. Missing fields keep the seeded values,
// so a file may override a single response.
func Load(path string) (Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read reply catalog: %w", err)
	}
	return Parse(raw)
}

// Parse decodes a YAML catalog layered on top of Seed.
func Parse(raw []byte) (Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return Catalog{}, fmt.Errorf("decode reply catalog: %w", err)
	}

	base := Seed()
	entries := make(map[intent.Label]string, len(base.Table.entries))
	for label, text := range base.Table.entries {
		entries[label] = text
	}
	for key, text := range file.Responses {
		label, ok := intent.Parse(key)
		if !ok {
			return Catalog{}, fmt.Errorf("%w: %q", ErrUnknownIntent, key)
		}
		entries[label] = text
	}

	table, err := NewTable(entries)
	if err != nil {
		return Catalog{}, err
	}

	catalog := Catalog{Table: table, Welcome: base.Welcome, Prompts: base.Prompts}
	if welcome := strings.TrimSpace(file.Welcome); welcome != "" {
		catalog.Welcome = welcome
	}
	if prompts := compact(file.Prompts); len(prompts) > 0 {
		catalog.Prompts = prompts
	}
	return catalog, nil
}

func compact(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := strings.TrimSpace(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// LoadOrSeed loads the catalog at path, or returns Seed when path is empty.
func LoadOrSeed(path string) (Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return Seed(), nil
	}
	return Load(path)
}
