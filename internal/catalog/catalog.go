// Package catalog is the read-only joker reference table. It is loaded
// once at startup and handed to consumers by reference; after Load the
// catalog is immutable and safe for concurrent readers.
package catalog

import (
	"encoding/json"
	"os"
	"strings"
)

// Entry is one joker in the reference table, keyed by English name.
type Entry struct {
	NameEN   string `json:"name_en"`
	NameZH   string `json:"name_zh"`
	EffectEN string `json:"effect_en"`
	EffectZH string `json:"effect_zh"`
	Image    string `json:"image"`
}

type Catalog struct {
	entries []Entry
	byName  map[string]Entry
}

// Load reads the catalog file. A missing file yields an empty catalog,
// not an error: run views degrade to names without art or effect text.
func Load(path string) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(nil), nil
		}
		return nil, err
	}
	var entries []Entry
	if err := json.Unmarshal(b, &entries); err != nil {
		return nil, err
	}
	return New(entries), nil
}

func New(entries []Entry) *Catalog {
	byName := make(map[string]Entry, len(entries))
	for _, e := range entries {
		byName[normalize(e.NameEN)] = e
	}
	return &Catalog{entries: entries, byName: byName}
}

// Lookup finds a joker by English name, case-insensitively.
func (c *Catalog) Lookup(name string) (Entry, bool) {
	e, ok := c.byName[normalize(name)]
	return e, ok
}

// Entries returns the full catalog in file order.
func (c *Catalog) Entries() []Entry {
	return c.entries
}

func (c *Catalog) Len() int {
	return len(c.entries)
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
