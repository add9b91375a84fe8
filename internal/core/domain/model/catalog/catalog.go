package catalog

import (
	"fmt"
	"slices"

	"emojiorder/internal/pkg/errs"
)

// Catalog is an immutable token to Entry mapping. It is safe for concurrent use
// because nothing mutates it after New returns.
type Catalog struct {
	entries map[string]Entry
	// order keeps declaration order for menu listings.
	order []string
	// tokenLengths holds the distinct token byte lengths, longest first.
	tokenLengths []int
}

// New builds a catalog. Every entry must be constructed and tokens must be unique.
func New(entries ...Entry) (*Catalog, error) {
	c := &Catalog{
		entries: make(map[string]Entry, len(entries)),
		order:   make([]string, 0, len(entries)),
	}

	for _, entry := range entries {
		if err := entry.Validate(); err != nil {
			return nil, err
		}
		if _, exists := c.entries[entry.Token()]; exists {
			return nil, errs.NewValueIsInvalidErrorWithCause(
				"token",
				fmt.Errorf("%q is declared more than once", entry.Token()),
			)
		}
		c.entries[entry.Token()] = entry
		c.order = append(c.order, entry.Token())
		if !slices.Contains(c.tokenLengths, len(entry.Token())) {
			c.tokenLengths = append(c.tokenLengths, len(entry.Token()))
		}
	}

	slices.SortFunc(c.tokenLengths, func(a, b int) int { return b - a })
	return c, nil
}

// Lookup returns the entry for an exact token.
func (c *Catalog) Lookup(token string) (Entry, bool) {
	entry, ok := c.entries[token]
	return entry, ok
}

// LongestMatch returns the entry whose token is the longest prefix of s, and
// the token's length in bytes.
func (c *Catalog) LongestMatch(s string) (Entry, int, bool) {
	for _, n := range c.tokenLengths {
		if n > len(s) {
			continue
		}
		if entry, ok := c.entries[s[:n]]; ok {
			return entry, n, true
		}
	}
	return Entry{}, 0, false
}

// Entries lists the catalog in declaration order.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, 0, len(c.order))
	for _, token := range c.order {
		out = append(out, c.entries[token])
	}
	return out
}

func (c *Catalog) Len() int {
	return len(c.entries)
}
