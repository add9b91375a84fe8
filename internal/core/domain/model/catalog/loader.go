package catalog

import (
	"errors"
	"fmt"
	"io"
	"os"

	"emojiorder/internal/core/domain/model/kernel"
	"emojiorder/internal/pkg/errs"

	"gopkg.in/yaml.v3"
)

type fileEntry struct {
	Token string `yaml:"token"`
	Name  string `yaml:"name"`
	Price string `yaml:"price"`
	Kind  string `yaml:"kind"`
}

type file struct {
	Entries []fileEntry `yaml:"entries"`
}

// LoadYAML reads a catalog document of the form:
//
//	entries:
//	  - token: "☕"
//	    name: Coffee
//	    price: "3.50"
//	    kind: item
//
// All entry errors are reported together.
func LoadYAML(r io.Reader) (*Catalog, error) {
	var doc file
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if len(doc.Entries) == 0 {
		return nil, errs.NewValueIsRequiredError("entries")
	}

	entries := make([]Entry, 0, len(doc.Entries))
	var entryErrs []error
	for i, fe := range doc.Entries {
		entry, err := fe.toEntry()
		if err != nil {
			entryErrs = append(entryErrs, fmt.Errorf("entry %d: %w", i, err))
			continue
		}
		entries = append(entries, entry)
	}
	if err := errors.Join(entryErrs...); err != nil {
		return nil, err
	}

	return New(entries...)
}

// LoadFile opens path and passes it to LoadYAML.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	return LoadYAML(f)
}

func (fe fileEntry) toEntry() (Entry, error) {
	price, err := kernel.MoneyFromString(fe.Price)
	if err != nil {
		return Entry{}, err
	}
	kind, err := ParseKind(fe.Kind)
	if err != nil {
		return Entry{}, err
	}
	return NewEntry(fe.Token, fe.Name, price, kind)
}
