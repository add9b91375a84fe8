package services

import (
	"errors"
	"slices"
	"unicode/utf8"

	"emojiorder/internal/core/domain/model/catalog"
	"emojiorder/internal/core/domain/model/kernel"
	"emojiorder/internal/core/domain/model/order"
	"emojiorder/internal/pkg/guard"

	"github.com/rivo/uniseg"
)

var ErrResolvedOrderIsNotConstructed = errors.New(
	"ResolvedOrder must be created via OrderResolver.Resolve",
)

// ResolvedOrder is the successful result of resolving an emoji string: items
// and modifiers in scan order plus their summed price.
type ResolvedOrder struct {
	items     []catalog.Entry
	modifiers []catalog.Entry
	total     kernel.Money

	guard guard.ConstructorGuard
}

func (r ResolvedOrder) Validate() error {
	return r.guard.Validate(ErrResolvedOrderIsNotConstructed)
}

func (r ResolvedOrder) Items() []catalog.Entry {
	return slices.Clone(r.items)
}

func (r ResolvedOrder) Modifiers() []catalog.Entry {
	return slices.Clone(r.modifiers)
}

func (r ResolvedOrder) Total() kernel.Money {
	return r.total
}

// LineItems freezes the resolved items for order creation.
func (r ResolvedOrder) LineItems() []order.LineItem {
	return toLineItems(r.items)
}

// ModifierLineItems freezes the resolved modifiers for order creation.
func (r ResolvedOrder) ModifierLineItems() []order.LineItem {
	return toLineItems(r.modifiers)
}

// OrderResolver converts emoji strings into priced orders against a catalog.
//
// Business rules:
//   - The input is scanned left to right; at each position the longest catalog
//     token wins, so "☕☕" is one Large Coffee rather than two Coffees
//   - Anything that is not an emoji (text, digits, currency and math symbols,
//     joiners, selectors, skin tones) is skipped one grapheme cluster at a time
//   - An emoji that starts no catalog token aborts resolution with
//     ReasonUnknownToken, naming the whole grapheme cluster
//   - At least one item is required; a modifier-only order is rejected
type OrderResolver struct {
	catalog *catalog.Catalog
}

func NewOrderResolver(c *catalog.Catalog) OrderResolver {
	return OrderResolver{catalog: c}
}

// Resolve returns a ResolvedOrder or a *ResolutionError.
//
// Example:
//
//	resolved, err := resolver.Resolve("☕🍕 please")
//	var resErr *services.ResolutionError
//	if errors.As(err, &resErr) && resErr.Reason == services.ReasonUnknownToken {
//	    fmt.Println("not on the menu:", resErr.Token)
//	}
func (r OrderResolver) Resolve(input string) (ResolvedOrder, error) {
	if input == "" {
		return ResolvedOrder{}, &ResolutionError{Reason: ReasonEmpty}
	}

	resolved := ResolvedOrder{
		total: kernel.Zero,
		guard: guard.NewConstructorGuard(),
	}
	matched := false

	rest := input
	for len(rest) > 0 {
		if entry, n, ok := r.catalog.LongestMatch(rest); ok {
			matched = true
			if entry.IsModifier() {
				resolved.modifiers = append(resolved.modifiers, entry)
			} else {
				resolved.items = append(resolved.items, entry)
			}
			resolved.total = resolved.total.Add(entry.Price())
			rest = rest[n:]
			continue
		}

		cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(rest, -1)
		if cluster == "" {
			_, size := utf8.DecodeRuneInString(rest)
			cluster = rest[:size]
		}
		if isEmojiCandidate(cluster) {
			return ResolvedOrder{}, &ResolutionError{Reason: ReasonUnknownToken, Token: cluster}
		}
		rest = rest[len(cluster):]
	}

	if !matched {
		return ResolvedOrder{}, &ResolutionError{Reason: ReasonNoEmojiFound}
	}
	if len(resolved.items) == 0 {
		return ResolvedOrder{}, &ResolutionError{Reason: ReasonNoItems}
	}

	return resolved, nil
}

func toLineItems(entries []catalog.Entry) []order.LineItem {
	items := make([]order.LineItem, 0, len(entries))
	for _, entry := range entries {
		items = append(items, order.NewLineItem(entry))
	}
	return items
}
