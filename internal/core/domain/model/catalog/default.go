package catalog

import "emojiorder/internal/core/domain/model/kernel"

type defaultEntry struct {
	token string
	name  string
	price string
	kind  Kind
}

var defaultMenu = []defaultEntry{
	{"☕", "Coffee", "3.50", KindItem},
	{"☕☕", "Large Coffee", "5.00", KindItem},
	{"🍕", "Pizza", "12.00", KindItem},
	{"🥗", "Salad", "8.00", KindItem},
	{"🥤", "Smoothie", "6.00", KindItem},
	{"🥐", "Croissant", "2.50", KindItem},
	{"🥪", "Sandwich", "8.00", KindItem},
	{"🍔", "Burger", "7.50", KindItem},
	{"🍰", "Cake", "4.50", KindItem},
	{"🍪", "Cookie", "2.00", KindItem},
	{"🧋", "Bubble Tea", "6.50", KindItem},
	{"🍣", "Sushi Roll", "8.50", KindItem},
	{"🍜", "Ramen", "9.00", KindItem},

	{"🚀", "Express", "2.00", KindModifier},
	{"📍", "Delivery", "3.00", KindModifier},
	{"💪", "Protein Boost", "2.50", KindModifier},
}

// Default returns the built-in menu.
func Default() *Catalog {
	entries := make([]Entry, 0, len(defaultMenu))
	for _, d := range defaultMenu {
		entry, err := NewEntry(d.token, d.name, kernel.MustMoneyFromString(d.price), d.kind)
		if err != nil {
			panic(err)
		}
		entries = append(entries, entry)
	}

	c, err := New(entries...)
	if err != nil {
		panic(err)
	}
	return c
}
