package catalog

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"emojiorder/internal/core/domain/model/kernel"
	"emojiorder/internal/pkg/errs"
	"emojiorder/internal/pkg/guard"
)

var ErrEntryIsNotConstructed = errors.New("Entry must be created via NewEntry constructor")

// Kind tells whether an entry is a standalone item or a priced add-on.
type Kind int

const (
	KindUnknown Kind = iota
	KindItem
	KindModifier
)

func (k Kind) String() string {
	switch k {
	case KindItem:
		return "item"
	case KindModifier:
		return "modifier"
	default:
		return "unknown"
	}
}

// ParseKind accepts the names produced by String.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "item":
		return KindItem, nil
	case "modifier":
		return KindModifier, nil
	default:
		return KindUnknown, errs.NewValueIsInvalidErrorWithCause(
			"kind",
			fmt.Errorf("%q is not a valid kind", s),
		)
	}
}

// Entry is one priced menu line.
type Entry struct {
	token string
	name  string
	price kernel.Money
	kind  Kind

	guard guard.ConstructorGuard
}

// NewEntry validates that the token is non-empty UTF-8, the name is set and the
// kind is known.
func NewEntry(token, name string, price kernel.Money, kind Kind) (Entry, error) {
	var tokenErr, nameErr, kindErr error
	switch {
	case token == "":
		tokenErr = errs.NewValueIsRequiredError("token")
	case !utf8.ValidString(token):
		tokenErr = errs.NewValueIsInvalidErrorWithCause("token", errors.New("token is not valid UTF-8"))
	}
	if strings.TrimSpace(name) == "" {
		nameErr = errs.NewValueIsRequiredError("name")
	}
	if kind != KindItem && kind != KindModifier {
		kindErr = errs.NewValueIsInvalidErrorWithCause("kind", fmt.Errorf("%d is not a valid kind", kind))
	}
	if err := errors.Join(tokenErr, nameErr, kindErr); err != nil {
		return Entry{}, err
	}

	return Entry{
		token: token,
		name:  name,
		price: price,
		kind:  kind,
		guard: guard.NewConstructorGuard(),
	}, nil
}

func (e Entry) Validate() error {
	return e.guard.Validate(ErrEntryIsNotConstructed)
}

func (e Entry) Token() string {
	return e.token
}

func (e Entry) Name() string {
	return e.name
}

func (e Entry) Price() kernel.Money {
	return e.price
}

func (e Entry) Kind() Kind {
	return e.kind
}

func (e Entry) IsModifier() bool {
	return e.kind == KindModifier
}
