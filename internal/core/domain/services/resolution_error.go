package services

import (
	"errors"
	"fmt"
)

// ErrOrderNotResolved is the sentinel behind every ResolutionError.
var ErrOrderNotResolved = errors.New("order could not be resolved")

// ResolutionReason classifies why an emoji string did not resolve.
type ResolutionReason int

const (
	ReasonUnknown ResolutionReason = iota
	// ReasonEmpty: the input is the empty string.
	ReasonEmpty
	// ReasonNoEmojiFound: the input has no emoji at all.
	ReasonNoEmojiFound
	// ReasonUnknownToken: an emoji is not on the menu. Token names it.
	ReasonUnknownToken
	// ReasonNoItems: only modifiers were found.
	ReasonNoItems
)

func (r ResolutionReason) String() string {
	switch r {
	case ReasonEmpty:
		return "empty"
	case ReasonNoEmojiFound:
		return "no_emoji_found"
	case ReasonUnknownToken:
		return "unknown_token"
	case ReasonNoItems:
		return "no_items"
	default:
		return "unknown"
	}
}

// ResolutionError is returned by OrderResolver.Resolve.
type ResolutionError struct {
	Reason ResolutionReason
	// Token is set for ReasonUnknownToken.
	Token string
}

func (e *ResolutionError) Error() string {
	switch e.Reason {
	case ReasonEmpty:
		return fmt.Sprintf("%s: input is empty", ErrOrderNotResolved)
	case ReasonNoEmojiFound:
		return fmt.Sprintf("%s: no emoji found in input", ErrOrderNotResolved)
	case ReasonUnknownToken:
		return fmt.Sprintf("%s: unknown emoji %q", ErrOrderNotResolved, e.Token)
	case ReasonNoItems:
		return fmt.Sprintf("%s: order has modifiers but no items", ErrOrderNotResolved)
	default:
		return ErrOrderNotResolved.Error()
	}
}

func (e *ResolutionError) Unwrap() error {
	return ErrOrderNotResolved
}
