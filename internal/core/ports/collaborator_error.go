package ports

import (
	"errors"
	"fmt"
)

var (
	ErrCollaboratorUnavailable = errors.New("collaborator unavailable")
	ErrCollaboratorTimeout     = errors.New("collaborator timeout")
)

// CollaboratorError is raised by external collaborators only. The pipeline
// translates it into a degraded result instead of failing the order.
type CollaboratorError struct {
	Collaborator string
	// Kind is ErrCollaboratorUnavailable or ErrCollaboratorTimeout.
	Kind  error
	Cause error
}

func NewCollaboratorUnavailableError(collaborator string, cause error) *CollaboratorError {
	return &CollaboratorError{Collaborator: collaborator, Kind: ErrCollaboratorUnavailable, Cause: cause}
}

func NewCollaboratorTimeoutError(collaborator string, cause error) *CollaboratorError {
	return &CollaboratorError{Collaborator: collaborator, Kind: ErrCollaboratorTimeout, Cause: cause}
}

func (e *CollaboratorError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Kind, e.Collaborator, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Collaborator)
}

func (e *CollaboratorError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Kind, e.Cause}
	}
	return []error{e.Kind}
}
