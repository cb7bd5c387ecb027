package ggedit

import "errors"

var (
	// ErrEmptyID is returned when adding an element without an id.
	ErrEmptyID = errors.New("ggedit: element id is empty")

	// ErrDuplicateID is returned when an id is already present in the store.
	ErrDuplicateID = errors.New("ggedit: duplicate element id")

	// ErrInvalidPayload is returned when a creation payload cannot be
	// turned into an element. The drop is abandoned.
	ErrInvalidPayload = errors.New("ggedit: invalid element payload")

	// ErrGroupingUnsupported is returned by the group and ungroup actions.
	// The element model has no container kind.
	ErrGroupingUnsupported = errors.New("ggedit: grouping is not supported")
)
