// Package errs holds the user-facing failures every command can report.
// None of them is fatal: the command aborts before anything is written
// and the top level shows the message to the user.
package errs

import (
	"errors"
	"fmt"
)

// UserError is implemented by every failure that should be shown to the
// user as a notification rather than as a crash.
type UserError interface {
	error
	Title() string
}

// InvalidSelectionError means the selected asset is missing or has the
// wrong kind for the command.
type InvalidSelectionError struct {
	Path   string
	Reason string
}

func (e *InvalidSelectionError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid selection: %s", e.Reason)
	}
	return fmt.Sprintf("invalid selection %q: %s", e.Path, e.Reason)
}

func (e *InvalidSelectionError) Title() string { return "Invalid selection" }

// NoSpriteDataError means the asset has no sliced sprites or no sprite
// keyframes.
type NoSpriteDataError struct {
	Path   string
	Reason string
}

func (e *NoSpriteDataError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}

func (e *NoSpriteDataError) Title() string { return "No sprite data" }

// NameFormatError means a sprite name lacks the numeric suffix or the
// underscore structure frame sequences need.
type NameFormatError struct {
	Group string
	Names []string
}

func (e *NameFormatError) Error() string {
	return fmt.Sprintf("group %q: sprite names without a numeric suffix: %v",
		e.Group, e.Names)
}

func (e *NameFormatError) Title() string { return "Sprite name format" }

// NoLayersError means an animator controller has no layers.
type NoLayersError struct {
	Controller string
}

func (e *NoLayersError) Error() string {
	return fmt.Sprintf("animator controller %q has no layers", e.Controller)
}

func (e *NoLayersError) Title() string { return "No layers" }

// SaveCancelledError means the user dismissed the save dialog.
type SaveCancelledError struct{}

func (e *SaveCancelledError) Error() string { return "save cancelled" }

func (e *SaveCancelledError) Title() string { return "Cancelled" }

// AsUser reports whether err wraps a UserError and returns it.
func AsUser(err error) (UserError, bool) {
	var ue UserError
	if errors.As(err, &ue) {
		return ue, true
	}
	return nil, false
}
