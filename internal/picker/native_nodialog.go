//go:build !dialog
// +build !dialog

package picker

// Native reports that this build has no desktop dialogs.
func Native() (Picker, Notifier, bool) {
	return nil, nil, false
}
