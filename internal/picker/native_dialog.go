//go:build dialog
// +build dialog

package picker

import (
	"errors"

	"github.com/sqweek/dialog"

	"github.com/alacrity-engine/sprite-tool/internal/errs"
)

// Native returns the desktop dialog picker and message-box notifier.
func Native() (Picker, Notifier, bool) {
	return nativePicker{}, nativeNotifier{}, true
}

type nativePicker struct{}

func (nativePicker) SaveFile(req SaveRequest) (string, error) {
	b := dialog.File().Title(req.Title).SetStartDir(req.StartDir)
	if req.DefaultName != "" {
		b = b.SetStartFile(req.file())
	}
	if req.Ext != "" {
		b = b.Filter(req.Ext+" files", req.Ext)
	}

	p, err := b.Save()
	if errors.Is(err, dialog.ErrCancelled) {
		return "", &errs.SaveCancelledError{}
	}
	if err != nil {
		return "", err
	}
	return withExt(p, req.Ext), nil
}

func (nativePicker) Folder(title, startDir string) (string, error) {
	p, err := dialog.Directory().Title(title).SetStartDir(startDir).Browse()
	if errors.Is(err, dialog.ErrCancelled) {
		return "", &errs.SaveCancelledError{}
	}
	return p, err
}

type nativeNotifier struct{}

func (nativeNotifier) Info(title, message string) {
	dialog.Message("%s", message).Title(title).Info()
}

func (nativeNotifier) Error(title, message string) {
	dialog.Message("%s", message).Title(title).Error()
}
