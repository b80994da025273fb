// Package picker chooses where exports are saved and tells the user how
// a command went.
package picker

import (
	"log"
	"path/filepath"
	"strings"
)

// SaveRequest describes a file to be saved.
type SaveRequest struct {
	Title       string
	StartDir    string
	DefaultName string
	// Ext is the file extension without the dot, e.g. "json".
	Ext string
}

// file is the suggested target: DefaultName in StartDir, with Ext.
func (req SaveRequest) file() string {
	return filepath.Join(req.StartDir, withExt(req.DefaultName, req.Ext))
}

// Picker resolves save targets.
type Picker interface {
	// SaveFile returns the path to write, or errs.SaveCancelledError.
	SaveFile(req SaveRequest) (string, error)
	// Folder returns a folder, or errs.SaveCancelledError.
	Folder(title, startDir string) (string, error)
}

// Notifier reports the outcome of a command.
type Notifier interface {
	Info(title, message string)
	Error(title, message string)
}

// Default saves to StartDir/DefaultName without asking.
type Default struct{}

func (Default) SaveFile(req SaveRequest) (string, error) {
	return req.file(), nil
}

func (Default) Folder(_, startDir string) (string, error) {
	return startDir, nil
}

// Log writes notifications to a logger.
type Log struct {
	Logger *log.Logger
}

func (l Log) Info(title, message string) {
	l.printf("%s: %s", title, message)
}

func (l Log) Error(title, message string) {
	l.printf("error: %s: %s", title, message)
}

func (l Log) printf(format string, args ...interface{}) {
	if l.Logger == nil {
		log.Printf(format, args...)
		return
	}
	l.Logger.Printf(format, args...)
}

func withExt(name, ext string) string {
	if ext == "" || strings.EqualFold(filepath.Ext(name), "."+ext) {
		return name
	}
	return name + "." + ext
}
