package actions

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	noteExt       = ".txt"
	noteDelimiter = "----------------------------------------"
	noteStamp     = "2006-01-02 15:04:05"
)

var (
	ErrEmptyName = errors.New("empty file name")
	ErrBadName   = errors.New("file name must not contain a path")
)

// Notebook keeps plain text note files inside Dir. Entries are only ever
// appended; clearing truncates.
type Notebook struct {
	Dir     string
	Default string
}

func NewNotebook(dir, defaultFile string) *Notebook {
	if dir == "" {
		dir = "."
	}
	return &Notebook{Dir: dir, Default: defaultFile}
}

// Path maps a spoken file name to <Dir>/<name>.txt.
func (n *Notebook) Path(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", fmt.Errorf("%w: %q", ErrBadName, name)
	}
	return filepath.Join(n.Dir, name+noteExt), nil
}

func (n *Notebook) DefaultPath() string {
	return filepath.Join(n.Dir, n.Default)
}

func FormatNote(text string, now time.Time) string {
	return fmt.Sprintf("\n%s\n[%s]\n%s\n", noteDelimiter, now.Format(noteStamp), strings.TrimSpace(text))
}

func (n *Notebook) Append(path, text string, now time.Time) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open note file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(FormatNote(text, now)); err != nil {
		return fmt.Errorf("write note: %w", err)
	}
	return nil
}

// Clear truncates the default note file, creating it when missing.
func (n *Notebook) Clear() error {
	f, err := os.OpenFile(n.DefaultPath(), os.O_TRUNC|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("clear notes: %w", err)
	}
	return f.Close()
}

func (n *Notebook) Delete(name string) error {
	path, err := n.Path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	return nil
}
