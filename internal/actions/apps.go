package actions

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

var (
	ErrUnknownApp = errors.New("unknown app")
	ErrNoCommand  = errors.New("no command for this platform")
)

type App struct {
	Keywords []string
	Label    string
	Command  []string
}

// Catalog is searched in order; the first app with a keyword contained in
// the request wins.
type Catalog struct {
	apps []App
}

func NewCatalog(apps []App) Catalog {
	out := make([]App, 0, len(apps))
	for _, a := range apps {
		kws := make([]string, 0, len(a.Keywords))
		for _, k := range a.Keywords {
			if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
				kws = append(kws, k)
			}
		}
		out = append(out, App{Keywords: kws, Label: a.Label, Command: append([]string(nil), a.Command...)})
	}
	return Catalog{apps: out}
}

func (c Catalog) Lookup(request string) (App, error) {
	request = strings.ToLower(request)
	for _, a := range c.apps {
		for _, k := range a.Keywords {
			if strings.Contains(request, k) {
				return a, nil
			}
		}
	}
	return App{}, fmt.Errorf("%w: %q", ErrUnknownApp, request)
}

func (c Catalog) Len() int { return len(c.apps) }

type Launcher interface {
	Launch(ctx context.Context, name string, args ...string) error
}

// ExecLauncher starts the process and does not wait for it.
type ExecLauncher struct{}

func (ExecLauncher) Launch(ctx context.Context, name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", name, err)
	}
	go cmd.Wait()
	return nil
}

func OpenApp(ctx context.Context, l Launcher, app App) error {
	if len(app.Command) == 0 {
		return fmt.Errorf("%s: %w", app.Label, ErrNoCommand)
	}
	return l.Launch(ctx, app.Command[0], app.Command[1:]...)
}

// Opener returns the platform's "open this path" command.
func Opener(goos string) []string {
	switch goos {
	case "darwin":
		return []string{"open"}
	case "windows":
		return []string{"explorer"}
	default:
		return []string{"xdg-open"}
	}
}

// OpenFolder opens home/name with the platform opener.
func OpenFolder(ctx context.Context, l Launcher, goos, home, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}
	path := filepath.Join(home, name)
	opener := Opener(goos)
	return path, l.Launch(ctx, opener[0], append(opener[1:], path)...)
}
