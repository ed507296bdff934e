package assistant

import (
	"context"
	"errors"
	"fmt"
	"io"
	log "log/slog"
	"strings"
	"time"

	"ruby/internal/actions"
	"ruby/internal/nlu"
	"ruby/internal/tts"
)

type Alarm interface {
	Ring(message string) error
}

type SystemInfo func(ctx context.Context) []actions.Field

type Deps struct {
	Resolver   *nlu.Resolver
	Speaker    tts.Speaker
	Prompter   Prompter
	Out        io.Writer
	Notebook   *actions.Notebook
	Apps       actions.Catalog
	Launcher   actions.Launcher
	Countdown  actions.Countdown
	Alarm      Alarm
	SystemInfo SystemInfo

	Greeting  string
	Farewells []string
	Home      string
	GOOS      string
	Now       func() time.Time
}

type handler func(ctx context.Context) error

type Assistant struct {
	Deps
	handlers map[nlu.Intent]handler
}

var (
	ErrMissingDep      = errors.New("missing dependency")
	ErrUnhandledIntent = errors.New("intent has no handler")
)

func New(d Deps) (*Assistant, error) {
	switch {
	case d.Resolver == nil:
		return nil, fmt.Errorf("%w: resolver", ErrMissingDep)
	case d.Speaker == nil:
		return nil, fmt.Errorf("%w: speaker", ErrMissingDep)
	case d.Prompter == nil:
		return nil, fmt.Errorf("%w: prompter", ErrMissingDep)
	case d.Notebook == nil:
		return nil, fmt.Errorf("%w: notebook", ErrMissingDep)
	case d.Launcher == nil:
		return nil, fmt.Errorf("%w: launcher", ErrMissingDep)
	}
	if d.Out == nil {
		d.Out = io.Discard
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.SystemInfo == nil {
		d.SystemInfo = func(ctx context.Context) []actions.Field {
			return actions.CollectSystemInfo(ctx, actions.SysinfoOptions{CPUSample: time.Second})
		}
	}

	a := &Assistant{Deps: d}
	a.handlers = map[nlu.Intent]handler{
		nlu.TakeNote:      a.takeNote,
		nlu.ClearNotes:    a.clearNotes,
		nlu.OpenApp:       a.openApp,
		nlu.GetTime:       a.getTime,
		nlu.Countdown:     a.countdown,
		nlu.OpenFolder:    a.openFolder,
		nlu.DelFiles:      a.delFiles,
		nlu.GetSystemInfo: a.systemInfo,
	}

	for _, id := range d.Resolver.Vocabulary().Intents() {
		if _, ok := a.handlers[id]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnhandledIntent, id)
		}
	}
	return a, nil
}

// Run greets and serves one utterance at a time until a farewell, the end of
// input or ctx is done. Only a broken input stream is reported as an error.
func (a *Assistant) Run(ctx context.Context) error {
	if a.Greeting != "" {
		a.say(a.Greeting)
	}

	for {
		command, err := a.Prompter.Ask(ctx, "You: ")
		if err != nil {
			return a.stop(err)
		}

		done, err := a.Handle(ctx, command)
		if err != nil {
			return a.stop(err)
		}
		if done {
			return nil
		}
	}
}

// Handle processes one utterance. done is true after a farewell.
func (a *Assistant) Handle(ctx context.Context, command string) (done bool, err error) {
	text := nlu.Normalize(command)
	if text == "" {
		return false, nil
	}

	if a.IsFarewell(text) {
		a.say("Goodbye.")
		return true, nil
	}

	res := a.Resolver.Resolve(ctx, text)
	log.Debug("Detected command", "intent", res.Intent, "stage", res.Stage, "oracle", res.Oracle)

	if !res.Matched() {
		a.say("Sorry, I couldn't understand that.")
		return false, nil
	}
	if res.Stage == nlu.StageOracle {
		a.say(fmt.Sprintf("I think you meant '%s'.", strings.ReplaceAll(string(res.Intent), "_", " ")))
	}

	return false, a.handlers[res.Intent](ctx)
}

func (a *Assistant) IsFarewell(text string) bool {
	for _, w := range a.Farewells {
		if w != "" && strings.Contains(text, w) {
			return true
		}
	}
	return false
}

func (a *Assistant) stop(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
		log.Info("Input closed, stopping")
		return nil
	}
	return err
}

func (a *Assistant) say(text string) {
	if err := a.Speaker.Speak(text); err != nil {
		log.Error("Failed to voice out", "err", err)
	}
}

func (a *Assistant) ask(ctx context.Context, label string) (string, error) {
	return a.Prompter.Ask(ctx, label)
}

func (a *Assistant) confirm(ctx context.Context) (string, error) {
	resp, err := a.ask(ctx, "Y/N: ")
	return strings.ToLower(strings.TrimSpace(resp)), err
}
