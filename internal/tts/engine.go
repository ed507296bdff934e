package tts

import (
	"errors"
	"fmt"
	"os/exec"
	"strconv"
)

var ErrNoEngine = errors.New("speech engine not installed")

type Runner func(name string, args ...string) error

func execRunner(name string, args ...string) error {
	return exec.Command(name, args...).Run()
}

// Engine drives an external synthesizer binary.
type Engine struct {
	Name  string
	Rate  int
	Voice string

	run      Runner
	lookPath func(string) (string, error)
}

func NewEngine(name string, rate int, voice string) *Engine {
	return &Engine{
		Name:     name,
		Rate:     rate,
		Voice:    voice,
		run:      execRunner,
		lookPath: exec.LookPath,
	}
}

func (e *Engine) Available() bool {
	_, err := e.lookPath(e.Name)
	return err == nil
}

func (e *Engine) Args(text string) []string {
	var args []string
	switch e.Name {
	case "espeak-ng", "espeak":
		if e.Rate > 0 {
			args = append(args, "-s", strconv.Itoa(e.Rate))
		}
		if e.Voice != "" {
			args = append(args, "-v", e.Voice)
		}
		return append(args, "--", text)
	case "say":
		if e.Rate > 0 {
			args = append(args, "-r", strconv.Itoa(e.Rate))
		}
		if e.Voice != "" {
			args = append(args, "-v", e.Voice)
		}
	case "spd-say":
		args = append(args, "-w")
	}
	return append(args, text)
}

func (e *Engine) Speak(text string) error {
	if !e.Available() {
		return fmt.Errorf("%s: %w", e.Name, ErrNoEngine)
	}
	if err := e.run(e.Name, e.Args(text)...); err != nil {
		return fmt.Errorf("%s: %w", e.Name, err)
	}
	return nil
}
