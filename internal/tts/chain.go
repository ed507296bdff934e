package tts

import (
	"fmt"
	"io"
	log "log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

type Speaker interface {
	Speak(text string) error
}

var nameStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("204"))

// Console prints what would have been said.
type Console struct {
	Out  io.Writer
	Name string
}

func (c Console) Speak(text string) error {
	_, err := fmt.Fprintf(c.Out, "%s %s\n", nameStyle.Render(c.Name+":"), text)
	return err
}

// Chain speaks each "|"-separated segment with the first voice that works and
// falls back to the console. With Echo set the console line is always printed
// and voices are best effort.
type Chain struct {
	Voices  []Speaker
	Console Speaker
	Echo    bool
	Pause   time.Duration

	sleep func(time.Duration)
}

func NewChain(console Speaker, voices ...Speaker) *Chain {
	return &Chain{Voices: voices, Console: console, Echo: true, sleep: time.Sleep}
}

func Segments(text string) []string {
	var out []string
	for _, s := range strings.Split(text, "|") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (c *Chain) Speak(text string) error {
	segs := Segments(text)
	if len(segs) == 0 {
		return nil
	}

	if c.Echo {
		c.print(strings.Join(segs, " "))
	}

	for i, seg := range segs {
		if !c.voice(seg) && !c.Echo {
			c.print(seg)
		}
		if c.Pause > 0 && i < len(segs)-1 {
			c.wait()
		}
	}
	return nil
}

func (c *Chain) wait() {
	if c.sleep == nil {
		c.sleep = time.Sleep
	}
	c.sleep(c.Pause)
}

func (c *Chain) voice(text string) bool {
	for _, v := range c.Voices {
		err := v.Speak(text)
		if err == nil {
			return true
		}
		log.Debug("Voice failed, trying next", "err", err)
	}
	return false
}

func (c *Chain) print(text string) {
	if c.Console == nil {
		return
	}
	if err := c.Console.Speak(text); err != nil {
		log.Error("Failed to print", "err", err)
	}
}
