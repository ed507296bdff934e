package assistant

import (
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"ruby/internal/actions"
)

var headerStyle = lipgloss.NewStyle().Bold(true)

func (a *Assistant) takeNote(ctx context.Context) error {
	a.say("Do you want to start a new session?")
	session, err := a.confirm(ctx)
	if err != nil {
		return err
	}

	path := a.Notebook.DefaultPath()
	if session == "y" {
		a.say("Starting new session.")
		name, err := a.ask(ctx, "file name: ")
		if err != nil {
			return err
		}
		if path, err = a.Notebook.Path(name); err != nil {
			a.say("Please enter a valid file name.")
			return nil
		}
	} else {
		a.say("Continuing in existing session.")
	}

	a.say("What should I write?")
	note, err := a.ask(ctx, "Note: ")
	if err != nil {
		return err
	}

	if err := a.Notebook.Append(path, note, a.Now()); err != nil {
		log.Error("Failed to save note", "path", path, "err", err)
		a.say("I couldn't save the note.")
		return nil
	}
	a.say("Note saved.")
	return nil
}

func (a *Assistant) clearNotes(ctx context.Context) error {
	a.say("Are you sure you want to clear all notes from " + a.Notebook.Default)
	resp, err := a.confirm(ctx)
	if err != nil {
		return err
	}

	switch resp {
	case "y":
		if err := a.Notebook.Clear(); err != nil {
			log.Error("Failed to clear notes", "err", err)
			a.say("I couldn't clear the note.")
			return nil
		}
		a.say("All notes have been cleared.")
	case "n":
		a.say("Ok, I won't clear notes.")
	default:
		a.say("Enter a valid input.")
	}
	return nil
}

func (a *Assistant) getTime(context.Context) error {
	a.say(fmt.Sprintf("The time is %s.", actions.TimeOfDay(a.Now())))
	return nil
}

func (a *Assistant) countdown(ctx context.Context) error {
	a.say("How long should I countdown?")
	input, err := a.ask(ctx, "Duration: ")
	if err != nil {
		return err
	}

	seconds, err := actions.ParseDuration(input)
	if err != nil {
		a.say("Please enter a valid number.")
		return nil
	}

	a.say(fmt.Sprintf("Starting countdown for %d seconds now.", seconds))
	err = a.Countdown.Run(ctx, seconds, func(remaining int) {
		a.say(strconv.Itoa(remaining))
	})
	if err != nil {
		return err
	}

	a.say("Time's up!")
	if a.Alarm != nil {
		if err := a.Alarm.Ring("Time's up!"); err != nil {
			log.Warn("Alarm failed", "err", err)
		}
	}
	return nil
}

func (a *Assistant) openApp(ctx context.Context) error {
	a.say("What app would you like for me to open for you?")
	name, err := a.ask(ctx, "App: ")
	if err != nil {
		return err
	}

	app, err := a.Apps.Lookup(name)
	if err != nil {
		a.say("Sorry, I don't know that app yet.")
		return nil
	}

	a.say(fmt.Sprintf("Opening %s.", app.Label))
	if err := actions.OpenApp(ctx, a.Launcher, app); err != nil {
		log.Error("Failed to open app", "app", app.Label, "err", err)
		a.say(fmt.Sprintf("I couldn't open %s.", app.Label))
	}
	return nil
}

func (a *Assistant) openFolder(ctx context.Context) error {
	a.say("What folder should I open?")
	folder, err := a.ask(ctx, "Folder: ")
	if err != nil {
		return err
	}

	path, err := actions.OpenFolder(ctx, a.Launcher, a.GOOS, a.Home, folder)
	switch {
	case errors.Is(err, actions.ErrEmptyName):
		a.say("Please enter a valid folder name.")
	case err != nil:
		log.Error("Failed to open folder", "path", path, "err", err)
		a.say("I couldn't open that folder.")
	default:
		a.say("Opening your folder.")
	}
	return nil
}

func (a *Assistant) delFiles(ctx context.Context) error {
	a.say("What files do you want me to delete?")
	name, err := a.ask(ctx, "File name: ")
	if err != nil {
		return err
	}
	if _, err := a.Notebook.Path(name); err != nil {
		a.say("Please enter a valid file name.")
		return nil
	}

	a.say("Are you sure you want to delete this file?")
	resp, err := a.confirm(ctx)
	if err != nil {
		return err
	}
	if resp != "y" {
		a.say("Ok, I won't delete any files.")
		return nil
	}

	if err := a.Notebook.Delete(name); err != nil {
		log.Error("Failed to delete file", "name", name, "err", err)
		a.say("Could not delete the file.")
		return nil
	}
	a.say("The file has been deleted.")
	return nil
}

func (a *Assistant) systemInfo(ctx context.Context) error {
	fmt.Fprintln(a.Out)
	fmt.Fprintln(a.Out, headerStyle.Render("=== System Info ==="))
	for _, f := range a.SystemInfo(ctx) {
		fmt.Fprintf(a.Out, "%s: %s\n", f.Key, f.Value)
	}
	fmt.Fprintln(a.Out, "=====================")
	return nil
}
