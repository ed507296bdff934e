package nlu

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
)

type Intent string

const (
	TakeNote      Intent = "take_note"
	ClearNotes    Intent = "clear_notes"
	OpenApp       Intent = "open_app"
	GetTime       Intent = "get_time"
	Countdown     Intent = "countdown"
	OpenFolder    Intent = "open_folder"
	DelFiles      Intent = "del_files"
	GetSystemInfo Intent = "get_system_info"
)

// Reserved for the oracle failure sentinel, never a valid intent.
const reservedIntent = "unknown"

var intentRe = regexp.MustCompile(`^[a-z0-9_]+$`)

var (
	ErrEmptyVocabulary = errors.New("vocabulary has no intents")
	ErrInvalidIntent   = errors.New("invalid intent identifier")
	ErrDuplicateIntent = errors.New("duplicate intent identifier")
	ErrNoPhrases       = errors.New("intent has no trigger phrases")
)

type Entry struct {
	Intent  Intent
	Phrases []string
}

// Vocabulary is the ordered intent -> phrases mapping. It is built once and
// never mutated; accessors hand out copies.
type Vocabulary struct {
	entries []Entry
	index   map[Intent]int
}

func NewVocabulary(entries []Entry) (Vocabulary, error) {
	if len(entries) == 0 {
		return Vocabulary{}, ErrEmptyVocabulary
	}

	v := Vocabulary{
		entries: make([]Entry, 0, len(entries)),
		index:   make(map[Intent]int, len(entries)),
	}

	for _, e := range entries {
		id := Intent(Normalize(string(e.Intent)))
		if !intentRe.MatchString(string(id)) || id == reservedIntent {
			return Vocabulary{}, fmt.Errorf("%w: %q", ErrInvalidIntent, e.Intent)
		}
		if _, ok := v.index[id]; ok {
			return Vocabulary{}, fmt.Errorf("%w: %q", ErrDuplicateIntent, id)
		}

		phrases := make([]string, 0, len(e.Phrases))
		for _, p := range e.Phrases {
			if p = Normalize(p); p != "" {
				phrases = append(phrases, p)
			}
		}
		if len(phrases) == 0 {
			return Vocabulary{}, fmt.Errorf("%w: %q", ErrNoPhrases, id)
		}

		// longest first, declaration order among equals
		sort.SliceStable(phrases, func(i, j int) bool {
			return len(phrases[i]) > len(phrases[j])
		})

		v.index[id] = len(v.entries)
		v.entries = append(v.entries, Entry{Intent: id, Phrases: phrases})
	}

	return v, nil
}

func DefaultVocabulary() Vocabulary {
	v, err := NewVocabulary(DefaultEntries())
	if err != nil {
		panic(fmt.Sprintf("default vocabulary: %v", err))
	}
	return v
}

func DefaultEntries() []Entry {
	return []Entry{
		{TakeNote, []string{"take a note", "make a note", "note down", "write down", "remember this", "jot this down"}},
		{ClearNotes, []string{"clear notes", "delete notes", "erase notes", "remove all notes", "reset notes"}},
		{OpenApp, []string{"open app", "launch app", "start app", "run app", "execute app"}},
		{GetTime, []string{"what time is it", "current time", "tell me the time"}},
		{Countdown, []string{"set timer", "start timer", "countdown", "start countdown"}},
		{OpenFolder, []string{"open folder", "show folder", "explore folder", "open directory", "explore directory"}},
		{DelFiles, []string{"delete file", "remove file", "erase file"}},
		{GetSystemInfo, []string{"system info", "device info", "system status", "computer info"}},
	}
}

func (v Vocabulary) Len() int { return len(v.entries) }

func (v Vocabulary) Contains(id Intent) bool {
	_, ok := v.index[id]
	return ok
}

// Intents returns identifiers in declaration order.
func (v Vocabulary) Intents() []Intent {
	out := make([]Intent, len(v.entries))
	for i, e := range v.entries {
		out[i] = e.Intent
	}
	return out
}

// Phrases returns the trigger phrases of id, longest first.
func (v Vocabulary) Phrases(id Intent) []string {
	i, ok := v.index[id]
	if !ok {
		return nil
	}
	return append([]string(nil), v.entries[i].Phrases...)
}
