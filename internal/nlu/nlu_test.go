package nlu

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOracle struct {
	answer  string
	err     error
	panics  bool
	block   bool
	prompts []string
}

func (f *fakeOracle) Classify(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.panics {
		panic("boom")
	}
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.answer, f.err
}

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"  What TIME   is\tit \n": "what time is it",
		"":                       "",
		"   ":                    "",
		"Take a note":            "take a note",
	}
	for in, want := range cases {
		assert.Equal(t, want, Normalize(in), "input %q", in)
	}
}

func TestMatchPhraseWordBoundary(t *testing.T) {
	v, err := NewVocabulary([]Entry{{Intent: "take_note", Phrases: []string{"note"}}})
	require.NoError(t, err)

	_, ok := MatchPhrase("open my notebook", v)
	assert.False(t, ok, "note must not match inside notebook")

	id, ok := MatchPhrase("take a note now", v)
	require.True(t, ok)
	assert.Equal(t, Intent("take_note"), id)

	id, ok = MatchPhrase("note", v)
	require.True(t, ok, "string edges count as boundaries")
	assert.Equal(t, Intent("take_note"), id)
}

func TestMatchPhraseLongestFirst(t *testing.T) {
	v, err := NewVocabulary([]Entry{{Intent: Countdown, Phrases: []string{"countdown", "start countdown"}}})
	require.NoError(t, err)

	assert.Equal(t, []string{"start countdown", "countdown"}, v.Phrases(Countdown))

	id, ok := MatchPhrase("please start countdown now", v)
	require.True(t, ok)
	assert.Equal(t, Countdown, id)
}

func TestMatchPhraseDeclarationOrderWins(t *testing.T) {
	v, err := NewVocabulary([]Entry{
		{Intent: "first", Phrases: []string{"time"}},
		{Intent: "second", Phrases: []string{"current time"}},
	})
	require.NoError(t, err)

	id, ok := MatchPhrase("what is the current time", v)
	require.True(t, ok)
	assert.Equal(t, Intent("first"), id)
}

func TestMatchPhraseDefaults(t *testing.T) {
	v := DefaultVocabulary()
	cases := []struct {
		in   string
		want Intent
	}{
		{"please take a note", TakeNote},
		{"clear notes now", ClearNotes},
		{"Tell me the TIME", GetTime},
		{"could you   set timer", Countdown},
		{"launch app please", OpenApp},
		{"explore directory", OpenFolder},
		{"erase file", DelFiles},
		{"please tell me system info", GetSystemInfo},
	}
	for _, tc := range cases {
		id, ok := MatchPhrase(tc.in, v)
		require.True(t, ok, tc.in)
		assert.Equal(t, tc.want, id, tc.in)
	}

	_, ok := MatchPhrase("sing me a song", v)
	assert.False(t, ok)
}

func TestMatchSubstring(t *testing.T) {
	v := DefaultVocabulary()

	id, ok := MatchSubstring("give me get_system_info please", v)
	require.True(t, ok)
	assert.Equal(t, GetSystemInfo, id)

	id, ok = MatchSubstring("get system info for me", v)
	require.True(t, ok)
	assert.Equal(t, GetSystemInfo, id)

	id, ok = MatchSubstring("countdowns", v)
	require.True(t, ok, "no word boundary is required")
	assert.Equal(t, Countdown, id)
}

func TestNormalizeAnswer(t *testing.T) {
	cases := map[string]Intent{
		" Get_Time \n":  "get_time",
		"get time":      "get_time",
		"get-time":      "get_time",
		"'open_folder'": "open_folder",
		"play music":    "play_music",
		"unknown":       "unknown",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeAnswer(in), "answer %q", in)
	}
}

func TestNewVocabularyValidation(t *testing.T) {
	_, err := NewVocabulary(nil)
	assert.ErrorIs(t, err, ErrEmptyVocabulary)

	_, err = NewVocabulary([]Entry{{Intent: "get time", Phrases: []string{"x"}}})
	assert.ErrorIs(t, err, ErrInvalidIntent)

	_, err = NewVocabulary([]Entry{{Intent: "unknown", Phrases: []string{"x"}}})
	assert.ErrorIs(t, err, ErrInvalidIntent)

	_, err = NewVocabulary([]Entry{
		{Intent: "a", Phrases: []string{"x"}},
		{Intent: "A", Phrases: []string{"y"}},
	})
	assert.ErrorIs(t, err, ErrDuplicateIntent)

	_, err = NewVocabulary([]Entry{{Intent: "a", Phrases: []string{"  ", ""}}})
	assert.ErrorIs(t, err, ErrNoPhrases)
}

func TestVocabularyIsImmutable(t *testing.T) {
	entries := DefaultEntries()
	v, err := NewVocabulary(entries)
	require.NoError(t, err)

	entries[0].Phrases[0] = "mutated"
	v.Phrases(TakeNote)[0] = "mutated"
	v.Intents()[0] = "mutated"

	assert.NotContains(t, v.Phrases(TakeNote), "mutated")
	assert.Equal(t, TakeNote, v.Intents()[0])
}

func TestClassificationPromptEnumeratesAllIntents(t *testing.T) {
	v := DefaultVocabulary()
	prompt := ClassificationPrompt("  Play  Some MUSIC ", v)

	assert.Contains(t, prompt, `"play some music"`)
	for _, id := range v.Intents() {
		assert.Contains(t, prompt, "'"+string(id)+"'")
	}
	assert.Equal(t, v.Len(), strings.Count(prompt, "', '")+1)
}

func TestResolveEndToEndWithoutOracle(t *testing.T) {
	r := NewResolver(DefaultVocabulary())

	res := r.Resolve(context.Background(), "please tell me system info")
	assert.Equal(t, Result{Intent: GetSystemInfo, Stage: StagePhrase}, res)

	res = r.Resolve(context.Background(), "give me get_system_info please")
	assert.Equal(t, GetSystemInfo, res.Intent)
	assert.Equal(t, StageSubstring, res.Stage)
	assert.Equal(t, OracleSkipped, res.Oracle)

	res = r.Resolve(context.Background(), "sing me a song")
	assert.False(t, res.Matched())
}

func TestResolveFallbackDisabledSkipsOracle(t *testing.T) {
	orders := map[string]func(o Oracle) []Option{
		"oracle first":   func(o Oracle) []Option { return []Option{WithOracle(o), WithFallback(false)} },
		"fallback first": func(o Oracle) []Option { return []Option{WithFallback(false), WithOracle(o)} },
	}
	for name, opts := range orders {
		t.Run(name, func(t *testing.T) {
			o := &fakeOracle{answer: "get_time"}
			r := NewResolver(DefaultVocabulary(), opts(o)...)

			assert.False(t, r.FallbackEnabled())
			res := r.Resolve(context.Background(), "what's the hour")
			assert.False(t, res.Matched())
			assert.Equal(t, OracleSkipped, res.Oracle)
			assert.Empty(t, o.prompts)
		})
	}
}

func TestResolveFallbackFlagNeedsOracle(t *testing.T) {
	assert.False(t, NewResolver(DefaultVocabulary(), WithFallback(true)).FallbackEnabled())
	assert.True(t, NewResolver(DefaultVocabulary(), WithFallback(true), WithOracle(&fakeOracle{})).FallbackEnabled())
	assert.True(t, NewResolver(DefaultVocabulary(), WithOracle(&fakeOracle{})).FallbackEnabled())
}

func TestResolveOracleAccepted(t *testing.T) {
	o := &fakeOracle{answer: "  Take Note\n"}
	r := NewResolver(DefaultVocabulary(), WithOracle(o))

	res := r.Resolve(context.Background(), "something ambiguous")
	assert.Equal(t, TakeNote, res.Intent)
	assert.Equal(t, StageOracle, res.Stage)
	assert.Equal(t, OracleAccepted, res.Oracle)
	require.Len(t, o.prompts, 1)
	assert.Contains(t, o.prompts[0], `"something ambiguous"`)
}

func TestResolvePhraseMatchNeverCallsOracle(t *testing.T) {
	o := &fakeOracle{answer: "open_app"}
	r := NewResolver(DefaultVocabulary(), WithOracle(o))

	res := r.Resolve(context.Background(), "current time please")
	assert.Equal(t, GetTime, res.Intent)
	assert.Empty(t, o.prompts)
}

func TestResolveOracleAnswerOutsideVocabulary(t *testing.T) {
	o := &fakeOracle{answer: "play music"}
	r := NewResolver(DefaultVocabulary(), WithOracle(o))

	res := r.Resolve(context.Background(), "play music in my open_folder")
	assert.Equal(t, OracleRejected, res.Oracle)
	assert.Equal(t, Intent("play_music"), res.Answer)
	assert.Equal(t, StageSubstring, res.Stage)
	assert.Equal(t, OpenFolder, res.Intent)

	res = r.Resolve(context.Background(), "play music")
	assert.False(t, res.Matched())
	assert.Equal(t, OracleRejected, res.Oracle)
}

func TestResolveOracleLiteralUnknownIsRejectedNotFailed(t *testing.T) {
	r := NewResolver(DefaultVocabulary(), WithOracle(&fakeOracle{answer: "unknown"}))

	res := r.Resolve(context.Background(), "hmm")
	assert.False(t, res.Matched())
	assert.Equal(t, OracleRejected, res.Oracle)
}

func TestResolveOracleFailureFallsThrough(t *testing.T) {
	for name, o := range map[string]*fakeOracle{
		"error": {err: errors.New("connection refused")},
		"panic": {panics: true},
	} {
		t.Run(name, func(t *testing.T) {
			r := NewResolver(DefaultVocabulary(), WithOracle(o))

			var res Result
			require.NotPanics(t, func() {
				res = r.Resolve(context.Background(), "could you get time")
			})
			assert.Equal(t, OracleFailed, res.Oracle)
			assert.Equal(t, GetTime, res.Intent)
			assert.Equal(t, StageSubstring, res.Stage)
		})
	}
}

func TestResolveOracleTimeout(t *testing.T) {
	o := &fakeOracle{block: true}
	r := NewResolver(DefaultVocabulary(), WithOracle(o), WithTimeout(20*time.Millisecond))

	start := time.Now()
	res := r.Resolve(context.Background(), "hmm")
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Equal(t, OracleFailed, res.Oracle)
	assert.False(t, res.Matched())
}
