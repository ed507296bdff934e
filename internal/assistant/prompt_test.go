package assistant

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinePrompterReadsLines(t *testing.T) {
	p := NewLinePrompter(strings.NewReader("first\r\n\nlast"), io.Discard)
	ctx := context.Background()

	for _, want := range []string{"first", "", "last"} {
		got, err := p.Ask(ctx, "> ")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := p.Ask(ctx, "> ")
	assert.ErrorIs(t, err, io.EOF)
	_, err = p.Ask(ctx, "> ")
	assert.ErrorIs(t, err, io.EOF)
}

func TestLinePrompterAcceptsLongLines(t *testing.T) {
	long := strings.Repeat("a", 200<<10)
	p := NewLinePrompter(strings.NewReader(long+"\n"), io.Discard)

	got, err := p.Ask(context.Background(), "> ")
	require.NoError(t, err)
	assert.Len(t, got, len(long))
}

func TestLinePrompterSkipsOversizedLine(t *testing.T) {
	huge := strings.Repeat("a", MaxLineBytes+1)
	p := NewLinePrompter(strings.NewReader(huge+"\nnext\n"), io.Discard)

	got, err := p.Ask(context.Background(), "> ")
	require.NoError(t, err)
	assert.Equal(t, "next", got)
}

func TestRunSurvivesOversizedLine(t *testing.T) {
	h := newHarness(t, strings.Repeat("x", MaxLineBytes+10)+"\nwhat time is it\n")
	h.run(t)
	assert.Equal(t, []string{"Hi, I am Ruby.", "The time is 03:04 PM."}, h.speech.said)
}
