package nlu

import (
	"fmt"
	"strings"
)

const promptTemplate = `You are a command classifier for a virtual assistant.
User says: "%s"
Match it to one of these commands: [%s].
Respond with only the command key (e.g., '%s') or 'unknown'.
`

// ClassificationPrompt enumerates every intent of v, in declaration order.
func ClassificationPrompt(text string, v Vocabulary) string {
	ids := v.Intents()
	quoted := make([]string, len(ids))
	for i, id := range ids {
		quoted[i] = "'" + string(id) + "'"
	}

	example := reservedIntent
	switch {
	case v.Contains(GetTime):
		example = string(GetTime)
	case len(ids) > 0:
		example = string(ids[0])
	}

	return fmt.Sprintf(promptTemplate, Normalize(text), strings.Join(quoted, ", "), example)
}
