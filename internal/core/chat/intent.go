package chat

import (
	"fmt"
	"regexp"
	"strings"
)

// OffTopicMessage is returned when the intent gate rejects an utterance.
const OffTopicMessage = "Sorry, I can only help with food recipes. Please ask me something about cooking or ingredients. 🧑‍🍳"

// negativeToken matches the classifier's standalone negative answer. A word
// match keeps ordinary words like "not" or "know" from tripping the gate.
var negativeToken = regexp.MustCompile(`(?i)\bno\b`)

// IntentPrompt builds the one-shot classification prompt for an utterance.
func IntentPrompt(message string) string {
	return fmt.Sprintf(
		"The user said: %q. Is this request about food, recipes or ingredients? Answer with only YES or NO.",
		message,
	)
}

// IsFoodRelated interprets the classifier's reply. Only an explicit negative
// token rejects; ambiguous or malformed output passes, since a wrongly blocked
// food query hurts more than an off-topic one that retrieval will not match.
func IsFoodRelated(reply string) bool {
	return !negativeToken.MatchString(strings.TrimSpace(reply))
}
