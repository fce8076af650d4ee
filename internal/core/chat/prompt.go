package chat

import (
	"fmt"
	"regexp"
	"strings"

	"recipe-chat/internal/core/retrieval"
)

// NoMatchContext is the context string sent to the model when retrieval finds
// nothing above the relevance threshold.
const NoMatchContext = "No recipe in the database directly matches the ingredients the user listed."

// stepMarker splits numbered instruction text ("1. ... 2. ...") into steps.
var stepMarker = regexp.MustCompile(`\d+\.\s*`)

// SplitSteps breaks an instructions field into ordered step strings. The text
// before the first number marker is discarded (typically empty or a preamble).
// Instructions with no markers at all degrade to a single step.
func SplitSteps(instructions string) []string {
	parts := stepMarker.Split(instructions, -1)
	if len(parts) < 2 {
		trimmed := strings.TrimSpace(instructions)
		if trimmed == "" {
			return nil
		}
		return []string{trimmed}
	}

	var steps []string
	for _, p := range parts[1:] {
		if p = strings.TrimSpace(p); p != "" {
			steps = append(steps, p)
		}
	}
	return steps
}

// RenderRecipeBlock renders one retrieved recipe as a self-contained HTML
// fragment: heading, bulleted ingredients, numbered steps. The tags mirror the
// vocabulary the generation instruction asks the model to emit.
func RenderRecipeBlock(match retrieval.Match) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("<h3>%s</h3>", match.Recipe.Title))
	sb.WriteString(fmt.Sprintf("<p>%s</p>", match.Recipe.Ingredients))

	sb.WriteString("<b>Ingredients:</b>\n<ul><li>")
	sb.WriteString(strings.Join(strings.Split(match.Recipe.Ingredients, ", "), "</li><li>"))
	sb.WriteString("</li></ul>\n")

	sb.WriteString("<b>Instructions:</b>\n<ol><li>")
	sb.WriteString(strings.Join(SplitSteps(match.Recipe.Instructions), "</li><li>"))
	sb.WriteString("</li></ol>")

	return sb.String()
}

// ComposeContext renders the retrieved recipes (or the explicit no-match
// notice) into the textual context embedded in the generation prompt.
func ComposeContext(matches []retrieval.Match) string {
	if len(matches) == 0 {
		return NoMatchContext
	}

	blocks := make([]string, len(matches))
	for i, m := range matches {
		blocks[i] = RenderRecipeBlock(m)
	}
	return strings.Join(blocks, "\n<hr>\n")
}

// ComposePrompt embeds the retrieval context, the user's utterance and the
// output formatting instructions into a single generation prompt.
func ComposePrompt(userInput string, matches []retrieval.Match, topN int) string {
	context := ComposeContext(matches)

	if len(matches) == 0 {
		return fmt.Sprintf(
			"The user listed these ingredients: %q\n\n"+
				"Available recipes:\n%s\n\n"+
				"Since no recipe in the database matches these ingredients, let the user know, "+
				"and then suggest a general recipe idea or an alternative they could make with them. "+
				"Answer in a warm, encouraging tone. "+
				"Format the answer with HTML tags (h3, b, ul, li, ol).",
			userInput, context,
		)
	}

	return fmt.Sprintf(
		"The user listed these ingredients: %q\n\n"+
			"Using the recipes below as reference, suggest the ones that best fit the user's ingredients. "+
			"If you reuse a recipe as-is, keep its given structure. "+
			"If you invent a new idea, produce a recipe in the same format.\n\n"+
			"Available recipes:\n%s\n\n"+
			"Answer in a warm, encouraging tone. "+
			"Format each recipe with HTML tags: h3 for the title, b tags for the 'Ingredients:' and 'Instructions:' labels, "+
			"ul/li for the ingredient list and ol/li for the steps. "+
			"A short, friendly opening sentence is welcome, for example: 'Great choice! Let's see what we can cook with these...' "+
			"Suggest exactly %d recipe(s).",
		userInput, context, topN,
	)
}
