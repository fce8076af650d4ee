package chat

import (
	"strings"
	"testing"

	"recipe-chat/internal/core/corpus"
	"recipe-chat/internal/core/retrieval"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stirFryMatch() retrieval.Match {
	return retrieval.Match{
		Recipe: corpus.SampleRecipes()[0],
		Score:  0.8,
	}
}

func TestSplitSteps(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			"numbered",
			"1. Chop onions. 2. Fry them. 3. Serve.",
			[]string{"Chop onions.", "Fry them.", "Serve."},
		},
		{
			"preamble discarded",
			"Prep first. 1. Chop. 2. Cook.",
			[]string{"Chop.", "Cook."},
		},
		{
			"unnumbered degrades to single step",
			"Mix everything and bake until golden.",
			[]string{"Mix everything and bake until golden."},
		},
		{
			"empty",
			"",
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitSteps(tt.in))
		})
	}
}

func TestRenderRecipeBlock(t *testing.T) {
	block := RenderRecipeBlock(stirFryMatch())

	assert.Contains(t, block, "<h3>Chicken Stir-fry</h3>")
	assert.Contains(t, block, "<b>Ingredients:</b>")
	assert.Contains(t, block, "<li>Chicken</li>")
	assert.Contains(t, block, "<li>Bell Pepper</li>")
	assert.Contains(t, block, "<b>Instructions:</b>")
	assert.Contains(t, block, "<ol><li>Stir-fry chicken, bell pepper and onion.</li>")
	// Normalized ingredients never leak into user-visible text.
	assert.NotContains(t, block, "chicken bell pepper onion tomato spices")
}

func TestComposeContextEmpty(t *testing.T) {
	assert.Equal(t, NoMatchContext, ComposeContext(nil))
}

func TestComposeContextJoinsBlocks(t *testing.T) {
	matches := []retrieval.Match{
		{Recipe: corpus.SampleRecipes()[0], Score: 0.8},
		{Recipe: corpus.SampleRecipes()[1], Score: 0.4},
	}

	context := ComposeContext(matches)
	assert.Contains(t, context, "<h3>Chicken Stir-fry</h3>")
	assert.Contains(t, context, "<h3>Lentil Soup</h3>")
	assert.Equal(t, 1, strings.Count(context, "\n<hr>\n"))
}

func TestComposePromptNoMatch(t *testing.T) {
	prompt := ComposePrompt("chicken, rice", nil, 1)

	assert.Contains(t, prompt, NoMatchContext)
	assert.Contains(t, prompt, `"chicken, rice"`)
	assert.Contains(t, prompt, "no recipe in the database matches")
	assert.Contains(t, prompt, "h3, b, ul, li, ol")
}

func TestComposePromptWithMatches(t *testing.T) {
	prompt := ComposePrompt("chicken, bell pepper", []retrieval.Match{stirFryMatch()}, 2)

	require.Contains(t, prompt, "<h3>Chicken Stir-fry</h3>")
	assert.Contains(t, prompt, `"chicken, bell pepper"`)
	assert.Contains(t, prompt, "keep its given structure")
	assert.Contains(t, prompt, "Suggest exactly 2 recipe(s).")
	assert.NotContains(t, prompt, NoMatchContext)
}
