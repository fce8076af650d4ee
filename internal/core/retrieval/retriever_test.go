package retrieval

import (
	"os"
	"testing"

	"recipe-chat/internal/core/corpus"
	"recipe-chat/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	common.Logger = zap.NewNop()
	os.Exit(m.Run())
}

func newSampleRetriever(minScore float64) *Retriever {
	return NewRetriever(corpus.SampleRecipes(), minScore, 3)
}

func TestRetrieveRanksBestMatchFirst(t *testing.T) {
	r := newSampleRetriever(0.05)

	matches := r.Retrieve("chicken, bell pepper, onion", 3)
	require.NotEmpty(t, matches)
	assert.Equal(t, "Chicken Stir-fry", matches[0].Recipe.Title)
	assert.Greater(t, matches[0].Score, 0.05)

	for i := 1; i < len(matches); i++ {
		assert.GreaterOrEqual(t, matches[i-1].Score, matches[i].Score)
	}
}

func TestRetrieveNoOverlap(t *testing.T) {
	r := newSampleRetriever(0.01)

	matches := r.Retrieve("xyzzy quux", 3)
	assert.Empty(t, matches)
}

func TestRetrieveEmptyCorpus(t *testing.T) {
	r := NewRetriever(nil, 0.01, 3)

	assert.False(t, r.IndexBuilt())
	assert.Empty(t, r.Retrieve("chicken", 3))
	assert.Empty(t, r.Retrieve("", 1))
}

func TestRetrieveTopNContract(t *testing.T) {
	r := newSampleRetriever(0.0)

	for _, n := range []int{1, 2, 3} {
		matches := r.Retrieve("pasta carrot onion", n)
		assert.LessOrEqual(t, len(matches), n)
	}
}

func TestClampTopN(t *testing.T) {
	r := newSampleRetriever(0.01)

	tests := []struct {
		in, want int
	}{
		{0, 1},
		{-5, 1},
		{1, 1},
		{2, 2},
		{3, 3},
		{5, 3},
		{100, 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, r.ClampTopN(tt.in))
	}
}

func TestRetrieveClampsOutOfRangeTopN(t *testing.T) {
	r := newSampleRetriever(0.0)

	matches := r.Retrieve("pasta carrot onion tomato", 5)
	assert.LessOrEqual(t, len(matches), 3)
}

func TestThresholdMonotonicity(t *testing.T) {
	query := "pasta carrot onion"

	loose := newSampleRetriever(0.01).Retrieve(query, 3)
	strict := newSampleRetriever(0.2).Retrieve(query, 3)

	looseTitles := make(map[string]bool, len(loose))
	for _, m := range loose {
		looseTitles[m.Recipe.Title] = true
	}
	for _, m := range strict {
		assert.True(t, looseTitles[m.Recipe.Title],
			"recipe %q returned at strict threshold but not at loose", m.Recipe.Title)
	}
	assert.LessOrEqual(t, len(strict), len(loose))
}

func TestRetrieveStableTieBreak(t *testing.T) {
	recipes := []corpus.Recipe{
		{Title: "First", Ingredients: "Chicken, Rice", Instructions: "1. Cook.", NormalizedIngredients: "chicken rice"},
		{Title: "Second", Ingredients: "Chicken, Rice", Instructions: "1. Cook.", NormalizedIngredients: "chicken rice"},
		{Title: "Third", Ingredients: "Chicken, Rice", Instructions: "1. Cook.", NormalizedIngredients: "chicken rice"},
	}
	r := NewRetriever(recipes, 0.01, 3)

	matches := r.Retrieve("chicken rice", 3)
	require.Len(t, matches, 3)
	assert.Equal(t, "First", matches[0].Recipe.Title)
	assert.Equal(t, "Second", matches[1].Recipe.Title)
	assert.Equal(t, "Third", matches[2].Recipe.Title)
}
