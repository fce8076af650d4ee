package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocs() []string {
	return []string{
		"chicken bell pepper onion tomato spices",
		"lentil onion carrot tomato paste mint",
		"pasta mayonnaise peas carrot",
		"shrimp pasta garlic chili olive oil",
		"mixed vegetables coconut milk curry powder",
	}
}

func TestBuildEmptyCorpus(t *testing.T) {
	idx := Build(nil)
	assert.False(t, idx.Built())
	assert.Equal(t, 0, idx.Size())
	assert.Nil(t, idx.Scores("chicken"))
}

func TestBuildDeterminism(t *testing.T) {
	a := Build(sampleDocs())
	b := Build(sampleDocs())

	require.Equal(t, a.VocabularySize(), b.VocabularySize())
	assert.Equal(t, a.vocab, b.vocab)
	assert.Equal(t, a.idf, b.idf)
	assert.Equal(t, a.docs, b.docs)
}

func TestScoresRange(t *testing.T) {
	idx := Build(sampleDocs())
	require.True(t, idx.Built())

	scores := idx.Scores("chicken bell pepper onion")
	require.Len(t, scores, 5)
	for i, s := range scores {
		assert.GreaterOrEqual(t, s, 0.0, "score %d below range", i)
		assert.LessOrEqual(t, s, 1.0, "score %d above range", i)
	}
}

func TestScoresIdenticalDocument(t *testing.T) {
	idx := Build(sampleDocs())

	// Querying with a document's own text must rank that document highest,
	// with a cosine of 1 against itself.
	scores := idx.Scores("chicken bell pepper onion tomato spices")
	best := 0
	for i, s := range scores {
		if s > scores[best] {
			best = i
		}
	}
	assert.Equal(t, 0, best)
	assert.InDelta(t, 1.0, scores[0], 1e-9)
}

func TestScoresOutOfVocabulary(t *testing.T) {
	idx := Build(sampleDocs())

	scores := idx.Scores("xyzzy quux")
	require.Len(t, scores, 5)
	for _, s := range scores {
		assert.Zero(t, s)
	}
}

func TestScoresPartialOverlap(t *testing.T) {
	idx := Build(sampleDocs())

	scores := idx.Scores("chicken, bell pepper, onion")
	assert.Greater(t, scores[0], 0.5, "stir-fry document should dominate")
	for i := 1; i < len(scores); i++ {
		assert.Less(t, scores[i], scores[0])
	}
}

func TestCommonTermsDownWeighted(t *testing.T) {
	// "onion" appears in two documents, "chicken" in one; a chicken query
	// must score the chicken document higher than an onion query scores
	// either onion document.
	idx := Build(sampleDocs())

	chicken := idx.Scores("chicken")
	onion := idx.Scores("onion")
	assert.Greater(t, chicken[0], onion[0])
	assert.Greater(t, chicken[0], onion[1])
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"lowercases", "Chicken PEPPER", []string{"chicken", "pepper"}},
		{"strips punctuation", "chicken, bell-pepper; onion!", []string{"chicken", "bell", "pepper", "onion"}},
		{"drops single letters", "a b chicken", []string{"chicken"}},
		{"empty", "", nil},
		{"only punctuation", "- , .", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.in))
		})
	}
}
