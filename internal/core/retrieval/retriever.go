// Package retrieval ranks corpus recipes against free-text ingredient queries.
package retrieval

import (
	"sort"

	"recipe-chat/internal/core/corpus"
	"recipe-chat/internal/core/index"
	"recipe-chat/internal/pkg/common"

	"go.uber.org/zap"
)

// Match is a retrieved recipe with its similarity score.
type Match struct {
	Recipe corpus.Recipe
	Score  float64
}

// Retriever queries a similarity index over an immutable corpus snapshot.
// Purely a read path, safe for concurrent use after construction.
type Retriever struct {
	recipes  []corpus.Recipe
	index    *index.Index
	minScore float64
	maxTopN  int
}

// NewRetriever builds a retriever and its index over the given recipes.
func NewRetriever(recipes []corpus.Recipe, minScore float64, maxTopN int) *Retriever {
	docs := make([]string, len(recipes))
	for i, r := range recipes {
		docs[i] = r.NormalizedIngredients
	}

	idx := index.Build(docs)
	if !idx.Built() {
		common.LogWarn("Corpus is empty, similarity index not built")
	} else {
		common.LogInfo("Similarity index built",
			zap.Int("documents", idx.Size()),
			zap.Int("vocabulary", idx.VocabularySize()),
		)
	}

	return &Retriever{
		recipes:  recipes,
		index:    idx,
		minScore: minScore,
		maxTopN:  maxTopN,
	}
}

// IndexBuilt reports whether the similarity index could be built.
func (r *Retriever) IndexBuilt() bool {
	return r.index.Built()
}

// CorpusSize returns the number of recipes behind the retriever.
func (r *Retriever) CorpusSize() int {
	return len(r.recipes)
}

// ClampTopN forces n into the supported [1, max] range, substituting 1 for
// non-positive input.
func (r *Retriever) ClampTopN(n int) int {
	if n < 1 {
		return 1
	}
	if n > r.maxTopN {
		return r.maxTopN
	}
	return n
}

// Retrieve returns up to topN recipes whose similarity to the query clears the
// relevance threshold, sorted by descending score with ties kept in corpus
// order. An empty result is the normal no-match outcome, never an error.
func (r *Retriever) Retrieve(query string, topN int) []Match {
	topN = r.ClampTopN(topN)

	scores := r.index.Scores(query)
	if len(scores) == 0 {
		return nil
	}

	var matches []Match
	for i, score := range scores {
		if score > r.minScore {
			matches = append(matches, Match{Recipe: r.recipes[i], Score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if len(matches) > topN {
		matches = matches[:topN]
	}
	return matches
}
