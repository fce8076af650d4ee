// Package index implements the TF-IDF similarity index over the recipe corpus.
// Weighting matches the corpus-fit vectorizer the dataset was tuned against:
// raw term frequency scaled by a smoothed inverse document frequency
// (ln((1+n)/(1+df)) + 1), with every document vector l2-normalized so cosine
// similarity reduces to a dot product in [0,1].
package index

import (
	"math"
	"strings"
	"unicode"
)

// Index is a read-only TF-IDF index built once over the corpus. An Index built
// from zero documents stays unbuilt and scores every query as empty.
type Index struct {
	vocab map[string]int
	idf   []float64
	docs  []map[int]float64 // l2-normalized rows, one per corpus document
	built bool
}

// Build constructs an index from normalized ingredient strings, one per recipe
// in corpus order.
func Build(documents []string) *Index {
	if len(documents) == 0 {
		return &Index{}
	}

	idx := &Index{
		vocab: make(map[string]int),
		built: true,
	}

	// Term counts per document; vocabulary in first-seen order for determinism.
	counts := make([]map[int]float64, len(documents))
	docFreq := make(map[int]int)
	for i, doc := range documents {
		tf := make(map[int]float64)
		for _, term := range Tokenize(doc) {
			id, ok := idx.vocab[term]
			if !ok {
				id = len(idx.vocab)
				idx.vocab[term] = id
			}
			tf[id]++
		}
		for id := range tf {
			docFreq[id]++
		}
		counts[i] = tf
	}

	n := float64(len(documents))
	idx.idf = make([]float64, len(idx.vocab))
	for id := range idx.idf {
		idx.idf[id] = math.Log((1+n)/(1+float64(docFreq[id]))) + 1
	}

	idx.docs = make([]map[int]float64, len(documents))
	for i, tf := range counts {
		row := make(map[int]float64, len(tf))
		for id, count := range tf {
			row[id] = count * idx.idf[id]
		}
		normalize(row)
		idx.docs[i] = row
	}

	return idx
}

// Built reports whether the index holds a weight matrix.
func (idx *Index) Built() bool {
	return idx != nil && idx.built
}

// Size returns the number of indexed documents.
func (idx *Index) Size() int {
	if idx == nil {
		return 0
	}
	return len(idx.docs)
}

// VocabularySize returns the number of distinct terms.
func (idx *Index) VocabularySize() int {
	if idx == nil {
		return 0
	}
	return len(idx.vocab)
}

// Scores projects free text into the index vocabulary and returns the cosine
// similarity against every document, one score per corpus row in [0,1].
// Out-of-vocabulary terms contribute nothing. An unbuilt index returns nil.
func (idx *Index) Scores(query string) []float64 {
	if !idx.Built() {
		return nil
	}

	vec := make(map[int]float64)
	for _, term := range Tokenize(query) {
		if id, ok := idx.vocab[term]; ok {
			vec[id]++
		}
	}
	for id := range vec {
		vec[id] *= idx.idf[id]
	}
	normalize(vec)

	scores := make([]float64, len(idx.docs))
	if len(vec) == 0 {
		return scores
	}
	for i, row := range idx.docs {
		scores[i] = dot(vec, row)
	}
	return scores
}

// Tokenize lowercases text and splits it into alphanumeric terms of two or
// more characters, dropping punctuation and single-letter noise.
func Tokenize(text string) []string {
	var terms []string
	var sb strings.Builder
	flush := func() {
		if sb.Len() >= 2 {
			terms = append(terms, sb.String())
		}
		sb.Reset()
	}
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return terms
}

func normalize(vec map[int]float64) {
	var sum float64
	for _, w := range vec {
		sum += w * w
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for id := range vec {
		vec[id] /= norm
	}
}

func dot(a, b map[int]float64) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var sum float64
	for id, w := range a {
		sum += w * b[id]
	}
	// Guard against float drift past the cosine bound.
	if sum > 1 {
		sum = 1
	}
	return sum
}
