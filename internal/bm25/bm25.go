// Package bm25 implements an Okapi BM25 full-text index and search over
// a small, in-memory document set: the merged skill index. It is a
// direct port of the registry's own inverted-index/tokenizer/stemmer
// design, adapted from JSON documents to the fixed Document shape this
// repo actually indexes (see internal/search).
package bm25

import (
	"math"
	"sort"
	"strings"
)

// Document is a single record to index. If Options.Fields is empty, Text
// is indexed as-is; otherwise each named field in Fields is indexed and
// concatenated into the document's token stream.
type Document struct {
	ID     string
	Text   string
	Fields map[string]string
}

// IndexOptions configures tokenization and the BM25 k1/b parameters.
type IndexOptions struct {
	// Fields to index; empty means treat Document.Text as the whole text.
	Fields []string
	// Lowercase normalizes case before tokenizing. Default true.
	Lowercase bool
	// Stopwords are excluded from indexing.
	Stopwords []string
	// K1 is the term-frequency saturation parameter (default 1.2).
	K1 float64
	// B is the length-normalization parameter (default 0.75).
	B float64
}

// DefaultOptions returns the registry's standard BM25 parameters.
func DefaultOptions() IndexOptions {
	return IndexOptions{Lowercase: true, K1: 1.2, B: 0.75}
}

type docInfo struct {
	length int
}

type termInfo struct {
	df       int
	postings map[string]int // doc id -> term frequency
}

// Index is a built, queryable BM25 index.
type Index struct {
	options      IndexOptions
	docCount     int
	avgDocLength float64
	docs         map[string]docInfo
	terms        map[string]*termInfo
}

// Build constructs an Index from docs.
func Build(docs []Document, options IndexOptions) *Index {
	idx := &Index{
		options: options,
		docs:    map[string]docInfo{},
		terms:   map[string]*termInfo{},
	}

	totalLength := 0
	for _, doc := range docs {
		tokens := idx.tokenizeDoc(doc)
		length := len(tokens)
		totalLength += length
		idx.docs[doc.ID] = docInfo{length: length}

		freqs := map[string]int{}
		for _, tok := range tokens {
			freqs[tok]++
		}
		for term, freq := range freqs {
			ti, ok := idx.terms[term]
			if !ok {
				ti = &termInfo{postings: map[string]int{}}
				idx.terms[term] = ti
			}
			ti.df++
			ti.postings[doc.ID] = freq
		}
		idx.docCount++
	}

	if idx.docCount > 0 {
		idx.avgDocLength = float64(totalLength) / float64(idx.docCount)
	}
	return idx
}

func (idx *Index) tokenizeDoc(doc Document) []string {
	if len(idx.options.Fields) == 0 {
		return idx.TokenizeText(doc.Text)
	}

	var tokens []string
	for _, field := range idx.options.Fields {
		if text, ok := doc.Fields[field]; ok {
			tokens = append(tokens, idx.TokenizeText(text)...)
		}
	}
	return tokens
}

// TokenizeText splits text into normalized, stemmed tokens: lowercased
// (unless disabled), split on any rune that is not alphanumeric or '_',
// empties and stopwords dropped, each surviving token run through the
// naive plural stemmer.
func (idx *Index) TokenizeText(text string) []string {
	if idx.options.Lowercase {
		text = strings.ToLower(text)
	}

	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !isWordRune(r)
	})

	stop := make(map[string]bool, len(idx.options.Stopwords))
	for _, w := range idx.options.Stopwords {
		stop[w] = true
	}

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if f == "" || stop[f] {
			continue
		}
		tokens = append(tokens, stemSimple(f))
	}
	return tokens
}

func isWordRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_'
}

// stemSimple is a naive English plural stemmer: it improves recall for
// plural/singular matching without the complexity of a full Porter
// stemmer. Rules are checked in order, first match wins.
func stemSimple(term string) string {
	n := len(term)
	if n < 3 {
		return term
	}

	if n > 3 && strings.HasSuffix(term, "ies") {
		return term[:n-3] + "y"
	}

	if n > 3 && (strings.HasSuffix(term, "xes") || strings.HasSuffix(term, "zes")) {
		return term[:n-2]
	}

	if n > 4 && strings.HasSuffix(term, "sses") {
		return term[:n-2]
	}

	if n > 4 && strings.HasSuffix(term, "shes") {
		return term[:n-2]
	}

	if strings.HasSuffix(term, "s") && !strings.HasSuffix(term, "ss") {
		return term[:n-1]
	}

	return term
}

func (idx *Index) idf(term string) float64 {
	ti, ok := idx.terms[term]
	if !ok || ti.df == 0 {
		return 0
	}
	n := float64(idx.docCount)
	df := float64(ti.df)
	return math.Log((n-df+0.5)/(df+0.5) + 1.0)
}

func (idx *Index) scoreDoc(docID string, queryTerms []string) float64 {
	info, ok := idx.docs[docID]
	if !ok {
		return 0
	}

	docLength := float64(info.length)
	k1, b, avgdl := idx.options.K1, idx.options.B, idx.avgDocLength

	var score float64
	for _, term := range queryTerms {
		ti, ok := idx.terms[term]
		if !ok {
			continue
		}
		tf, ok := ti.postings[docID]
		if !ok || tf == 0 {
			continue
		}
		idf := idx.idf(term)
		numerator := float64(tf) * (k1 + 1.0)
		denominator := float64(tf) + k1*(1.0-b+b*docLength/avgdl)
		score += idf * numerator / denominator
	}
	return score
}

// Hit is a single scored search result.
type Hit struct {
	ID    string
	Score float64
}

// Search tokenizes query, scores every document that contains at least
// one query term, drops non-positive scores, and returns the top K hits
// sorted by score descending.
func (idx *Index) Search(query string, topK int) []Hit {
	queryTerms := idx.TokenizeText(query)
	if len(queryTerms) == 0 {
		return nil
	}

	candidates := map[string]bool{}
	for _, term := range queryTerms {
		ti, ok := idx.terms[term]
		if !ok {
			continue
		}
		for docID := range ti.postings {
			candidates[docID] = true
		}
	}

	hits := make([]Hit, 0, len(candidates))
	for docID := range candidates {
		score := idx.scoreDoc(docID, queryTerms)
		if score > 0 {
			hits = append(hits, Hit{ID: docID, Score: score})
		}
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].ID < hits[j].ID
	})

	if topK >= 0 && len(hits) > topK {
		hits = hits[:topK]
	}
	return hits
}

// DocCount returns the number of documents in the index.
func (idx *Index) DocCount() int { return idx.docCount }

// IDF exposes the IDF of a term, 0 if the term is unknown. Exported for
// tests and diagnostics.
func (idx *Index) IDF(term string) float64 { return idx.idf(term) }
