// Package search wraps the BM25 index with the skill-specific document
// shape and field set, turning a merged skillstate.SkillIndex into a
// relevance-ranked lookup by owner/name.
package search

import (
	"strings"

	"github.com/runkids/skillhub/internal/bm25"
	"github.com/runkids/skillhub/internal/skillstate"
)

// stopWords are common English words excluded from indexing.
var stopWords = []string{
	"a", "an", "and", "are", "as", "at", "be", "but", "by", "for", "if", "in", "into", "is", "it",
	"no", "not", "of", "on", "or", "such", "that", "the", "their", "then", "there", "these",
	"they", "this", "to", "was", "will", "with",
}

// fields are the document fields indexed for every skill.
var fields = []string{"owner", "name", "description", "trigger", "categories", "tags"}

// SkillSearch is a BM25 search index built from a skill index's
// latest non-yanked versions.
type SkillSearch struct {
	index *bm25.Index
}

// Build indexes every skill in skillIndex with at least one
// non-yanked version, one document per skill keyed "owner/name" with
// fields owner/name/description/trigger/categories/tags.
func Build(skillIndex *skillstate.SkillIndex) *SkillSearch {
	docs := make([]bm25.Document, 0, len(skillIndex.Skills))

	for _, entry := range skillIndex.Skills {
		v := entry.Latest()
		if v == nil {
			continue
		}
		info := v.Metadata.Skill

		var categories, tags string
		if info.Classification != nil {
			categories = strings.Join(info.Classification.Categories, " ")
			tags = strings.Join(info.Classification.Tags, " ")
		}

		docs = append(docs, bm25.Document{
			ID: entry.Owner + "/" + entry.Name,
			Fields: map[string]string{
				"owner":       entry.Owner,
				"name":        entry.Name,
				"description": info.Description,
				"trigger":     info.Trigger,
				"categories":  categories,
				"tags":        tags,
			},
		})
	}

	options := bm25.IndexOptions{
		Fields:    fields,
		Lowercase: true,
		Stopwords: stopWords,
		K1:        1.2,
		B:         0.75,
	}

	return &SkillSearch{index: bm25.Build(docs, options)}
}

// Result is a single ranked search hit.
type Result struct {
	Owner string
	Name  string
	Score float64
}

// Search ranks skills against query, returning at most limit results
// sorted by relevance, highest score first.
func (s *SkillSearch) Search(query string, limit int) []Result {
	hits := s.index.Search(query, limit)
	results := make([]Result, 0, len(hits))
	for _, hit := range hits {
		owner, name, ok := strings.Cut(hit.ID, "/")
		if !ok {
			continue
		}
		results = append(results, Result{Owner: owner, Name: name, Score: hit.Score})
	}
	return results
}
