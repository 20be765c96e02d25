package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// Params configures a product search.
type Params struct {
	Query         string
	AvailableOnly bool
	Limit         int
	Offset        int
}

// DefaultLimit caps results when Params.Limit is unset.
const DefaultLimit = 20

// Result is one page of hits.
type Result struct {
	Query  string `json:"query"`
	Total  uint64 `json:"total"`
	TookMs int64  `json:"took_ms"`
	Hits   []Hit  `json:"hits"`
}

// Hit is a single matching product.
type Hit struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
	Slug  string  `json:"slug"`
	Title string  `json:"title"`
}

// IDs returns the product IDs of the hits in rank order.
func (r *Result) IDs() []string {
	ids := make([]string, len(r.Hits))
	for i, h := range r.Hits {
		ids[i] = h.ID
	}
	return ids
}

// Search runs a ranked query over title and description. An empty query
// matches every product.
func (s *Index) Search(ctx context.Context, params Params) (*Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if params.Limit <= 0 {
		params.Limit = DefaultLimit
	}

	req := bleve.NewSearchRequestOptions(buildQuery(params), params.Limit, params.Offset, false)
	req.Fields = []string{"slug", "title"}
	if strings.TrimSpace(params.Query) == "" {
		req.SortBy([]string{"-created_at"})
	} else {
		req.SortBy([]string{"-_score", "-created_at"})
	}

	res, err := s.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	out := &Result{
		Query:  params.Query,
		Total:  res.Total,
		TookMs: res.Took.Milliseconds(),
		Hits:   make([]Hit, 0, len(res.Hits)),
	}
	for _, h := range res.Hits {
		hit := Hit{ID: h.ID, Score: h.Score}
		if v, ok := h.Fields["slug"].(string); ok {
			hit.Slug = v
		}
		if v, ok := h.Fields["title"].(string); ok {
			hit.Title = v
		}
		out.Hits = append(out.Hits, hit)
	}
	return out, nil
}

func buildQuery(params Params) query.Query {
	var queries []query.Query

	if q := strings.TrimSpace(params.Query); q != "" {
		titleMatch := bleve.NewMatchQuery(q)
		titleMatch.SetField("title")
		titleMatch.SetBoost(3.0)

		descMatch := bleve.NewMatchQuery(q)
		descMatch.SetField("description")

		fuzzy := bleve.NewFuzzyQuery(strings.ToLower(q))
		fuzzy.SetField("title")
		fuzzy.SetFuzziness(1)
		fuzzy.SetBoost(0.8)

		textQueries := []query.Query{titleMatch, descMatch, fuzzy}

		// Prefix matching for type-ahead.
		if len(q) >= 2 {
			prefix := bleve.NewPrefixQuery(strings.ToLower(q))
			prefix.SetField("title")
			prefix.SetBoost(0.5)
			textQueries = append(textQueries, prefix)
		}

		queries = append(queries, bleve.NewDisjunctionQuery(textQueries...))
	}

	if params.AvailableOnly {
		available := bleve.NewBoolFieldQuery(true)
		available.SetField("available")
		queries = append(queries, available)
	}

	switch len(queries) {
	case 0:
		return bleve.NewMatchAllQuery()
	case 1:
		return queries[0]
	default:
		return bleve.NewConjunctionQuery(queries...)
	}
}
