// Copyright (c) DigitalLib
// SPDX-License-Identifier: MPL-2.0

package kramerius

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const searchEndpoint = "search"

// paginationSort keeps cursor-mark pagination stable across pages.
const paginationSort = "pid ASC"

// SearchParams builds one query against the search endpoint. Zero
// values are omitted from the request.
type SearchParams struct {
	Query         string
	Rows          *int
	Start         *int
	FL            []Field
	FQ            string
	Sort          string
	CursorMark    string
	Facet         bool
	FacetField    string
	FacetMinCount *int
}

// WithPagination prepares the params for cursor-mark iteration:
// a stable sort and the initial cursor.
func (p SearchParams) WithPagination() SearchParams {
	p.Sort = paginationSort
	p.CursorMark = "*"
	return p
}

// Values encodes the params as Solr query parameters.
func (p SearchParams) Values() url.Values {
	v := url.Values{}
	v.Set("q", p.Query)
	if p.Rows != nil {
		v.Set("rows", strconv.Itoa(*p.Rows))
	}
	if p.Start != nil {
		v.Set("start", strconv.Itoa(*p.Start))
	}
	if len(p.FL) > 0 {
		names := make([]string, len(p.FL))
		for i, f := range p.FL {
			names[i] = f.String()
		}
		v.Set("fl", strings.Join(names, ","))
	}
	if p.FQ != "" {
		v.Set("fq", p.FQ)
	}
	if p.Sort != "" {
		v.Set("sort", p.Sort)
	}
	if p.CursorMark != "" {
		v.Set("cursorMark", p.CursorMark)
	}
	if p.Facet {
		v.Set("facet", "true")
	}
	if p.FacetField != "" {
		v.Set("facet.field", p.FacetField)
	}
	if p.FacetMinCount != nil {
		v.Set("facet.mincount", strconv.Itoa(*p.FacetMinCount))
	}
	return v
}

// FacetCount is one value/count pair from a facet field.
type FacetCount struct {
	Value string
	Count int64
}

// SearchResult is the decoded search response.
type SearchResult struct {
	NumFound       int64
	Start          int64
	Docs           []Document
	NextCursorMark string
	Facets         map[string][]FacetCount
}

// solrResult mirrors the wire shape of a Solr select response.
type solrResult struct {
	Response struct {
		NumFound int64      `json:"numFound"`
		Start    int64      `json:"start"`
		Docs     []Document `json:"docs"`
	} `json:"response"`
	NextCursorMark string `json:"nextCursorMark"`
	FacetCounts    *struct {
		FacetFields map[string][]json.RawMessage `json:"facet_fields"`
	} `json:"facet_counts"`
}

func (r *solrResult) toSearchResult() (*SearchResult, error) {
	out := &SearchResult{
		NumFound:       r.Response.NumFound,
		Start:          r.Response.Start,
		Docs:           r.Response.Docs,
		NextCursorMark: r.NextCursorMark,
	}
	if r.FacetCounts == nil {
		return out, nil
	}
	out.Facets = make(map[string][]FacetCount, len(r.FacetCounts.FacetFields))
	for field, flat := range r.FacetCounts.FacetFields {
		// Solr interleaves values and counts in one flat array.
		counts := make([]FacetCount, 0, len(flat)/2)
		for i := 0; i+1 < len(flat); i += 2 {
			var value string
			var count int64
			if err := json.Unmarshal(flat[i], &value); err != nil {
				return nil, fmt.Errorf("kramerius: malformed facet value for %q: %w", field, err)
			}
			if err := json.Unmarshal(flat[i+1], &count); err != nil {
				return nil, fmt.Errorf("kramerius: malformed facet count for %q: %w", field, err)
			}
			counts = append(counts, FacetCount{Value: value, Count: count})
		}
		out.Facets[field] = counts
	}
	return out, nil
}

// SearchService queries the public search index.
type SearchService struct {
	exec     *executor
	pageSize int
}

// Search runs one query and returns the decoded page of results.
func (s *SearchService) Search(ctx context.Context, params SearchParams) (*SearchResult, error) {
	var raw solrResult
	if err := s.exec.clientJSON(ctx, http.MethodGet, searchEndpoint, params.Values(), nil, "", &raw); err != nil {
		return nil, err
	}
	return raw.toSearchResult()
}

// GetDocument fetches the index record for pid. It returns (nil, nil)
// when the index has no such document.
func (s *SearchService) GetDocument(ctx context.Context, pid string) (*Document, error) {
	pid, err := NormalizePID(pid)
	if err != nil {
		return nil, err
	}
	rows := 1
	result, err := s.Search(ctx, SearchParams{
		Query: fmt.Sprintf("%s:%q", FieldPID, pid),
		Rows:  &rows,
	})
	if err != nil {
		return nil, err
	}
	if len(result.Docs) == 0 {
		return nil, nil
	}
	return &result.Docs[0], nil
}

// NumFound returns the total hit count for query without fetching any
// documents.
func (s *SearchService) NumFound(ctx context.Context, query string) (int64, error) {
	rows := 0
	result, err := s.Search(ctx, SearchParams{Query: query, Rows: &rows})
	if err != nil {
		return 0, err
	}
	return result.NumFound, nil
}

// Iterate walks every document matching params using cursor-mark
// pagination, invoking fn per document. Iteration stops early when fn
// returns an error, which is passed through to the caller.
func (s *SearchService) Iterate(ctx context.Context, params SearchParams, fn func(*Document) error) error {
	params = params.WithPagination()
	rows := s.pageSize
	params.Rows = &rows

	for {
		result, err := s.Search(ctx, params)
		if err != nil {
			return err
		}
		for i := range result.Docs {
			if err := fn(&result.Docs[i]); err != nil {
				return err
			}
		}
		// Solr signals the last page by echoing the cursor back.
		if result.NextCursorMark == "" || result.NextCursorMark == params.CursorMark {
			return nil
		}
		params.CursorMark = result.NextCursorMark
	}
}
