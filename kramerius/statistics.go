// Copyright (c) DigitalLib
// SPDX-License-Identifier: MPL-2.0

package kramerius

import (
	"context"
	"encoding/json"
	"net/http"
)

// StatisticsResult is one page of the access-statistics index.
type StatisticsResult struct {
	NumFound int64
	Docs     []map[string]any
	Facets   map[string][]FacetCount
}

// StatisticsService queries the admin access-statistics index. The
// statistics schema is deployment specific, so documents are returned
// as raw maps.
type StatisticsService struct {
	exec *executor
}

// Search runs params against the statistics index.
func (s *StatisticsService) Search(ctx context.Context, params SearchParams) (*StatisticsResult, error) {
	var raw struct {
		Response struct {
			NumFound int64            `json:"numFound"`
			Docs     []map[string]any `json:"docs"`
		} `json:"response"`
		FacetCounts *struct {
			FacetFields map[string][]json.RawMessage `json:"facet_fields"`
		} `json:"facet_counts"`
	}
	if err := s.exec.adminJSON(ctx, http.MethodGet, "statistics/search", params.Values(), nil, "", &raw); err != nil {
		return nil, err
	}

	out := &StatisticsResult{NumFound: raw.Response.NumFound, Docs: raw.Response.Docs}
	if raw.FacetCounts != nil {
		solr := solrResult{FacetCounts: raw.FacetCounts}
		converted, err := solr.toSearchResult()
		if err != nil {
			return nil, err
		}
		out.Facets = converted.Facets
	}
	return out, nil
}
