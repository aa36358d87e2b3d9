// Copyright (c) DigitalLib
// SPDX-License-Identifier: MPL-2.0

package kramerius

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestSearchParams_Values(t *testing.T) {
	cases := []struct {
		name   string
		params SearchParams
		want   map[string]string
		absent []string
	}{
		{
			name:   "query only",
			params: SearchParams{Query: "*:*"},
			want:   map[string]string{"q": "*:*"},
			absent: []string{"rows", "start", "fl", "fq", "sort", "cursorMark", "facet"},
		},
		{
			name: "full set",
			params: SearchParams{
				Query:         "model:monograph",
				Rows:          intPtr(10),
				Start:         intPtr(20),
				FL:            []Field{FieldPID, FieldTitle},
				FQ:            "accessibility:public",
				Sort:          "title.sort ASC",
				Facet:         true,
				FacetField:    "languages.facet",
				FacetMinCount: intPtr(1),
			},
			want: map[string]string{
				"q":              "model:monograph",
				"rows":           "10",
				"start":          "20",
				"fl":             "pid,title.search",
				"fq":             "accessibility:public",
				"sort":           "title.sort ASC",
				"facet":          "true",
				"facet.field":    "languages.facet",
				"facet.mincount": "1",
			},
		},
		{
			name:   "zero rows still encoded",
			params: SearchParams{Query: "*:*", Rows: intPtr(0)},
			want:   map[string]string{"q": "*:*", "rows": "0"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			values := tc.params.Values()
			for key, want := range tc.want {
				assert.Equal(t, want, values.Get(key), "param %s", key)
			}
			for _, key := range tc.absent {
				assert.False(t, values.Has(key), "param %s should be absent", key)
			}
		})
	}
}

func TestSearchParams_WithPagination(t *testing.T) {
	p := SearchParams{Query: "*:*"}.WithPagination()
	assert.Equal(t, "pid ASC", p.Sort)
	assert.Equal(t, "*", p.CursorMark)
}

func TestSearch_DecodesResultAndFacets(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/client/v7.0/search", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"response": {
				"numFound": 2,
				"start": 0,
				"docs": [
					{"pid": "uuid:aaa", "model": "monograph", "title.search": "First"},
					{"pid": "uuid:bbb", "model": "page"}
				]
			},
			"facet_counts": {"facet_fields": {"languages.facet": ["cze", 12, "ger", 3]}}
		}`))
	}), nil)

	result, err := client.Search.Search(context.Background(), SearchParams{Query: "*:*"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, result.NumFound)
	require.Len(t, result.Docs, 2)
	assert.Equal(t, "uuid:aaa", result.Docs[0].PID)
	assert.Equal(t, ModelMonograph, result.Docs[0].Model)
	assert.Equal(t, "First", result.Docs[0].Title)
	require.Contains(t, result.Facets, "languages.facet")
	assert.Equal(t, []FacetCount{{Value: "cze", Count: 12}, {Value: "ger", Count: 3}}, result.Facets["languages.facet"])
}

func TestSearch_GetDocument(t *testing.T) {
	const pid = "uuid:123e4567-e89b-12d3-a456-426614174000"

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, fmt.Sprintf("%s:%q", FieldPID, pid), r.URL.Query().Get("q"))
		assert.Equal(t, "1", r.URL.Query().Get("rows"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"response": map[string]any{
				"numFound": 1,
				"docs":     []map[string]any{{"pid": pid, "model": "periodical"}},
			},
		})
	}), nil)

	doc, err := client.Search.GetDocument(context.Background(), pid)
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, pid, doc.PID)
	assert.Equal(t, ModelPeriodical, doc.Model)
}

func TestSearch_GetDocumentAbsent(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"response": {"numFound": 0, "docs": []}}`))
	}), nil)

	doc, err := client.Search.GetDocument(context.Background(), "123e4567-e89b-12d3-a456-426614174000")
	require.NoError(t, err)
	assert.Nil(t, doc)
}

func TestSearch_GetDocumentInvalidPID(t *testing.T) {
	client := newTestClient(t, http.NotFoundHandler(), nil)
	_, err := client.Search.GetDocument(context.Background(), "not-a-pid")
	assert.Error(t, err)
}

func TestSearch_NumFound(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "0", r.URL.Query().Get("rows"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"response": {"numFound": 42, "docs": []}}`))
	}), nil)

	n, err := client.Search.NumFound(context.Background(), "model:page")
	require.NoError(t, err)
	assert.EqualValues(t, 42, n)
}

func TestSearch_IteratePaginates(t *testing.T) {
	pages := map[string]string{
		"*":  `{"response": {"numFound": 3, "docs": [{"pid": "uuid:a"}, {"pid": "uuid:b"}]}, "nextCursorMark": "c2"}`,
		"c2": `{"response": {"numFound": 3, "docs": [{"pid": "uuid:c"}]}, "nextCursorMark": "c2"}`,
	}

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cursor := r.URL.Query().Get("cursorMark")
		assert.Equal(t, "2", r.URL.Query().Get("rows"))
		assert.Equal(t, "pid ASC", r.URL.Query().Get("sort"))
		body, ok := pages[cursor]
		require.True(t, ok, "unexpected cursor %q", cursor)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}), nil)

	var pids []string
	err := client.Search.Iterate(context.Background(), SearchParams{Query: "*:*"}, func(doc *Document) error {
		pids = append(pids, doc.PID)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"uuid:a", "uuid:b", "uuid:c"}, pids)
}

func TestSearch_IterateStopsOnCallbackError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"response": {"numFound": 2, "docs": [{"pid": "uuid:a"}, {"pid": "uuid:b"}]}, "nextCursorMark": "next"}`))
	}), nil)

	calls := 0
	err := client.Search.Iterate(context.Background(), SearchParams{Query: "*:*"}, func(doc *Document) error {
		calls++
		return fmt.Errorf("stop here")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stop here")
	assert.Equal(t, 1, calls)
}
