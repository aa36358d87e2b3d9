// Copyright (c) DigitalLib
// SPDX-License-Identifier: MPL-2.0

package kramerius

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// sdnntTimestampLayout is the fetch timestamp format of the SDNNT sync
// endpoint.
const sdnntTimestampLayout = "2006-01-02T15:04:05.000Z"

// SdnntSyncAction is one synchronization action recorded for an SDNNT
// register entry.
type SdnntSyncAction string

const (
	SdnntActionAddDNNTO      SdnntSyncAction = "ADD_DNNTO"
	SdnntActionRemoveDNNTO   SdnntSyncAction = "REMOVE_DNNTO"
	SdnntActionAddDNNTT      SdnntSyncAction = "ADD_DNNTT"
	SdnntActionRemoveDNNTT   SdnntSyncAction = "REMOVE_DNNTT"
	SdnntActionPartialChange SdnntSyncAction = "PARTIAL_CHANGE"
)

// SdnntRecord is one entry of the SDNNT change feed.
type SdnntRecord struct {
	ID          string            `json:"id"`
	Catalog     string            `json:"catalog,omitempty"`
	Title       string            `json:"title,omitempty"`
	PID         string            `json:"pid,omitempty"`
	License     License           `json:"license,omitempty"`
	State       string            `json:"state,omitempty"`
	Type        string            `json:"type,omitempty"`
	SyncActions []SdnntSyncAction `json:"sync_actions,omitempty"`
}

// SdnntChanges is one page of the change feed.
type SdnntChanges struct {
	NumFound int64         `json:"numFound"`
	Docs     []SdnntRecord `json:"docs"`
}

// SdnntGranularityRecord describes one granularity item of a partially
// changed record.
type SdnntGranularityRecord struct {
	PID         string            `json:"pid,omitempty"`
	License     License           `json:"license,omitempty"`
	State       string            `json:"state,omitempty"`
	SyncActions []SdnntSyncAction `json:"sync_actions,omitempty"`
}

// SdnntService reads the SDNNT ("works not on the market") register
// synchronization state from the admin API.
type SdnntService struct {
	exec     *executor
	pageSize int
}

// SyncTimestamp returns when the register was last fetched, or nil
// when no synchronization has ever run.
func (s *SdnntService) SyncTimestamp(ctx context.Context) (*time.Time, error) {
	var out struct {
		Docs []struct {
			Fetched string `json:"fetched"`
		} `json:"docs"`
	}
	if err := s.exec.adminJSON(ctx, http.MethodGet, "sdnnt/sync/timestamp", nil, nil, "", &out); err != nil {
		return nil, err
	}
	if len(out.Docs) == 0 || out.Docs[0].Fetched == "" {
		return nil, nil
	}
	ts, err := time.Parse(sdnntTimestampLayout, out.Docs[0].Fetched)
	if err != nil {
		return nil, err
	}
	ts = ts.UTC()
	return &ts, nil
}

// Changes fetches one page of the change feed.
func (s *SdnntService) Changes(ctx context.Context, page, rows int) (*SdnntChanges, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("rows", strconv.Itoa(rows))
	var out SdnntChanges
	if err := s.exec.adminJSON(ctx, http.MethodGet, "sdnnt/sync", params, nil, "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// IterateChanges walks the whole change feed page by page, invoking fn
// per record.
func (s *SdnntService) IterateChanges(ctx context.Context, fn func(SdnntRecord) error) error {
	head, err := s.Changes(ctx, 0, 0)
	if err != nil {
		return err
	}

	for page := 0; int64(page)*int64(s.pageSize) < head.NumFound; page++ {
		changes, err := s.Changes(ctx, page, s.pageSize)
		if err != nil {
			return err
		}
		for _, record := range changes.Docs {
			if err := fn(record); err != nil {
				return err
			}
		}
	}
	return nil
}

// Granularity returns the granularity items of record id. The response
// is keyed by the record id itself.
func (s *SdnntService) Granularity(ctx context.Context, id string) ([]SdnntGranularityRecord, error) {
	var out map[string]json.RawMessage
	if err := s.exec.adminJSON(ctx, http.MethodGet, "sdnnt/sync/granularity/"+id, nil, nil, "", &out); err != nil {
		return nil, err
	}
	raw, ok := out[id]
	if !ok {
		return nil, nil
	}
	var records []SdnntGranularityRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, err
	}
	return records, nil
}
