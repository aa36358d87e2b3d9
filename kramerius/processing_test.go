// Copyright (c) DigitalLib
// SPDX-License-Identifier: MPL-2.0

package kramerius

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessing_Plan(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/admin/v7.0/processes", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var req map[string]any
		require.NoError(t, json.Unmarshal(body, &req))
		assert.Equal(t, "add_license", req["defid"])
		params, ok := req["params"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "dnnto", params["license"])
		assert.Equal(t, []any{"uuid:a", "uuid:b"}, params["pidlist"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"uuid": "p-1", "name": "add_license", "state": "PLANNED"}`))
	}), nil)

	resp, err := client.Processing.Plan(context.Background(), ProcessTypeAddLicense, AddLicenseParams{
		PIDListParams: PIDListParams{PIDList: []string{"uuid:a", "uuid:b"}},
		License:       LicenseDNNTO,
	})
	require.NoError(t, err)
	assert.Equal(t, "p-1", resp.UUID)
	assert.Equal(t, ProcessStatePlanned, resp.State)
}

func TestProcessing_PlanValidatesParams(t *testing.T) {
	client := newTestClient(t, http.NotFoundHandler(), nil)

	cases := []struct {
		name   string
		params ProcessParams
	}{
		{"add license without pids", AddLicenseParams{License: LicenseDNNTO}},
		{"add license without license", AddLicenseParams{PIDListParams: PIDListParams{PID: "uuid:a"}}},
		{"index without pids", IndexParams{Type: IndexationTree}},
		{"import without dir", ImportParams{}},
		{"delete tree without pid", DeleteTreeParams{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := client.Processing.Plan(context.Background(), ProcessTypeAddLicense, tc.params)
			assert.Error(t, err)
		})
	}
}

func TestProcessing_GetByUUID(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/admin/v7.0/processes/by_process_uuid/p-9", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"batch": {"id": "b-1", "owner_id": "krameriusAdmin", "state": "RUNNING", "token": "tkn"},
			"process": {"id": "42", "uuid": "p-9", "defid": "sdnnt-sync", "name": "SDNNT", "state": "RUNNING",
				"planned": "2024-03-01T08:00:00.000", "started": "2024-03-01T08:00:05.000"}
		}`))
	}), nil)

	detail, err := client.Processing.GetByUUID(context.Background(), "p-9")
	require.NoError(t, err)
	assert.Equal(t, "b-1", detail.Batch.ID)
	assert.Equal(t, ProcessTypeSdnntSync, detail.Process.Defid)
	assert.Equal(t, ProcessStateRunning, detail.Process.State)
	require.NotNil(t, detail.Process.Started)
	assert.Equal(t, 2024, detail.Process.Started.Year())
	assert.Nil(t, detail.Process.Finished)
}

func TestProcessing_GetRequiresIdentifier(t *testing.T) {
	client := newTestClient(t, http.NotFoundHandler(), nil)

	_, err := client.Processing.GetByID(context.Background(), " ")
	assert.Error(t, err)
	_, err = client.Processing.GetByUUID(context.Background(), "")
	assert.Error(t, err)
}

func TestProcessing_NumActive(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/admin/v7.0/processes/batches", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("resultSize"))
		w.Header().Set("Content-Type", "application/json")
		switch ProcessState(r.URL.Query().Get("state")) {
		case ProcessStateRunning:
			_, _ = w.Write([]byte(`{"batches": [], "total_size": 3}`))
		case ProcessStatePlanned:
			_, _ = w.Write([]byte(`{"batches": [], "total_size": 2}`))
		default:
			t.Errorf("unexpected state filter %q", r.URL.Query().Get("state"))
		}
	}), nil)

	n, err := client.Processing.NumActive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}

func TestProcessTime_Unmarshal(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  time.Time
		zero  bool
		err   bool
	}{
		{
			name:  "bare with millis",
			input: `"2024-03-01T08:00:00.000"`,
			want:  time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC),
		},
		{
			name:  "rfc3339",
			input: `"2024-03-01T08:00:00Z"`,
			want:  time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC),
		},
		{name: "empty", input: `""`, zero: true},
		{name: "garbage", input: `"yesterday"`, err: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var ts ProcessTime
			err := json.Unmarshal([]byte(tc.input), &ts)
			if tc.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tc.zero {
				assert.True(t, ts.IsZero())
				return
			}
			assert.True(t, ts.Equal(tc.want), "got %v want %v", ts.Time, tc.want)
		})
	}
}

func TestProcessState_Active(t *testing.T) {
	assert.True(t, ProcessStatePlanned.Active())
	assert.True(t, ProcessStateRunning.Active())
	assert.False(t, ProcessStateFinished.Active())
	assert.False(t, ProcessStateFailed.Active())
}
