// Copyright (c) DigitalLib
// SPDX-License-Identifier: MPL-2.0

package kramerius

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ProcessType names a process definition the server can plan.
type ProcessType string

const (
	ProcessTypeIndex         ProcessType = "new_indexer_index_object"
	ProcessTypeImport        ProcessType = "import"
	ProcessTypeImportMets    ProcessType = "convert_and_import"
	ProcessTypeAddLicense    ProcessType = "add_license"
	ProcessTypeRemoveLicense ProcessType = "remove_license"
	ProcessTypeDeleteTree    ProcessType = "delete_tree"
	ProcessTypeSdnntSync     ProcessType = "sdnnt-sync"
)

// ProcessState is the lifecycle state of a process or batch.
type ProcessState string

const (
	ProcessStatePlanned    ProcessState = "PLANNED"
	ProcessStateRunning    ProcessState = "RUNNING"
	ProcessStateFinished   ProcessState = "FINISHED"
	ProcessStateFailed     ProcessState = "FAILED"
	ProcessStateKilled     ProcessState = "KILLED"
	ProcessStateWarning    ProcessState = "WARNING"
	ProcessStateNotRunning ProcessState = "NOT_RUNNING"
)

// Active reports whether the state still occupies a worker slot.
func (s ProcessState) Active() bool {
	return s == ProcessStatePlanned || s == ProcessStateRunning
}

// IndexationType selects the indexing scope of an index process.
type IndexationType string

const (
	IndexationObject             IndexationType = "OBJECT"
	IndexationTree               IndexationType = "TREE"
	IndexationTreeAndFosterTrees IndexationType = "TREE_AND_FOSTER_TREES"
)

// ProcessParams is implemented by every process parameter payload.
type ProcessParams interface {
	Validate() error
}

// PIDListParams carries a single pid or a pid list; exactly the
// subset the pid-oriented process types accept.
type PIDListParams struct {
	PID     string   `json:"pid,omitempty"`
	PIDList []string `json:"pidlist,omitempty"`
}

func (p PIDListParams) Validate() error {
	if p.PID == "" && len(p.PIDList) == 0 {
		return errors.New("kramerius: either pid or pidlist must be set")
	}
	return nil
}

// IndexParams plans a (re)indexation.
type IndexParams struct {
	PIDListParams
	Type                      IndexationType `json:"type"`
	IgnoreInconsistentObjects bool           `json:"ignoreInconsistentObjects"`
}

// AddLicenseParams plans adding a license to objects.
type AddLicenseParams struct {
	PIDListParams
	License License `json:"license"`
}

func (p AddLicenseParams) Validate() error {
	if p.License == "" {
		return errors.New("kramerius: license must be set")
	}
	return p.PIDListParams.Validate()
}

// RemoveLicenseParams plans removing a license from objects.
type RemoveLicenseParams struct {
	PIDListParams
	License License `json:"license"`
}

func (p RemoveLicenseParams) Validate() error {
	if p.License == "" {
		return errors.New("kramerius: license must be set")
	}
	return p.PIDListParams.Validate()
}

// ImportParams plans a FOXML import.
type ImportParams struct {
	InputDataDir string  `json:"inputDataDir"`
	StartIndexer bool    `json:"startIndexer"`
	License      License `json:"license,omitempty"`
	Collections  string  `json:"collections,omitempty"`
	PathType     string  `json:"pathtype,omitempty"`
}

func (p ImportParams) Validate() error {
	if p.InputDataDir == "" {
		return errors.New("kramerius: inputDataDir must be set")
	}
	return nil
}

// DeleteTreeParams plans deletion of an object subtree. The parameter
// name keeps the server's historical spelling.
type DeleteTreeParams struct {
	PID                   string `json:"pid"`
	IgnoreInconsistencies bool   `json:"ignoreIncosistencies"`
}

func (p DeleteTreeParams) Validate() error {
	if p.PID == "" {
		return errors.New("kramerius: pid must be set")
	}
	return nil
}

// ProcessTime parses the server's timestamps, which come either as
// RFC 3339 or as a bare local datetime with milliseconds.
type ProcessTime struct {
	time.Time
}

const bareProcessTimeLayout = "2006-01-02T15:04:05.000"

func (t *ProcessTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	if parsed, err := time.Parse(time.RFC3339, s); err == nil {
		t.Time = parsed
		return nil
	}
	parsed, err := time.Parse(bareProcessTimeLayout, s)
	if err != nil {
		return fmt.Errorf("kramerius: unrecognized process timestamp %q", s)
	}
	t.Time = parsed
	return nil
}

func (t ProcessTime) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(t.Format(time.RFC3339))
}

// Process is one planned or executed process.
type Process struct {
	ID    string       `json:"id"`
	UUID  string       `json:"uuid"`
	Defid ProcessType  `json:"defid"`
	Name  string       `json:"name"`
	State ProcessState `json:"state"`

	Planned  *ProcessTime `json:"planned,omitempty"`
	Started  *ProcessTime `json:"started,omitempty"`
	Finished *ProcessTime `json:"finished,omitempty"`
}

// Batch groups the processes planned by one request.
type Batch struct {
	ID        string       `json:"id"`
	OwnerID   string       `json:"owner_id"`
	OwnerName string       `json:"owner_name"`
	State     ProcessState `json:"state"`

	Planned  *ProcessTime `json:"planned,omitempty"`
	Started  *ProcessTime `json:"started,omitempty"`
	Finished *ProcessTime `json:"finished,omitempty"`

	Token string `json:"token"`
}

// ProcessDetail is the single-process lookup response.
type ProcessDetail struct {
	Batch   Batch   `json:"batch"`
	Process Process `json:"process"`
}

// BatchEntry is one element of a batch listing.
type BatchEntry struct {
	Batch     Batch     `json:"batch"`
	Processes []Process `json:"processes"`
}

// BatchList is a page of the batch listing.
type BatchList struct {
	Batches   []BatchEntry `json:"batches"`
	TotalSize int          `json:"total_size"`
}

// PlanResponse acknowledges a planned process.
type PlanResponse struct {
	UUID  string       `json:"uuid"`
	Name  string       `json:"name"`
	State ProcessState `json:"state"`
}

// planRequest is the wire form of a plan call.
type planRequest struct {
	Defid  ProcessType   `json:"defid"`
	Params ProcessParams `json:"params,omitempty"`
}

// ProcessingService manages the admin process queue.
type ProcessingService struct {
	exec *executor
}

// Plan submits a new process of type t. Params may be nil for process
// types without parameters.
func (s *ProcessingService) Plan(ctx context.Context, t ProcessType, params ProcessParams) (*PlanResponse, error) {
	if params != nil {
		if err := params.Validate(); err != nil {
			return nil, err
		}
	}
	body, err := json.Marshal(planRequest{Defid: t, Params: params})
	if err != nil {
		return nil, err
	}
	var out PlanResponse
	if err := s.exec.adminJSON(ctx, http.MethodPost, "processes", nil, body, "application/json", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetByID looks a process up by its numeric id.
func (s *ProcessingService) GetByID(ctx context.Context, id string) (*ProcessDetail, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errors.New("kramerius: process id must not be empty")
	}
	var out ProcessDetail
	if err := s.exec.adminJSON(ctx, http.MethodGet, "processes/by_process_id/"+id, nil, nil, "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetByUUID looks a process up by its uuid.
func (s *ProcessingService) GetByUUID(ctx context.Context, uuid string) (*ProcessDetail, error) {
	if strings.TrimSpace(uuid) == "" {
		return nil, errors.New("kramerius: process uuid must not be empty")
	}
	var out ProcessDetail
	if err := s.exec.adminJSON(ctx, http.MethodGet, "processes/by_process_uuid/"+uuid, nil, nil, "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Batches lists process batches, optionally filtered by state.
func (s *ProcessingService) Batches(ctx context.Context, state ProcessState, resultSize int) (*BatchList, error) {
	params := url.Values{}
	if state != "" {
		params.Set("state", string(state))
	}
	if resultSize > 0 {
		params.Set("resultSize", strconv.Itoa(resultSize))
	}
	var out BatchList
	if err := s.exec.adminJSON(ctx, http.MethodGet, "processes/batches", params, nil, "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// NumActive returns the number of batches currently occupying the
// queue: running plus planned.
func (s *ProcessingService) NumActive(ctx context.Context) (int, error) {
	total := 0
	for _, state := range []ProcessState{ProcessStateRunning, ProcessStatePlanned} {
		list, err := s.Batches(ctx, state, 1)
		if err != nil {
			return 0, err
		}
		total += list.TotalSize
	}
	return total, nil
}
