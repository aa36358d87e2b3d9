// Copyright (c) DigitalLib
// SPDX-License-Identifier: MPL-2.0

package kramerius

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/beevik/etree"
)

// FoxmlExportFormat selects the FOXML export flavor.
type FoxmlExportFormat string

const (
	FoxmlExportArchive FoxmlExportFormat = "archive"
	FoxmlExportStorage FoxmlExportFormat = "storage"
)

// ControlGroup is the storage class of a datastream.
type ControlGroup string

const (
	ControlGroupXML      ControlGroup = "X"
	ControlGroupManaged  ControlGroup = "M"
	ControlGroupExternal ControlGroup = "E"
)

// ObjectMetadata describes a stored repository object.
type ObjectMetadata struct {
	Label       string    `json:"propertyLabel"`
	Created     time.Time `json:"propertyCreated"`
	Modified    time.Time `json:"propertyModified"`
	StoragePath string    `json:"objectStoragePath"`
}

// DatastreamMetadata describes one datastream of an object.
type DatastreamMetadata struct {
	ID           string       `json:"id"`
	MimeType     string       `json:"mimetype"`
	ControlGroup ControlGroup `json:"controlGroup"`
	Created      time.Time    `json:"createDate"`
	Modified     time.Time    `json:"lastModified"`
	Location     string       `json:"location,omitempty"`
}

// Relation is one RDF relation of an object.
type Relation struct {
	Namespace string `json:"namespace"`
	Predicate string `json:"localName"`
	Object    string `json:"resource"`
}

// Literal is one RDF literal of an object.
type Literal struct {
	Namespace string `json:"namespace"`
	Key       string `json:"localName"`
	Value     string `json:"content"`
}

// RepositoryService is the low-level repository (Akubra) admin API:
// raw object and datastream access below the item abstraction.
type RepositoryService struct {
	exec *executor
}

// Export returns the FOXML export of pid in the given format.
func (s *RepositoryService) Export(ctx context.Context, pid string, format FoxmlExportFormat) (*etree.Document, error) {
	params := url.Values{}
	params.Set("pid", pid)
	params.Set("format", string(format))
	res, err := s.exec.adminRaw(ctx, http.MethodGet, "repository/export", params, nil, "")
	if err != nil {
		return nil, err
	}
	return parseXML(res.Body, pid)
}

// ObjectMetadata returns the stored metadata of pid.
func (s *RepositoryService) ObjectMetadata(ctx context.Context, pid string) (*ObjectMetadata, error) {
	var out ObjectMetadata
	if err := s.exec.adminJSON(ctx, http.MethodGet, "repository/objects/"+pid+"/meta", nil, nil, "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DatastreamNames lists the datastreams of pid.
func (s *RepositoryService) DatastreamNames(ctx context.Context, pid string) ([]string, error) {
	var out struct {
		Names []string `json:"datastreamNames"`
	}
	if err := s.exec.adminJSON(ctx, http.MethodGet, "repository/datastreams/"+pid, nil, nil, "", &out); err != nil {
		return nil, err
	}
	return out.Names, nil
}

// DatastreamMetadata returns the metadata of one datastream.
func (s *RepositoryService) DatastreamMetadata(ctx context.Context, pid, dsID string) (*DatastreamMetadata, error) {
	params := url.Values{}
	params.Set("pid", pid)
	params.Set("dsId", dsID)
	var out DatastreamMetadata
	if err := s.exec.adminJSON(ctx, http.MethodGet, "repository/getDatastreamMetadata", params, nil, "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DatastreamContent returns the raw content of one datastream.
func (s *RepositoryService) DatastreamContent(ctx context.Context, pid, dsID string) ([]byte, error) {
	params := url.Values{}
	params.Set("pid", pid)
	params.Set("dsId", dsID)
	res, err := s.exec.adminRaw(ctx, http.MethodGet, "repository/getDatastreamContent", params, nil, "")
	if err != nil {
		return nil, err
	}
	return res.Body, nil
}

// DatastreamXML returns one datastream parsed as XML.
func (s *RepositoryService) DatastreamXML(ctx context.Context, pid, dsID string) (*etree.Document, error) {
	content, err := s.DatastreamContent(ctx, pid, dsID)
	if err != nil {
		return nil, err
	}
	return parseXML(content, pid)
}

// Relations returns the RDF relations of pid.
func (s *RepositoryService) Relations(ctx context.Context, pid string) ([]Relation, error) {
	params := url.Values{}
	params.Set("pid", pid)
	var out struct {
		Relations []Relation `json:"relations"`
	}
	if err := s.exec.adminJSON(ctx, http.MethodGet, "repository/getRelations", params, nil, "", &out); err != nil {
		return nil, err
	}
	return out.Relations, nil
}

// Literals returns the RDF literals of pid.
func (s *RepositoryService) Literals(ctx context.Context, pid string) ([]Literal, error) {
	params := url.Values{}
	params.Set("pid", pid)
	var out struct {
		Literals []Literal `json:"literals"`
	}
	if err := s.exec.adminJSON(ctx, http.MethodGet, "repository/getLiterals", params, nil, "", &out); err != nil {
		return nil, err
	}
	return out.Literals, nil
}

// Ingest stores a new object from its FOXML representation and returns
// the pid assigned by the repository.
func (s *RepositoryService) Ingest(ctx context.Context, foxml *etree.Document) (string, error) {
	body, err := foxml.WriteToBytes()
	if err != nil {
		return "", err
	}
	var out struct {
		PID string `json:"objectPID"`
	}
	if err := s.exec.adminJSON(ctx, http.MethodPost, "repository/ingest", nil, body, "application/xml", &out); err != nil {
		return "", err
	}
	return out.PID, nil
}

// Purge removes pid from the repository. It reports whether the server
// acknowledged the purge of that exact pid.
func (s *RepositoryService) Purge(ctx context.Context, pid string) (bool, error) {
	var out struct {
		PID string `json:"objectPID"`
	}
	if err := s.exec.adminJSON(ctx, http.MethodDelete, "repository/objects/"+pid, nil, nil, "", &out); err != nil {
		return false, err
	}
	return out.PID == pid, nil
}

// CreateXMLDatastream stores xml as an inline (X) datastream.
func (s *RepositoryService) CreateXMLDatastream(ctx context.Context, pid, dsID string, xml *etree.Document, mimeType string) (bool, error) {
	if mimeType == "" {
		mimeType = "application/rdf+xml"
	}
	body, err := xml.WriteToBytes()
	if err != nil {
		return false, err
	}
	params := url.Values{}
	params.Set("pid", pid)
	params.Set("dsId", dsID)
	params.Set("mimeType", mimeType)
	var out struct {
		DsID string `json:"dsId"`
	}
	if err := s.exec.adminJSON(ctx, http.MethodPost, "repository/createXMLDatastream", params, body, "application/octet-stream", &out); err != nil {
		return false, err
	}
	return out.DsID == dsID, nil
}

// CreateManagedDatastream stores content as a managed (M) datastream.
func (s *RepositoryService) CreateManagedDatastream(ctx context.Context, pid, dsID string, content []byte, mimeType string) (bool, error) {
	params := url.Values{}
	params.Set("pid", pid)
	params.Set("dsId", dsID)
	params.Set("mimeType", mimeType)
	var out struct {
		DsID string `json:"dsId"`
	}
	if err := s.exec.adminJSON(ctx, http.MethodPost, "repository/createManagedDatastream", params, content, mimeType, &out); err != nil {
		return false, err
	}
	return out.DsID == dsID, nil
}

func parseXML(data []byte, pid string) (*etree.Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("kramerius: parsing xml of %s: %w", pid, err)
	}
	return doc, nil
}
