// Copyright (c) DigitalLib
// SPDX-License-Identifier: MPL-2.0

package kramerius

import (
	"context"
	"fmt"
	"net/http"

	"github.com/beevik/etree"
)

// ItemsService reads item datastreams from the public API.
type ItemsService struct {
	exec *executor
}

// GetMods fetches and parses the MODS descriptive metadata of pid.
func (s *ItemsService) GetMods(ctx context.Context, pid string) (*etree.Document, error) {
	pid, err := NormalizePID(pid)
	if err != nil {
		return nil, err
	}
	res, err := s.exec.clientRaw(ctx, http.MethodGet, "items/"+pid+"/metadata/mods", nil, nil, "")
	if err != nil {
		return nil, err
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(res.Body); err != nil {
		return nil, fmt.Errorf("kramerius: parsing mods of %s: %w", pid, err)
	}
	return doc, nil
}

// GetImage fetches the full image datastream of pid as raw bytes.
func (s *ItemsService) GetImage(ctx context.Context, pid string) ([]byte, error) {
	pid, err := NormalizePID(pid)
	if err != nil {
		return nil, err
	}
	res, err := s.exec.clientRaw(ctx, http.MethodGet, "items/"+pid+"/image", nil, nil, "")
	if err != nil {
		return nil, err
	}
	return res.Body, nil
}
