// Copyright (c) DigitalLib
// SPDX-License-Identifier: MPL-2.0

package kramerius

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPID = "uuid:123e4567-e89b-12d3-a456-426614174000"

func TestItems_GetMods(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/client/v7.0/items/"+testPID+"/metadata/mods", r.URL.Path)
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(`<?xml version="1.0"?>
<mods:modsCollection xmlns:mods="http://www.loc.gov/mods/v3">
  <mods:mods><mods:titleInfo><mods:title>Babička</mods:title></mods:titleInfo></mods:mods>
</mods:modsCollection>`))
	}), nil)

	doc, err := client.Items.GetMods(context.Background(), testPID)
	require.NoError(t, err)
	title := doc.FindElement("//mods:title")
	require.NotNil(t, title)
	assert.Equal(t, "Babička", title.Text())
}

func TestItems_GetModsMalformedXML(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<unclosed`))
	}), nil)

	_, err := client.Items.GetMods(context.Background(), testPID)
	assert.Error(t, err)
}

func TestItems_GetImage(t *testing.T) {
	jpeg := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10}
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/client/v7.0/items/"+testPID+"/image", r.URL.Path)
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write(jpeg)
	}), nil)

	data, err := client.Items.GetImage(context.Background(), testPID)
	require.NoError(t, err)
	assert.Equal(t, jpeg, data)
}

func TestItems_InvalidPID(t *testing.T) {
	client := newTestClient(t, http.NotFoundHandler(), nil)

	_, err := client.Items.GetMods(context.Background(), "nonsense")
	assert.Error(t, err)
	_, err = client.Items.GetImage(context.Background(), "nonsense")
	assert.Error(t, err)
}
