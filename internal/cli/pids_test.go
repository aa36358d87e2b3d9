// Copyright (c) DigitalLib
// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPID = "uuid:123e4567-e89b-12d3-a456-426614174000"

func TestChunkPIDs(t *testing.T) {
	pids := make([]string, 6500)
	for i := range pids {
		pids[i] = testPID
	}

	chunks := chunkPIDs(pids, maxPIDsPerChunk)
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 3000)
	assert.Len(t, chunks[1], 3000)
	assert.Len(t, chunks[2], 500)
}

func TestChunkPIDs_SmallInput(t *testing.T) {
	chunks := chunkPIDs([]string{testPID}, maxPIDsPerChunk)
	require.Len(t, chunks, 1)
	assert.Equal(t, []string{testPID}, chunks[0])
}

func TestChunkPIDs_Empty(t *testing.T) {
	assert.Nil(t, chunkPIDs(nil, maxPIDsPerChunk))
	assert.Nil(t, chunkPIDs([]string{testPID}, 0))
}

func TestCollectPIDs_SinglePID(t *testing.T) {
	pids, err := collectPIDs("123e4567-e89b-12d3-a456-426614174000", "")
	require.NoError(t, err)
	assert.Equal(t, []string{testPID}, pids)
}

func TestCollectPIDs_MutuallyExclusive(t *testing.T) {
	_, err := collectPIDs(testPID, "pids.txt")
	assert.ErrorContains(t, err, "mutually exclusive")
}

func TestCollectPIDs_NeitherGiven(t *testing.T) {
	_, err := collectPIDs("", "")
	assert.ErrorContains(t, err, "required")
}

func TestReadPIDsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pids.txt")
	content := strings.Join([]string{
		"# migration batch 1",
		testPID,
		"",
		"  223e4567-e89b-12d3-a456-426614174000  ",
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	pids, err := readPIDsFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{
		testPID,
		"uuid:223e4567-e89b-12d3-a456-426614174000",
	}, pids)
}

func TestReadPIDsFile_InvalidLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pids.txt")
	require.NoError(t, os.WriteFile(path, []byte("not-a-pid\n"), 0o644))

	_, err := readPIDsFile(path)
	require.Error(t, err)
	assert.ErrorContains(t, err, ":1:")
}

func TestReadPIDsFile_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pids.txt")
	require.NoError(t, os.WriteFile(path, []byte("# nothing here\n"), 0o644))

	_, err := readPIDsFile(path)
	assert.ErrorContains(t, err, "no pids")
}
