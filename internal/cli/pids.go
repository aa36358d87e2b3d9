// Copyright (c) DigitalLib
// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/digitallib/kramerius-go/kramerius"
)

// maxPIDsPerChunk is the server-side limit on pidlist length of one
// planned process.
const maxPIDsPerChunk = 3000

// collectPIDs resolves the --pid / --pids-file pair into a normalized
// pid list. Exactly one of the two must be given.
func collectPIDs(pid, pidsFile string) ([]string, error) {
	switch {
	case pid != "" && pidsFile != "":
		return nil, errors.New("--pid and --pids-file are mutually exclusive")
	case pid != "":
		normalized, err := kramerius.NormalizePID(pid)
		if err != nil {
			return nil, err
		}
		return []string{normalized}, nil
	case pidsFile != "":
		return readPIDsFile(pidsFile)
	default:
		return nil, errors.New("either --pid or --pids-file is required")
	}
}

// readPIDsFile reads one pid per line, skipping blanks and # comments.
func readPIDsFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var pids []string
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" || strings.HasPrefix(raw, "#") {
			continue
		}
		normalized, err := kramerius.NormalizePID(raw)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, line, err)
		}
		pids = append(pids, normalized)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(pids) == 0 {
		return nil, fmt.Errorf("%s contains no pids", path)
	}
	return pids, nil
}

// chunkPIDs splits pids into slices of at most size elements.
func chunkPIDs(pids []string, size int) [][]string {
	if size <= 0 || len(pids) == 0 {
		return nil
	}
	chunks := make([][]string, 0, (len(pids)+size-1)/size)
	for start := 0; start < len(pids); start += size {
		end := start + size
		if end > len(pids) {
			end = len(pids)
		}
		chunks = append(chunks, pids[start:end])
	}
	return chunks
}
