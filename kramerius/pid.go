// Copyright (c) DigitalLib
// SPDX-License-Identifier: MPL-2.0

package kramerius

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const pidPrefix = "uuid:"

// NormalizePID validates pid as a Kramerius object identifier and
// returns it in canonical "uuid:<uuid>" form. Both the prefixed form
// and a bare UUID are accepted.
func NormalizePID(pid string) (string, error) {
	raw := strings.TrimSpace(pid)
	raw = strings.TrimPrefix(raw, pidPrefix)
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("kramerius: invalid pid %q: %w", pid, err)
	}
	return pidPrefix + id.String(), nil
}
