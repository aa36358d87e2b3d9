// Copyright (c) DigitalLib
// SPDX-License-Identifier: MPL-2.0

package kramerius

import "strings"

// redactSecret replaces a sensitive value with a stable token. Empty
// input stays empty so optional fields do not sprout tokens.
func redactSecret(v string) string {
	if v == "" {
		return ""
	}
	return "[REDACTED]"
}

// RedactSecrets removes any credential material from s before it
// reaches logs or error text.
func RedactSecrets(s string, cfg Config) string {
	for _, secret := range []string{cfg.Password, cfg.ClientSecret, cfg.Username} {
		if secret == "" {
			continue
		}
		s = strings.ReplaceAll(s, secret, redactSecret(secret))
	}
	return s
}
