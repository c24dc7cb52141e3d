// Package security validates the operator-supplied identifiers that end up
// in filesystem paths: run names become directories under inprocess/, and
// module and run names are embedded in archive file names.
package security

import (
	"fmt"
	"strings"
)

// ValidateRunName rejects run names that would escape the inprocess/
// directory or collide with the tooling's own files.
func ValidateRunName(name string) error {
	if name == "" {
		return fmt.Errorf("run name is empty")
	}
	if name == "." || name == ".." {
		return fmt.Errorf("run name %q is not a valid directory name", name)
	}
	if strings.ContainsAny(name, "/\\") {
		return fmt.Errorf("run name %q must not contain path separators", name)
	}
	if strings.HasPrefix(name, "_") {
		return fmt.Errorf("run name %q must not start with an underscore (reserved for templates)", name)
	}
	return nil
}

// SanitizeFilename makes a safe filename component from an arbitrary string.
// Characters outside ASCII letters, digits, dot, underscore and dash become
// underscores; repeats collapse; the result is trimmed and length-limited.
func SanitizeFilename(s string) string {
	const maxLen = 128

	var b strings.Builder
	lastUnderscore := false
	for _, r := range s {
		if b.Len() >= maxLen {
			break
		}
		switch {
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'),
			r == '.' || r == '_' || r == '-':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteRune('_')
				lastUnderscore = true
			}
		}
	}

	out := strings.Trim(b.String(), "._")
	if out == "" {
		return "unknown"
	}
	return out
}
