// Package headings shifts ATX heading levels in markdown chapters so they nest under the
// chapter's position in the book hierarchy.
//
// Only '#' heading lines are shifted. Setext headings (a line underlined with "===" or
// "---") keep their level 1 or 2, so deep chapters should use ATX headings.
package headings

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// File permission constants.
const (
	dirPermissions  = 0o750
	filePermissions = 0o644
)

var (
	// Heading marker: one or more '#' at line start, then a space or tab.
	headingMarker = regexp.MustCompile(`^#+[ \t]`)

	// Fenced code block delimiter (backticks or tildes), up to 3 spaces of indent,
	// followed by the rest of the line (info string on an opener).
	fenceDelimiter = regexp.MustCompile("^ {0,3}(```+|~~~+)(.*)$")
)

// Normalize rewrites every heading marker line in content so its level grows by depth,
// then prepends a synthesized title heading at that depth.
// A depth of 0 returns content unchanged.
func Normalize(content string, depth int, title string) string {
	if depth <= 0 {
		return content
	}

	prefix := strings.Repeat("#", depth)
	lines := strings.Split(content, "\n")

	var fence string
	for i, line := range lines {
		if m := fenceDelimiter.FindStringSubmatch(strings.TrimSuffix(line, "\r")); m != nil {
			run, rest := m[1], m[2]
			switch {
			case fence == "":
				// A backtick info string may not contain backticks.
				if run[0] != '`' || !strings.Contains(rest, "`") {
					fence = run
					continue
				}
			case run[0] == fence[0] && len(run) >= len(fence) && strings.TrimSpace(rest) == "":
				fence = ""
				continue
			}
		}
		if fence != "" {
			continue
		}
		if headingMarker.MatchString(line) {
			lines[i] = prefix + line
		}
	}

	var b strings.Builder
	b.Grow(len(content) + len(prefix)*(len(lines)+1) + len(title) + 3)
	b.WriteString(prefix)
	b.WriteByte(' ')
	b.WriteString(title)
	b.WriteString("\n\n")
	b.WriteString(strings.Join(lines, "\n"))
	return b.String()
}

// NormalizeFile reads src, normalizes it and writes the result to dst.
// Parent directories of dst are created as needed.
func NormalizeFile(src, dst string, depth int, title string) error {
	content, err := os.ReadFile(src) // #nosec G304 -- chapter path validated by caller
	if err != nil {
		return fmt.Errorf("reading %s: %w", src, err)
	}

	if err := os.MkdirAll(filepath.Dir(dst), dirPermissions); err != nil {
		return fmt.Errorf("creating directory for %s: %w", dst, err)
	}

	out := Normalize(string(content), depth, title)
	if err := os.WriteFile(dst, []byte(out), filePermissions); err != nil { // #nosec G306 -- staged chapters are not secret
		return fmt.Errorf("writing %s: %w", dst, err)
	}
	return nil
}
