package domain

import "strings"

// StripFences removes every line whose trimmed content is exactly a fence
// marker: "```" or "```<lang>" for one of the given language tags. All other
// lines are preserved verbatim and in order.
//
// This is a literal line match, not a structural parse: fences carrying
// annotations ("```python title=...") or leading text survive unstripped.
// Applying it twice yields the same result as once.
func StripFences(text string, langs ...string) string {
	markers := make(map[string]bool, len(langs)+1)
	markers["```"] = true

	for _, lang := range langs {
		markers["```"+lang] = true
	}

	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))

	for _, line := range lines {
		if markers[strings.TrimSpace(line)] {
			continue
		}

		kept = append(kept, line)
	}

	return strings.Join(kept, "\n")
}
