package quizgen

import "strings"

// Sanitize strips the incidental formatting models wrap around JSON replies
// even when structured output was requested: leading/trailing code fences
// (with an optional "json" tag) and any prose around the payload, by
// locating the outermost matching brace pair. If no brace pair exists the
// trimmed input is returned unchanged so the parse error reflects the
// original reply.
func Sanitize(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimPrefix(s, "json")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
		s = strings.TrimSpace(s)
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return s
	}
	return s[start : end+1]
}
