package llm

import "strings"

// CleanJSON normalizes an LLM response into something json.Unmarshal can
// take. Model output is frequently wrapped in Markdown code fences or
// surrounded by prose; this strips fence markers and then cuts the text
// down to the first-to-last balanced top-level {...} span. Callers must
// run every free-text JSON response through this before parsing.
func CleanJSON(content string) string {
	content = strings.TrimSpace(content)

	// Strip ```json ... ``` or ``` ... ``` fences.
	if strings.HasPrefix(content, "```") {
		start := 3
		if nl := strings.Index(content[start:], "\n"); nl != -1 {
			start += nl + 1
		}
		if end := strings.LastIndex(content[start:], "```"); end != -1 {
			content = content[start : start+end]
		} else {
			content = content[start:]
		}
		content = strings.TrimSpace(content)
	}

	// Cut to the outermost balanced object span.
	open := strings.IndexByte(content, '{')
	if open == -1 {
		return content
	}
	depth := 0
	inString := false
	escaped := false
	for i := open; i < len(content); i++ {
		c := content[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return content[open : i+1]
			}
		}
	}

	// Unbalanced: fall back to first '{' through last '}'.
	if close := strings.LastIndexByte(content, '}'); close > open {
		return content[open : close+1]
	}
	return content[open:]
}
