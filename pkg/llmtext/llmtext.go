package llmtext

import "strings"

// StripFences removes a wrapping markdown code fence from model output.
// Models regularly wrap JSON answers in ```json blocks even when told not to.
func StripFences(s string) string {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```JSON")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	return strings.TrimSpace(cleaned)
}

// ExtractJSON returns the outermost JSON object in s, or s unchanged when no
// object can be found. Handles models that prepend prose before the payload.
func ExtractJSON(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")

	if start != -1 && end != -1 && end > start {
		return s[start : end+1]
	}
	return s
}

// Truncate cuts s to at most max runes, appending an ellipsis when cut.
// Used to keep prompt sizes bounded for long section bodies.
func Truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
