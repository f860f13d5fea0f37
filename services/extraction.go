package services

import "strings"

// Extraction is the result of pulling structured items out of free-text
// model output. When no items could be extracted, Structured is false and
// Raw carries the full response, so callers can tell a parsed list from a
// fallback instead of receiving a silently empty slice.
type Extraction struct {
	Structured bool     `json:"structured"`
	Items      []string `json:"items,omitempty"`
	Raw        string   `json:"raw,omitempty"`
}

// ExtractListItems scans model output line by line for bullet markers or
// numbered prefixes. The collaborator promises no structured format, so this
// must tolerate arbitrary prose.
func ExtractListItems(text string, limit int) Extraction {
	var items []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if isListItem(line) {
			items = append(items, strings.TrimSpace(trimListMarker(line)))
		}
		if limit > 0 && len(items) >= limit {
			break
		}
	}

	if len(items) == 0 {
		return Extraction{Structured: false, Raw: text}
	}
	return Extraction{Structured: true, Items: items}
}

func isListItem(line string) bool {
	if strings.HasPrefix(line, "-") || strings.HasPrefix(line, "•") || strings.HasPrefix(line, "*") {
		return true
	}
	// Numbered items: "1. ..." or "2) ..."
	if len(line) > 1 && line[0] >= '0' && line[0] <= '9' {
		rest := strings.TrimLeft(line, "0123456789")
		return strings.HasPrefix(rest, ".") || strings.HasPrefix(rest, ")")
	}
	return false
}

func trimListMarker(line string) string {
	line = strings.TrimLeft(line, "-•*")
	line = strings.TrimLeft(line, "0123456789")
	line = strings.TrimLeft(line, ".)")
	return line
}
