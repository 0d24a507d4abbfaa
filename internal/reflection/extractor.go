package reflection

import (
	"regexp"
	"strings"
)

// Reflection is one labeled annotation lifted out of an assistant reply.
type Reflection struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

const (
	briefLabel     = "Reflection:"
	briefType      = "BRIEF REFLECTION"
	blockDelimiter = "####"
)

// detailedLabelRe matches section headers like "DETAILED REFLECTION 3:",
// case-insensitively and with flexible whitespace.
var detailedLabelRe = regexp.MustCompile(`(?i)DETAILED\s+REFLECTION\s*\d+\s*:`)

// Extract scans an assistant reply for reflection sections.
//
// Pass one collects every "DETAILED REFLECTION <n>:" section; each body runs
// until the next detailed label, a literal "Reflection:" label, a "####"
// delimiter, or end of text. Pass two takes at most the first literal
// "Reflection:" section, whose body runs until "####" or end of text, and
// tags it "BRIEF REFLECTION". Detailed sections come back in text order with
// the brief one appended last, wherever it appeared in the source.
func Extract(text string) []Reflection {
	var out []Reflection

	labels := detailedLabelRe.FindAllStringIndex(text, -1)
	for i, loc := range labels {
		bodyStart := loc[1]
		bodyEnd := len(text)
		if i+1 < len(labels) {
			bodyEnd = labels[i+1][0]
		}
		body := text[bodyStart:bodyEnd]
		if idx := strings.Index(body, briefLabel); idx != -1 {
			body = body[:idx]
		}
		if idx := strings.Index(body, blockDelimiter); idx != -1 {
			body = body[:idx]
		}

		label := text[loc[0]:loc[1]]
		typ := label
		if idx := strings.Index(label, ":"); idx != -1 {
			typ = label[:idx]
		}

		out = append(out, Reflection{
			Type:    strings.TrimSpace(typ),
			Content: strings.TrimSpace(body),
		})
	}

	if idx := strings.Index(text, briefLabel); idx != -1 {
		body := text[idx+len(briefLabel):]
		if end := strings.Index(body, blockDelimiter); end != -1 {
			body = body[:end]
		}
		out = append(out, Reflection{
			Type:    briefType,
			Content: strings.TrimSpace(body),
		})
	}

	return out
}
