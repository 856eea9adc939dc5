package parser

import (
	"bytes"
	"encoding/json"
	"mime"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const maxPlainMessage = 200

// ErrorMessage extracts a human readable message from a backend error body.
// JSON bodies yield their "message" (or "error") field, HTML error pages the
// text of their first <pre> (or <title>), short plain text bodies themselves.
// An empty string means the caller should use its own fallback.
func ErrorMessage(contentType string, body []byte) string {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return ""
	}

	mediaType, _, _ := mime.ParseMediaType(contentType)

	switch {
	case mediaType == "application/json" || body[0] == '{':
		return jsonMessage(body)
	case mediaType == "text/html" || body[0] == '<':
		return htmlMessage(body)
	case mediaType == "text/plain":
		line, _, _ := strings.Cut(string(body), "\n")
		text := strings.TrimSpace(line)
		if len(text) > maxPlainMessage {
			return ""
		}
		return text
	default:
		return ""
	}
}

func jsonMessage(body []byte) string {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}

	for _, key := range []string{"message", "error"} {
		var message string
		if err := json.Unmarshal(payload[key], &message); err == nil && strings.TrimSpace(message) != "" {
			return strings.TrimSpace(message)
		}
	}

	return ""
}

func htmlMessage(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}

	if pre := strings.TrimSpace(doc.Find("pre").First().Text()); pre != "" {
		return pre
	}

	return strings.TrimSpace(doc.Find("title").First().Text())
}
