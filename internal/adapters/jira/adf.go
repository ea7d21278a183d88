package jira

import (
	"encoding/json"
	"strings"
)

// ADFToPlainText extracts plain text from Jira's ADF (Atlassian Document Format).
// Jira v3 API returns worklog comments as ADF JSON, not plain text.
func ADFToPlainText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}

	var doc struct {
		Type    string `json:"type"`
		Content []struct {
			Type    string `json:"type"`
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
		} `json:"content"`
	}

	if err := json.Unmarshal(raw, &doc); err != nil || doc.Type != "doc" {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
		return string(raw)
	}

	var parts []string
	for _, block := range doc.Content {
		var line []string
		for _, inline := range block.Content {
			if inline.Text != "" {
				line = append(line, inline.Text)
			}
		}
		parts = append(parts, strings.Join(line, ""))
	}

	return strings.Join(parts, "\n")
}

// PlainTextToADF converts plain text to a single-document ADF value, one
// paragraph per line. Empty text yields nil.
func PlainTextToADF(text string) json.RawMessage {
	if text == "" {
		return nil
	}

	var content []interface{}
	for _, para := range strings.Split(text, "\n") {
		inline := []interface{}{}
		if para != "" {
			inline = append(inline, map[string]interface{}{
				"type": "text",
				"text": para,
			})
		}
		content = append(content, map[string]interface{}{
			"type":    "paragraph",
			"content": inline,
		})
	}

	doc := map[string]interface{}{
		"type":    "doc",
		"version": 1,
		"content": content,
	}

	data, _ := json.Marshal(doc)
	return data
}
