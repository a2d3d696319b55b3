// Package jsonl manipulates the JSON-lines format used by batch input and
// output files.
package jsonl

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Normalize splits raw file content into lines and re-emits each line as
// compact JSON. Blank lines are dropped. An invalid line fails the whole
// call so a half-normalized file is never produced.
func Normalize(raw []byte) ([]string, error) {
	var out []string
	for i, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !gjson.Valid(line) {
			return nil, fmt.Errorf("line %d is not valid JSON", i+1)
		}
		out = append(out, gjson.Get(line, "@ugly").Raw)
	}
	return out, nil
}

// Pretty renders one JSON line indented for the log view. Non-JSON input
// is returned unchanged.
func Pretty(line string) string {
	if !gjson.Valid(line) {
		return line
	}
	return strings.TrimRight(gjson.Get(line, "@pretty").Raw, "\n")
}

// Summary is the header information extracted from one batch output line.
type Summary struct {
	CustomID   string
	StatusCode int64
	ErrorMsg   string
}

// Summarize pulls the request id and response status out of a batch
// output line. Fields missing from the line are left zero.
func Summarize(line string) Summary {
	return Summary{
		CustomID:   gjson.Get(line, "custom_id").String(),
		StatusCode: gjson.Get(line, "response.status_code").Int(),
		ErrorMsg:   gjson.Get(line, "error.message").String(),
	}
}

// BuildRequest constructs one batch input line for the chat completions
// endpoint.
func BuildRequest(customID, model, prompt string) (string, error) {
	if customID == "" {
		return "", fmt.Errorf("custom_id cannot be empty")
	}
	if model == "" {
		return "", fmt.Errorf("model cannot be empty")
	}

	line := "{}"
	var err error
	for _, kv := range []struct {
		path  string
		value interface{}
	}{
		{"custom_id", customID},
		{"method", "POST"},
		{"url", "/v1/chat/completions"},
		{"body.model", model},
		{"body.messages.0.role", "user"},
		{"body.messages.0.content", prompt},
	} {
		line, err = sjson.Set(line, kv.path, kv.value)
		if err != nil {
			return "", fmt.Errorf("set %s: %w", kv.path, err)
		}
	}
	return line, nil
}
