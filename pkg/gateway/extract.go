package gateway

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var (
	fencedBlockRE = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)```")
	jsonObjectRE  = regexp.MustCompile(`\{[\s\S]*\}`)
)

// ExtractJSON pulls a JSON document out of a model completion. Models asked
// for "only JSON" still tend to wrap the object in a markdown fence or
// surround it with prose, so extraction is best-effort:
//
//  1. content of a ``` fenced block (optionally tagged json), if present
//  2. otherwise the whole response text
//  3. otherwise the outermost brace-delimited region
//
// A candidate that still fails to parse is a hard error; nothing is
// guessed beyond that.
func ExtractJSON(content string) (json.RawMessage, error) {
	candidate := strings.TrimSpace(content)
	if m := fencedBlockRE.FindStringSubmatch(content); m != nil {
		candidate = strings.TrimSpace(m[1])
	}

	var parseErr error
	if parseErr = validateJSON(candidate); parseErr == nil {
		return json.RawMessage(candidate), nil
	}

	if m := jsonObjectRE.FindString(content); m != "" {
		if err := validateJSON(m); err == nil {
			return json.RawMessage(m), nil
		}
	}

	return nil, fmt.Errorf("failed to parse JSON from AI response: %w", parseErr)
}

func validateJSON(candidate string) error {
	var probe any
	return json.Unmarshal([]byte(candidate), &probe)
}
