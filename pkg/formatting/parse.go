package formatting

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrParseFailed reports a model reply that holds no decodable JSON.
var ErrParseFailed = errors.New("failed to parse response")

var fence = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*(.*?)\\s*```")

// Parse decodes a language model reply into T. Replies are tried as-is,
// then as the body of a markdown code fence, then as the outermost
// {...} or [...] span, which covers objects wrapped in prose.
func Parse[T any](content string) (T, error) {
	var v T
	content = strings.TrimSpace(content)

	for _, candidate := range candidates(content) {
		if err := json.Unmarshal([]byte(candidate), &v); err == nil {
			return v, nil
		}
	}

	return v, fmt.Errorf("%w: %s", ErrParseFailed, truncate(content, 200))
}

func candidates(content string) []string {
	out := []string{content}

	if m := fence.FindStringSubmatch(content); m != nil {
		out = append(out, m[1])
	}

	for _, pair := range [][2]string{{"{", "}"}, {"[", "]"}} {
		start := strings.Index(content, pair[0])
		end := strings.LastIndex(content, pair[1])
		if start >= 0 && end > start {
			out = append(out, content[start:end+1])
		}
	}
	return out
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
