package inference

import "strings"

// ParseStop normalises an OpenAI-style "stop" value, which may be a single
// string or a list of strings. Blank entries are dropped.
func ParseStop(v any) []string {
	var raw []string
	switch s := v.(type) {
	case string:
		raw = []string{s}
	case []string:
		raw = s
	case []any:
		for _, item := range s {
			if str, ok := item.(string); ok {
				raw = append(raw, str)
			}
		}
	}
	out := raw[:0:0]
	for _, s := range raw {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

func isStopToken(tok string, stop []string) bool {
	for _, s := range stop {
		if tok == s {
			return true
		}
	}
	return false
}
