package api

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/labstack/echo/v5"

	"github.com/samcharles93/babble/internal/corpus"
)

func writeBadRequest(c *echo.Context, msg string) error {
	return writeError(c, http.StatusBadRequest, "invalid_request_error", msg, "", "")
}

func writeNotFound(c *echo.Context, msg string) error {
	return writeError(c, http.StatusNotFound, "not_found_error", msg, "", "")
}

func writeError(c *echo.Context, status int, errType, msg, param, code string) error {
	return c.JSON(status, map[string]any{
		"error": ResponseError{
			Message: msg,
			Type:    errType,
			Code:    code,
			Param:   param,
		},
	})
}

func decodeJSON[T any](r io.Reader) (T, error) {
	var out T
	dec := json.NewDecoder(r)
	if err := dec.Decode(&out); err != nil {
		return out, err
	}
	return out, nil
}

func sendSSEChunk(w io.Writer, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "data: %s\n\n", string(b))
	return err
}

func normalizeInputItems(input any) ([]ResponseItem, error) {
	if input == nil {
		return nil, nil
	}
	switch v := input.(type) {
	case string:
		return []ResponseItem{messageItem("user", "input_text", v)}, nil
	case []any:
		items := make([]ResponseItem, 0, len(v))
		for _, raw := range v {
			item, err := coerceInputItem(raw)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return items, nil
	default:
		return nil, fmt.Errorf("expected string or array")
	}
}

func coerceInputItem(raw any) (ResponseItem, error) {
	switch v := raw.(type) {
	case string:
		return messageItem("user", "input_text", v), nil
	case map[string]any:
		role, _ := asString(v["role"])
		if role == "" {
			role = "user"
		}
		text, err := contentText(v["content"])
		if err != nil {
			return ResponseItem{}, err
		}
		return messageItem(role, "input_text", text), nil
	default:
		return ResponseItem{}, fmt.Errorf("invalid input item")
	}
}

// contentText flattens message content, which may be a string or a list of
// typed parts, into plain text. Non-text parts are skipped.
func contentText(content any) (string, error) {
	switch v := content.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case []any:
		var parts []string
		for _, raw := range v {
			pm, ok := raw.(map[string]any)
			if !ok {
				return "", fmt.Errorf("invalid content part")
			}
			switch typ, _ := asString(pm["type"]); typ {
			case "text", "input_text", "output_text":
				if text, ok := asString(pm["text"]); ok {
					parts = append(parts, text)
				}
			}
		}
		return strings.Join(parts, "\n"), nil
	default:
		return "", fmt.Errorf("message content: unsupported type")
	}
}

func messageItem(role, partType, text string) ResponseItem {
	return ResponseItem{
		ID:   newInputItemID(),
		Type: "message",
		Role: role,
		Content: []ResponseContent{{
			Type: partType,
			Text: text,
		}},
	}
}

// countTokens counts tokens the way the models see them.
func countTokens(text string) int {
	n := 0
	for range corpus.Tokens(text) {
		n++
	}
	return n
}

func itemTokens(items []ResponseItem) int {
	n := 0
	for _, item := range items {
		for _, part := range item.Content {
			n += countTokens(part.Text)
		}
	}
	return n
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func newInputItemID() string {
	return "item_" + uuid.NewString()
}

func newOutputItemID() string {
	return "msg_" + uuid.NewString()
}
