package api

import (
	"fmt"
	"io"
	"strconv"

	"github.com/labstack/echo/v5"

	"github.com/samcharles93/babble/internal/inference"
)

type streamEvent struct {
	Type           string             `json:"type"`
	Response       *ResponsesResponse `json:"response,omitempty"`
	SequenceNumber int                `json:"sequence_number"`
}

// SSEStreamWriter emits Responses API events for a single reply. Events with
// a sequence number at or below starting_after are skipped so a client can
// resume a stream it already partly received.
type SSEStreamWriter struct {
	w             io.Writer
	flush         func()
	startingAfter int
	seq           int
	itemID        string
	startedItem   bool
	begun         bool
}

func NewSSEStreamWriter(c *echo.Context) (*SSEStreamWriter, error) {
	w, flush, err := startSSE(c)
	if err != nil {
		return nil, err
	}
	return &SSEStreamWriter{
		w:             w,
		flush:         flush,
		startingAfter: parseStartingAfter(c.QueryParam("starting_after")),
		seq:           1,
	}, nil
}

// startSSE switches the response to an event stream and returns a flush
// function for it.
func startSSE(c *echo.Context) (io.Writer, func(), error) {
	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")

	flusher, ok := res.(interface{ Flush() })
	if !ok {
		return nil, nil, fmt.Errorf("streaming unsupported")
	}
	return res, flusher.Flush, nil
}

func (s *SSEStreamWriter) Begin(resp ResponsesResponse) error {
	s.begun = true
	resp.Status = "in_progress"
	resp.CompletedAt = nil
	if err := s.emit(streamEvent{Type: "response.created", Response: &resp, SequenceNumber: s.seq}); err != nil {
		return err
	}
	return s.emit(streamEvent{Type: "response.in_progress", Response: &resp, SequenceNumber: s.seq})
}

// Started reports whether any event has been written, after which errors can
// no longer be sent as a JSON body.
func (s *SSEStreamWriter) Started() bool {
	return s.begun
}

func (s *SSEStreamWriter) EmitToken(delta string) error {
	if !s.startedItem {
		s.itemID = newOutputItemID()
		s.startedItem = true
		if err := s.emit(map[string]any{
			"type":         "response.output_item.added",
			"output_index": 0,
			"item": ResponseItem{
				ID:      s.itemID,
				Type:    "message",
				Role:    "assistant",
				Status:  "in_progress",
				Content: []ResponseContent{},
			},
			"sequence_number": s.seq,
		}); err != nil {
			return err
		}
		if err := s.emit(map[string]any{
			"type":            "response.content_part.added",
			"item_id":         s.itemID,
			"output_index":    0,
			"content_index":   0,
			"part":            ResponseContent{Type: "output_text"},
			"sequence_number": s.seq,
		}); err != nil {
			return err
		}
	}
	return s.emit(map[string]any{
		"type":            "response.output_text.delta",
		"item_id":         s.itemID,
		"output_index":    0,
		"content_index":   0,
		"delta":           delta,
		"sequence_number": s.seq,
	})
}

func (s *SSEStreamWriter) Complete(resp ResponsesResponse, result *inference.Result) error {
	if s.startedItem {
		part := ResponseContent{Type: "output_text", Text: result.Text}
		if err := s.emit(map[string]any{
			"type":            "response.output_text.done",
			"item_id":         s.itemID,
			"output_index":    0,
			"content_index":   0,
			"text":            result.Text,
			"sequence_number": s.seq,
		}); err != nil {
			return err
		}
		if err := s.emit(map[string]any{
			"type":            "response.content_part.done",
			"item_id":         s.itemID,
			"output_index":    0,
			"content_index":   0,
			"part":            part,
			"sequence_number": s.seq,
		}); err != nil {
			return err
		}
		if err := s.emit(map[string]any{
			"type":         "response.output_item.done",
			"output_index": 0,
			"item": ResponseItem{
				ID:      s.itemID,
				Type:    "message",
				Role:    "assistant",
				Status:  "completed",
				Content: []ResponseContent{part},
			},
			"sequence_number": s.seq,
		}); err != nil {
			return err
		}
	}
	resp.Status = "completed"
	return s.emit(streamEvent{Type: "response.completed", Response: &resp, SequenceNumber: s.seq})
}

func (s *SSEStreamWriter) Failed(resp ResponsesResponse, err error) error {
	resp.Status = "failed"
	if resp.Error == nil {
		resp.Error = &ResponseError{Message: err.Error(), Type: "server_error"}
	}
	return s.emit(streamEvent{Type: "response.failed", Response: &resp, SequenceNumber: s.seq})
}

func (s *SSEStreamWriter) Incomplete(resp ResponsesResponse, err error) error {
	resp.Status = "incomplete"
	resp.Error = nil
	if resp.IncompleteDetails == nil {
		resp.IncompleteDetails = &ResponseIncomplete{Reason: "cancelled"}
	}
	return s.emit(streamEvent{Type: "response.incomplete", Response: &resp, SequenceNumber: s.seq})
}

// emit writes one event carrying the current sequence number and advances it.
func (s *SSEStreamWriter) emit(payload any) error {
	seq := s.seq
	s.seq++
	if s.startingAfter >= seq {
		return nil
	}
	if err := sendSSEChunk(s.w, payload); err != nil {
		return err
	}
	if s.flush != nil {
		s.flush()
	}
	return nil
}

func parseStartingAfter(v string) int {
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
