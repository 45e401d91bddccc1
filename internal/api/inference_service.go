package api

import (
	"context"
	"fmt"
	"time"

	"github.com/samcharles93/babble/internal/inference"
)

// InferenceService turns Responses API requests into generated replies.
type InferenceService struct {
	provider EngineProvider
}

func NewInferenceService(provider EngineProvider) *InferenceService {
	return &InferenceService{provider: provider}
}

type StreamWriter interface {
	Begin(resp ResponsesResponse) error
	EmitToken(delta string) error
	Complete(resp ResponsesResponse, result *inference.Result) error
	Failed(resp ResponsesResponse, err error) error
	Incomplete(resp ResponsesResponse, err error) error
}

// CreateResponse generates a reply for req. The input is validated and
// counted for usage but does not steer generation: a reply is sampled from
// the model alone.
func (s *InferenceService) CreateResponse(ctx context.Context, req *ResponsesRequest, stream StreamWriter) (*ResponsesResponse, []ResponseItem, error) {
	inputItems, err := normalizeInputItems(req.Input)
	if err != nil {
		return nil, nil, newInvalidRequest(fmt.Sprintf("input: %v", err))
	}
	if req.MaxOutputTokens != nil && *req.MaxOutputTokens < 0 {
		return nil, inputItems, newInvalidRequest("max_output_tokens must not be negative")
	}

	resp := ResponsesResponse{
		ID:                 newResponseID(),
		Object:             "response",
		CreatedAt:          timeNow().Unix(),
		Status:             "in_progress",
		Instructions:       req.Instructions,
		MaxOutputTokens:    req.MaxOutputTokens,
		Metadata:           req.Metadata,
		Model:              req.Model,
		PreviousResponseID: req.PreviousResponseID,
		Store:              req.Store,
		Temperature:        req.Temperature,
		TopP:               req.TopP,
		Output:             []ResponseItem{},
	}

	if stream != nil {
		if err := stream.Begin(resp); err != nil {
			return &resp, inputItems, err
		}
	}

	err = s.provider.WithEngine(ctx, req.Model, func(engine inference.Engine, defaults inference.GenDefaults) error {
		genReq := responsesToInferenceRequest(req, defaults)
		result, genErr := engine.Generate(ctx, &genReq, func(piece string) {
			if stream != nil {
				_ = stream.EmitToken(piece)
			}
		})
		if genErr != nil {
			return genErr
		}

		resp.Status = "completed"
		now := timeNow().Unix()
		resp.CompletedAt = &now
		resp.Output = buildOutputMessage(result.Text)
		resp.OutputText = result.Text
		inTok := itemTokens(inputItems)
		resp.Usage = &ResponseUsage{
			InputTokens:  inTok,
			OutputTokens: len(result.Tokens),
			TotalTokens:  inTok + len(result.Tokens),
		}
		if stream != nil {
			return stream.Complete(resp, result)
		}
		return nil
	})
	if err != nil {
		resp.Status = "failed"
		resp.Error = &ResponseError{
			Message: err.Error(),
			Type:    "server_error",
		}
		if stream != nil {
			if ctx.Err() != nil {
				_ = stream.Incomplete(resp, ctx.Err())
			} else {
				_ = stream.Failed(resp, err)
			}
		}
		return &resp, inputItems, err
	}
	return &resp, inputItems, nil
}

var timeNow = func() time.Time {
	return time.Now()
}

func responsesToInferenceRequest(req *ResponsesRequest, defaults inference.GenDefaults) inference.Request {
	opts := inference.RequestOptions{
		Steps: req.MaxOutputTokens,
		Seed:  req.Seed,
		Stop:  inference.ParseStop(req.Stop),
	}
	return inference.ResolveRequest(opts, defaults)
}

func buildOutputMessage(text string) []ResponseItem {
	if text == "" {
		return nil
	}
	return []ResponseItem{{
		ID:     newOutputItemID(),
		Type:   "message",
		Role:   "assistant",
		Status: "completed",
		Content: []ResponseContent{{
			Type: "output_text",
			Text: text,
		}},
	}}
}
