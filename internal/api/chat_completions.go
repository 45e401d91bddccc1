package api

import (
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v5"

	"github.com/samcharles93/babble/internal/inference"
)

// maxChoices bounds the n parameter of a chat completion.
const maxChoices = 16

// ChatCompletionRequest is the OpenAI-compatible chat completion request.
// Sampling knobs a Markov model has no use for are accepted and ignored.
type ChatCompletionRequest struct {
	Model               string        `json:"model"`
	Messages            []ChatMessage `json:"messages"`
	Temperature         *float64      `json:"temperature,omitempty"`
	TopP                *float64      `json:"top_p,omitempty"`
	N                   *int          `json:"n,omitempty"`
	Stream              *bool         `json:"stream,omitempty"`
	Stop                any           `json:"stop,omitempty"`
	MaxTokens           *int          `json:"max_tokens,omitempty"`
	MaxCompletionTokens *int          `json:"max_completion_tokens,omitempty"`
	Seed                *int64        `json:"seed,omitempty"`
	User                string        `json:"user,omitempty"`
}

type ChatMessage struct {
	Role    string `json:"role,omitempty"`
	Content any    `json:"content,omitempty"`
	Name    string `json:"name,omitempty"`
}

type ChatCompletionResponse struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"`
	Created int64        `json:"created"`
	Model   string       `json:"model"`
	Choices []ChatChoice `json:"choices"`
	Usage   ChatUsage    `json:"usage"`
}

type ChatChoice struct {
	Index        int          `json:"index"`
	Message      *ChatMessage `json:"message,omitempty"`
	Delta        *ChatMessage `json:"delta,omitempty"`
	FinishReason *string      `json:"finish_reason"`
}

type ChatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ChatCompletionChunk is one server-sent event of a streamed completion.
type ChatCompletionChunk struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"`
	Created int64        `json:"created"`
	Model   string       `json:"model"`
	Choices []ChatChoice `json:"choices"`
}

func (s *Server) RegisterChatCompletions(e *echo.Echo) {
	e.POST("/v1/chat/completions", s.handleChatCompletions)
}

type chatCompletion struct {
	id      string
	created int64
	model   string
	choices int
	prompt  int
}

func (s *Server) handleChatCompletions(c *echo.Context) error {
	if s.service == nil {
		return writeError(c, http.StatusInternalServerError, "server_error", "inference service not configured", "", "")
	}
	req, err := decodeJSON[ChatCompletionRequest](c.Request().Body)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	if len(req.Messages) == 0 {
		return writeBadRequest(c, "messages is required and must not be empty")
	}
	prompt, err := chatPromptTokens(req.Messages)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	n := 1
	if req.N != nil {
		n = *req.N
	}
	if n < 1 || n > maxChoices {
		return writeBadRequest(c, fmt.Sprintf("n must be between 1 and %d", maxChoices))
	}

	cc := chatCompletion{
		id:      "chatcmpl-" + uuid.NewString(),
		created: s.clock().Unix(),
		model:   req.Model,
		choices: n,
		prompt:  prompt,
	}
	if cc.model == "" {
		cc.model = DefaultModelID
	}

	if req.Stream != nil && *req.Stream {
		return s.handleChatCompletionsStream(c, req, cc)
	}
	return s.handleChatCompletionsSync(c, req, cc)
}

func (s *Server) handleChatCompletionsSync(c *echo.Context, req ChatCompletionRequest, cc chatCompletion) error {
	ctx := c.Request().Context()
	choices := make([]ChatChoice, 0, cc.choices)
	completion := 0

	err := s.service.provider.WithEngine(ctx, req.Model, func(engine inference.Engine, defaults inference.GenDefaults) error {
		for i := range cc.choices {
			genReq := chatToInferenceRequest(&req, defaults, i)
			result, err := engine.Generate(ctx, &genReq, nil)
			if err != nil {
				return err
			}
			finish := chatFinishReason(result.FinishReason)
			choices = append(choices, ChatChoice{
				Index:        i,
				Message:      &ChatMessage{Role: "assistant", Content: result.Text},
				FinishReason: &finish,
			})
			completion += len(result.Tokens)
		}
		return nil
	})
	if err != nil {
		return writeEngineError(c, err, "chat completion failed", req.Model)
	}

	return c.JSON(http.StatusOK, ChatCompletionResponse{
		ID:      cc.id,
		Object:  "chat.completion",
		Created: cc.created,
		Model:   cc.model,
		Choices: choices,
		Usage: ChatUsage{
			PromptTokens:     cc.prompt,
			CompletionTokens: completion,
			TotalTokens:      cc.prompt + completion,
		},
	})
}

func (s *Server) handleChatCompletionsStream(c *echo.Context, req ChatCompletionRequest, cc chatCompletion) error {
	w, flush, err := startSSE(c)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	ctx := c.Request().Context()
	send := func(choice ChatChoice) {
		_ = sendSSEChunk(w, ChatCompletionChunk{
			ID:      cc.id,
			Object:  "chat.completion.chunk",
			Created: cc.created,
			Model:   cc.model,
			Choices: []ChatChoice{choice},
		})
		flush()
	}

	err = s.service.provider.WithEngine(ctx, req.Model, func(engine inference.Engine, defaults inference.GenDefaults) error {
		for i := range cc.choices {
			send(ChatChoice{Index: i, Delta: &ChatMessage{Role: "assistant"}})
			genReq := chatToInferenceRequest(&req, defaults, i)
			result, err := engine.Generate(ctx, &genReq, func(piece string) {
				send(ChatChoice{Index: i, Delta: &ChatMessage{Content: piece}})
			})
			if err != nil {
				return err
			}
			finish := chatFinishReason(result.FinishReason)
			send(ChatChoice{Index: i, Delta: &ChatMessage{}, FinishReason: &finish})
		}
		return nil
	})
	if err != nil {
		_ = sendSSEChunk(w, map[string]any{
			"error": ResponseError{Message: err.Error(), Type: "server_error"},
		})
	}
	writeDone(w)
	flush()
	return nil
}

func writeDone(w io.Writer) {
	_, _ = fmt.Fprint(w, "data: [DONE]\n\n")
}

// chatPromptTokens validates message content and counts its tokens.
func chatPromptTokens(msgs []ChatMessage) (int, error) {
	n := 0
	for i, m := range msgs {
		text, err := contentText(m.Content)
		if err != nil {
			return 0, fmt.Errorf("messages[%d]: %w", i, err)
		}
		n += countTokens(text)
	}
	return n, nil
}

// chatToInferenceRequest resolves the request for choice i. With a fixed
// seed each choice gets its own derived seed so the choices differ but stay
// reproducible.
func chatToInferenceRequest(req *ChatCompletionRequest, defaults inference.GenDefaults, choice int) inference.Request {
	opts := inference.RequestOptions{
		Steps: req.MaxTokens,
		Seed:  req.Seed,
		Stop:  inference.ParseStop(req.Stop),
	}
	if req.MaxCompletionTokens != nil {
		opts.Steps = req.MaxCompletionTokens
	}
	out := inference.ResolveRequest(opts, defaults)
	out.Seed = inference.DeriveSeed(out.Seed, choice)
	return out
}

// chatFinishReason maps an engine finish reason onto the two values chat
// clients understand.
func chatFinishReason(reason string) string {
	if reason == inference.FinishLength {
		return "length"
	}
	return "stop"
}
