package api

// ResponsesRequest is the subset of the Responses API request that a Markov
// reply can honour. Unknown fields are accepted and ignored.
type ResponsesRequest struct {
	Input              any               `json:"input,omitempty"`
	Instructions       any               `json:"instructions,omitempty"`
	MaxOutputTokens    *int              `json:"max_output_tokens,omitempty"`
	Metadata           map[string]string `json:"metadata,omitempty"`
	Model              string            `json:"model,omitempty"`
	PreviousResponseID string            `json:"previous_response_id,omitempty"`
	Seed               *int64            `json:"seed,omitempty"`
	Stop               any               `json:"stop,omitempty"`
	Store              *bool             `json:"store,omitempty"`
	Stream             *bool             `json:"stream,omitempty"`
	Temperature        *float64          `json:"temperature,omitempty"`
	TopP               *float64          `json:"top_p,omitempty"`
}

type ResponsesResponse struct {
	ID                 string              `json:"id"`
	Object             string              `json:"object"`
	CreatedAt          int64               `json:"created_at,omitempty"`
	Status             string              `json:"status,omitempty"`
	CompletedAt        *int64              `json:"completed_at,omitempty"`
	Error              *ResponseError      `json:"error,omitempty"`
	IncompleteDetails  *ResponseIncomplete `json:"incomplete_details,omitempty"`
	Instructions       any                 `json:"instructions,omitempty"`
	MaxOutputTokens    *int                `json:"max_output_tokens,omitempty"`
	Metadata           map[string]string   `json:"metadata,omitempty"`
	Model              string              `json:"model,omitempty"`
	Output             []ResponseItem      `json:"output,omitempty"`
	OutputText         string              `json:"output_text,omitempty"`
	PreviousResponseID string              `json:"previous_response_id,omitempty"`
	Store              *bool               `json:"store,omitempty"`
	Temperature        *float64            `json:"temperature,omitempty"`
	TopP               *float64            `json:"top_p,omitempty"`
	Usage              *ResponseUsage      `json:"usage,omitempty"`
}

type ResponseItem struct {
	ID      string            `json:"id,omitempty"`
	Type    string            `json:"type,omitempty"`
	Role    string            `json:"role,omitempty"`
	Status  string            `json:"status,omitempty"`
	Content []ResponseContent `json:"content,omitempty"`
}

type ResponseContent struct {
	Type string `json:"type,omitempty"`
	Text string `json:"text,omitempty"`
}

type ResponseUsage struct {
	InputTokens  int `json:"input_tokens,omitempty"`
	OutputTokens int `json:"output_tokens,omitempty"`
	TotalTokens  int `json:"total_tokens,omitempty"`
}

type ResponseError struct {
	Message string `json:"message,omitempty"`
	Type    string `json:"type,omitempty"`
	Code    string `json:"code,omitempty"`
	Param   string `json:"param,omitempty"`
}

type ResponseIncomplete struct {
	Reason string `json:"reason,omitempty"`
}

type ResponseInputItemList struct {
	Object  string         `json:"object,omitempty"`
	Data    []ResponseItem `json:"data,omitempty"`
	FirstID string         `json:"first_id,omitempty"`
	LastID  string         `json:"last_id,omitempty"`
	HasMore bool           `json:"has_more,omitempty"`
}

type DeleteResponseResp struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Deleted bool   `json:"deleted"`
}

// ModelInfo describes a loaded corpus model in list and reload responses.
type ModelInfo struct {
	ID          string   `json:"id"`
	Object      string   `json:"object"`
	Created     int64    `json:"created"`
	OwnedBy     string   `json:"owned_by"`
	Order       int      `json:"order,omitempty"`
	Tokens      int      `json:"tokens,omitempty"`
	Contexts    int      `json:"contexts,omitempty"`
	Transitions int      `json:"transitions,omitempty"`
	Vocabulary  int      `json:"vocabulary,omitempty"`
	Sources     []string `json:"sources,omitempty"`
}
