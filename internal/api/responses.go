package api

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v5"

	"github.com/samcharles93/babble/internal/corpus"
	"github.com/samcharles93/babble/internal/inference"
	"github.com/samcharles93/babble/internal/logger"
)

// DefaultModelID names the model when a request does not.
const DefaultModelID = "babble"

type Server struct {
	store   *ResponseStore
	service *InferenceService
	clock   func() time.Time
}

func NewServer(store *ResponseStore, service *InferenceService) *Server {
	if store == nil {
		store = NewResponseStore()
	}
	return &Server{
		store:   store,
		service: service,
		clock:   time.Now,
	}
}

func (s *Server) Register(e *echo.Echo) {
	e.GET("/healthz", s.handleHealth)

	e.POST("/v1/responses", s.handleCreateResponse)
	e.GET("/v1/responses/:id", s.handleGetResponse)
	e.DELETE("/v1/responses/:id", s.handleDeleteResponse)
	e.GET("/v1/responses/:id/input_items", s.handleInputItems)

	e.GET("/v1/models", s.handleListModels)
	e.POST("/v1/models/:id/reload", s.handleReloadModel)

	s.RegisterChatCompletions(e)
}

func (s *Server) handleHealth(c *echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreateResponse(c *echo.Context) error {
	if s.service == nil {
		return writeError(c, http.StatusInternalServerError, "server_error", "inference service not configured", "", "")
	}
	req, err := decodeJSON[ResponsesRequest](c.Request().Body)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}

	var history []ResponseItem
	if req.PreviousResponseID != "" {
		history, err = s.resolvePreviousItems(req.PreviousResponseID)
		if err != nil {
			return writeBadRequest(c, err.Error())
		}
	}

	var writer *SSEStreamWriter
	var stream StreamWriter
	if req.Stream != nil && *req.Stream {
		w, err := NewSSEStreamWriter(c)
		if err != nil {
			return writeBadRequest(c, err.Error())
		}
		writer = w
		stream = w
	}

	ctx := c.Request().Context()
	resp, inputItems, err := s.service.CreateResponse(ctx, &req, stream)
	if err != nil {
		if writer != nil && writer.Started() {
			return nil
		}
		return writeEngineError(c, err, "create response failed", req.Model)
	}
	s.store.Save(*resp, inputItems)

	if writer != nil {
		return nil
	}
	if len(history) > 0 {
		logger.FromContext(ctx).Debug("response chained", "id", resp.ID, "previous", req.PreviousResponseID, "history_items", len(history))
	}
	return c.JSON(http.StatusOK, resp)
}

// resolvePreviousItems walks a previous_response_id chain and returns its
// items oldest first.
func (s *Server) resolvePreviousItems(responseID string) ([]ResponseItem, error) {
	visited := make(map[string]struct{})
	var chain []*responseRecord
	for id := strings.TrimSpace(responseID); id != ""; {
		if _, ok := visited[id]; ok {
			return nil, fmt.Errorf("previous_response_id chain contains a cycle")
		}
		visited[id] = struct{}{}

		rec, ok := s.store.Get(id)
		if !ok {
			return nil, fmt.Errorf("previous_response_id %q not found", id)
		}
		chain = append(chain, rec)
		id = rec.Response.PreviousResponseID
	}

	var merged []ResponseItem
	for i := len(chain) - 1; i >= 0; i-- {
		merged = append(merged, chain[i].InputItems...)
		merged = append(merged, chain[i].Response.Output...)
	}
	return merged, nil
}

func (s *Server) handleGetResponse(c *echo.Context) error {
	rec, ok := s.store.Get(c.Param("id"))
	if !ok {
		return writeNotFound(c, "response not found")
	}
	return c.JSON(http.StatusOK, rec.Response)
}

func (s *Server) handleDeleteResponse(c *echo.Context) error {
	id := c.Param("id")
	if !s.store.Delete(id) {
		return writeNotFound(c, "response not found")
	}
	return c.JSON(http.StatusOK, DeleteResponseResp{
		ID:      id,
		Object:  "response",
		Deleted: true,
	})
}

func (s *Server) handleInputItems(c *echo.Context) error {
	rec, ok := s.store.Get(c.Param("id"))
	if !ok {
		return writeNotFound(c, "response not found")
	}
	out := ResponseInputItemList{
		Object: "list",
		Data:   rec.InputItems,
	}
	if n := len(rec.InputItems); n > 0 {
		out.FirstID = rec.InputItems[0].ID
		out.LastID = rec.InputItems[n-1].ID
	}
	return c.JSON(http.StatusOK, out)
}

type modelLister interface {
	ListModels() ([]string, error)
}

type modelPeeker interface {
	Current(modelID string) (*inference.LoadResult, bool)
}

func (s *Server) handleListModels(c *echo.Context) error {
	ids := []string{DefaultModelID}
	provider := s.provider()
	if lister, ok := provider.(modelLister); ok {
		discovered, err := lister.ListModels()
		if err != nil {
			return writeError(c, http.StatusInternalServerError, "server_error", err.Error(), "", "")
		}
		if len(discovered) > 0 {
			ids = discovered
		}
	}

	created := s.clock().Unix()
	data := make([]ModelInfo, 0, len(ids))
	for _, id := range ids {
		info := ModelInfo{ID: id, Object: "model", Created: created, OwnedBy: "local"}
		if peeker, ok := provider.(modelPeeker); ok {
			if loaded, ok := peeker.Current(id); ok {
				fillModelInfo(&info, loaded)
			}
		}
		data = append(data, info)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"object": "list",
		"data":   data,
	})
}

func (s *Server) handleReloadModel(c *echo.Context) error {
	reloader, ok := s.provider().(Reloader)
	if !ok {
		return writeError(c, http.StatusNotImplemented, "server_error", "model reload not supported", "", "")
	}
	id := c.Param("id")
	ctx := c.Request().Context()
	loaded, err := reloader.Reload(ctx, id)
	if err != nil {
		return writeEngineError(c, err, "reload failed", id)
	}
	info := ModelInfo{ID: id, Object: "model", Created: s.clock().Unix(), OwnedBy: "local"}
	fillModelInfo(&info, loaded)
	return c.JSON(http.StatusOK, info)
}

// writeEngineError maps model resolution and loading failures onto HTTP
// statuses.
func writeEngineError(c *echo.Context, err error, msg, modelID string) error {
	switch {
	case errors.Is(err, ErrModelNotFound), errors.Is(err, fs.ErrNotExist):
		return writeNotFound(c, err.Error())
	case errors.Is(err, ErrInvalidRequest), errors.Is(err, corpus.ErrTooLarge), errors.Is(err, corpus.ErrNoCorpus):
		return writeBadRequest(c, err.Error())
	}
	logger.FromContext(c.Request().Context()).Error(msg, "model", modelID, "error", err)
	return writeError(c, http.StatusInternalServerError, "server_error", err.Error(), "", "")
}

func (s *Server) provider() EngineProvider {
	if s.service == nil {
		return nil
	}
	return s.service.provider
}

func fillModelInfo(info *ModelInfo, loaded *inference.LoadResult) {
	if loaded == nil || loaded.Model == nil {
		return
	}
	stats := loaded.Model.Stats()
	info.Order = stats.Order
	info.Tokens = stats.Tokens
	info.Contexts = stats.Contexts
	info.Transitions = stats.Transitions
	info.Vocabulary = stats.Vocabulary
	info.Sources = loaded.Sources
}
