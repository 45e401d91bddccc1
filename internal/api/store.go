package api

import (
	"sync"

	"github.com/google/uuid"
)

type responseRecord struct {
	Response   ResponsesResponse
	InputItems []ResponseItem
	Visible    bool
}

// ResponseStore keeps finished responses in memory so they can be fetched,
// chained with previous_response_id, or deleted.
type ResponseStore struct {
	mu        sync.Mutex
	responses map[string]*responseRecord
}

func NewResponseStore() *ResponseStore {
	return &ResponseStore{
		responses: make(map[string]*responseRecord),
	}
}

// Save records resp. Responses created with store=false are kept for
// chaining bookkeeping but are never returned by lookups.
func (s *ResponseStore) Save(resp ResponsesResponse, inputItems []ResponseItem) {
	visible := resp.Store == nil || *resp.Store
	s.mu.Lock()
	s.responses[resp.ID] = &responseRecord{
		Response:   resp,
		InputItems: inputItems,
		Visible:    visible,
	}
	s.mu.Unlock()
}

// Get returns the visible record for id.
func (s *ResponseStore) Get(id string) (*responseRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.responses[id]
	if !ok || !rec.Visible {
		return nil, false
	}
	return rec, true
}

func (s *ResponseStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.responses[id]
	if !ok || !rec.Visible {
		return false
	}
	delete(s.responses, id)
	return true
}

func newResponseID() string {
	return "resp_" + uuid.NewString()
}
