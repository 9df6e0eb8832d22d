package live

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"git.home.luguber.info/inful/croptrack/internal/catalog"
)

// gatewayState is the JSON document the sensor gateway serves: the
// subject's current location plus every sensor's instantaneous value.
type gatewayState struct {
	Location *struct {
		RegionID int `json:"region_id"`
		X        int `json:"x"`
		Y        int `json:"y"`
	} `json:"location"`
	Values map[string]int `json:"values"`
}

// HTTPSource reads live values from a sensor gateway over HTTP. Refresh
// fetches one consistent snapshot; ReadValue and Location serve from it
// without further I/O, keeping ingest synchronous.
type HTTPSource struct {
	url    string
	client *http.Client

	mu    sync.RWMutex
	state gatewayState
}

// NewHTTPSource creates a gateway client for the given state endpoint.
func NewHTTPSource(url string, timeout time.Duration) *HTTPSource {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPSource{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Refresh fetches a new snapshot from the gateway.
func (s *HTTPSource) Refresh(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return fmt.Errorf("build gateway request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch gateway state: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}

	var state gatewayState
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		return fmt.Errorf("decode gateway state: %w", err)
	}

	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
	return nil
}

func (s *HTTPSource) ReadValue(id int) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Values[strconv.Itoa(id)]
}

func (s *HTTPSource) Location() (catalog.Location, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.Location == nil {
		return catalog.Location{}, false
	}
	return catalog.Location{
		RegionID: s.state.Location.RegionID,
		X:        s.state.Location.X,
		Y:        s.state.Location.Y,
	}, true
}
