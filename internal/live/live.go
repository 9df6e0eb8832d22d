// Package live reads instantaneous raw sensor values for patches and the
// autoweed flag. The tracker only sees the Source interface; the daemon
// wires either the HTTP gateway client or a static source.
package live

import (
	"sync"

	"git.home.luguber.info/inful/croptrack/internal/catalog"
)

// Source reads the current raw value for a sensor id. Reads are
// synchronous snapshots with no history; unknown ids read as zero.
type Source interface {
	ReadValue(id int) int
}

// Locator reports where the observed subject currently is, when known.
type Locator interface {
	Location() (catalog.Location, bool)
}

// StaticSource serves values from an in-memory map. It backs tests and
// the one-shot CLI path, where no gateway is polled.
type StaticSource struct {
	mu     sync.RWMutex
	values map[int]int
	loc    catalog.Location
	hasLoc bool
}

// NewStaticSource creates an empty static source.
func NewStaticSource() *StaticSource {
	return &StaticSource{values: make(map[int]int)}
}

func (s *StaticSource) ReadValue(id int) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[id]
}

// SetValue sets the value returned for a sensor id.
func (s *StaticSource) SetValue(id, value int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[id] = value
}

// SetLocation sets the reported location.
func (s *StaticSource) SetLocation(loc catalog.Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loc = loc
	s.hasLoc = true
}

func (s *StaticSource) Location() (catalog.Location, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loc, s.hasLoc
}
