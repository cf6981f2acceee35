// Package state provides thread-safe sharing of computed sky snapshots
// between the compute loop and the UI.
package state

import (
	"sync"
	"time"

	"github.com/litescript/ls-sundial/internal/solar"
)

// EventType represents the type of sky event.
type EventType string

const (
	EventSunrise      EventType = "SUNRISE"
	EventSunset       EventType = "SUNSET"
	EventEclipseBegin EventType = "ECLIPSE_BEGIN"
	EventEclipseEnd   EventType = "ECLIPSE_END"
)

// Event records a sky transition detected between two computed frames.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Detail    string    `json:"detail,omitempty"`
}

// Sky is one computed frame: positions and derived values for a single
// instant, from whichever engine is selected.
type Sky struct {
	Time   time.Time
	Engine solar.Engine

	Sun  solar.TopocentricPosition
	Moon *solar.TopocentricPosition // set only by the sun-and-moon engine

	EquationOfTime float64 // minutes
	Transit        float64 // fractional hours UT
	Sunrise        float64
	Sunset         float64
	RiseSetNote    string

	Irradiance  solar.Irradiance
	LunePercent float64 // unshaded solar disk percentage; 100 outside eclipses
	EclipseNote string
}

// TimeSeries is a single data point with timestamp.
type TimeSeries struct {
	Timestamp time.Time
	Value     float64
}

// Manager handles shared application state with thread-safe access.
type Manager struct {
	mu sync.RWMutex

	current         *Sky
	lastCompute     time.Time
	lastError       error
	computeDuration time.Duration

	// Sun elevation history for the sparkline.
	elevHistory []TimeSeries
	maxHistory  int

	// Event log (ring buffer)
	events       []Event
	maxEvents    int
	eventWriteAt int

	refreshInterval time.Duration
}

// Config holds configuration for the state manager.
type Config struct {
	MaxHistory      int
	MaxEvents       int
	RefreshInterval time.Duration
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		MaxHistory:      240, // 1 hour at one frame per 15 s
		MaxEvents:       50,
		RefreshInterval: 15 * time.Second,
	}
}

// NewManager creates a new state manager.
func NewManager(cfg Config) *Manager {
	maxEvents := cfg.MaxEvents
	if maxEvents <= 0 {
		maxEvents = 50
	}
	return &Manager{
		maxHistory:      cfg.MaxHistory,
		maxEvents:       maxEvents,
		events:          make([]Event, 0, maxEvents),
		refreshInterval: cfg.RefreshInterval,
	}
}

// Update atomically updates the state with a newly computed frame.
func (m *Manager) Update(sky *Sky, computeDuration time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastCompute = time.Now()
	m.lastError = err
	m.computeDuration = computeDuration

	if sky == nil {
		return
	}

	m.detectEvents(sky)
	m.current = sky

	m.elevHistory = append(m.elevHistory, TimeSeries{
		Timestamp: sky.Time,
		Value:     sky.Sun.Elevation,
	})
	if len(m.elevHistory) > m.maxHistory {
		m.elevHistory = m.elevHistory[1:]
	}
}

// detectEvents compares the new frame with the previous one and records
// horizon crossings and eclipse transitions.
func (m *Manager) detectEvents(sky *Sky) {
	prev := m.current
	if prev == nil {
		return
	}

	if prev.Sun.Elevation <= 0 && sky.Sun.Elevation > 0 {
		m.addEvent(Event{Type: EventSunrise, Timestamp: sky.Time})
	} else if prev.Sun.Elevation > 0 && sky.Sun.Elevation <= 0 {
		m.addEvent(Event{Type: EventSunset, Timestamp: sky.Time})
	}

	wasEclipsed := prev.LunePercent < 100 && prev.Moon != nil
	isEclipsed := sky.LunePercent < 100 && sky.Moon != nil
	if isEclipsed && !wasEclipsed {
		m.addEvent(Event{Type: EventEclipseBegin, Timestamp: sky.Time, Detail: sky.EclipseNote})
	} else if wasEclipsed && !isEclipsed {
		m.addEvent(Event{Type: EventEclipseEnd, Timestamp: sky.Time})
	}
}

// addEvent adds an event to the ring buffer.
func (m *Manager) addEvent(e Event) {
	if len(m.events) < m.maxEvents {
		m.events = append(m.events, e)
	} else {
		m.events[m.eventWriteAt] = e
		m.eventWriteAt = (m.eventWriteAt + 1) % m.maxEvents
	}
}

// Snapshot represents an immutable snapshot of current state.
type Snapshot struct {
	Sky              *Sky
	LastCompute      time.Time
	LastError        error
	ComputeDuration  time.Duration
	ElevationHistory []TimeSeries
	Events           []Event
}

// Snapshot returns a consistent snapshot of current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	hist := make([]TimeSeries, len(m.elevHistory))
	copy(hist, m.elevHistory)

	return Snapshot{
		Sky:              m.current,
		LastCompute:      m.lastCompute,
		LastError:        m.lastError,
		ComputeDuration:  m.computeDuration,
		ElevationHistory: hist,
		Events:           m.getEventsOrdered(),
	}
}

// getEventsOrdered returns events in chronological order.
func (m *Manager) getEventsOrdered() []Event {
	if len(m.events) == 0 {
		return nil
	}
	if len(m.events) < m.maxEvents {
		result := make([]Event, len(m.events))
		copy(result, m.events)
		return result
	}
	result := make([]Event, m.maxEvents)
	for i := 0; i < m.maxEvents; i++ {
		result[i] = m.events[(m.eventWriteAt+i)%m.maxEvents]
	}
	return result
}

// RecentEvents returns the last n events.
func (m *Manager) RecentEvents(n int) []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.getEventsOrdered()
	if len(all) <= n {
		return all
	}
	return all[len(all)-n:]
}

// RefreshInterval returns the configured refresh interval.
func (m *Manager) RefreshInterval() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.refreshInterval
}

// HasData returns true if at least one frame has been computed.
func (m *Manager) HasData() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current != nil
}
