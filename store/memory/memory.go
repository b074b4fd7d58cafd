// Package memory provides in-memory fakes for every store/sink port the
// selector consumes, for use in tests and by the CLI, which promotes
// winners into an in-memory SelectionSink.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/veilrelay/autoselect"
)

// ProfileStore is an in-memory autoselect.ProfileStore.
type ProfileStore struct {
	mu       sync.Mutex
	profiles map[string]autoselect.Profile
}

var _ autoselect.ProfileStore = (*ProfileStore)(nil)

// NewProfileStore returns an empty ProfileStore.
func NewProfileStore() *ProfileStore {
	return &ProfileStore{profiles: make(map[string]autoselect.Profile)}
}

// Put seeds id -> profile directly, for test setup.
func (p *ProfileStore) Put(id string, profile autoselect.Profile) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.profiles[id] = profile
}

func (p *ProfileStore) Lookup(_ context.Context, id string) (autoselect.Profile, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	prof, ok := p.profiles[id]
	return prof, ok, nil
}

func (p *ProfileStore) Write(_ context.Context, id string, profile autoselect.Profile) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.profiles[id] = profile
	return id, nil
}

// MetricsStore is an in-memory autoselect.MetricsStore.
type MetricsStore struct {
	mu      sync.Mutex
	metrics map[string]autoselect.HistoricalMetrics

	// FailSave, when non-nil, is returned by Save instead of succeeding —
	// used to exercise the §7 "store write failure" path.
	FailSave error
}

var _ autoselect.MetricsStore = (*MetricsStore)(nil)

// NewMetricsStore returns an empty MetricsStore.
func NewMetricsStore() *MetricsStore {
	return &MetricsStore{metrics: make(map[string]autoselect.HistoricalMetrics)}
}

// Put seeds id -> metrics directly, for test setup.
func (m *MetricsStore) Put(id string, metrics autoselect.HistoricalMetrics) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.metrics[id] = metrics
}

func (m *MetricsStore) Load(_ context.Context, id string) (autoselect.HistoricalMetrics, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	hm, ok := m.metrics[id]
	return hm, ok, nil
}

func (m *MetricsStore) Save(_ context.Context, id string, metrics autoselect.HistoricalMetrics) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSave != nil {
		return fmt.Errorf("save metrics %s: %w", id, m.FailSave)
	}
	m.metrics[id] = metrics
	return nil
}

// AffiliationStore is an in-memory autoselect.AffiliationStore.
type AffiliationStore struct {
	mu   sync.Mutex
	data map[string][2]string // id -> [quality, note]
}

var _ autoselect.AffiliationStore = (*AffiliationStore)(nil)

func NewAffiliationStore() *AffiliationStore {
	return &AffiliationStore{data: make(map[string][2]string)}
}

func (a *AffiliationStore) Get(_ context.Context, id string) (string, string, bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	v, ok := a.data[id]
	return v[0], v[1], ok, nil
}

func (a *AffiliationStore) Set(_ context.Context, id string, quality string, note string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.data[id] = [2]string{quality, note}
	return nil
}

// SelectionSink is an in-memory autoselect.SelectionSink that records
// every identifier ever promoted, in order.
type SelectionSink struct {
	mu      sync.Mutex
	active  string
	history []string
}

var _ autoselect.SelectionSink = (*SelectionSink)(nil)

func NewSelectionSink() *SelectionSink {
	return &SelectionSink{}
}

func (s *SelectionSink) SetActive(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = id
	s.history = append(s.history, id)
	return nil
}

// Active returns the most recently promoted identifier, or "" if none.
func (s *SelectionSink) Active() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// History returns every identifier ever promoted, in call order.
func (s *SelectionSink) History() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.history))
	copy(out, s.history)
	return out
}
