// Package memory holds processed manifestos for the lifetime of the
// process. It is the shared mutable state of the query path, so replacement
// is copy-on-write: a manifesto is built completely by the caller and then
// swapped into the map under the write lock.
package memory

import (
	"sort"
	"sync"

	"github.com/ballotline/manifesto-qa/internal/core/domain"
)

type Store struct {
	mu         sync.RWMutex
	manifestos map[string]domain.Manifesto
}

func NewStore() *Store {
	return &Store{manifestos: make(map[string]domain.Manifesto)}
}

// Put replaces any prior entry for the manifesto's party id. The caller
// must not mutate the manifesto after handing it over.
func (s *Store) Put(m domain.Manifesto) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.manifestos[m.PartyID] = m
}

func (s *Store) Get(partyID string) (domain.Manifesto, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.manifestos[partyID]
	return m, ok
}

// All returns manifestos ordered by party id, so downstream scoring sees a
// deterministic encounter order.
func (s *Store) All() []domain.Manifesto {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Manifesto, 0, len(s.manifestos))
	for _, m := range s.manifestos {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].PartyID < out[j].PartyID
	})
	return out
}

func (s *Store) List() []domain.ManifestoSummary {
	all := s.All()
	out := make([]domain.ManifestoSummary, 0, len(all))
	for _, m := range all {
		out = append(out, domain.ManifestoSummary{
			PartyID:     m.PartyID,
			PartyName:   m.PartyName,
			ChunkCount:  len(m.Chunks),
			ProcessedAt: m.ProcessedAt,
		})
	}
	return out
}
