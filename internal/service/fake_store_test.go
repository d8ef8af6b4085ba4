package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"place-trainer/internal/domain"
	"place-trainer/internal/repository"
)

// fakeStore es un store en memoria que implementa PlaceRepository y ModelRepository.
type fakeStore struct {
	mu     sync.Mutex
	places map[string]domain.PlaceRecord
	models map[string]domain.ModelMetadata

	countErr     error
	listErr      error
	markErr      error
	saveModelErr error
	getModelErr  error
	verifyErr    error
	applyErr     error

	markCalls    int
	applyCalls   int
	summaryCalls int
	writes       int
}

func newFakeStore(places ...domain.PlaceRecord) *fakeStore {
	s := &fakeStore{
		places: make(map[string]domain.PlaceRecord),
		models: make(map[string]domain.ModelMetadata),
	}
	for _, p := range places {
		s.places[p.ID] = p
	}
	return s
}

func (s *fakeStore) sorted() []domain.PlaceRecord {
	out := make([]domain.PlaceRecord, 0, len(s.places))
	for _, p := range s.places {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AddedAt != out[j].AddedAt {
			return out[i].AddedAt < out[j].AddedAt
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *fakeStore) Create(_ context.Context, place domain.PlaceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.places[place.ID] = place
	s.writes++
	return nil
}

func (s *fakeStore) GetByID(_ context.Context, id string) (domain.PlaceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.places[id]
	if !ok {
		return domain.PlaceRecord{}, pgx.ErrNoRows
	}
	return p, nil
}

func (s *fakeStore) CountAll(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.countErr != nil {
		return 0, s.countErr
	}
	return len(s.places), nil
}

func (s *fakeStore) CountPending(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.countErr != nil {
		return 0, s.countErr
	}
	n := 0
	for _, p := range s.places {
		if !p.Trained {
			n++
		}
	}
	return n, nil
}

func (s *fakeStore) CountSummary(_ context.Context) (int, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summaryCalls++
	if s.countErr != nil {
		return 0, 0, s.countErr
	}
	pending := 0
	for _, p := range s.places {
		if !p.Trained {
			pending++
		}
	}
	return len(s.places), pending, nil
}

func (s *fakeStore) ListPending(_ context.Context) ([]domain.PlaceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []domain.PlaceRecord
	for _, p := range s.sorted() {
		if !p.Trained {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *fakeStore) MarkTrained(_ context.Context, ids []string, trainedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markCalls++
	if s.markErr != nil {
		return s.markErr
	}
	for _, id := range ids {
		p := s.places[id]
		p.Trained = true
		at := trainedAt
		p.TrainedAt = &at
		s.places[id] = p
	}
	s.writes++
	return nil
}

func (s *fakeStore) Verify(_ context.Context, v domain.PlaceVerification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.verifyErr != nil {
		return s.verifyErr
	}
	p, ok := s.places[v.PlaceID]
	if !ok {
		return repository.ErrPlaceNotFound
	}
	applyVerification(&p, v)
	s.places[v.PlaceID] = p
	s.writes++
	return nil
}

func (s *fakeStore) ListUnverifiedAddedBefore(_ context.Context, addedBefore int64, limit int) ([]domain.PlaceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []domain.PlaceRecord
	for _, p := range s.sorted() {
		if p.Verified != nil && !*p.Verified && p.AddedAt <= addedBefore {
			out = append(out, p)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (s *fakeStore) ApplyVerifications(_ context.Context, vs []domain.PlaceVerification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applyCalls++
	if s.applyErr != nil {
		return s.applyErr
	}
	for _, v := range vs {
		if _, ok := s.places[v.PlaceID]; !ok {
			return fmt.Errorf("%w: %s", repository.ErrPlaceNotFound, v.PlaceID)
		}
	}
	for _, v := range vs {
		p := s.places[v.PlaceID]
		applyVerification(&p, v)
		s.places[v.PlaceID] = p
	}
	s.writes++
	return nil
}

func applyVerification(p *domain.PlaceRecord, v domain.PlaceVerification) {
	approved := v.Approved
	at := v.VerifiedAt
	p.Verified = &approved
	p.VerificationReason = v.Reason
	p.VerifiedBy = v.VerifiedBy
	p.VerifiedAt = &at
}

func (s *fakeStore) Get(_ context.Context, id string) (domain.ModelMetadata, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getModelErr != nil {
		return domain.ModelMetadata{}, s.getModelErr
	}
	m, ok := s.models[id]
	if !ok {
		return domain.ModelMetadata{}, pgx.ErrNoRows
	}
	return m, nil
}

func (s *fakeStore) Save(_ context.Context, meta domain.ModelMetadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveModelErr != nil {
		return s.saveModelErr
	}
	s.models[meta.ID] = meta
	s.writes++
	return nil
}

type mockNotifier struct {
	versions []int64
	err      error
}

func (m *mockNotifier) NotifyModelUpdated(_ context.Context, version int64) error {
	m.versions = append(m.versions, version)
	return m.err
}

type mockLease struct {
	ok       bool
	err      error
	acquired int
	released int
}

func (m *mockLease) Acquire(_ context.Context) (func(), bool, error) {
	if m.err != nil || !m.ok {
		return nil, false, m.err
	}
	m.acquired++
	return func() { m.released++ }, true, nil
}

func floatPtr(v float64) *float64 { return &v }
func boolPtr(v bool) *bool { return &v }
