package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"place-trainer/internal/domain"
	"place-trainer/internal/trainer"
)

func newTestRetrainService(store *fakeStore, tr *trainer.MockTrainer, n *mockNotifier, clock time.Time) *RetrainService {
	svc := NewRetrainService(zap.NewNop(), store, store, tr, n, 1)
	svc.now = func() time.Time { return clock }
	return svc
}

func TestOnPlaceCreated_RetrainsWhenThresholdReached(t *testing.T) {
	clock := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	store := newFakeStore(
		domain.PlaceRecord{ID: "p1", Name: "Ella Rock", Type: "mountain", AddedAt: 1},
		domain.PlaceRecord{ID: "p2", Name: "Spam", Verified: boolPtr(false), AddedAt: 2},
		domain.PlaceRecord{ID: "old", Name: "Old", Trained: true, AddedAt: 0},
	)
	store.models[domain.ModelID] = domain.ModelMetadata{ID: domain.ModelID, Version: 1000}
	tr := &trainer.MockTrainer{}
	n := &mockNotifier{}
	svc := newTestRetrainService(store, tr, n, clock)

	svc.OnPlaceCreated(context.Background(), domain.PlaceCreatedEvent{ID: "p2", Name: "Spam"})

	if tr.Calls != 1 {
		t.Fatalf("expected trainer called once, got %d", tr.Calls)
	}
	if len(tr.Received) != 1 || tr.Received[0].Source.ID != "p1" || tr.Received[0].Label != 7 {
		t.Fatalf("expected only verified-eligible p1 as sample, got %+v", tr.Received)
	}

	meta := store.models[domain.ModelID]
	if meta.Version <= 1000 {
		t.Fatalf("expected version to increase past 1000, got %d", meta.Version)
	}
	if meta.Version != clock.UnixMilli() {
		t.Fatalf("expected wall-clock version %d, got %d", clock.UnixMilli(), meta.Version)
	}
	if meta.TrainingDataSize != 1 || meta.TotalPlaces != 3 || meta.Status != "updated" {
		t.Fatalf("unexpected metadata: %+v", meta)
	}

	for _, id := range []string{"p1", "p2"} {
		p := store.places[id]
		if !p.Trained || p.TrainedAt == nil {
			t.Fatalf("expected %s marked trained, got %+v", id, p)
		}
	}
	if len(n.versions) != 1 || n.versions[0] < meta.Version {
		t.Fatalf("expected one reload signal with version >= %d, got %v", meta.Version, n.versions)
	}
}

func TestOnPlaceCreated_VersionStrictlyIncreasesWhenClockLags(t *testing.T) {
	clock := time.UnixMilli(500)
	store := newFakeStore(domain.PlaceRecord{ID: "p1"})
	store.models[domain.ModelID] = domain.ModelMetadata{ID: domain.ModelID, Version: 900}
	svc := newTestRetrainService(store, &trainer.MockTrainer{}, &mockNotifier{}, clock)

	svc.OnPlaceCreated(context.Background(), domain.PlaceCreatedEvent{ID: "p1"})

	if got := store.models[domain.ModelID].Version; got != 901 {
		t.Fatalf("expected version 901, got %d", got)
	}
}

func TestOnPlaceCreated_BelowThresholdDoesNothing(t *testing.T) {
	store := newFakeStore(domain.PlaceRecord{ID: "p1", Trained: true})
	tr := &trainer.MockTrainer{}
	n := &mockNotifier{}
	svc := newTestRetrainService(store, tr, n, time.Now())

	svc.OnPlaceCreated(context.Background(), domain.PlaceCreatedEvent{ID: "p1"})

	if tr.Calls != 0 || store.writes != 0 || len(n.versions) != 0 {
		t.Fatalf("expected no side effects, trainer=%d writes=%d notify=%d", tr.Calls, store.writes, len(n.versions))
	}
}

func TestOnPlaceCreated_CustomThreshold(t *testing.T) {
	store := newFakeStore(domain.PlaceRecord{ID: "p1"}, domain.PlaceRecord{ID: "p2"})
	tr := &trainer.MockTrainer{}
	svc := NewRetrainService(zap.NewNop(), store, store, tr, &mockNotifier{}, 3)

	svc.OnPlaceCreated(context.Background(), domain.PlaceCreatedEvent{ID: "p2"})
	if tr.Calls != 0 {
		t.Fatalf("expected no retrain with 2 pending and threshold 3")
	}
}

func TestOnPlaceCreated_SwallowsErrors(t *testing.T) {
	t.Run("count error", func(t *testing.T) {
		store := newFakeStore(domain.PlaceRecord{ID: "p1"})
		store.countErr = errors.New("store unavailable")
		tr := &trainer.MockTrainer{}
		svc := newTestRetrainService(store, tr, &mockNotifier{}, time.Now())

		svc.OnPlaceCreated(context.Background(), domain.PlaceCreatedEvent{ID: "p1"})
		if tr.Calls != 0 {
			t.Fatalf("expected no training after count error")
		}
	})

	t.Run("training error leaves records pending", func(t *testing.T) {
		store := newFakeStore(domain.PlaceRecord{ID: "p1"})
		n := &mockNotifier{}
		svc := newTestRetrainService(store, &trainer.MockTrainer{Err: errors.New("boom")}, n, time.Now())

		svc.OnPlaceCreated(context.Background(), domain.PlaceCreatedEvent{ID: "p1"})
		if store.places["p1"].Trained {
			t.Fatalf("expected p1 to stay pending")
		}
		if store.markCalls != 0 || len(n.versions) != 0 {
			t.Fatalf("expected abort before finalizing, mark=%d notify=%d", store.markCalls, len(n.versions))
		}
	})

	t.Run("mark error skips notification", func(t *testing.T) {
		store := newFakeStore(domain.PlaceRecord{ID: "p1"})
		store.markErr = errors.New("batch commit failed")
		n := &mockNotifier{}
		svc := newTestRetrainService(store, &trainer.MockTrainer{}, n, time.Now())

		svc.OnPlaceCreated(context.Background(), domain.PlaceCreatedEvent{ID: "p1"})
		if len(n.versions) != 0 {
			t.Fatalf("expected no notification after mark failure")
		}
	})
}

func TestManualRetrain(t *testing.T) {
	t.Run("no pending places", func(t *testing.T) {
		store := newFakeStore(domain.PlaceRecord{ID: "p1", Trained: true})
		tr := &trainer.MockTrainer{}
		svc := newTestRetrainService(store, tr, &mockNotifier{}, time.Now())

		res, err := svc.ManualRetrain(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Success || res.Message != "No pending places to train" {
			t.Fatalf("unexpected result: %+v", res)
		}
		if tr.Calls != 0 {
			t.Fatalf("expected no training")
		}
	})

	t.Run("retrains all pending without threshold", func(t *testing.T) {
		store := newFakeStore(
			domain.PlaceRecord{ID: "p1", Type: "beach"},
			domain.PlaceRecord{ID: "p2", Verified: boolPtr(false)},
		)
		svc := NewRetrainService(zap.NewNop(), store, store, &trainer.MockTrainer{}, &mockNotifier{}, 50)

		res, err := svc.ManualRetrain(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.Success || res.Message != "Model retrained with 2 new places" {
			t.Fatalf("unexpected result: %+v", res)
		}
		if !store.places["p1"].Trained || !store.places["p2"].Trained {
			t.Fatalf("expected both places trained")
		}
		if store.models[domain.ModelID].TrainingDataSize != 1 {
			t.Fatalf("expected training data size 1, got %d", store.models[domain.ModelID].TrainingDataSize)
		}
	})

	t.Run("failure surfaces internal error", func(t *testing.T) {
		store := newFakeStore(domain.PlaceRecord{ID: "p1"})
		store.saveModelErr = errors.New("write failed")
		tr := &trainer.MockTrainer{}
		svc := newTestRetrainService(store, tr, &mockNotifier{}, time.Now())

		_, err := svc.ManualRetrain(context.Background())
		if !errors.Is(err, ErrInternal) {
			t.Fatalf("expected ErrInternal, got %v", err)
		}
		var ce *CallableError
		if !errors.As(err, &ce) || ce.Message != "Retraining failed" {
			t.Fatalf("expected 'Retraining failed' message, got %v", err)
		}
		if store.places["p1"].Trained {
			t.Fatalf("expected p1 to stay pending")
		}
		if len(tr.Discarded) != 1 || tr.Discarded[0] != tr.Version {
			t.Fatalf("expected samples of unpublished version %d discarded, got %v", tr.Version, tr.Discarded)
		}
	})

	t.Run("discard failure keeps original error", func(t *testing.T) {
		store := newFakeStore(domain.PlaceRecord{ID: "p1"})
		store.saveModelErr = errors.New("write failed")
		tr := &trainer.MockTrainer{DiscardErr: errors.New("delete failed")}
		svc := newTestRetrainService(store, tr, &mockNotifier{}, time.Now())

		_, err := svc.ManualRetrain(context.Background())
		if !errors.Is(err, store.saveModelErr) {
			t.Fatalf("expected metadata error to surface, got %v", err)
		}
	})

	t.Run("notification failure is not fatal", func(t *testing.T) {
		store := newFakeStore(domain.PlaceRecord{ID: "p1"})
		svc := newTestRetrainService(store, &trainer.MockTrainer{}, &mockNotifier{err: errors.New("down")}, time.Now())

		res, err := svc.ManualRetrain(context.Background())
		if err != nil || !res.Success {
			t.Fatalf("expected success despite notify failure, res=%+v err=%v", res, err)
		}
	})

	t.Run("count all failure writes zero total", func(t *testing.T) {
		store := newFakeStore(domain.PlaceRecord{ID: "p1"})
		svc := newTestRetrainService(store, &trainer.MockTrainer{}, &mockNotifier{}, time.Now())
		svc.places = &countAllFailing{fakeStore: store}

		if _, err := svc.ManualRetrain(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if store.models[domain.ModelID].TotalPlaces != 0 {
			t.Fatalf("expected total places 0, got %d", store.models[domain.ModelID].TotalPlaces)
		}
	})
}

func TestRetrainLeaseGuardsPendingRead(t *testing.T) {
	t.Run("busy lease skips", func(t *testing.T) {
		store := newFakeStore(domain.PlaceRecord{ID: "p1"})
		tr := &trainer.MockTrainer{}
		svc := newTestRetrainService(store, tr, &mockNotifier{}, time.Now()).WithLease(&mockLease{ok: false})

		svc.OnPlaceCreated(context.Background(), domain.PlaceCreatedEvent{ID: "p1"})
		res, err := svc.ManualRetrain(context.Background())
		if err != nil || res.Success || res.Message != "Retraining already in progress" {
			t.Fatalf("unexpected manual result: %+v %v", res, err)
		}
		if tr.Calls != 0 {
			t.Fatalf("expected no training while lease is held elsewhere")
		}
	})

	t.Run("lease released after retrain", func(t *testing.T) {
		store := newFakeStore(domain.PlaceRecord{ID: "p1"})
		lease := &mockLease{ok: true}
		svc := newTestRetrainService(store, &trainer.MockTrainer{}, &mockNotifier{}, time.Now()).WithLease(lease)

		svc.OnPlaceCreated(context.Background(), domain.PlaceCreatedEvent{ID: "p1"})
		if lease.acquired != 1 || lease.released != 1 {
			t.Fatalf("expected acquire/release once, got %d/%d", lease.acquired, lease.released)
		}
	})
}

type countAllFailing struct {
	*fakeStore
}

func (c *countAllFailing) CountAll(_ context.Context) (int, error) {
	return 0, errors.New("count failed")
}
