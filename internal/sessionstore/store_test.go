package sessionstore

import (
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/ljlleo7-prog/Box-This-Lap/internal/domain"
	"github.com/ljlleo7-prog/Box-This-Lap/internal/engine"
)

func newTestEngine(t *testing.T) *engine.Engine {
	t.Helper()
	track := domain.Track{
		TotalDistance: 5000,
		Sectors: []domain.Sector{
			{ID: 1, StartDistance: 0, EndDistance: 5000, Type: domain.SectorStraight},
		},
		PitLane: domain.PitLane{EntryDistance: 4800, ExitDistance: 4900, SpeedLimit: 20},
	}
	drivers := []domain.Driver{{ID: "d1", BasePace: 90}}
	e, err := engine.New(track, drivers, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return e
}

func TestCreateGetDelete(t *testing.T) {
	store := New()
	id := store.Create(newTestEngine(t))

	if _, err := store.Get(id); err != nil {
		t.Fatalf("expected session to be retrievable, got %v", err)
	}
	if store.Len() != 1 {
		t.Fatalf("expected 1 active session, got %d", store.Len())
	}

	store.Delete(id)
	if _, err := store.Get(id); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestGetUnknownIDReturnsErrNotFound(t *testing.T) {
	store := New()
	if _, err := store.Get(uuid.New()); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound for an unregistered id, got %v", err)
	}
}

func TestConcurrentAccessIsSafe(t *testing.T) {
	store := New()
	var wg sync.WaitGroup
	ids := make([]uuid.UUID, 20)

	for i := 0; i < 20; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids[i] = store.Create(newTestEngine(t))
		}()
	}
	wg.Wait()

	if store.Len() != 20 {
		t.Fatalf("expected 20 sessions after concurrent creates, got %d", store.Len())
	}

	wg.Add(20)
	for _, id := range ids {
		id := id
		go func() {
			defer wg.Done()
			store.Get(id)
		}()
	}
	wg.Wait()
}
