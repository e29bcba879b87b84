package session

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/sunbun/assistant/pkg/domain"
	"github.com/sunbun/assistant/pkg/ports"
)

// MockStore structure
type MockStore struct{}

func (m *MockStore) Save(ctx context.Context, threadID string, state *domain.State) error {
	return nil
}
func (m *MockStore) Load(ctx context.Context, threadID string) (*domain.State, error) {
	return nil, nil
}
func (m *MockStore) Delete(ctx context.Context, threadID string) error { return nil }
func (m *MockStore) List(ctx context.Context) ([]string, error)        { return nil, nil }

func TestManager_LockLifecycle(t *testing.T) {
	mgr := NewManager(&MockStore{})
	ctx := context.Background()
	count := 10000

	for i := 0; i < count; i++ {
		tid := fmt.Sprintf("thread-%d", i)
		_ = mgr.Save(ctx, tid, &domain.State{})
		_ = mgr.Delete(ctx, tid)
	}

	// Lock entries are reference counted; once every call returns, the map
	// must be empty or memory grows with the number of threads ever seen.
	if lockCount := len(mgr.locks); lockCount != 0 {
		t.Errorf("memory leak detected: %d locks remaining after Delete", lockCount)
	}
}

type recordingLocker struct {
	locked   []string
	unlocked []string
}

func (l *recordingLocker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	l.locked = append(l.locked, key)
	return func(ctx context.Context) error {
		l.unlocked = append(l.unlocked, key)
		return nil
	}, nil
}

func TestManager_DistributedLockerPaired(t *testing.T) {
	locker := &recordingLocker{}
	mgr := NewManager(&MockStore{}, WithLocker(locker), WithLockTTL(5*time.Second))
	ctx := context.Background()

	_ = mgr.Save(ctx, "t1", &domain.State{})
	_, _ = mgr.Load(ctx, "t1")

	if len(locker.locked) != 2 || len(locker.unlocked) != 2 {
		t.Errorf("expected 2 paired lock/unlock cycles, got %d/%d", len(locker.locked), len(locker.unlocked))
	}
}
