// File: internal/user/watch.go
package user

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/Agnesa14/SkillCast/internal/common"
	"github.com/Agnesa14/SkillCast/internal/shared"
)

// Watcher is an in-process snapshot bus for profile records, the local
// equivalent of the document store's live subscriptions. WatchProfile yields
// the current record first, then one snapshot per write published through
// the service.
type Watcher struct {
	repo   Repository
	logger *zap.Logger

	mu     sync.Mutex
	subs   map[string]map[int]chan *shared.Profile
	nextID int
}

// NewWatcher creates a Watcher reading initial snapshots from repo.
func NewWatcher(repo Repository, logger *zap.Logger) *Watcher {
	return &Watcher{
		repo:   repo,
		logger: logger,
		subs:   make(map[string]map[int]chan *shared.Profile),
	}
}

var _ shared.ProfileWatcher = (*Watcher)(nil)

// WatchProfile subscribes to one profile. The initial snapshot is delivered
// before WatchProfile returns; a missing record yields a nil snapshot so the
// subscriber still learns that the first read has completed. The cancel
// function closes the channel and is safe to call more than once.
func (w *Watcher) WatchProfile(ctx context.Context, id string) (<-chan *shared.Profile, func(), error) {
	var initial *shared.Profile
	profile, err := w.repo.FindByID(ctx, id)
	switch {
	case err == nil:
		initial = profile.ToShared()
	case errors.Is(err, common.ErrNotFound):
		initial = nil
	default:
		return nil, nil, err
	}

	ch := make(chan *shared.Profile, 8)
	ch <- initial

	w.mu.Lock()
	subID := w.nextID
	w.nextID++
	if w.subs[id] == nil {
		w.subs[id] = make(map[int]chan *shared.Profile)
	}
	w.subs[id][subID] = ch
	w.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			w.mu.Lock()
			if subs, ok := w.subs[id]; ok {
				delete(subs, subID)
				if len(subs) == 0 {
					delete(w.subs, id)
				}
			}
			w.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel, nil
}

// Publish delivers a fresh snapshot to every subscriber of the record. A
// slow subscriber loses its oldest buffered snapshot rather than blocking
// the writer; only the latest state matters to flow decisions.
func (w *Watcher) Publish(profile *shared.Profile) {
	if profile == nil {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	for _, ch := range w.subs[profile.ID] {
		select {
		case ch <- profile:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- profile:
			default:
				w.logger.Warn("Dropped profile snapshot for slow subscriber", zap.String("profileID", profile.ID))
			}
		}
	}
}
