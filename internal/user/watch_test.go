// File: internal/user/watch_test.go
package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Agnesa14/SkillCast/internal/common"
	"github.com/Agnesa14/SkillCast/internal/platform/logger"
	"github.com/Agnesa14/SkillCast/internal/shared"
)

func TestWatchProfileDeliversInitialSnapshot(t *testing.T) {
	repo := new(mockRepository)
	repo.On("FindByID", mock.Anything, "uid-1").
		Return(&Profile{ID: "uid-1", Role: common.RoleStudent}, nil)

	w := NewWatcher(repo, logger.NewDefaultLogger())
	snapshots, cancel, err := w.WatchProfile(context.Background(), "uid-1")
	require.NoError(t, err)
	defer cancel()

	first := <-snapshots
	require.NotNil(t, first)
	assert.Equal(t, "uid-1", first.ID)
}

func TestWatchProfileMissingRecordYieldsNilSnapshot(t *testing.T) {
	repo := new(mockRepository)
	repo.On("FindByID", mock.Anything, "ghost").Return(nil, common.ErrNotFound)

	w := NewWatcher(repo, logger.NewDefaultLogger())
	snapshots, cancel, err := w.WatchProfile(context.Background(), "ghost")
	require.NoError(t, err)
	defer cancel()

	// The read completed even though the record does not exist.
	assert.Nil(t, <-snapshots)
}

func TestWatchProfilePublishAndCancel(t *testing.T) {
	repo := new(mockRepository)
	repo.On("FindByID", mock.Anything, "uid-1").
		Return(&Profile{ID: "uid-1", Role: common.RoleStudent}, nil)

	w := NewWatcher(repo, logger.NewDefaultLogger())
	snapshots, cancel, err := w.WatchProfile(context.Background(), "uid-1")
	require.NoError(t, err)
	<-snapshots

	w.Publish(&shared.Profile{ID: "uid-1", IsProfileComplete: true})
	got := <-snapshots
	require.NotNil(t, got)
	assert.True(t, got.IsProfileComplete)

	cancel()
	cancel() // safe to call twice

	_, open := <-snapshots
	assert.False(t, open, "channel is closed after cancel")

	// Publishing after cancel reaches nobody and must not panic.
	w.Publish(&shared.Profile{ID: "uid-1"})
}

func TestWatchProfileIsolatesSubscribersByID(t *testing.T) {
	repo := new(mockRepository)
	repo.On("FindByID", mock.Anything, "uid-1").
		Return(&Profile{ID: "uid-1", Role: common.RoleStudent}, nil)
	repo.On("FindByID", mock.Anything, "uid-2").
		Return(&Profile{ID: "uid-2", Role: common.RoleEmployer}, nil)

	w := NewWatcher(repo, logger.NewDefaultLogger())
	one, cancelOne, err := w.WatchProfile(context.Background(), "uid-1")
	require.NoError(t, err)
	defer cancelOne()
	two, cancelTwo, err := w.WatchProfile(context.Background(), "uid-2")
	require.NoError(t, err)
	defer cancelTwo()
	<-one
	<-two

	w.Publish(&shared.Profile{ID: "uid-2", IsProfileComplete: true})

	select {
	case got := <-two:
		assert.Equal(t, "uid-2", got.ID)
	default:
		t.Fatal("subscriber for uid-2 did not receive the snapshot")
	}
	select {
	case got := <-one:
		t.Fatalf("subscriber for uid-1 unexpectedly received %+v", got)
	default:
	}
}
