package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/example/academy/internal/models"
)

func TestCartAddIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	cart := NewCartService(repo, zap.NewNop())
	teacher := createUser(t, repo, 0, true)
	learner := createUser(t, repo, 0, false)
	course := createCourse(t, repo, teacher.ID, 1000, true)

	first, added, err := cart.Add(ctx, learner.ID, courseRef(course))
	require.NoError(t, err)
	assert.True(t, added)

	second, added, err := cart.Add(ctx, learner.ID, courseRef(course))
	require.NoError(t, err)
	assert.False(t, added)
	assert.Equal(t, first.ID, second.ID)

	snap, err := cart.Snapshot(ctx, learner.ID)
	require.NoError(t, err)
	assert.Len(t, snap.Items, 1)
	assert.Equal(t, int64(1000), snap.Total)
}

func TestCartSnapshotSumsItems(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	cart := NewCartService(repo, zap.NewNop())
	teacher := createUser(t, repo, 0, true)
	learner := createUser(t, repo, 0, false)

	empty, err := cart.Snapshot(ctx, learner.ID)
	require.NoError(t, err)
	assert.Nil(t, empty.CartID)
	assert.Empty(t, empty.Items)
	assert.Zero(t, empty.Total)

	for _, price := range []int64{1000, 2500} {
		_, _, err := cart.Add(ctx, learner.ID, courseRef(createCourse(t, repo, teacher.ID, price, true)))
		require.NoError(t, err)
	}

	snap, err := cart.Snapshot(ctx, learner.ID)
	require.NoError(t, err)
	require.NotNil(t, snap.CartID)
	assert.Len(t, snap.Items, 2)
	assert.Equal(t, int64(3500), snap.Total)
}

func TestCartRemove(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	cart := NewCartService(repo, zap.NewNop())
	teacher := createUser(t, repo, 0, true)
	learner := createUser(t, repo, 0, false)
	course := createCourse(t, repo, teacher.ID, 1000, true)

	assert.ErrorIs(t, cart.Remove(ctx, learner.ID, courseRef(course)), ErrNotFound)

	_, _, err := cart.Add(ctx, learner.ID, courseRef(course))
	require.NoError(t, err)
	require.NoError(t, cart.Remove(ctx, learner.ID, courseRef(course)))
	assert.ErrorIs(t, cart.Remove(ctx, learner.ID, courseRef(course)), ErrNotFound)

	snap, err := cart.Snapshot(ctx, learner.ID)
	require.NoError(t, err)
	assert.Empty(t, snap.Items)
}

func TestCartAddRejectsUnknownOrHiddenContent(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	cart := NewCartService(repo, zap.NewNop())
	teacher := createUser(t, repo, 0, true)
	learner := createUser(t, repo, 0, false)
	draft := createCourse(t, repo, teacher.ID, 1000, false)

	_, _, err := cart.Add(ctx, learner.ID, courseRef(draft))
	assert.ErrorIs(t, err, ErrNotFound)

	_, _, err = cart.Add(ctx, learner.ID, models.ContentRef{Kind: models.ContentCourse, ID: uuid.New()})
	assert.ErrorIs(t, err, ErrNotFound)

	_, _, err = cart.Add(ctx, learner.ID, models.ContentRef{Kind: "podcast", ID: draft.ID})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}
