package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/example/academy/internal/models"
)

func TestListCoursesShowsPublishedMatches(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	catalog := NewCatalogService(repo, zap.NewNop())
	teacher := createUser(t, repo, 0, true)

	golang := createCourse(t, repo, teacher.ID, 1000, true)
	require.NoError(t, repo.DB.Model(golang).Update("name", "Practical Go").Error)
	createCourse(t, repo, teacher.ID, 2000, true)
	createCourse(t, repo, teacher.ID, 3000, false)

	all, total, err := catalog.ListCourses(ctx, "", 9, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, all, 2)

	found, total, err := catalog.ListCourses(ctx, "go", 9, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, found, 1)
	assert.Equal(t, golang.ID, found[0].ID)
	assert.Equal(t, int64(1000), found[0].FinalPrice)
}

func TestCoursesByCategory(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	catalog := NewCatalogService(repo, zap.NewNop())
	teacher := createUser(t, repo, 0, true)

	backend := &models.Category{Title: "Backend", Slug: "backend"}
	require.NoError(t, repo.Categories.Create(ctx, backend))
	course := createCourse(t, repo, teacher.ID, 1000, true)
	createCourse(t, repo, teacher.ID, 2000, true)
	require.NoError(t, repo.DB.Model(course).Association("Categories").Append(backend))

	category, courses, total, err := catalog.CoursesByCategory(ctx, "backend", 9, 0)
	require.NoError(t, err)
	assert.Equal(t, backend.ID, category.ID)
	assert.Equal(t, int64(1), total)
	require.Len(t, courses, 1)
	assert.Equal(t, course.ID, courses[0].ID)

	_, _, _, err = catalog.CoursesByCategory(ctx, "frontend", 9, 0)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCourseDetailAndComments(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	catalog := NewCatalogService(repo, zap.NewNop())
	teacher := createUser(t, repo, 0, true)
	learner := createUser(t, repo, 0, false)
	course := createCourse(t, repo, teacher.ID, 1000, true)
	other := createCourse(t, repo, teacher.ID, 2000, true)
	draft := createCourse(t, repo, teacher.ID, 3000, false)

	_, err := catalog.CourseDetail(ctx, draft.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	root, err := catalog.AddComment(ctx, learner.ID, CommentInput{
		ContentType: "course",
		MediaID:     course.ID,
		Body:        "great course",
	})
	require.NoError(t, err)

	_, err = catalog.AddComment(ctx, teacher.ID, CommentInput{
		ContentType: "course",
		MediaID:     course.ID,
		ParentID:    &root.ID,
		Body:        "thanks",
	})
	require.NoError(t, err)

	_, err = catalog.AddComment(ctx, learner.ID, CommentInput{
		ContentType: "course",
		MediaID:     other.ID,
		ParentID:    &root.ID,
		Body:        "wrong thread",
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "parent_id", verr.Field)

	_, err = catalog.AddComment(ctx, learner.ID, CommentInput{
		ContentType: "article",
		MediaID:     course.ID,
		Body:        "unknown kind",
	})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "content_type", verr.Field)

	detail, err := catalog.CourseDetail(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), detail.FinalPrice)
	assert.Len(t, detail.Comments, 2)
}

func TestToggleBookmark(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	catalog := NewCatalogService(repo, zap.NewNop())
	dashboard := NewDashboardService(repo, zap.NewNop())
	teacher := createUser(t, repo, 0, true)
	learner := createUser(t, repo, 0, false)
	course := createCourse(t, repo, teacher.ID, 1000, true)

	on, err := catalog.ToggleBookmark(ctx, learner.ID, courseRef(course))
	require.NoError(t, err)
	assert.True(t, on)

	saved, total, err := dashboard.MyBookmarks(ctx, learner.ID, 9, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, saved, 1)
	assert.Equal(t, course.ID, saved[0].ID)

	on, err = catalog.ToggleBookmark(ctx, learner.ID, courseRef(course))
	require.NoError(t, err)
	assert.False(t, on)

	saved, _, err = dashboard.MyBookmarks(ctx, learner.ID, 9, 0)
	require.NoError(t, err)
	assert.Empty(t, saved)
}
