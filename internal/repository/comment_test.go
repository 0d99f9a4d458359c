package repository

import (
	"context"
	"testing"

	"paragraph/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApproveIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	author := seedUser(t, db, "author")
	reader := seedUser(t, db, "reader")
	post := seedPost(t, db, author.ID, "commented", true)

	comment := models.Comment{
		Content: "دیدگاه", UserID: reader.ID, PostID: post.ID,
		Status: models.CommentPending,
	}
	require.NoError(t, db.Create(&comment).Error)

	changed, err := repo.Approve(ctx, comment.ID)
	require.NoError(t, err)
	assert.True(t, changed)

	// Second approval changes nothing; callers use this to suppress a
	// duplicate notification fan-out.
	changed, err = repo.Approve(ctx, comment.ID)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestRejectKeepsRatingContribution(t *testing.T) {
	db := newTestDB(t)
	commentRepo := NewCommentRepository(db)
	postRepo := NewPostRepository(db)
	ctx := context.Background()

	author := seedUser(t, db, "author")
	reader := seedUser(t, db, "reader")
	post := seedPost(t, db, author.ID, "rated", true)

	comment := models.Comment{
		Content: "دیدگاه", Rating: 2, UserID: reader.ID, PostID: post.ID,
		Status: models.CommentPending,
	}
	require.NoError(t, db.Create(&comment).Error)
	require.NoError(t, postRepo.ApplyRating(ctx, post.ID, 2))

	changed, err := commentRepo.Reject(ctx, comment.ID)
	require.NoError(t, err)
	assert.True(t, changed)

	got, err := postRepo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 2.0, got.Rating)
	assert.Equal(t, int64(1), got.RatingCount)
}

func TestListByPostFiltersApproved(t *testing.T) {
	db := newTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	author := seedUser(t, db, "author")
	reader := seedUser(t, db, "reader")
	post := seedPost(t, db, author.ID, "commented", true)

	for _, status := range []models.CommentStatus{
		models.CommentApproved, models.CommentPending, models.CommentRejected,
	} {
		require.NoError(t, db.Create(&models.Comment{
			Content: "دیدگاه", UserID: reader.ID, PostID: post.ID, Status: status,
		}).Error)
	}

	comments, err := repo.ListByPost(ctx, post.ID, true)
	require.NoError(t, err)
	assert.Len(t, comments, 1)

	comments, err = repo.ListByPost(ctx, post.ID, false)
	require.NoError(t, err)
	assert.Len(t, comments, 3)
}

func TestCountByStatus(t *testing.T) {
	db := newTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	author := seedUser(t, db, "author")
	reader := seedUser(t, db, "reader")
	post := seedPost(t, db, author.ID, "commented", true)

	for i := 0; i < 3; i++ {
		require.NoError(t, db.Create(&models.Comment{
			Content: "در انتظار", UserID: reader.ID, PostID: post.ID,
			Status: models.CommentPending,
		}).Error)
	}

	count, err := repo.CountByStatus(ctx, models.CommentPending)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}
