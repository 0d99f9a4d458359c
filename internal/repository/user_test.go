package repository

import (
	"context"
	"testing"

	"paragraph/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExistsByIdentity(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := models.User{
		Username: "sara", Email: "sara@example.com", Phone: "09120000000",
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(&user).Error)

	tests := []struct {
		name     string
		username string
		email    string
		phone    string
		want     bool
	}{
		{"taken username", "sara", "new@example.com", "", true},
		{"taken email", "new", "sara@example.com", "", true},
		{"taken phone", "new", "new@example.com", "09120000000", true},
		{"all free", "new", "new@example.com", "09129999999", false},
		{"empty phone ignored", "new", "new@example.com", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.ExistsByIdentity(ctx, tt.username, tt.email, tt.phone)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFollowIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	a := seedUser(t, db, "a")
	b := seedUser(t, db, "b")

	require.NoError(t, repo.Follow(ctx, a.ID, b.ID))
	require.NoError(t, repo.Follow(ctx, a.ID, b.ID))

	followers, following, err := repo.FollowCounts(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), followers)
	assert.Equal(t, int64(0), following)

	ids, err := repo.FollowerIDs(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{a.ID}, ids)

	require.NoError(t, repo.Unfollow(ctx, a.ID, b.ID))
	followers, _, err = repo.FollowCounts(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), followers)
}

func TestDeleteUserKeepsContent(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	author := seedUser(t, db, "leaver")
	post := seedPost(t, db, author.ID, "kept", true)

	require.NoError(t, repo.Delete(ctx, author.ID))

	_, err := repo.GetByID(ctx, author.ID)
	assert.Error(t, err)

	var found models.Post
	require.NoError(t, db.First(&found, post.ID).Error)
	assert.Equal(t, author.ID, found.UserID)
}
