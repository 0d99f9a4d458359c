package repository

import (
	"context"
	"testing"

	"paragraph/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uintPtr(v uint) *uint { return &v }

func TestBuildTopicTree(t *testing.T) {
	topics := []models.Topic{
		{ID: 1, Name: "فناوری", IsMainTopic: true},
		{ID: 2, Name: "برنامه‌نویسی", ParentID: uintPtr(1)},
		{ID: 3, Name: "هوش مصنوعی", ParentID: uintPtr(1)},
		{ID: 4, Name: "هنر", IsMainTopic: true},
	}
	counts := map[uint]int64{1: 2, 2: 5, 4: 1}

	roots := BuildTopicTree(topics, counts)
	require.Len(t, roots, 2)

	byName := map[string]*models.TopicNode{}
	for _, n := range roots {
		byName[n.Name] = n
	}

	tech := byName["فناوری"]
	require.NotNil(t, tech)
	assert.Equal(t, int64(2), tech.PostsCount)
	require.Len(t, tech.Children, 2)
	assert.Equal(t, int64(5), tech.Children[0].PostsCount)
	assert.Equal(t, int64(0), tech.Children[1].PostsCount, "missing count reads as zero")

	art := byName["هنر"]
	require.NotNil(t, art)
	assert.Empty(t, art.Children)
}

func TestBuildTopicTreePromotesOrphans(t *testing.T) {
	// Topic 7 declares a parent that is not in the set; it must surface at
	// the top level instead of vanishing from the tree.
	topics := []models.Topic{
		{ID: 1, Name: "اصلی", IsMainTopic: true},
		{ID: 7, Name: "یتیم", ParentID: uintPtr(99)},
	}

	roots := BuildTopicTree(topics, nil)
	require.Len(t, roots, 2)

	names := []string{roots[0].Name, roots[1].Name}
	assert.Contains(t, names, "یتیم")
}

func TestBuildTopicTreeEmpty(t *testing.T) {
	assert.Empty(t, BuildTopicTree(nil, nil))
}

func TestTopicFollowIdempotent(t *testing.T) {
	db := newTestDB(t)
	repo := NewTopicRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, "follower")
	topic := models.Topic{Name: "کتاب", IsMainTopic: true}
	require.NoError(t, db.Create(&topic).Error)

	require.NoError(t, repo.Follow(ctx, user.ID, topic.ID))
	require.NoError(t, repo.Follow(ctx, user.ID, topic.ID))

	var count int64
	require.NoError(t, db.Model(&models.TopicFollow{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	require.NoError(t, repo.Unfollow(ctx, user.ID, topic.ID))
	require.NoError(t, db.Model(&models.TopicFollow{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}
