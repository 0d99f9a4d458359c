package repository

import (
	"context"
	"errors"

	"paragraph/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostListOptions controls the post listing page.
type PostListOptions struct {
	Limit  int
	Offset int
	// Search filters by title substring, case-insensitive.
	Search string
	// AuthorID restricts the page to one author when non-zero.
	AuthorID uint
	// IncludeUnpublished lifts the published-only gate (admin callers).
	IncludeUnpublished bool
	// AllComments attaches pending and rejected comments too (admin callers).
	AllComments bool
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post, topicIDs []uint) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	GetDetailed(ctx context.Context, id uint, allComments bool) (*models.Post, error)
	List(ctx context.Context, opts PostListOptions) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post, topicIDs []uint) error
	Delete(ctx context.Context, id uint) error
	SetPublished(ctx context.Context, id uint) (bool, error)
	ApplyRating(ctx context.Context, id uint, rating float64) error
	IncrementView(ctx context.Context, id uint, weekday int) error
	Views(ctx context.Context, id uint) ([7]int64, error)
	ToggleLike(ctx context.Context, userID, postID uint) (bool, error)
	LikeCount(ctx context.Context, postID uint) (int64, error)
	TopicPostCounts(ctx context.Context) (map[uint]int64, error)
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post, topicIDs []uint) error {
	if err := r.db.WithContext(ctx).Omit("Topics").Create(post).Error; err != nil {
		return err
	}
	return r.replaceTopics(ctx, post, topicIDs)
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Preload("User").Preload("Topics").First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// GetDetailed loads a single post with its engagement data, weekday view
// buckets and topics attached. Publish-state gating is the caller's concern.
func (r *postRepository) GetDetailed(ctx context.Context, id uint, allComments bool) (*models.Post, error) {
	post, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.attachEngagement(ctx, []*models.Post{post}, allComments); err != nil {
		return nil, err
	}
	views, err := r.Views(ctx, id)
	if err != nil {
		return nil, err
	}
	post.Views = views
	for _, n := range views {
		post.TotalViews += n
	}
	return post, nil
}

func (r *postRepository) List(ctx context.Context, opts PostListOptions) ([]*models.Post, error) {
	var posts []*models.Post
	q := r.db.WithContext(ctx).Preload("User").Preload("Topics")
	if !opts.IncludeUnpublished {
		q = q.Where("is_published = ?", true)
	}
	if opts.AuthorID != 0 {
		q = q.Where("user_id = ?", opts.AuthorID)
	}
	if opts.Search != "" {
		q = q.Where("LOWER(title) LIKE LOWER(?)", "%"+opts.Search+"%")
	}
	err := q.Order("created_at DESC").
		Limit(opts.Limit).
		Offset(opts.Offset).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	if err := r.attachEngagement(ctx, posts, opts.AllComments); err != nil {
		return nil, err
	}
	return posts, nil
}

// attachEngagement merges like counts and comments onto the page of posts
// using exactly one grouped count query and one comment query, never one
// query per post.
func (r *postRepository) attachEngagement(ctx context.Context, posts []*models.Post, allComments bool) error {
	if len(posts) == 0 {
		return nil
	}

	ids := make([]uint, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}

	type likeRow struct {
		PostID uint
		N      int64
	}
	var likeRows []likeRow
	if err := r.db.WithContext(ctx).Model(&models.Like{}).
		Select("post_id, COUNT(*) AS n").
		Where("post_id IN ?", ids).
		Group("post_id").
		Scan(&likeRows).Error; err != nil {
		return err
	}
	likesByPost := make(map[uint]int64, len(likeRows))
	for _, row := range likeRows {
		likesByPost[row.PostID] = row.N
	}

	commentQuery := r.db.WithContext(ctx).Preload("User").Where("post_id IN ?", ids)
	if !allComments {
		commentQuery = commentQuery.Where("status = ?", models.CommentApproved)
	}
	var comments []models.Comment
	if err := commentQuery.Order("created_at ASC").Find(&comments).Error; err != nil {
		return err
	}
	commentsByPost := make(map[uint][]models.Comment, len(ids))
	for _, cm := range comments {
		commentsByPost[cm.PostID] = append(commentsByPost[cm.PostID], cm)
	}

	for _, p := range posts {
		p.LikesCount = likesByPost[p.ID]
		p.Comments = commentsByPost[p.ID]
	}
	return nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post, topicIDs []uint) error {
	if err := r.db.WithContext(ctx).Omit("Topics").Save(post).Error; err != nil {
		return err
	}
	if topicIDs == nil {
		return nil
	}
	return r.replaceTopics(ctx, post, topicIDs)
}

func (r *postRepository) replaceTopics(ctx context.Context, post *models.Post, topicIDs []uint) error {
	if topicIDs == nil {
		return nil
	}
	var topics []models.Topic
	if len(topicIDs) > 0 {
		if err := r.db.WithContext(ctx).Where("id IN ?", topicIDs).Find(&topics).Error; err != nil {
			return err
		}
	}
	if err := r.db.WithContext(ctx).Model(post).Association("Topics").Replace(topics); err != nil {
		return err
	}
	post.Topics = topics
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Post{}, id).Error
}

// SetPublished flips the publish flag exactly once. Returns false when the
// post was already published so callers can skip the notification fan-out.
func (r *postRepository) SetPublished(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ? AND is_published = ?", id, false).
		Update("is_published", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ApplyRating folds one submitted rating into the weighted running average in
// a single UPDATE so concurrent submissions cannot lose each other's update.
func (r *postRepository) ApplyRating(ctx context.Context, id uint, rating float64) error {
	return r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"rating":       gorm.Expr("ROUND((rating * rating_count + ?) / (rating_count + 1.0), 2)", rating),
			"rating_count": gorm.Expr("rating_count + 1"),
		}).Error
}

// IncrementView bumps the weekday bucket atomically: insert the (post,
// weekday) row on first sight, increment on every fetch after. Buckets
// accumulate forever; there is no weekly reset.
func (r *postRepository) IncrementView(ctx context.Context, id uint, weekday int) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "post_id"}, {Name: "weekday"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"count": gorm.Expr(`"count" + 1`),
		}),
	}).Create(&models.PostView{PostID: id, Weekday: weekday, Count: 1}).Error
}

// Views returns the fixed 7-element weekday view array; missing buckets read
// as zero.
func (r *postRepository) Views(ctx context.Context, id uint) ([7]int64, error) {
	var views [7]int64
	var rows []models.PostView
	if err := r.db.WithContext(ctx).Where("post_id = ?", id).Find(&rows).Error; err != nil {
		return views, err
	}
	for _, row := range rows {
		if row.Weekday >= 0 && row.Weekday < 7 {
			views[row.Weekday] = row.Count
		}
	}
	return views, nil
}

// ToggleLike creates the like when absent and removes it when present.
// Returns true when the post ended up liked.
func (r *postRepository) ToggleLike(ctx context.Context, userID, postID uint) (bool, error) {
	var existing models.Like
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		First(&existing).Error
	switch {
	case err == nil:
		if err := r.db.WithContext(ctx).Delete(&existing).Error; err != nil {
			return false, err
		}
		return false, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		like := models.Like{UserID: userID, PostID: postID}
		if err := r.db.WithContext(ctx).Create(&like).Error; err != nil {
			if IsUniqueViolation(err) {
				// Concurrent toggle already created it.
				return true, nil
			}
			return false, err
		}
		return true, nil
	default:
		return false, err
	}
}

func (r *postRepository) LikeCount(ctx context.Context, postID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	return count, err
}

// TopicPostCounts returns posts-per-topic in one grouped query over the join
// table, skipping soft-deleted posts.
func (r *postRepository) TopicPostCounts(ctx context.Context) (map[uint]int64, error) {
	type countRow struct {
		TopicID uint
		N       int64
	}
	var rows []countRow
	err := r.db.WithContext(ctx).Table("post_topics").
		Select("post_topics.topic_id, COUNT(*) AS n").
		Joins("JOIN posts ON posts.id = post_topics.post_id AND posts.deleted_at IS NULL").
		Group("post_topics.topic_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[uint]int64, len(rows))
	for _, row := range rows {
		counts[row.TopicID] = row.N
	}
	return counts, nil
}
