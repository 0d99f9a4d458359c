package repository

import (
	"context"

	"paragraph/internal/models"

	"gorm.io/gorm"
)

// StatsRepository aggregates the dashboard counters.
type StatsRepository interface {
	GlobalStats(ctx context.Context) (*models.DashboardStats, error)
	AuthorStats(ctx context.Context, userID uint) (*models.AuthorStats, error)
}

// statsRepository implements StatsRepository
type statsRepository struct {
	db *gorm.DB
}

// NewStatsRepository creates a new stats repository
func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) GlobalStats(ctx context.Context) (*models.DashboardStats, error) {
	var stats models.DashboardStats
	db := r.db.WithContext(ctx)

	if err := db.Model(&models.User{}).Count(&stats.Users).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Post{}).Count(&stats.Posts).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Post{}).
		Where("is_published = ?", true).
		Count(&stats.PublishedPosts).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Comment{}).
		Where("status = ?", models.CommentPending).
		Count(&stats.PendingComments).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Like{}).Count(&stats.Likes).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Topic{}).Count(&stats.Topics).Error; err != nil {
		return nil, err
	}

	views, total, err := r.weekdayTotals(ctx, 0)
	if err != nil {
		return nil, err
	}
	stats.Views = views
	stats.TotalViews = total
	return &stats, nil
}

func (r *statsRepository) AuthorStats(ctx context.Context, userID uint) (*models.AuthorStats, error) {
	var stats models.AuthorStats
	db := r.db.WithContext(ctx)

	if err := db.Model(&models.Post{}).
		Where("user_id = ?", userID).
		Count(&stats.Posts).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Post{}).
		Where("user_id = ? AND is_published = ?", userID, true).
		Count(&stats.PublishedPosts).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Like{}).
		Joins("JOIN posts ON posts.id = likes.post_id AND posts.deleted_at IS NULL").
		Where("posts.user_id = ?", userID).
		Count(&stats.Likes).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.UserFollow{}).
		Where("followee_id = ?", userID).
		Count(&stats.Followers).Error; err != nil {
		return nil, err
	}

	views, total, err := r.weekdayTotals(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats.Views = views
	stats.TotalViews = total
	return &stats, nil
}

// weekdayTotals sums view buckets by weekday in one grouped query; a non-zero
// authorID restricts the sum to that author's posts.
func (r *statsRepository) weekdayTotals(ctx context.Context, authorID uint) ([7]int64, int64, error) {
	var views [7]int64
	type row struct {
		Weekday int
		N       int64
	}
	q := r.db.WithContext(ctx).Model(&models.PostView{}).
		Select(`weekday, SUM("count") AS n`).
		Group("weekday")
	if authorID != 0 {
		q = q.Joins("JOIN posts ON posts.id = post_views.post_id AND posts.deleted_at IS NULL").
			Where("posts.user_id = ?", authorID)
	}
	var rows []row
	if err := q.Scan(&rows).Error; err != nil {
		return views, 0, err
	}
	var total int64
	for _, rw := range rows {
		if rw.Weekday >= 0 && rw.Weekday < 7 {
			views[rw.Weekday] = rw.N
			total += rw.N
		}
	}
	return views, total, nil
}
