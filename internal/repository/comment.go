package repository

import (
	"context"

	"paragraph/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	ListByPost(ctx context.Context, postID uint, approvedOnly bool) ([]models.Comment, error)
	Update(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, id uint) error
	Approve(ctx context.Context, id uint) (bool, error)
	Reject(ctx context.Context, id uint) (bool, error)
	CountByStatus(ctx context.Context, status models.CommentStatus) (int64, error)
}

// commentRepository implements CommentRepository
type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Preload("User").First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) ListByPost(ctx context.Context, postID uint, approvedOnly bool) ([]models.Comment, error) {
	q := r.db.WithContext(ctx).Preload("User").Where("post_id = ?", postID)
	if approvedOnly {
		q = q.Where("status = ?", models.CommentApproved)
	}
	var comments []models.Comment
	err := q.Order("created_at ASC").Find(&comments).Error
	return comments, err
}

func (r *commentRepository) Update(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Save(comment).Error
}

func (r *commentRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Comment{}, id).Error
}

// Approve flips status to approved with a conditional update. Returns false
// when the comment was already approved, which guards the idempotence rule:
// a second approval must not fan out duplicate notifications.
func (r *commentRepository) Approve(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("id = ? AND status <> ?", id, models.CommentApproved).
		Update("status", models.CommentApproved)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Reject marks the comment rejected. The rating contribution applied at
// creation time is intentionally not reverted.
func (r *commentRepository) Reject(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("id = ? AND status <> ?", id, models.CommentRejected).
		Update("status", models.CommentRejected)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *commentRepository) CountByStatus(ctx context.Context, status models.CommentStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}
