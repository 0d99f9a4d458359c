package repository

import (
	"context"

	"paragraph/internal/models"

	"gorm.io/gorm"
)

// ListRepository defines the interface for bookmark list data operations
type ListRepository interface {
	Create(ctx context.Context, list *models.List) error
	GetByID(ctx context.Context, id uint) (*models.List, error)
	ListByUser(ctx context.Context, userID uint) ([]models.List, error)
	Update(ctx context.Context, list *models.List) error
	Delete(ctx context.Context, id uint) error
	AddPost(ctx context.Context, list *models.List, post *models.Post) error
	RemovePost(ctx context.Context, list *models.List, post *models.Post) error
}

// listRepository implements ListRepository
type listRepository struct {
	db *gorm.DB
}

// NewListRepository creates a new list repository
func NewListRepository(db *gorm.DB) ListRepository {
	return &listRepository{db: db}
}

func (r *listRepository) Create(ctx context.Context, list *models.List) error {
	return r.db.WithContext(ctx).Create(list).Error
}

func (r *listRepository) GetByID(ctx context.Context, id uint) (*models.List, error) {
	var list models.List
	if err := r.db.WithContext(ctx).Preload("Posts").First(&list, id).Error; err != nil {
		return nil, err
	}
	return &list, nil
}

func (r *listRepository) ListByUser(ctx context.Context, userID uint) ([]models.List, error) {
	var lists []models.List
	err := r.db.WithContext(ctx).Preload("Posts").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&lists).Error
	return lists, err
}

func (r *listRepository) Update(ctx context.Context, list *models.List) error {
	return r.db.WithContext(ctx).Omit("Posts").Save(list).Error
}

func (r *listRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.List{}, id).Error
}

func (r *listRepository) AddPost(ctx context.Context, list *models.List, post *models.Post) error {
	return r.db.WithContext(ctx).Model(list).Association("Posts").Append(post)
}

func (r *listRepository) RemovePost(ctx context.Context, list *models.List, post *models.Post) error {
	return r.db.WithContext(ctx).Model(list).Association("Posts").Delete(post)
}
