package repository

import (
	"context"
	"errors"

	"paragraph/internal/models"

	"gorm.io/gorm"
)

// TopicRepository defines the interface for topic data operations
type TopicRepository interface {
	Create(ctx context.Context, topic *models.Topic) error
	GetByID(ctx context.Context, id uint) (*models.Topic, error)
	GetByName(ctx context.Context, name string) (*models.Topic, error)
	ListAll(ctx context.Context) ([]models.Topic, error)
	Update(ctx context.Context, topic *models.Topic) error
	Delete(ctx context.Context, id uint) error
	Follow(ctx context.Context, userID, topicID uint) error
	Unfollow(ctx context.Context, userID, topicID uint) error
}

// topicRepository implements TopicRepository
type topicRepository struct {
	db *gorm.DB
}

// NewTopicRepository creates a new topic repository
func NewTopicRepository(db *gorm.DB) TopicRepository {
	return &topicRepository{db: db}
}

func (r *topicRepository) Create(ctx context.Context, topic *models.Topic) error {
	return r.db.WithContext(ctx).Create(topic).Error
}

func (r *topicRepository) GetByID(ctx context.Context, id uint) (*models.Topic, error) {
	var topic models.Topic
	if err := r.db.WithContext(ctx).First(&topic, id).Error; err != nil {
		return nil, err
	}
	return &topic, nil
}

func (r *topicRepository) GetByName(ctx context.Context, name string) (*models.Topic, error) {
	var topic models.Topic
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&topic).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &topic, nil
}

func (r *topicRepository) ListAll(ctx context.Context) ([]models.Topic, error) {
	var topics []models.Topic
	err := r.db.WithContext(ctx).Order("name ASC").Find(&topics).Error
	return topics, err
}

func (r *topicRepository) Update(ctx context.Context, topic *models.Topic) error {
	return r.db.WithContext(ctx).Save(topic).Error
}

func (r *topicRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Topic{}, id).Error
}

func (r *topicRepository) Follow(ctx context.Context, userID, topicID uint) error {
	follow := models.TopicFollow{UserID: userID, TopicID: topicID}
	err := r.db.WithContext(ctx).Create(&follow).Error
	if err != nil && IsUniqueViolation(err) {
		return nil
	}
	return err
}

func (r *topicRepository) Unfollow(ctx context.Context, userID, topicID uint) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND topic_id = ?", userID, topicID).
		Delete(&models.TopicFollow{}).Error
}

// BuildTopicTree assembles the two-level topic forest from the flat topic set
// and the per-topic post counts. It builds an id-to-node index in one pass,
// then resolves parents in a second: children attach under their parent's
// node, everything else (including topics whose declared parent is missing
// from the set) lands in the top-level result. Promoting orphans instead of
// dropping them keeps every topic reachable in the tree.
func BuildTopicTree(topics []models.Topic, counts map[uint]int64) []*models.TopicNode {
	index := make(map[uint]*models.TopicNode, len(topics))
	for i := range topics {
		t := topics[i]
		index[t.ID] = &models.TopicNode{
			Topic:      t,
			PostsCount: counts[t.ID],
			Children:   []*models.TopicNode{},
		}
	}

	roots := make([]*models.TopicNode, 0, len(topics))
	for i := range topics {
		node := index[topics[i].ID]
		if pid := topics[i].ParentID; pid != nil {
			if parent, ok := index[*pid]; ok {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}
	return roots
}
