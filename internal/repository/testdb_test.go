package repository

import (
	"testing"

	"paragraph/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.UserFollow{},
		&models.TopicFollow{},
		&models.Topic{},
		&models.Post{},
		&models.PostView{},
		&models.Comment{},
		&models.Like{},
		&models.List{},
		&models.Notification{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()
	user := models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Role:         models.RoleUser,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedPost(t *testing.T, db *gorm.DB, authorID uint, title string, published bool) models.Post {
	t.Helper()
	post := models.Post{
		Title:       title,
		Content:     "متن " + title,
		UserID:      authorID,
		Rating:      5,
		IsPublished: published,
	}
	require.NoError(t, db.Create(&post).Error)
	return post
}
