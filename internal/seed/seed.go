// Package seed populates a development database with sample content.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"paragraph/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	topicNames = map[string][]string{
		"فناوری":     {"برنامه‌نویسی", "هوش مصنوعی", "امنیت"},
		"فرهنگ و هنر": {"سینما", "کتاب", "موسیقی"},
		"سبک زندگی":  {"سفر", "آشپزی"},
		"علم":        {"نجوم", "زیست‌شناسی"},
	}

	postTitles = []string{
		"چرا باید هر روز بنویسیم",
		"تجربه من از یادگیری زبان Go",
		"ده کتابی که نگاهم را عوض کرد",
		"سفر به کویر مرنجاب",
		"آینده هوش مصنوعی در ایران",
		"چگونه عادت مطالعه بسازیم",
		"نقدی بر سینمای دهه اخیر",
		"راهنمای شروع پادکست",
		"یادداشت‌هایی درباره معماری نرم‌افزار",
		"آشپزی برای برنامه‌نویس‌ها",
	}

	commentBodies = []string{
		"چه مطلب خوبی، ممنون که نوشتید",
		"با بخش دوم کاملا موافقم",
		"کاش منبع‌ها را هم معرفی می‌کردید",
		"تجربه مشابهی داشتم، عالی بود",
		"نکته آخر برایم خیلی کاربردی بود",
		"منتظر قسمت بعدی هستم",
	}
)

// Seed wipes and repopulates the database with sample users, topics, posts,
// comments, likes and follows. Development use only.
func Seed(db *gorm.DB) error {
	log.Println("Starting database seeding...")
	gofakeit.Seed(time.Now().UnixNano())
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	if err := clearData(db); err != nil {
		return fmt.Errorf("failed to clear data: %w", err)
	}

	users, err := createUsers(db)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("Created %d users", len(users))

	topics, err := createTopics(db)
	if err != nil {
		return fmt.Errorf("failed to create topics: %w", err)
	}
	log.Printf("Created %d topics", len(topics))

	posts, err := createPosts(db, users, topics, r)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("Created %d posts", len(posts))

	n, err := createComments(db, users, posts, r)
	if err != nil {
		return fmt.Errorf("failed to create comments: %w", err)
	}
	log.Printf("Created %d comments", n)

	n, err = addLikes(db, users, posts, r)
	if err != nil {
		return fmt.Errorf("failed to add likes: %w", err)
	}
	log.Printf("Added %d likes", n)

	n, err = addFollows(db, users, r)
	if err != nil {
		return fmt.Errorf("failed to add follows: %w", err)
	}
	log.Printf("Added %d follows", n)

	log.Println("Database seeding completed")
	return nil
}

func clearData(db *gorm.DB) error {
	// Delete in dependency order.
	tables := []string{
		"notifications", "list_posts", "lists", "likes", "comments",
		"post_views", "post_topics", "posts", "topic_follows",
		"user_follows", "topics", "users",
	}
	for _, table := range tables {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return err
		}
	}
	return nil
}

func createUsers(db *gorm.DB) ([]models.User, error) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)

	admin := models.User{
		Username:     "admin",
		Email:        "admin@paragraph.local",
		PasswordHash: string(hashed),
		DisplayName:  "مدیر سایت",
		Role:         models.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return nil, err
	}

	users := []models.User{admin}
	for i := 0; i < 14; i++ {
		username := gofakeit.Username()
		user := models.User{
			Username:     username,
			Email:        gofakeit.Email(),
			PasswordHash: string(hashed),
			DisplayName:  gofakeit.Name(),
			Bio:          gofakeit.Sentence(12),
			Website:      gofakeit.URL(),
			AvatarURL:    fmt.Sprintf("https://api.dicebear.com/7.x/avataaars/svg?seed=%s", username),
			Role:         models.RoleUser,
		}
		if err := db.Create(&user).Error; err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func createTopics(db *gorm.DB) ([]models.Topic, error) {
	var topics []models.Topic
	for main, subs := range topicNames {
		parent := models.Topic{Name: main, IsMainTopic: true}
		if err := db.Create(&parent).Error; err != nil {
			return nil, err
		}
		topics = append(topics, parent)
		for _, sub := range subs {
			child := models.Topic{Name: sub, ParentID: &parent.ID}
			if err := db.Create(&child).Error; err != nil {
				return nil, err
			}
			topics = append(topics, child)
		}
	}
	return topics, nil
}

func createPosts(db *gorm.DB, users []models.User, topics []models.Topic, r *rand.Rand) ([]models.Post, error) {
	var posts []models.Post
	for i, title := range postTitles {
		author := users[1+r.Intn(len(users)-1)]
		post := models.Post{
			Title:       title,
			Content:     gofakeit.Paragraph(4, 5, 14, "\n\n"),
			Summary:     gofakeit.Sentence(16),
			UserID:      author.ID,
			Tags:        gofakeit.Word() + "," + gofakeit.Word(),
			ReadMinutes: 1 + r.Intn(9),
			Rating:      5,
			IsPublished: i%4 != 0,
		}
		if err := db.Create(&post).Error; err != nil {
			return nil, err
		}
		picked := topics[r.Intn(len(topics))]
		if err := db.Model(&post).Association("Topics").Append(&picked); err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func createComments(db *gorm.DB, users []models.User, posts []models.Post, r *rand.Rand) (int, error) {
	count := 0
	statuses := []models.CommentStatus{
		models.CommentApproved, models.CommentApproved,
		models.CommentPending, models.CommentRejected,
	}
	for _, post := range posts {
		if !post.IsPublished {
			continue
		}
		for i := 0; i < 2+r.Intn(4); i++ {
			comment := models.Comment{
				Content: commentBodies[r.Intn(len(commentBodies))],
				Rating:  float64(1 + r.Intn(5)),
				UserID:  users[r.Intn(len(users))].ID,
				PostID:  post.ID,
				Status:  statuses[r.Intn(len(statuses))],
			}
			if err := db.Create(&comment).Error; err != nil {
				return count, err
			}
			count++
		}
	}
	return count, nil
}

func addLikes(db *gorm.DB, users []models.User, posts []models.Post, r *rand.Rand) (int, error) {
	count := 0
	for _, post := range posts {
		for _, user := range users {
			if r.Intn(3) != 0 {
				continue
			}
			like := models.Like{UserID: user.ID, PostID: post.ID}
			if err := db.Create(&like).Error; err != nil {
				return count, err
			}
			count++
		}
	}
	return count, nil
}

func addFollows(db *gorm.DB, users []models.User, r *rand.Rand) (int, error) {
	count := 0
	for _, follower := range users {
		for _, followee := range users {
			if follower.ID == followee.ID || r.Intn(4) != 0 {
				continue
			}
			follow := models.UserFollow{FollowerID: follower.ID, FolloweeID: followee.ID}
			if err := db.Create(&follow).Error; err != nil {
				return count, err
			}
			count++
		}
	}
	return count, nil
}
