package main

import (
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/campushub/backend/internal/database"
	"github.com/campushub/backend/internal/models"
	"github.com/campushub/backend/internal/settings"
)

// Development seeder. Fills the database with plausible campus data so
// the ranked feed, trending topics and moderation views have something
// to chew on. Every account gets the password below.
const seedPassword = "password123"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	command := "dev"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	switch command {
	case "dev":
		seedDev()
	case "clean":
		cleanSeed()
	default:
		fmt.Println("Usage: seed [dev|clean]")
		fmt.Println("  dev   - Seed development database with realistic data")
		fmt.Println("  clean - Remove all seed data (use with caution)")
		os.Exit(1)
	}
}

func seedDev() {
	log.Println("🌱 Seeding development database...")

	if err := database.Initialize(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if err := settings.SeedDefaults(database.DB); err != nil {
		log.Fatalf("Failed to seed settings: %v", err)
	}

	_ = gofakeit.Seed(time.Now().UnixNano())
	db := database.DB

	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash seed password: %v", err)
	}

	admin := seedUser(db, string(hash), "admin")
	admin.Role = models.RoleAdmin
	if err := db.Model(&admin).Update("role", models.RoleAdmin).Error; err != nil {
		log.Fatalf("Failed to promote admin: %v", err)
	}
	log.Printf("Admin account: %s (password %q)", admin.Email, seedPassword)

	users := make([]models.User, 0, 25)
	for i := 0; i < 25; i++ {
		users = append(users, seedUser(db, string(hash), ""))
	}
	log.Printf("Created %d users", len(users))

	categories := seedCategories(db)
	topics := seedTopics(db)

	posts := make([]models.Post, 0, 120)
	for i := 0; i < 120; i++ {
		author := users[rand.Intn(len(users))]
		post := seedPost(db, author, categories, topics)
		posts = append(posts, post)
	}
	log.Printf("Created %d posts", len(posts))

	// A few admin picks for the ranked feed's pinned block
	for i := 0; i < 3; i++ {
		post := posts[rand.Intn(len(posts))]
		db.Model(&post).Update("is_recommended", true)
	}

	seedInteractions(db, users, posts)
	seedEvents(db, admin, users)
	seedMessages(db, users)

	log.Println("✅ Seeding complete")
}

func seedUser(db *gorm.DB, passwordHash, username string) models.User {
	if username == "" {
		username = gofakeit.Username()
	}
	user := models.User{
		Email:        gofakeit.Email(),
		Username:     username,
		Nickname:     gofakeit.Name(),
		Bio:          gofakeit.HipsterSentence(),
		PasswordHash: passwordHash,
		College:      gofakeit.RandomString([]string{"Engineering", "Science", "Arts", "Business", "Medicine"}),
		Major:        gofakeit.JobTitle(),
	}
	if err := db.Create(&user).Error; err != nil {
		// Username/email collision: retry with fresh fakes
		user.Email = gofakeit.Email()
		user.Username = gofakeit.Username()
		if err := db.Create(&user).Error; err != nil {
			log.Fatalf("Failed to create user: %v", err)
		}
	}
	return user
}

func seedCategories(db *gorm.DB) []models.Category {
	names := []string{"Campus Life", "Study Groups", "Housing", "Marketplace", "Clubs & Societies"}
	categories := make([]models.Category, 0, len(names))
	for i, name := range names {
		category := models.Category{Name: name, SortOrder: i, Enabled: true}
		if err := db.Where("name = ?", name).FirstOrCreate(&category).Error; err != nil {
			log.Fatalf("Failed to create category: %v", err)
		}
		categories = append(categories, category)
	}
	return categories
}

func seedTopics(db *gorm.DB) []models.Topic {
	names := []string{"finals", "dorm-life", "intramurals", "internships", "food", "rideshare", "research", "graduation"}
	topics := make([]models.Topic, 0, len(names))
	for _, name := range names {
		topic := models.Topic{Name: name, Description: gofakeit.Sentence(8)}
		if err := db.Where("name = ?", name).FirstOrCreate(&topic).Error; err != nil {
			log.Fatalf("Failed to create topic: %v", err)
		}
		topics = append(topics, topic)
	}
	// One featured topic so trending shows the admin override
	db.Model(&topics[0]).Update("is_featured", true)
	return topics
}

func seedPost(db *gorm.DB, author models.User, categories []models.Category, topics []models.Topic) models.Post {
	category := categories[rand.Intn(len(categories))]
	post := models.Post{
		UserID:     author.ID,
		CategoryID: &category.ID,
		Title:      gofakeit.Sentence(6),
		Content:    gofakeit.Paragraph(2, 4, 12, "\n\n"),
		Status:     models.PostStatusPublished,
	}
	if err := db.Create(&post).Error; err != nil {
		log.Fatalf("Failed to create post: %v", err)
	}

	// Backdate so time decay has a spread to work with
	createdAt := gofakeit.DateRange(time.Now().AddDate(0, 0, -28), time.Now())
	db.Model(&post).UpdateColumn("created_at", createdAt)

	topic := topics[rand.Intn(len(topics))]
	if err := db.Model(&post).Association("Topics").Append(&topic); err == nil {
		db.Model(&models.Topic{}).Where("id = ?", topic.ID).
			UpdateColumn("use_count", gorm.Expr("use_count + 1"))
	}

	db.Model(&models.User{}).Where("id = ?", author.ID).
		UpdateColumn("post_count", gorm.Expr("post_count + 1"))

	return post
}

func seedInteractions(db *gorm.DB, users []models.User, posts []models.Post) {
	likes, comments, favorites := 0, 0, 0

	for _, post := range posts {
		for _, user := range users {
			if rand.Float64() < 0.15 {
				if err := db.Create(&models.Like{
					UserID:     user.ID,
					TargetType: models.LikeTargetPost,
					TargetID:   post.ID,
				}).Error; err == nil {
					db.Model(&models.Post{}).Where("id = ?", post.ID).
						UpdateColumn("like_count", gorm.Expr("like_count + 1"))
					likes++
				}
			}
			if rand.Float64() < 0.06 {
				if err := db.Create(&models.Comment{
					PostID:  post.ID,
					UserID:  user.ID,
					Content: gofakeit.Sentence(10),
				}).Error; err == nil {
					db.Model(&models.Post{}).Where("id = ?", post.ID).
						UpdateColumn("comment_count", gorm.Expr("comment_count + 1"))
					comments++
				}
			}
			if rand.Float64() < 0.05 {
				if err := db.Create(&models.Favorite{
					UserID: user.ID,
					PostID: post.ID,
				}).Error; err == nil {
					db.Model(&models.Post{}).Where("id = ?", post.ID).
						UpdateColumn("favorite_count", gorm.Expr("favorite_count + 1"))
					favorites++
				}
			}
		}
		db.Model(&models.Post{}).Where("id = ?", post.ID).
			UpdateColumn("view_count", rand.Intn(400))
	}

	follows := 0
	for _, follower := range users {
		for _, followee := range users {
			if follower.ID == followee.ID || rand.Float64() > 0.1 {
				continue
			}
			if err := db.Create(&models.Follow{
				FollowerID: follower.ID,
				FolloweeID: followee.ID,
			}).Error; err == nil {
				db.Model(&models.User{}).Where("id = ?", followee.ID).
					UpdateColumn("follower_count", gorm.Expr("follower_count + 1"))
				db.Model(&models.User{}).Where("id = ?", follower.ID).
					UpdateColumn("following_count", gorm.Expr("following_count + 1"))
				follows++
			}
		}
	}

	log.Printf("Created %d likes, %d comments, %d favorites, %d follows", likes, comments, favorites, follows)
}

func seedEvents(db *gorm.DB, admin models.User, users []models.User) {
	for i := 0; i < 6; i++ {
		start := gofakeit.DateRange(time.Now(), time.Now().AddDate(0, 1, 0))
		event := models.Event{
			CreatorID:   admin.ID,
			Title:       gofakeit.Sentence(4),
			Description: gofakeit.Paragraph(1, 3, 10, " "),
			Location:    gofakeit.Street(),
			StartTime:   start,
			EndTime:     start.Add(2 * time.Hour),
			Capacity:    10 + rand.Intn(90),
		}
		if err := db.Create(&event).Error; err != nil {
			log.Fatalf("Failed to create event: %v", err)
		}

		for _, user := range users {
			if rand.Float64() > 0.2 || event.RegisteredCount >= event.Capacity {
				continue
			}
			if err := db.Create(&models.EventRegistration{
				EventID: event.ID,
				UserID:  user.ID,
			}).Error; err == nil {
				event.RegisteredCount++
				db.Model(&event).UpdateColumn("registered_count", event.RegisteredCount)
			}
		}
	}
	log.Println("Created 6 events with registrations")
}

func seedMessages(db *gorm.DB, users []models.User) {
	count := 0
	for i := 0; i < 40; i++ {
		sender := users[rand.Intn(len(users))]
		recipient := users[rand.Intn(len(users))]
		if sender.ID == recipient.ID {
			continue
		}
		if err := db.Create(&models.Message{
			SenderID:    sender.ID,
			RecipientID: recipient.ID,
			Content:     gofakeit.Sentence(12),
			IsRead:      rand.Float64() < 0.5,
		}).Error; err == nil {
			count++
		}
	}
	log.Printf("Created %d messages", count)
}

func cleanSeed() {
	log.Println("Removing all data...")

	if err := database.Initialize(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	tables := []interface{}{
		&models.PostView{}, &models.UserBadge{}, &models.Badge{}, &models.Report{},
		&models.Notification{}, &models.Message{}, &models.EventRegistration{},
		&models.Event{}, &models.Follow{}, &models.Favorite{}, &models.Like{},
		&models.Comment{}, &models.Post{}, &models.Tag{}, &models.Topic{},
		&models.Category{}, &models.User{},
	}
	for _, table := range tables {
		if err := database.DB.Unscoped().Where("1 = 1").Delete(table).Error; err != nil {
			log.Fatalf("Failed to clean table %T: %v", table, err)
		}
	}

	log.Println("✅ Clean complete")
}
