// Package seed provides database seeding utilities for development and
// testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"inkwell/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

var categoryNames = []struct {
	title string
	slug  string
}{
	{"Travel", "travel"},
	{"Technology", "technology"},
	{"Food", "food"},
	{"Books", "books"},
	{"Music", "music"},
	{"Science", "science"},
	{"History", "history"},
	{"Drafts", "drafts"}, // stays unpublished
}

var locationNames = []string{
	"Amsterdam", "Berlin", "Lisbon", "Kyoto", "Oslo",
	"Reykjavik", "Valparaiso", "Tbilisi",
}

// Seed populates the database with demo users, categories, locations, posts
// and comments. A slice of the generated posts is left unpublished or
// scheduled so the visibility rules have something to bite on.
func Seed(db *gorm.DB, opts Options) error {
	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			return fmt.Errorf("clearing data: %w", err)
		}
	}

	gofakeit.Seed(time.Now().UnixNano())
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	users, err := createUsers(db, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("creating users: %w", err)
	}

	categories, err := createCategories(db)
	if err != nil {
		return fmt.Errorf("creating categories: %w", err)
	}

	locations, err := createLocations(db)
	if err != nil {
		return fmt.Errorf("creating locations: %w", err)
	}

	posts, err := createPosts(db, r, users, categories, locations, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("creating posts: %w", err)
	}

	if err := createComments(db, r, users, posts); err != nil {
		return fmt.Errorf("creating comments: %w", err)
	}

	log.Printf("Seeded %d users, %d categories, %d locations, %d posts",
		len(users), len(categories), len(locations), len(posts))
	return nil
}

func clearData(db *gorm.DB) error {
	for _, table := range []string{"comments", "posts", "locations", "categories", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return err
		}
	}
	return nil
}

func createUsers(db *gorm.DB, count int) ([]models.User, error) {
	if count <= 0 {
		count = 10
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	users := make([]models.User, 0, count)
	for i := 0; i < count; i++ {
		first := gofakeit.FirstName()
		last := gofakeit.LastName()
		user := models.User{
			Username:  fmt.Sprintf("%s%s%d", first, last, i),
			Email:     fmt.Sprintf("%s.%s.%d@example.com", first, last, i),
			Password:  string(hashed),
			FirstName: first,
			LastName:  last,
		}
		if err := db.Create(&user).Error; err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func createCategories(db *gorm.DB) ([]models.Category, error) {
	categories := make([]models.Category, 0, len(categoryNames))
	for _, cn := range categoryNames {
		category := models.Category{
			Title:       cn.title,
			Description: gofakeit.Sentence(8),
			Slug:        cn.slug,
			IsPublished: cn.slug != "drafts",
		}
		if err := db.Where("slug = ?", cn.slug).FirstOrCreate(&category).Error; err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, nil
}

func createLocations(db *gorm.DB) ([]models.Location, error) {
	locations := make([]models.Location, 0, len(locationNames))
	for _, name := range locationNames {
		location := models.Location{Name: name, IsPublished: true}
		if err := db.Where("name = ?", name).FirstOrCreate(&location).Error; err != nil {
			return nil, err
		}
		locations = append(locations, location)
	}
	return locations, nil
}

func createPosts(db *gorm.DB, r *rand.Rand, users []models.User, categories []models.Category, locations []models.Location, count int) ([]models.Post, error) {
	if count <= 0 {
		count = 50
	}

	posts := make([]models.Post, 0, count)
	for i := 0; i < count; i++ {
		user := users[r.Intn(len(users))]
		pubDate := time.Now().UTC().Add(-time.Duration(r.Intn(90*24)) * time.Hour)

		post := models.Post{
			Title:       gofakeit.Sentence(5),
			Text:        gofakeit.Paragraph(2, 4, 8, "\n\n"),
			PubDate:     pubDate,
			IsPublished: true,
			AuthorID:    user.ID,
		}

		category := categories[r.Intn(len(categories))]
		post.CategoryID = &category.ID
		if r.Intn(4) == 0 {
			location := locations[r.Intn(len(locations))]
			post.LocationID = &location.ID
		}

		// A tenth of the posts stay drafts and another tenth get a
		// future publication date.
		switch r.Intn(10) {
		case 0:
			post.IsPublished = false
		case 1:
			post.PubDate = time.Now().UTC().Add(time.Duration(1+r.Intn(14*24)) * time.Hour)
		}

		if err := db.Create(&post).Error; err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func createComments(db *gorm.DB, r *rand.Rand, users []models.User, posts []models.Post) error {
	for _, post := range posts {
		for i := 0; i < r.Intn(5); i++ {
			comment := models.Comment{
				Text:     gofakeit.Sentence(10),
				AuthorID: users[r.Intn(len(users))].ID,
				PostID:   post.ID,
			}
			if err := db.Create(&comment).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
