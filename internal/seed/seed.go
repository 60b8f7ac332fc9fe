// Package seed provides helpers to create demo data for the blog database.
// These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"inkwell/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumArticles int
	NumComments int
	ShouldClean bool
}

var categoryNames = map[string]string{
	"Technology": "technology",
	"Writing":    "writing",
	"Travel":     "travel",
	"Books":      "books",
	"Life":       "life",
}

var tagNames = map[string]string{
	"Go":          "go",
	"Databases":   "databases",
	"Testing":     "testing",
	"Essays":      "essays",
	"Photography": "photography",
	"Notes":       "notes",
	"Reviews":     "reviews",
	"Tutorials":   "tutorials",
}

// Seeder populates the database with demo content.
type Seeder struct {
	db   *gorm.DB
	rand *rand.Rand
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{
		db:   db,
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll removes every row from every table, join tables included.
func (s *Seeder) ClearAll() error {
	log.Println("Clearing existing data...")
	statements := []string{
		"DELETE FROM comments",
		"DELETE FROM article_tags",
		"DELETE FROM articles",
		"DELETE FROM tags",
		"DELETE FROM categories",
		"DELETE FROM subscriptions",
		"DELETE FROM users",
	}
	for _, stmt := range statements {
		if err := s.db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("clear failed (%s): %w", stmt, err)
		}
	}
	return nil
}

// CreateAuthor creates the blog author account. The password is "password"
// so local development logins are predictable.
func (s *Seeder) CreateAuthor() (*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: "author",
		Email:    "author@inkwell.blog",
		Password: string(hashed),
	}
	if err := s.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateTaxonomy creates the fixed category and tag sets.
func (s *Seeder) CreateTaxonomy() ([]*models.Category, []*models.Tag, error) {
	var categories []*models.Category
	for name, slug := range categoryNames {
		cat := &models.Category{Name: name, Slug: slug}
		if err := s.db.Create(cat).Error; err != nil {
			return nil, nil, err
		}
		categories = append(categories, cat)
	}

	var tags []*models.Tag
	for name, slug := range tagNames {
		tag := &models.Tag{Name: name, Slug: slug}
		if err := s.db.Create(tag).Error; err != nil {
			return nil, nil, err
		}
		tags = append(tags, tag)
	}

	return categories, tags, nil
}

// CreateArticle builds and persists one article with a random category, a
// random tag subset, and a created_at spread over the past year.
func (s *Seeder) CreateArticle(author *models.User, categories []*models.Category, tags []*models.Tag, overrides ...func(*models.Article)) (*models.Article, error) {
	title := strings.TrimSuffix(gofakeit.Sentence(s.rand.Intn(5)+3), ".")

	paragraphs := make([]string, 0, 4)
	for range s.rand.Intn(3) + 2 {
		paragraphs = append(paragraphs, gofakeit.Paragraph(1, 4, 8, " "))
	}
	content := strings.Join(paragraphs, "\n\n")

	article := &models.Article{
		Title:      title,
		Slug:       slugify(title) + fmt.Sprintf("-%d", gofakeit.Number(100, 999)),
		Content:    content,
		Excerpt:    gofakeit.Sentence(12),
		CoverImage: fmt.Sprintf("https://picsum.photos/seed/%s/1200/630", gofakeit.UUID()),
		Published:  s.rand.Intn(10) < 8, // most demo articles are published
		Views:      uint(s.rand.Intn(5000)),
		CategoryID: categories[s.rand.Intn(len(categories))].ID,
		AuthorID:   author.ID,
	}

	daysBack := s.rand.Intn(365)
	article.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour -
		time.Duration(s.rand.Intn(24))*time.Hour)

	tagCount := s.rand.Intn(3) + 1
	picked := map[int]bool{}
	for len(picked) < tagCount {
		i := s.rand.Intn(len(tags))
		if !picked[i] {
			picked[i] = true
			article.Tags = append(article.Tags, *tags[i])
		}
	}

	for _, override := range overrides {
		override(article)
	}

	if err := s.db.Create(article).Error; err != nil {
		return nil, err
	}
	return article, nil
}

// CreateComment persists one comment, optionally replying to a parent.
func (s *Seeder) CreateComment(article *models.Article, parent *models.Comment) (*models.Comment, error) {
	statuses := []string{
		models.CommentApproved, models.CommentApproved, models.CommentApproved,
		models.CommentPending, models.CommentSpam,
	}

	comment := &models.Comment{
		Content:   gofakeit.Sentence(s.rand.Intn(15) + 5),
		Author:    gofakeit.Name(),
		Email:     gofakeit.Email(),
		ArticleID: article.ID,
		Status:    statuses[s.rand.Intn(len(statuses))],
	}
	if parent != nil {
		comment.ParentID = &parent.ID
	}

	if err := s.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateSubscriptions persists n mostly-verified subscriptions.
func (s *Seeder) CreateSubscriptions(n int) error {
	for i := 0; i < n; i++ {
		sub := &models.Subscription{
			Email:    gofakeit.Email(),
			Verified: s.rand.Intn(10) < 7,
			Token:    gofakeit.UUID(),
		}
		if err := s.db.Create(sub).Error; err != nil {
			return err
		}
	}
	return nil
}

// Run seeds the full demo dataset per the given options.
func (s *Seeder) Run(opts Options) error {
	if opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			return err
		}
	}

	author, err := s.CreateAuthor()
	if err != nil {
		return fmt.Errorf("create author: %w", err)
	}

	categories, tags, err := s.CreateTaxonomy()
	if err != nil {
		return fmt.Errorf("create taxonomy: %w", err)
	}

	log.Printf("Seeding %d articles...", opts.NumArticles)
	articles := make([]*models.Article, 0, opts.NumArticles)
	for i := 0; i < opts.NumArticles; i++ {
		article, err := s.CreateArticle(author, categories, tags)
		if err != nil {
			return fmt.Errorf("create article: %w", err)
		}
		articles = append(articles, article)
	}

	log.Printf("Seeding %d comments...", opts.NumComments)
	for i := 0; i < opts.NumComments; i++ {
		article := articles[s.rand.Intn(len(articles))]
		comment, err := s.CreateComment(article, nil)
		if err != nil {
			return fmt.Errorf("create comment: %w", err)
		}
		// Roughly a third of comments get one reply.
		if s.rand.Intn(3) == 0 {
			if _, err := s.CreateComment(article, comment); err != nil {
				return fmt.Errorf("create reply: %w", err)
			}
		}
	}

	if err := s.CreateSubscriptions(25); err != nil {
		return fmt.Errorf("create subscriptions: %w", err)
	}

	log.Println("Seeding complete")
	return nil
}

// slugify lowercases the title and replaces everything that is not a letter
// or digit with single dashes.
func slugify(title string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
