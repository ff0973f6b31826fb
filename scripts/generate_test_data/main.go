package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/blogdesk/internal/config"
	"github.com/blogdesk/internal/db"
	"github.com/blogdesk/internal/logger"
	"github.com/blogdesk/internal/service"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// seedOptions controls how much sample content is generated.
type seedOptions struct {
	Posts    int
	Password string
	HashCost int
}

type seedSummary struct {
	Users      int
	Categories int
	Posts      int
	Comments   int
}

var seedCategories = []string{"Engineering", "Travel", "Notes"}

var seedTags = [][]string{
	{"go", "web"},
	{"databases"},
	{"go", "testing"},
	{},
	{"life"},
}

func main() {
	posts := flag.Int("posts", 25, "number of posts to generate")
	password := flag.String("password", "password123", "password for the generated accounts")
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.Env, cfg.LogLevel)

	if err := db.Init(cfg.DatabaseDriver, cfg.DatabaseSource()); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}

	summary, err := seed(db.DB, seedOptions{Posts: *posts, Password: *password})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to generate test data")
	}

	fmt.Fprintf(os.Stdout, "users: %d, categories: %d, posts: %d, comments: %d\n",
		summary.Users, summary.Categories, summary.Posts, summary.Comments)
	fmt.Fprintf(os.Stdout, "log in as editor or reader with password %q\n", *password)
}

// seed creates a staff editor, a reader, a few categories and opts.Posts
// posts. Running it twice reuses existing accounts and categories and skips
// posts whose title is already taken.
func seed(gdb *gorm.DB, opts seedOptions) (seedSummary, error) {
	var summary seedSummary
	if opts.HashCost == 0 {
		opts.HashCost = bcrypt.DefaultCost
	}

	accounts := service.NewAccountService(gdb).WithHashCost(opts.HashCost)
	categories := service.NewCategoryService(gdb)
	posts := service.NewPostService(gdb)
	comments := service.NewCommentService(gdb)

	editor, created, err := ensureUser(accounts, "editor", true, opts.Password)
	if err != nil {
		return summary, err
	}
	if created {
		summary.Users++
	}
	reader, created, err := ensureUser(accounts, "reader", false, opts.Password)
	if err != nil {
		return summary, err
	}
	if created {
		summary.Users++
	}

	categoryIDs := make([]uint, 0, len(seedCategories))
	for _, title := range seedCategories {
		var existing db.Category
		err := gdb.Where("title = ?", title).First(&existing).Error
		if err == nil {
			categoryIDs = append(categoryIDs, existing.ID)
			continue
		}
		category, err := categories.Create(service.CategoryInput{Title: title})
		if err != nil {
			return summary, fmt.Errorf("create category %q: %w", title, err)
		}
		categoryIDs = append(categoryIDs, category.ID)
		summary.Categories++
	}

	for i := 1; i <= opts.Posts; i++ {
		status := db.StatusPublished
		if i%4 == 0 {
			status = db.StatusCheckout
		}
		post, err := posts.Create(service.PostInput{
			Title:      fmt.Sprintf("Sample post %d", i),
			Content:    fmt.Sprintf("## Sample post %d\n\nThis is **generated** content for local development.\n\n- one\n- two\n", i),
			CategoryID: categoryIDs[i%len(categoryIDs)],
			AuthorID:   editor.ID,
			Tags:       seedTags[i%len(seedTags)],
			Status:     status,
		})
		if errors.Is(err, service.ErrPostTitleTaken) {
			continue
		}
		if err != nil {
			return summary, fmt.Errorf("create post %d: %w", i, err)
		}
		summary.Posts++

		if i%3 == 0 {
			if _, err := comments.Create(post.ID, reader.ID, "Thanks for sharing!"); err != nil {
				return summary, fmt.Errorf("comment on post %d: %w", i, err)
			}
			summary.Comments++
		}
	}

	return summary, nil
}

func ensureUser(accounts *service.AccountService, username string, staff bool, password string) (*db.User, bool, error) {
	if user, err := accounts.GetByUsername(username); err == nil {
		return user, false, nil
	} else if !errors.Is(err, service.ErrUserNotFound) {
		return nil, false, err
	}

	user, err := accounts.Register(service.RegisterInput{
		Username: username,
		Email:    username + "@example.com",
		Password: password,
		IsStaff:  staff,
	})
	if err != nil {
		return nil, false, fmt.Errorf("create user %q: %w", username, err)
	}
	return user, true, nil
}
