package service

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/blogdesk/internal/db"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var testDBCounter atomic.Int64

func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:service-%d-%d?mode=memory&cache=shared", time.Now().UnixNano(), testDBCounter.Add(1))
	gdb, err := db.Open(db.DriverSQLite, dsn, db.Options{Silent: true})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("failed to access sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return gdb
}

func createUser(t *testing.T, gdb *gorm.DB, username string, staff bool) db.User {
	t.Helper()
	user := db.User{Username: username, Email: username + "@example.com", IsStaff: staff}
	if err := user.SetPassword("password-"+username, bcrypt.MinCost); err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if err := gdb.Create(&user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

func createCategory(t *testing.T, gdb *gorm.DB, title string) db.Category {
	t.Helper()
	category := db.Category{Title: title}
	if err := gdb.Create(&category).Error; err != nil {
		t.Fatalf("create category %s: %v", title, err)
	}
	return category
}

func createPost(t *testing.T, svc *PostService, input PostInput) *db.Post {
	t.Helper()
	post, err := svc.Create(input)
	if err != nil {
		t.Fatalf("create post %q: %v", input.Title, err)
	}
	return post
}
