package service

import (
	"errors"
	"strings"

	"github.com/blogdesk/internal/db"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AccountService manages users and their credentials.
type AccountService struct {
	db       *gorm.DB
	hashCost int
}

// RegisterInput carries a validated sign up request.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	IsStaff  bool
}

// NewAccountService creates an AccountService instance.
func NewAccountService(gdb *gorm.DB) *AccountService {
	return &AccountService{db: gdb, hashCost: bcrypt.DefaultCost}
}

// WithHashCost overrides the bcrypt cost (tests use bcrypt.MinCost).
func (s *AccountService) WithHashCost(cost int) *AccountService {
	if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
		s.hashCost = cost
	}
	return s
}

// Register creates a user. Usernames are unique ignoring case.
func (s *AccountService) Register(input RegisterInput) (*db.User, error) {
	username := strings.TrimSpace(input.Username)

	var count int64
	if err := s.db.Model(&db.User{}).Where("LOWER(username) = ?", strings.ToLower(username)).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrUsernameTaken
	}

	user := db.User{
		Username: username,
		Email:    strings.TrimSpace(input.Email),
		IsStaff:  input.IsStaff,
	}
	if err := user.SetPassword(input.Password, s.hashCost); err != nil {
		return nil, err
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Authenticate returns the user when username and password match.
func (s *AccountService) Authenticate(username, password string) (*db.User, error) {
	user, err := s.GetByUsername(strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidLogin
		}
		return nil, err
	}
	if !user.CheckPassword(password) {
		return nil, ErrInvalidLogin
	}
	return user, nil
}

// GetByID fetches a user by primary key.
func (s *AccountService) GetByID(id uint) (*db.User, error) {
	var user db.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByUsername fetches a user by exact username.
func (s *AccountService) GetByUsername(username string) (*db.User, error) {
	var user db.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindByEmail returns every user registered with email, ignoring case.
func (s *AccountService) FindByEmail(email string) ([]db.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, nil
	}
	var users []db.User
	if err := s.db.Where("LOWER(email) = ?", email).Order("id asc").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// SetPassword replaces the password hash of a user.
func (s *AccountService) SetPassword(userID uint, raw string) error {
	user, err := s.GetByID(userID)
	if err != nil {
		return err
	}
	if err := user.SetPassword(raw, s.hashCost); err != nil {
		return err
	}
	return s.db.Model(user).Update("password", user.Password).Error
}

// DeleteUser removes a user with their posts, comments and reset tokens.
func (s *AccountService) DeleteUser(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var user db.User
		if err := tx.Select("id").First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		ids, err := postIDsWhere(tx, "author_id", user.ID)
		if err != nil {
			return err
		}
		if err := deletePosts(tx, ids); err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&db.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&db.PasswordResetToken{}).Error; err != nil {
			return err
		}
		return tx.Delete(&db.User{}, user.ID).Error
	})
}

// EnsureStaff creates the bootstrap staff account when it is missing.
func (s *AccountService) EnsureStaff(username, password string) error {
	return db.EnsureStaffUser(s.db, username, password)
}
