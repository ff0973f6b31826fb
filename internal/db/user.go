package db

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User is an account able to log in, comment and, when staff, publish.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Email     string    `gorm:"size:254;index" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	IsStaff   bool      `gorm:"not null;default:false" json:"is_staff"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SetPassword stores the bcrypt hash of raw.
func (u *User) SetPassword(raw string, cost int) error {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(raw), cost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	return nil
}

// CheckPassword reports whether raw matches the stored hash.
func (u *User) CheckPassword(raw string) bool {
	if u.Password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(raw)) == nil
}

func (u User) String() string {
	return u.Username
}

// EnsureStaffUser creates a staff account when the username is free. Blank
// credentials are ignored; an existing account is promoted to staff.
func EnsureStaffUser(conn *gorm.DB, username, password string) error {
	trimmedUser := strings.TrimSpace(username)
	trimmedPassword := strings.TrimSpace(password)
	if trimmedUser == "" || trimmedPassword == "" {
		return nil
	}

	if conn == nil {
		return errors.New("database not initialized")
	}

	var existing User
	if err := conn.Where("username = ?", trimmedUser).First(&existing).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		user := User{Username: trimmedUser, IsStaff: true}
		if err := user.SetPassword(trimmedPassword, bcrypt.DefaultCost); err != nil {
			return err
		}
		return conn.Create(&user).Error
	}

	if existing.IsStaff {
		return nil
	}
	return conn.Model(&existing).Update("is_staff", true).Error
}
