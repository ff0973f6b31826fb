package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/blogdesk/internal/db"
	"github.com/blogdesk/internal/mail"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// DefaultResetTimeout is how long a reset link stays valid.
const DefaultResetTimeout = 72 * time.Hour

// ResetLinkConfig holds the public address the reset link points to.
type ResetLinkConfig struct {
	Domain   string
	Protocol string
}

// URL builds {protocol}://{domain}/reset/{uid}/{token}/.
func (c ResetLinkConfig) URL(uid, token string) string {
	protocol := strings.TrimSpace(c.Protocol)
	if protocol == "" {
		protocol = "http"
	}
	return fmt.Sprintf("%s://%s/reset/%s/%s/", protocol, strings.TrimSpace(c.Domain), uid, token)
}

// EncodeUID renders a user id the way it appears in reset links.
func EncodeUID(id uint) string {
	return strconv.FormatUint(uint64(id), 36)
}

// DecodeUID parses the uid segment of a reset link.
func DecodeUID(raw string) (uint, error) {
	id, err := strconv.ParseUint(strings.ToLower(strings.TrimSpace(raw)), 36, 32)
	if err != nil || id == 0 {
		return 0, ErrInvalidResetToken
	}
	return uint(id), nil
}

// ResetTokenStore keeps issued reset tokens until they are used or expire.
type ResetTokenStore interface {
	Save(ctx context.Context, token string, userID uint, expiresAt time.Time) error
	// Lookup returns the owner of token or ErrInvalidResetToken.
	Lookup(ctx context.Context, token string) (uint, error)
	// DeleteForUser revokes every token issued to userID.
	DeleteForUser(ctx context.Context, userID uint) error
}

// DBResetTokenStore persists tokens in the password_reset_tokens table.
type DBResetTokenStore struct {
	db  *gorm.DB
	now func() time.Time
}

// NewDBResetTokenStore creates a database backed token store.
func NewDBResetTokenStore(gdb *gorm.DB) *DBResetTokenStore {
	return &DBResetTokenStore{db: gdb, now: time.Now}
}

func (s *DBResetTokenStore) Save(ctx context.Context, token string, userID uint, expiresAt time.Time) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("expires_at <= ?", s.now()).Delete(&db.PasswordResetToken{}).Error; err != nil {
			return err
		}
		return tx.Omit("User").Create(&db.PasswordResetToken{Token: token, UserID: userID, ExpiresAt: expiresAt}).Error
	})
}

func (s *DBResetTokenStore) Lookup(ctx context.Context, token string) (uint, error) {
	var record db.PasswordResetToken
	if err := s.db.WithContext(ctx).Where("token = ?", token).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrInvalidResetToken
		}
		return 0, err
	}
	if record.Expired(s.now()) {
		return 0, ErrInvalidResetToken
	}
	return record.UserID, nil
}

func (s *DBResetTokenStore) DeleteForUser(ctx context.Context, userID uint) error {
	return s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&db.PasswordResetToken{}).Error
}

// RedisResetTokenStore keeps tokens as expiring Redis keys.
type RedisResetTokenStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisResetTokenStore creates a Redis backed token store.
func NewRedisResetTokenStore(client redis.UniversalClient) *RedisResetTokenStore {
	return &RedisResetTokenStore{client: client, prefix: "blogdesk:reset:"}
}

func (s *RedisResetTokenStore) key(token string) string {
	return s.prefix + token
}

// userKey names the set of tokens issued to one user.
func (s *RedisResetTokenStore) userKey(userID uint) string {
	return s.prefix + "user:" + strconv.FormatUint(uint64(userID), 10)
}

func (s *RedisResetTokenStore) Save(ctx context.Context, token string, userID uint, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.key(token), strconv.FormatUint(uint64(userID), 10), ttl)
		pipe.SAdd(ctx, s.userKey(userID), token)
		pipe.Expire(ctx, s.userKey(userID), ttl)
		return nil
	})
	return err
}

func (s *RedisResetTokenStore) Lookup(ctx context.Context, token string) (uint, error) {
	raw, err := s.client.Get(ctx, s.key(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrInvalidResetToken
		}
		return 0, err
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, ErrInvalidResetToken
	}
	return uint(id), nil
}

func (s *RedisResetTokenStore) DeleteForUser(ctx context.Context, userID uint) error {
	tokens, err := s.client.SMembers(ctx, s.userKey(userID)).Result()
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(tokens)+1)
	for _, token := range tokens {
		keys = append(keys, s.key(token))
	}
	keys = append(keys, s.userKey(userID))
	return s.client.Del(ctx, keys...).Err()
}

// PasswordResetService issues reset links and redeems them.
type PasswordResetService struct {
	accounts *AccountService
	store    ResetTokenStore
	mailer   mail.Mailer
	timeout  time.Duration
	now      func() time.Time
}

// NewPasswordResetService wires the reset flow. A zero timeout selects
// DefaultResetTimeout.
func NewPasswordResetService(accounts *AccountService, store ResetTokenStore, mailer mail.Mailer, timeout time.Duration) *PasswordResetService {
	if timeout <= 0 {
		timeout = DefaultResetTimeout
	}
	return &PasswordResetService{
		accounts: accounts,
		store:    store,
		mailer:   mailer,
		timeout:  timeout,
		now:      time.Now,
	}
}

// Request mails a reset link to every account registered with email. An
// unknown address is not an error so callers cannot probe for accounts.
func (s *PasswordResetService) Request(ctx context.Context, email string, link ResetLinkConfig) error {
	users, err := s.accounts.FindByEmail(email)
	if err != nil {
		return err
	}

	for _, user := range users {
		token := strings.ReplaceAll(uuid.NewString(), "-", "")
		if err := s.store.Save(ctx, token, user.ID, s.now().Add(s.timeout)); err != nil {
			return fmt.Errorf("store reset token: %w", err)
		}

		msg := mail.Message{
			To:      user.Email,
			Subject: fmt.Sprintf("Password reset on %s", link.Domain),
			Body:    resetBody(user, link.URL(EncodeUID(user.ID), token), link.Domain),
		}
		if err := s.mailer.Send(ctx, msg); err != nil {
			return err
		}
		log.Info().Uint("user_id", user.ID).Msg("password reset link issued")
	}
	return nil
}

// Validate resolves the user behind a reset link.
func (s *PasswordResetService) Validate(ctx context.Context, uid, token string) (*db.User, error) {
	userID, err := DecodeUID(uid)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(token) == "" {
		return nil, ErrInvalidResetToken
	}

	owner, err := s.store.Lookup(ctx, token)
	if err != nil {
		return nil, err
	}
	if owner != userID {
		return nil, ErrInvalidResetToken
	}

	user, err := s.accounts.GetByID(userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidResetToken
		}
		return nil, err
	}
	return user, nil
}

// Confirm sets a new password and revokes every outstanding link of the user.
func (s *PasswordResetService) Confirm(ctx context.Context, uid, token, newPassword string) error {
	user, err := s.Validate(ctx, uid, token)
	if err != nil {
		return err
	}
	if err := s.accounts.SetPassword(user.ID, newPassword); err != nil {
		return err
	}
	return s.store.DeleteForUser(ctx, user.ID)
}

func resetBody(user db.User, url, domain string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You're receiving this email because you requested a password reset for your user account at %s.\n\n", domain)
	b.WriteString("Please go to the following page and choose a new password:\n")
	b.WriteString(url + "\n\n")
	fmt.Fprintf(&b, "Your username, in case you've forgotten: %s\n\n", user.Username)
	b.WriteString("Thanks for using our site!\n")
	return b.String()
}
