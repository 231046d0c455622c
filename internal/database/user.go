package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User represents a user in the database.
// The password is only ever stored as a bcrypt hash.
type User struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Username   string     `gorm:"uniqueIndex;not null" json:"username"`
	Email      string     `gorm:"uniqueIndex;not null" json:"email"`
	Password   string     `gorm:"not null" json:"-"`
	Todos      []Todo     `json:"-"`
	Categories []Category `json:"-"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// NewUser builds a user and hashes its password.
func NewUser(username, email, password string) (*User, error) {
	u := &User{
		Username: username,
		Email:    email,
	}
	if err := u.SetPassword(password); err != nil {
		return nil, err
	}
	return u, nil
}

// SetPassword replaces the stored hash with a hash of password.
func (u *User) SetPassword(password string) error {
	if len(password) > MaxPasswordBytes {
		return ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	u.Password = string(hash)
	return nil
}

// CheckPassword reports whether password matches the stored hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
}

func (u User) String() string {
	return fmt.Sprintf("(User id=%d, username=%s, email=%s)", u.ID, u.Username, u.Email)
}

func (c *Client) CreateUser(ctx context.Context, username, email, password string) (*User, error) {
	user, err := NewUser(username, email, password)
	if err != nil {
		return nil, err
	}
	err = c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(user).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("username or email %w", ErrConflict)
		}
		log.Error("failed to create user", "error", err)
		return nil, err
	}
	return user, nil
}

func (c *Client) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	return findUser(c.db.WithContext(ctx), username)
}

func (c *Client) GetAllUsers(ctx context.Context) ([]User, error) {
	var users []User
	if err := c.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		log.Error("failed to get all users", "error", err)
		return nil, err
	}
	return users, nil
}

func (c *Client) ChangeEmail(ctx context.Context, username, email string) (*User, error) {
	var user *User
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		u, err := findUser(tx, username)
		if err != nil {
			return err
		}
		if err := tx.Model(&User{}).Where("id = ?", u.ID).Update("email", email).Error; err != nil {
			return err
		}
		u.Email = email
		user = u
		return nil
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("email %q %w", email, ErrConflict)
		}
		if !errors.Is(err, ErrNotFound) {
			log.Error("failed to change email", "error", err)
		}
		return nil, err
	}
	return user, nil
}

// DeleteUser removes the user together with its todos, categories and their
// assignments in a single transaction.
func (c *Client) DeleteUser(ctx context.Context, username string) error {
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := findUser(tx, username)
		if err != nil {
			return err
		}
		todoIDs := tx.Model(&Todo{}).Select("id").Where("user_id = ?", user.ID)
		categoryIDs := tx.Model(&Category{}).Select("id").Where("user_id = ?", user.ID)
		if err := tx.Where("todo_id IN (?) OR category_id IN (?)", todoIDs, categoryIDs).Delete(&TodoCategory{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&Todo{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&Category{}).Error; err != nil {
			return err
		}
		return tx.Delete(user).Error
	})
	if err != nil && !errors.Is(err, ErrNotFound) {
		log.Error("failed to delete user", "error", err)
	}
	return err
}

// ListUsers returns a page of users in insertion order.
func (c *Client) ListUsers(ctx context.Context, limit, offset int) ([]User, error) {
	users := []User{}
	if limit <= 0 {
		return users, nil
	}
	if offset < 0 {
		offset = 0
	}
	if err := c.db.WithContext(ctx).Order("id").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		log.Error("failed to list users", "error", err)
		return nil, err
	}
	return users, nil
}

// FindUsersPartial returns users whose username or email contains fragment.
// The match is case sensitive.
func (c *Client) FindUsersPartial(ctx context.Context, fragment string) ([]User, error) {
	var users []User
	if err := c.db.WithContext(ctx).
		Where("instr(username, ?) > 0 OR instr(email, ?) > 0", fragment, fragment).
		Order("id").
		Find(&users).Error; err != nil {
		log.Error("failed to search users", "error", err)
		return nil, err
	}
	return users, nil
}

func (c *Client) Authenticate(ctx context.Context, username, password string) (*User, error) {
	user, err := findUser(c.db.WithContext(ctx), username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func findUser(db *gorm.DB, username string) (*User, error) {
	var user User
	if err := db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %q %w", username, ErrNotFound)
		}
		log.Error("failed to get user by username", "error", err)
		return nil, err
	}
	return &user, nil
}
