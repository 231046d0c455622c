package models

import "time"

// User represents the logged in user as stored in the session.
type User struct {
	ID       uint
	Username string
}

// UserInfo is the public view of a user.
type UserInfo struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	AvatarURL string    `json:"avatarUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Category is the public view of a category.
type Category struct {
	ID   uint   `json:"id"`
	Text string `json:"text"`
}

// Todo is the public view of a todo with its categories.
type Todo struct {
	ID         uint       `json:"id"`
	Text       string     `json:"text"`
	Done       bool       `json:"done"`
	Categories []Category `json:"categories"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// Assignment reports the outcome of tagging a todo.
type Assignment struct {
	Todo            Todo     `json:"todo"`
	Category        Category `json:"category"`
	CategoryCreated bool     `json:"categoryCreated"`
	AlreadyAssigned bool     `json:"alreadyAssigned"`
}

// LoginRequest is accepted as form or JSON body on /login.
type LoginRequest struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

// TextRequest carries the text of a new todo or category.
type TextRequest struct {
	Text string `form:"text" json:"text" binding:"required,max=255"`
}
