package user

import (
	"errors"
	"time"
)

// Profile defaults applied on signup when the optional fields are omitted.
const (
	DefaultName   = "Жак-Ив Кусто"
	DefaultAbout  = "Исследователь"
	DefaultAvatar = "https://pictures.s3.yandex.net/resources/jacques-cousteau_1604399756.png"
)

var (
	ErrNotFound    = errors.New("user not found")
	ErrEmailTaken  = errors.New("email already taken")
	ErrInvalidData = errors.New("invalid user data")
)

type User struct {
	ID           string
	Email        string
	PasswordHash string // never leaves the repo layer except for signin
	Name         string
	About        string
	Avatar       string
	CreatedAt    time.Time
}

// Public is the allow-listed shape other users may see.
type Public struct {
	Name   string `json:"name"`
	About  string `json:"about"`
	Avatar string `json:"avatar"`
	ID     string `json:"_id"`
}

// Private additionally exposes the email. Only the account owner (and the
// signup response) ever receives it.
type Private struct {
	Name   string `json:"name"`
	About  string `json:"about"`
	Avatar string `json:"avatar"`
	Email  string `json:"email"`
	ID     string `json:"_id"`
}

func (u User) Public() Public {
	return Public{
		Name:   u.Name,
		About:  u.About,
		Avatar: u.Avatar,
		ID:     u.ID,
	}
}

func (u User) Private() Private {
	return Private{
		Name:   u.Name,
		About:  u.About,
		Avatar: u.Avatar,
		Email:  u.Email,
		ID:     u.ID,
	}
}

type SignupRequest struct {
	Name     string `json:"name" binding:"omitempty,min=2,max=30"`
	About    string `json:"about" binding:"omitempty,min=2,max=200"`
	Avatar   string `json:"avatar" binding:"omitempty,url"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type SigninRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	Name  string `json:"name" binding:"required,min=2,max=30"`
	About string `json:"about" binding:"required,min=2,max=200"`
}

type UpdateAvatarRequest struct {
	Avatar string `json:"avatar" binding:"required,url"`
}
