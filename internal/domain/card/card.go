package card

import (
	"errors"
	"time"

	"github.com/mestoapp/mesto/internal/domain/user"
)

var (
	ErrNotFound    = errors.New("card not found")
	ErrInvalidData = errors.New("invalid card data")
)

type Card struct {
	ID        string
	Name      string
	Link      string
	OwnerID   string // set at creation, immutable
	Likes     []string
	CreatedAt time.Time
}

// WithOwner carries the card together with its owner row, for responses
// that expand the owner reference.
type WithOwner struct {
	Card
	Owner user.User
}

// Response is the shape returned by create/like/dislike: the owner stays an
// id reference.
type Response struct {
	Name      string    `json:"name"`
	Link      string    `json:"link"`
	Owner     string    `json:"owner"`
	Likes     []string  `json:"likes"`
	ID        string    `json:"_id"`
	CreatedAt time.Time `json:"createdAt"`
}

// Expanded is the feed shape: the owner reference is expanded into its
// public profile.
type Expanded struct {
	Name      string      `json:"name"`
	Link      string      `json:"link"`
	Owner     user.Public `json:"owner"`
	Likes     []string    `json:"likes"`
	ID        string      `json:"_id"`
	CreatedAt time.Time   `json:"createdAt"`
}

func (c Card) Response() Response {
	likes := c.Likes
	if likes == nil {
		likes = []string{}
	}

	return Response{
		Name:      c.Name,
		Link:      c.Link,
		Owner:     c.OwnerID,
		Likes:     likes,
		ID:        c.ID,
		CreatedAt: c.CreatedAt,
	}
}

func (c WithOwner) Expanded() Expanded {
	likes := c.Likes
	if likes == nil {
		likes = []string{}
	}

	return Expanded{
		Name:      c.Name,
		Link:      c.Link,
		Owner:     c.Owner.Public(),
		Likes:     likes,
		ID:        c.ID,
		CreatedAt: c.CreatedAt,
	}
}

type CreateRequest struct {
	Name string `json:"name" binding:"required,min=2,max=30"`
	Link string `json:"link" binding:"required,url"`
}
