package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mestoapp/mesto/internal/domain/card"
	"github.com/mestoapp/mesto/internal/domain/user"
)

type CardsRepo struct {
	mu    sync.RWMutex
	items map[string]card.Card
	likes map[string]map[string]struct{} // cardID -> set of userIDs
	users *UsersRepo
}

// NewCardsRepo shares the users repo so List can expand owners the way the
// postgres JOIN does.
func NewCardsRepo(users *UsersRepo) *CardsRepo {
	return &CardsRepo{
		items: make(map[string]card.Card),
		likes: make(map[string]map[string]struct{}),
		users: users,
	}
}

func (r *CardsRepo) Create(ctx context.Context, c card.Card) (card.Card, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c.CreatedAt = time.Now().UTC()
	c.Likes = []string{}
	r.items[c.ID] = c
	r.likes[c.ID] = make(map[string]struct{})

	return c, nil
}

func (r *CardsRepo) List(ctx context.Context) ([]card.WithOwner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]card.WithOwner, 0, len(r.items))

	for id, c := range r.items {
		c.Likes = r.likesOf(id)

		owner := user.User{ID: c.OwnerID}
		if r.users != nil {
			if u, err := r.users.GetByID(ctx, c.OwnerID); err == nil {
				owner = u
			}
		}

		out = append(out, card.WithOwner{Card: c, Owner: owner})
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})

	return out, nil
}

func (r *CardsRepo) GetByID(ctx context.Context, id string) (card.Card, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.items[id]

	if !ok {
		return card.Card{}, card.ErrNotFound
	}

	c.Likes = r.likesOf(id)

	return c, nil
}

func (r *CardsRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return card.ErrNotFound
	}

	delete(r.items, id)
	delete(r.likes, id)

	return nil
}

func (r *CardsRepo) AddLike(ctx context.Context, cardID, userID string) (card.Card, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.items[cardID]

	if !ok {
		return card.Card{}, card.ErrNotFound
	}

	if r.likes[cardID] == nil {
		r.likes[cardID] = make(map[string]struct{})
	}
	r.likes[cardID][userID] = struct{}{}

	c.Likes = r.likesOf(cardID)

	return c, nil
}

func (r *CardsRepo) RemoveLike(ctx context.Context, cardID, userID string) (card.Card, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.items[cardID]

	if !ok {
		return card.Card{}, card.ErrNotFound
	}

	delete(r.likes[cardID], userID)

	c.Likes = r.likesOf(cardID)

	return c, nil
}

// likesOf returns a sorted snapshot; callers hold at least the read lock.
func (r *CardsRepo) likesOf(cardID string) []string {
	set := r.likes[cardID]
	out := make([]string, 0, len(set))

	for id := range set {
		out = append(out, id)
	}

	sort.Strings(out)

	return out
}
