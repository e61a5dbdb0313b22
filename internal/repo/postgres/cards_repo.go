package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mestoapp/mesto/internal/domain/card"
	"github.com/mestoapp/mesto/internal/observability"
)

type CardsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewCardsRepo(pool *pgxpool.Pool, prom *observability.Prom) *CardsRepo {
	return &CardsRepo{pool: pool, prom: prom}
}

func (r *CardsRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (r *CardsRepo) Create(ctx context.Context, c card.Card) (card.Card, error) {
	c.CreatedAt = time.Now().UTC()

	err := r.observe("cards.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO cards(id, name, link, owner_id, created_at)
			 VALUES($1, $2, $3, $4, $5)`,
			c.ID, c.Name, c.Link, c.OwnerID, c.CreatedAt)

		return err
	})

	if err != nil {
		if IsCheckViolation(err) {
			return card.Card{}, card.ErrInvalidData
		}
		return card.Card{}, err
	}

	c.Likes = []string{}

	return c, nil
}

// List returns the whole feed, newest first, with owners expanded.
func (r *CardsRepo) List(ctx context.Context) ([]card.WithOwner, error) {
	var out []card.WithOwner

	err := r.observe("cards.list", func() error {
		rows, err := r.pool.Query(ctx,
			`SELECT c.id, c.name, c.link, c.owner_id, c.created_at,
			        COALESCE(array_agg(l.user_id ORDER BY l.liked_at) FILTER (WHERE l.user_id IS NOT NULL), '{}'),
			        u.id, u.email, u.name, u.about, u.avatar, u.created_at
			 FROM cards c
			 JOIN users u ON u.id = c.owner_id
			 LEFT JOIN card_likes l ON l.card_id = c.id
			 GROUP BY c.id, u.id
			 ORDER BY c.created_at DESC, c.id DESC`)

		if err != nil {
			return err
		}

		defer rows.Close()

		out = make([]card.WithOwner, 0, 32)

		for rows.Next() {
			var c card.WithOwner

			err = rows.Scan(
				&c.ID, &c.Name, &c.Link, &c.OwnerID, &c.CreatedAt,
				&c.Likes,
				&c.Owner.ID, &c.Owner.Email, &c.Owner.Name, &c.Owner.About, &c.Owner.Avatar, &c.Owner.CreatedAt,
			)

			if err != nil {
				return err
			}

			out = append(out, c)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return out, nil
}

func (r *CardsRepo) GetByID(ctx context.Context, id string) (card.Card, error) {
	var c card.Card

	err := r.observe("cards.get_by_id", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT c.id, c.name, c.link, c.owner_id, c.created_at,
			        COALESCE(array_agg(l.user_id ORDER BY l.liked_at) FILTER (WHERE l.user_id IS NOT NULL), '{}')
			 FROM cards c
			 LEFT JOIN card_likes l ON l.card_id = c.id
			 WHERE c.id = $1
			 GROUP BY c.id`, id).
			Scan(&c.ID, &c.Name, &c.Link, &c.OwnerID, &c.CreatedAt, &c.Likes)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return card.Card{}, card.ErrNotFound
		}
		return card.Card{}, err
	}

	return c, nil
}

func (r *CardsRepo) Delete(ctx context.Context, id string) error {
	return r.observe("cards.delete", func() error {
		tag, err := r.pool.Exec(ctx, `DELETE FROM cards WHERE id = $1`, id)

		if err != nil {
			return err
		}

		if tag.RowsAffected() == 0 {
			return card.ErrNotFound
		}

		return nil
	})
}

// AddLike inserts the caller into the card's like set. The primary key on
// card_likes makes a repeated like a single-row no-op, so concurrent likes
// cannot be lost or doubled.
func (r *CardsRepo) AddLike(ctx context.Context, cardID, userID string) (card.Card, error) {
	err := r.observe("cards.add_like", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO card_likes(card_id, user_id)
			 VALUES($1, $2)
			 ON CONFLICT DO NOTHING`,
			cardID, userID)

		return err
	})

	if err != nil {
		// FK failure means the card disappeared between check and insert
		if IsForeignKeyViolation(err) {
			return card.Card{}, card.ErrNotFound
		}
		return card.Card{}, err
	}

	return r.GetByID(ctx, cardID)
}

// RemoveLike deletes the caller from the like set. Removing an absent member
// is a no-op; the card itself must still exist.
func (r *CardsRepo) RemoveLike(ctx context.Context, cardID, userID string) (card.Card, error) {
	err := r.observe("cards.remove_like", func() error {
		_, err := r.pool.Exec(ctx,
			`DELETE FROM card_likes WHERE card_id = $1 AND user_id = $2`,
			cardID, userID)

		return err
	})

	if err != nil {
		return card.Card{}, err
	}

	return r.GetByID(ctx, cardID)
}
