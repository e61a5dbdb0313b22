package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mestoapp/mesto/internal/domain/user"
	"github.com/mestoapp/mesto/internal/observability"
)

type UsersRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewUsersRepo(pool *pgxpool.Pool, prom *observability.Prom) *UsersRepo {
	return &UsersRepo{pool: pool, prom: prom}
}

func (r *UsersRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (r *UsersRepo) Create(ctx context.Context, u user.User) (user.User, error) {
	u.CreatedAt = time.Now().UTC()

	err := r.observe("users.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO users(id, email, password_hash, name, about, avatar, created_at)
			 VALUES($1, $2, $3, $4, $5, $6, $7)`,
			u.ID, u.Email, u.PasswordHash, u.Name, u.About, u.Avatar, u.CreatedAt)

		return err
	})

	if err != nil {
		if IsUniqueViolation(err) {
			return user.User{}, user.ErrEmailTaken
		}
		if IsCheckViolation(err) {
			return user.User{}, user.ErrInvalidData
		}
		return user.User{}, err
	}

	return u, nil
}

func (r *UsersRepo) List(ctx context.Context) ([]user.User, error) {
	var out []user.User

	err := r.observe("users.list", func() error {
		rows, err := r.pool.Query(ctx,
			`SELECT id, email, password_hash, name, about, avatar, created_at
			 FROM users
			 ORDER BY created_at ASC, id ASC`)

		if err != nil {
			return err
		}

		defer rows.Close()

		out = make([]user.User, 0, 16)

		for rows.Next() {
			var u user.User

			err = rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.About, &u.Avatar, &u.CreatedAt)

			if err != nil {
				return err
			}

			out = append(out, u)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return out, nil
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	var u user.User

	err := r.observe("users.get_by_id", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT id, email, password_hash, name, about, avatar, created_at
			 FROM users
			 WHERE id = $1`, id).
			Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.About, &u.Avatar, &u.CreatedAt)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}

	return u, nil
}

// GetByEmail is the signin lookup: unlike every other read path, its caller
// actually uses the password hash.
func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	var u user.User

	err := r.observe("users.get_by_email", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT id, email, password_hash, name, about, avatar, created_at
			 FROM users
			 WHERE email = $1`, email).
			Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.About, &u.Avatar, &u.CreatedAt)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}

	return u, nil
}

func (r *UsersRepo) UpdateProfile(ctx context.Context, id, name, about string) (user.User, error) {
	var u user.User

	err := r.observe("users.update_profile", func() error {
		return r.pool.QueryRow(ctx,
			`UPDATE users
			 SET name = $2, about = $3
			 WHERE id = $1
			 RETURNING id, email, password_hash, name, about, avatar, created_at`,
			id, name, about).
			Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.About, &u.Avatar, &u.CreatedAt)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		if IsCheckViolation(err) {
			return user.User{}, user.ErrInvalidData
		}
		return user.User{}, err
	}

	return u, nil
}

func (r *UsersRepo) UpdateAvatar(ctx context.Context, id, avatar string) (user.User, error) {
	var u user.User

	err := r.observe("users.update_avatar", func() error {
		return r.pool.QueryRow(ctx,
			`UPDATE users
			 SET avatar = $2
			 WHERE id = $1
			 RETURNING id, email, password_hash, name, about, avatar, created_at`,
			id, avatar).
			Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.About, &u.Avatar, &u.CreatedAt)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		if IsCheckViolation(err) {
			return user.User{}, user.ErrInvalidData
		}
		return user.User{}, err
	}

	return u, nil
}
