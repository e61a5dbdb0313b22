package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mestoapp/mesto/internal/apperr"
	"github.com/mestoapp/mesto/internal/auth"
	"github.com/mestoapp/mesto/internal/config"
	"github.com/mestoapp/mesto/internal/domain/user"
	"github.com/mestoapp/mesto/internal/http/middlewares"
	"github.com/mestoapp/mesto/internal/objectid"
	"github.com/mestoapp/mesto/internal/security"
)

type UsersStore interface {
	Create(ctx context.Context, u user.User) (user.User, error)
	List(ctx context.Context) ([]user.User, error)
	GetByID(ctx context.Context, id string) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
	UpdateProfile(ctx context.Context, id, name, about string) (user.User, error)
	UpdateAvatar(ctx context.Context, id, avatar string) (user.User, error)
}

type UsersHandler struct {
	repo     UsersStore
	sessions *auth.Manager
	cfg      config.Config
}

func NewUsersHandler(repo UsersStore, sessions *auth.Manager, cfg config.Config) *UsersHandler {
	return &UsersHandler{
		repo:     repo,
		sessions: sessions,
		cfg:      cfg,
	}
}

func (h *UsersHandler) SignUp(ctx *gin.Context) {
	var req user.SignupRequest

	if !BindJSON(ctx, &req) {
		return
	}

	hash, err := security.HashPassword(req.Password)

	if err != nil {
		fail(ctx, err)
		return
	}

	u := user.User{
		ID:           objectid.New(),
		Email:        req.Email,
		PasswordHash: hash,
		Name:         defaulted(req.Name, user.DefaultName),
		About:        defaulted(req.About, user.DefaultAbout),
		Avatar:       defaulted(req.Avatar, user.DefaultAvatar),
	}

	created, err := h.repo.Create(ctx.Request.Context(), u)

	if err != nil {
		switch {
		case errors.Is(err, user.ErrEmailTaken):
			fail(ctx, apperr.Conflict("A user with this email already exists"))
		case errors.Is(err, user.ErrInvalidData):
			fail(ctx, apperr.BadRequest("Invalid data for user creation"))
		default:
			fail(ctx, err)
		}
		return
	}

	ctx.JSON(http.StatusCreated, created.Private())
}

// SignIn reports one fixed message for both a missing account and a wrong
// password so callers cannot probe which emails exist.
func (h *UsersHandler) SignIn(ctx *gin.Context) {
	var req user.SigninRequest

	if !BindJSON(ctx, &req) {
		return
	}

	u, err := h.repo.GetByEmail(ctx.Request.Context(), req.Email)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			fail(ctx, apperr.Unauthorized("Invalid email or password"))
			return
		}
		fail(ctx, err)
		return
	}

	err = security.CheckPassword(u.PasswordHash, req.Password)

	if err != nil {
		fail(ctx, apperr.Unauthorized("Invalid email or password"))
		return
	}

	token, err := h.sessions.IssueSession(u.ID)

	if err != nil {
		fail(ctx, err)
		return
	}

	h.setSessionCookie(ctx, token)

	ctx.JSON(http.StatusOK, gin.H{"message": "Authorization successful"})
}

func (h *UsersHandler) List(ctx *gin.Context) {
	users, err := h.repo.List(ctx.Request.Context())

	if err != nil {
		fail(ctx, err)
		return
	}

	out := make([]user.Public, 0, len(users))

	for _, u := range users {
		out = append(out, u.Public())
	}

	ctx.JSON(http.StatusOK, out)
}

func (h *UsersHandler) Me(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		fail(ctx, apperr.Unauthorized("Authorization required"))
		return
	}

	u, err := h.repo.GetByID(ctx.Request.Context(), userID)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			fail(ctx, apperr.NotFound("User not found"))
			return
		}
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, u.Private())
}

func (h *UsersHandler) GetByID(ctx *gin.Context) {
	userID := ctx.Param("userId")

	if !objectid.IsValid(userID) {
		fail(ctx, apperr.BadRequest("Invalid user id"))
		return
	}

	u, err := h.repo.GetByID(ctx.Request.Context(), userID)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			fail(ctx, apperr.NotFound("User not found"))
			return
		}
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, u.Public())
}

func (h *UsersHandler) UpdateProfile(ctx *gin.Context) {
	var req user.UpdateProfileRequest

	if !BindJSON(ctx, &req) {
		return
	}

	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		fail(ctx, apperr.Unauthorized("Authorization required"))
		return
	}

	u, err := h.repo.UpdateProfile(ctx.Request.Context(), userID, req.Name, req.About)

	if err != nil {
		switch {
		case errors.Is(err, user.ErrNotFound):
			fail(ctx, apperr.NotFound("User not found"))
		case errors.Is(err, user.ErrInvalidData):
			fail(ctx, apperr.BadRequest("Invalid data for profile update"))
		default:
			fail(ctx, err)
		}
		return
	}

	ctx.JSON(http.StatusOK, u.Public())
}

func (h *UsersHandler) UpdateAvatar(ctx *gin.Context) {
	var req user.UpdateAvatarRequest

	if !BindJSON(ctx, &req) {
		return
	}

	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		fail(ctx, apperr.Unauthorized("Authorization required"))
		return
	}

	u, err := h.repo.UpdateAvatar(ctx.Request.Context(), userID, req.Avatar)

	if err != nil {
		switch {
		case errors.Is(err, user.ErrNotFound):
			fail(ctx, apperr.NotFound("User not found"))
		case errors.Is(err, user.ErrInvalidData):
			fail(ctx, apperr.BadRequest("Invalid data for avatar update"))
		default:
			fail(ctx, err)
		}
		return
	}

	ctx.JSON(http.StatusOK, u.Public())
}

func (h *UsersHandler) setSessionCookie(ctx *gin.Context, token string) {
	secure := h.cfg.Env == "prod"

	ctx.SetSameSite(http.SameSiteLaxMode)

	ctx.SetCookie(
		middlewares.SessionCookie,
		token,
		int(h.cfg.SessionTTL.Seconds()),
		"/",
		"",
		secure,
		true, // HttpOnly.
	)
}

func defaulted(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
