package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mestoapp/mesto/internal/apperr"
	"github.com/mestoapp/mesto/internal/cache"
	"github.com/mestoapp/mesto/internal/domain/card"
	"github.com/mestoapp/mesto/internal/http/middlewares"
	"github.com/mestoapp/mesto/internal/objectid"
)

type CardsStore interface {
	Create(ctx context.Context, c card.Card) (card.Card, error)
	List(ctx context.Context) ([]card.WithOwner, error)
	GetByID(ctx context.Context, id string) (card.Card, error)
	Delete(ctx context.Context, id string) error
	AddLike(ctx context.Context, cardID, userID string) (card.Card, error)
	RemoveLike(ctx context.Context, cardID, userID string) (card.Card, error)
}

type CardsHandler struct {
	repo CardsStore
	feed *cache.FeedCache
}

func NewCardsHandler(repo CardsStore, feed *cache.FeedCache) *CardsHandler {
	return &CardsHandler{repo: repo, feed: feed}
}

func (h *CardsHandler) List(ctx *gin.Context) {
	rc := ctx.Request.Context()

	if payload, ok := h.feed.Get(rc); ok {
		ctx.Data(http.StatusOK, "application/json; charset=utf-8", payload)
		return
	}

	cards, err := h.repo.List(rc)

	if err != nil {
		fail(ctx, err)
		return
	}

	out := make([]card.Expanded, 0, len(cards))

	for _, c := range cards {
		out = append(out, c.Expanded())
	}

	payload, err := json.Marshal(out)

	if err != nil {
		fail(ctx, err)
		return
	}

	h.feed.Set(rc, payload)

	ctx.Data(http.StatusOK, "application/json; charset=utf-8", payload)
}

func (h *CardsHandler) Create(ctx *gin.Context) {
	var req card.CreateRequest

	if !BindJSON(ctx, &req) {
		return
	}

	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		fail(ctx, apperr.Unauthorized("Authorization required"))
		return
	}

	c := card.Card{
		ID:      objectid.New(),
		Name:    req.Name,
		Link:    req.Link,
		OwnerID: userID,
	}

	created, err := h.repo.Create(ctx.Request.Context(), c)

	if err != nil {
		if errors.Is(err, card.ErrInvalidData) {
			fail(ctx, apperr.BadRequest("Invalid data for card creation"))
			return
		}
		fail(ctx, err)
		return
	}

	h.feed.Invalidate(ctx.Request.Context())

	ctx.JSON(http.StatusCreated, created.Response())
}

// Delete permits only the owner. The fetch happens first: a missing card is
// 404, someone else's card is 403, never the other way around.
func (h *CardsHandler) Delete(ctx *gin.Context) {
	cardID := ctx.Param("cardId")

	if !objectid.IsValid(cardID) {
		fail(ctx, apperr.BadRequest("Invalid card id"))
		return
	}

	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		fail(ctx, apperr.Unauthorized("Authorization required"))
		return
	}

	rc := ctx.Request.Context()

	c, err := h.repo.GetByID(rc, cardID)

	if err != nil {
		if errors.Is(err, card.ErrNotFound) {
			fail(ctx, apperr.NotFound("Card not found"))
			return
		}
		fail(ctx, err)
		return
	}

	if c.OwnerID != userID {
		fail(ctx, apperr.Forbidden("You cannot delete another user's card"))
		return
	}

	err = h.repo.Delete(rc, cardID)

	if err != nil {
		if errors.Is(err, card.ErrNotFound) {
			fail(ctx, apperr.NotFound("Card not found"))
			return
		}
		fail(ctx, err)
		return
	}

	h.feed.Invalidate(rc)

	ctx.JSON(http.StatusOK, gin.H{"message": "Card deleted"})
}

func (h *CardsHandler) Like(ctx *gin.Context) {
	h.updateLikes(ctx, h.repo.AddLike)
}

func (h *CardsHandler) Dislike(ctx *gin.Context) {
	h.updateLikes(ctx, h.repo.RemoveLike)
}

// Both like operations are idempotent set updates that return the fresh card.
func (h *CardsHandler) updateLikes(ctx *gin.Context, op func(ctx context.Context, cardID, userID string) (card.Card, error)) {
	cardID := ctx.Param("cardId")

	if !objectid.IsValid(cardID) {
		fail(ctx, apperr.BadRequest("Invalid card id"))
		return
	}

	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		fail(ctx, apperr.Unauthorized("Authorization required"))
		return
	}

	rc := ctx.Request.Context()

	c, err := op(rc, cardID, userID)

	if err != nil {
		if errors.Is(err, card.ErrNotFound) {
			fail(ctx, apperr.NotFound("Card not found"))
			return
		}
		fail(ctx, err)
		return
	}

	h.feed.Invalidate(rc)

	ctx.JSON(http.StatusOK, c.Response())
}
