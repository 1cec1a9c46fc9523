package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/movierec-service/internal/api/dto"
	"github.com/spec-kit/movierec-service/internal/auth"
	"github.com/spec-kit/movierec-service/internal/service"
	apperrors "github.com/spec-kit/movierec-service/pkg/util"
)

// RatingsHandler exposes the caller's movie rating endpoints.
type RatingsHandler struct {
	ratings *service.RatingService
}

// NewRatingsHandler constructs handler.
func NewRatingsHandler(ratingService *service.RatingService) *RatingsHandler {
	return &RatingsHandler{ratings: ratingService}
}

// Rate handles POST /api/v1/users/me/ratings.
func (h *RatingsHandler) Rate(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("authentication required")
	}

	var req dto.RatingRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.MovieID <= 0 {
		return apperrors.NewValidationError("movie_id required", nil)
	}

	rating, err := h.ratings.Rate(c.Context(), user.ID, req.MovieID, req.Score, req.Review)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewRatingResponse(*rating)})
}

// List handles GET /api/v1/users/me/ratings.
func (h *RatingsHandler) List(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("authentication required")
	}

	limit, err := boundedQueryInt(c, "limit", 20, 1, 100)
	if err != nil {
		return err
	}
	offset, err := boundedQueryInt(c, "offset", 0, 0, 1<<30)
	if err != nil {
		return err
	}

	ratings, err := h.ratings.List(c.Context(), user.ID, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRatingListResponse(ratings)})
}

// Remove handles DELETE /api/v1/users/me/ratings/:movieID.
func (h *RatingsHandler) Remove(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("authentication required")
	}

	movieID, err := pathID(c, "movieID")
	if err != nil {
		return err
	}

	if err := h.ratings.Remove(c.Context(), user.ID, movieID); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
