package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/ecommerce_catalog/internal/auth"
	"github.com/Skotchmaster/ecommerce_catalog/internal/events"
	"github.com/Skotchmaster/ecommerce_catalog/internal/models"
	"github.com/Skotchmaster/ecommerce_catalog/internal/rating"
)

type ReviewHandler struct {
	DB         *gorm.DB
	Aggregator *rating.Aggregator
	Producer   events.Publisher
}

func (h *ReviewHandler) AllReviews(c echo.Context) error {
	var reviews []models.Review
	if err := h.DB.Where("status = ?", models.StatusActive).Find(&reviews).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	return c.JSON(http.StatusOK, reviews)
}

// ProductsReviews answers with a "review N" -> "comment. Grade: G" mapping
// for the product's active reviews, joined to their ratings.
func (h *ReviewHandler) ProductsReviews(c echo.Context) error {
	productSlug := c.QueryParam("product_slug")

	var product models.Product
	if err := h.DB.Where("slug = ? AND status = ?", productSlug, models.StatusActive).
		First(&product).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "There is no such product")
	}

	var rows []struct {
		Comment string
		Grade   int
	}
	if err := h.DB.Model(&models.Review{}).
		Select("reviews.comment, ratings.grade").
		Joins("JOIN ratings ON ratings.id = reviews.rating_id").
		Where("reviews.product_id = ? AND reviews.status = ?", product.ID, models.StatusActive).
		Order("reviews.id ASC").
		Scan(&rows).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	if len(rows) == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "There are no reviews")
	}

	response := make(map[string]string, len(rows))
	for n, row := range rows {
		response[fmt.Sprintf("review %d", n+1)] = fmt.Sprintf("%s. Grade: %d", row.Comment, row.Grade)
	}

	return c.JSON(http.StatusOK, response)
}

func (h *ReviewHandler) AddReview(c echo.Context) error {
	ident, ok := auth.CurrentIdentity(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Could not validate user")
	}

	var req struct {
		Comment string `json:"comment"`
		Grade   int    `json:"grade"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	review, err := h.Aggregator.AddReview(c.Request().Context(), rating.ReviewInput{
		ProductSlug: c.QueryParam("product_slug"),
		UserID:      ident.UserID,
		Grade:       req.Grade,
		Comment:     req.Comment,
	})
	if err != nil {
		if errors.Is(err, rating.ErrProductNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "There is no such product")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	publish(c, h.Producer, "review_events", review.ID, map[string]interface{}{
		"type":      "review_added",
		"reviewID":  review.ID,
		"productID": review.ProductID,
		"userID":    review.UserID,
	})

	return transaction(c, http.StatusCreated, "Successful")
}

func (h *ReviewHandler) DeleteReview(c echo.Context) error {
	ident, ok := auth.CurrentIdentity(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Could not validate user")
	}

	reviewID, err := strconv.Atoi(c.QueryParam("review_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	review, err := h.Aggregator.SoftDeleteReview(c.Request().Context(), uint(reviewID), ident.Role)
	if err != nil {
		switch {
		case errors.Is(err, rating.ErrForbidden):
			return echo.NewHTTPError(http.StatusForbidden, "You don't have admin permission")
		case errors.Is(err, rating.ErrReviewNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "There is no such review")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err)
		}
	}

	publish(c, h.Producer, "review_events", review.ID, map[string]interface{}{
		"type":      "review_deleted",
		"reviewID":  review.ID,
		"productID": review.ProductID,
	})

	return transaction(c, http.StatusOK, "Review delete is successful")
}
