package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/ecommerce_catalog/internal/auth"
	"github.com/Skotchmaster/ecommerce_catalog/internal/models"
	"github.com/Skotchmaster/ecommerce_catalog/internal/rating"
)

func (env *testEnv) addReview(user models.User, productSlug, comment string, grade int) {
	env.T.Helper()
	_, err := env.R.Aggregator.AddReview(context.Background(), rating.ReviewInput{
		ProductSlug: productSlug,
		UserID:      user.ID,
		Grade:       grade,
		Comment:     comment,
	})
	require.NoError(env.T, err)
}

func TestAddReviewHandler(t *testing.T) {
	env := newTestEnv(t)
	category := env.seedCategory("Phones", nil)
	product := env.seedProduct("Pixel", category.ID, 2)
	user := env.seedUser("reviewer", false)

	payload := map[string]interface{}{"comment": "solid phone", "grade": 4}
	rec, c := env.doJSONRequest(http.MethodPost, "/reviews/add_review?product_slug=pixel", payload)
	auth.SetIdentity(c, identityFor(user))

	require.NoError(t, env.R.AddReview(c))
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "Successful", decodeTransaction(t, rec).Transaction)

	var updated models.Product
	require.NoError(t, env.DB.First(&updated, product.ID).Error)
	require.Equal(t, 4.0, updated.Rating)

	var review models.Review
	require.NoError(t, env.DB.Where("product_id = ?", product.ID).First(&review).Error)
	require.Equal(t, user.ID, review.UserID)
	require.False(t, review.CommentDate.IsZero())
}

func TestAddReviewUnauthenticated(t *testing.T) {
	env := newTestEnv(t)

	_, c := env.doJSONRequest(http.MethodPost, "/reviews/add_review?product_slug=pixel", map[string]interface{}{"grade": 5})
	requireHTTPError(t, env.R.AddReview(c), http.StatusUnauthorized)
}

func TestAddReviewUnknownProduct(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser("reviewer", false)

	_, c := env.doJSONRequest(http.MethodPost, "/reviews/add_review?product_slug=nothing", map[string]interface{}{"grade": 5})
	auth.SetIdentity(c, identityFor(user))
	requireHTTPError(t, env.R.AddReview(c), http.StatusNotFound)
}

func TestAllReviews(t *testing.T) {
	env := newTestEnv(t)
	category := env.seedCategory("Phones", nil)
	env.seedProduct("Pixel", category.ID, 2)
	user := env.seedUser("reviewer", false)

	env.addReview(user, "pixel", "first", 5)
	env.addReview(user, "pixel", "second", 3)

	rec, c := env.doJSONRequest(http.MethodGet, "/reviews/all_reviews", nil)
	require.NoError(t, env.R.AllReviews(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var reviews []models.Review
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reviews))
	require.Len(t, reviews, 2)
}

func TestAllReviewsEmpty(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodGet, "/reviews/all_reviews", nil)
	require.NoError(t, env.R.AllReviews(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, "[]", rec.Body.String())
}

func TestProductsReviews(t *testing.T) {
	env := newTestEnv(t)
	category := env.seedCategory("Phones", nil)
	env.seedProduct("Pixel", category.ID, 2)
	user := env.seedUser("reviewer", false)

	env.addReview(user, "pixel", "love it", 5)
	env.addReview(user, "pixel", "battery died", 2)

	rec, c := env.doJSONRequest(http.MethodGet, "/reviews/products_reviews?product_slug=pixel", nil)
	require.NoError(t, env.R.ProductsReviews(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "love it. Grade: 5", resp["review 1"])
	require.Equal(t, "battery died. Grade: 2", resp["review 2"])
}

func TestProductsReviewsUnknownProduct(t *testing.T) {
	env := newTestEnv(t)

	_, c := env.doJSONRequest(http.MethodGet, "/reviews/products_reviews?product_slug=nothing", nil)
	requireHTTPError(t, env.R.ProductsReviews(c), http.StatusNotFound)
}

func TestProductsReviewsNoneYet(t *testing.T) {
	env := newTestEnv(t)
	category := env.seedCategory("Phones", nil)
	env.seedProduct("Pixel", category.ID, 2)

	_, c := env.doJSONRequest(http.MethodGet, "/reviews/products_reviews?product_slug=pixel", nil)
	requireHTTPError(t, env.R.ProductsReviews(c), http.StatusNotFound)
}

func TestDeleteReviewByAdmin(t *testing.T) {
	env := newTestEnv(t)
	category := env.seedCategory("Phones", nil)
	product := env.seedProduct("Pixel", category.ID, 2)
	user := env.seedUser("reviewer", false)
	admin := env.seedUser("boss", true)

	env.addReview(user, "pixel", "love it", 4)
	env.addReview(user, "pixel", "hate it", 5)

	var target models.Review
	require.NoError(t, env.DB.Joins("JOIN ratings ON ratings.id = reviews.rating_id").
		Where("ratings.grade = ?", 5).First(&target).Error)

	rec, c := env.doJSONRequest(http.MethodDelete, "/reviews/delete_reviews?review_id=2", nil)
	auth.SetIdentity(c, identityFor(admin))
	require.NoError(t, env.R.DeleteReview(c))
	require.Equal(t, "Review delete is successful", decodeTransaction(t, rec).Transaction)

	var updated models.Product
	require.NoError(t, env.DB.First(&updated, product.ID).Error)
	require.Equal(t, 4.0, updated.Rating)

	// Gone from the review listing, rows still present.
	recList, cList := env.doJSONRequest(http.MethodGet, "/reviews/products_reviews?product_slug=pixel", nil)
	require.NoError(t, env.R.ProductsReviews(cList))
	var resp map[string]string
	require.NoError(t, json.Unmarshal(recList.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	require.Equal(t, "love it. Grade: 4", resp["review 1"])

	var stored models.Review
	require.NoError(t, env.DB.First(&stored, target.ID).Error)
	require.Equal(t, models.StatusDeleted, stored.Status)
}

func TestDeleteReviewForbiddenForNonAdmin(t *testing.T) {
	env := newTestEnv(t)
	category := env.seedCategory("Phones", nil)
	product := env.seedProduct("Pixel", category.ID, 2)
	user := env.seedUser("reviewer", false)

	env.addReview(user, "pixel", "mine", 5)

	_, c := env.doJSONRequest(http.MethodDelete, "/reviews/delete_reviews?review_id=1", nil)
	auth.SetIdentity(c, identityFor(user))
	requireHTTPError(t, env.R.DeleteReview(c), http.StatusForbidden)

	var review models.Review
	require.NoError(t, env.DB.Where("product_id = ?", product.ID).First(&review).Error)
	require.Equal(t, models.StatusActive, review.Status)

	var updated models.Product
	require.NoError(t, env.DB.First(&updated, product.ID).Error)
	require.Equal(t, 5.0, updated.Rating)
}

func TestDeleteReviewNotFound(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser("boss", true)

	_, c := env.doJSONRequest(http.MethodDelete, "/reviews/delete_reviews?review_id=9", nil)
	auth.SetIdentity(c, identityFor(admin))
	requireHTTPError(t, env.R.DeleteReview(c), http.StatusNotFound)
}
