// Package rating keeps Product.Rating equal to the mean of the product's
// active ratings as reviews are added and soft-deleted.
package rating

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/ecommerce_catalog/internal/auth"
	"github.com/Skotchmaster/ecommerce_catalog/internal/models"
)

var (
	ErrProductNotFound = errors.New("there is no such product")
	ErrReviewNotFound  = errors.New("there is no such review")
	ErrForbidden       = errors.New("only admin may delete reviews")
)

type Aggregator struct {
	DB *gorm.DB
}

type ReviewInput struct {
	ProductSlug string
	UserID      uint
	Grade       int
	Comment     string
}

// lockForUpdate serializes rating writers on the product row. Callers must
// hold the lock before inserting or deactivating ratings, otherwise two
// READ COMMITTED transactions could each average before the other commits
// and the later UPDATE would persist a stale mean. sqlite allows a single
// writer and does not parse FOR UPDATE, so the clause is skipped there.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// recompute refreshes the product's denormalized mean from the active rating
// set with a single aggregate query. The caller must already hold the
// product row lock (see lockForUpdate) within the same transaction.
func recompute(tx *gorm.DB, productID uint) error {
	var avg sql.NullFloat64
	row := tx.Model(&models.Rating{}).
		Where("product_id = ? AND status = ?", productID, models.StatusActive).
		Select("AVG(grade)").
		Row()
	if err := row.Scan(&avg); err != nil {
		return err
	}

	mean := 0.0
	if avg.Valid {
		mean = math.Round(avg.Float64*10) / 10
	}

	return tx.Model(&models.Product{}).
		Where("id = ?", productID).
		Update("rating", mean).Error
}

func (a *Aggregator) Recompute(ctx context.Context, productID uint) error {
	return a.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := lockForUpdate(tx).First(&product, productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}
		return recompute(tx, product.ID)
	})
}

// AddReview inserts a Rating/Review pair for an active product and refreshes
// the product's mean, all in one transaction.
func (a *Aggregator) AddReview(ctx context.Context, in ReviewInput) (*models.Review, error) {
	var review models.Review

	err := a.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := lockForUpdate(tx).
			Where("slug = ? AND status = ?", in.ProductSlug, models.StatusActive).
			First(&product).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}

		grade := models.Rating{
			Grade:     in.Grade,
			UserID:    in.UserID,
			ProductID: product.ID,
			Status:    models.StatusActive,
		}
		if err := tx.Create(&grade).Error; err != nil {
			return err
		}

		review = models.Review{
			UserID:      in.UserID,
			ProductID:   product.ID,
			RatingID:    grade.ID,
			Comment:     in.Comment,
			CommentDate: time.Now(),
			Status:      models.StatusActive,
		}
		if err := tx.Create(&review).Error; err != nil {
			return err
		}

		return recompute(tx, product.ID)
	})
	if err != nil {
		return nil, err
	}

	return &review, nil
}

// SoftDeleteReview deactivates a review together with its rating and
// refreshes the product's mean. Only admins may do this; any other role gets
// ErrForbidden before anything is touched.
func (a *Aggregator) SoftDeleteReview(ctx context.Context, reviewID uint, callerRole auth.Role) (*models.Review, error) {
	switch callerRole {
	case auth.RoleAdmin:
	case auth.RoleSupplier, auth.RoleCustomer, auth.RoleGuest:
		return nil, ErrForbidden
	default:
		return nil, ErrForbidden
	}

	var review models.Review

	err := a.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND status = ?", reviewID, models.StatusActive).
			First(&review).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReviewNotFound
			}
			return err
		}

		var product models.Product
		if err := lockForUpdate(tx).First(&product, review.ProductID).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Review{}).
			Where("id = ?", review.ID).
			Update("status", models.StatusDeleted).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Rating{}).
			Where("id = ?", review.RatingID).
			Update("status", models.StatusDeleted).Error; err != nil {
			return err
		}

		return recompute(tx, review.ProductID)
	})
	if err != nil {
		return nil, err
	}

	review.Status = models.StatusDeleted
	return &review, nil
}
