package httpserver

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/ecommerce_catalog/internal/auth"
	"github.com/Skotchmaster/ecommerce_catalog/internal/handlers"
)

type Deps struct {
	DB              *gorm.DB
	Tokens          *auth.TokenService
	AuthHandler     *handlers.AuthHandler
	CategoryHandler *handlers.CategoryHandler
	ProductHandler  *handlers.ProductHandler
	ReviewHandler   *handlers.ReviewHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	authGroup := e.Group("/auth")
	authGroup.POST("", d.AuthHandler.Register)
	authGroup.POST("/token", d.AuthHandler.Login)
	authGroup.DELETE("/delete", d.AuthHandler.DeleteUser, d.Tokens.RequireAdmin)
	authGroup.GET("/read_current_user", d.AuthHandler.ReadCurrentUser, d.Tokens.RequireUser)

	category := e.Group("/category")
	category.GET("/all_categories", d.CategoryHandler.AllCategories)
	category.POST("/create", d.CategoryHandler.CreateCategory)
	category.PUT("/update_category", d.CategoryHandler.UpdateCategory)
	category.DELETE("/delete", d.CategoryHandler.DeleteCategory)

	products := e.Group("/products")
	products.GET("", d.ProductHandler.GetProducts)
	products.POST("/create", d.ProductHandler.CreateProduct)
	products.GET("/detail/:product_slug", d.ProductHandler.ProductDetail)
	products.PUT("/detail/:product_slug", d.ProductHandler.UpdateProduct)
	products.DELETE("/delete", d.ProductHandler.DeleteProduct)
	products.GET("/:category_slug", d.ProductHandler.ProductsByCategory)

	reviews := e.Group("/reviews")
	reviews.GET("/all_reviews", d.ReviewHandler.AllReviews)
	reviews.GET("/products_reviews", d.ReviewHandler.ProductsReviews)
	reviews.POST("/add_review", d.ReviewHandler.AddReview, d.Tokens.RequireUser)
	reviews.DELETE("/delete_reviews", d.ReviewHandler.DeleteReview, d.Tokens.RequireUser)
}
