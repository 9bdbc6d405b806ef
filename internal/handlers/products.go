package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/samber/lo"
	"gorm.io/gorm"

	"github.com/Skotchmaster/ecommerce_catalog/internal/events"
	"github.com/Skotchmaster/ecommerce_catalog/internal/models"
	"github.com/Skotchmaster/ecommerce_catalog/internal/slugify"
)

type ProductHandler struct {
	DB       *gorm.DB
	Producer events.Publisher
}

// GetProducts lists everything a storefront can sell: active products with
// stock on hand.
func (h *ProductHandler) GetProducts(c echo.Context) error {
	var products []models.Product
	if err := h.DB.Where("status = ? AND stock > 0", models.StatusActive).
		Find(&products).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var req struct {
		Name        string  `json:"name"`
		Description string  `json:"description"`
		Price       float64 `json:"price"`
		ImageURL    string  `json:"image_url"`
		Stock       int     `json:"stock"`
		Category    uint    `json:"category"`
	}

	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	var category models.Category
	if err := h.DB.Where("id = ? AND status = ?", req.Category, models.StatusActive).
		First(&category).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Category not found")
	}

	product := models.Product{
		Name:        req.Name,
		Slug:        slugify.Make(req.Name),
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		Stock:       req.Stock,
		CategoryID:  category.ID,
		Rating:      0.0,
		Status:      models.StatusActive,
	}
	if err := h.DB.Create(&product).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	publish(c, h.Producer, "product_events", product.ID, map[string]interface{}{
		"type":      "product_created",
		"productID": product.ID,
		"name":      product.Name,
	})

	return transaction(c, http.StatusCreated, "Successful")
}

// ProductsByCategory returns sellable products of a category and its direct
// children.
func (h *ProductHandler) ProductsByCategory(c echo.Context) error {
	categorySlug := c.Param("category_slug")

	var category models.Category
	if err := h.DB.Where("slug = ? AND status = ?", categorySlug, models.StatusActive).
		First(&category).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Category not found")
	}

	var subcategories []models.Category
	if err := h.DB.Where("parent_id = ? AND status = ?", category.ID, models.StatusActive).
		Find(&subcategories).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	categoryIDs := lo.Map(subcategories, func(sub models.Category, _ int) uint { return sub.ID })
	categoryIDs = append(categoryIDs, category.ID)

	var products []models.Product
	if err := h.DB.Where("category_id IN ? AND status = ? AND stock > 0", categoryIDs, models.StatusActive).
		Find(&products).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	return c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) ProductDetail(c echo.Context) error {
	productSlug := c.Param("product_slug")

	var product models.Product
	if err := h.DB.Where("slug = ? AND status = ? AND stock > 0", productSlug, models.StatusActive).
		First(&product).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "There is no product")
	}

	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	productSlug := c.Param("product_slug")

	var req struct {
		Name        string  `json:"name"`
		Description string  `json:"description"`
		Price       float64 `json:"price"`
		ImageURL    string  `json:"image_url"`
		Stock       int     `json:"stock"`
		Category    uint    `json:"category"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	var product models.Product
	if err := h.DB.Where("slug = ? AND status = ?", productSlug, models.StatusActive).
		First(&product).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "There is no product found")
	}

	// Rating is left alone: it belongs to the aggregator.
	product.Name = req.Name
	product.Slug = slugify.Make(req.Name)
	product.Description = req.Description
	product.Price = req.Price
	product.ImageURL = req.ImageURL
	product.Stock = req.Stock
	product.CategoryID = req.Category

	if err := h.DB.Save(&product).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	publish(c, h.Producer, "product_events", product.ID, map[string]interface{}{
		"type":      "product_updated",
		"productID": product.ID,
		"name":      product.Name,
	})

	return transaction(c, http.StatusOK, "Product update is successful")
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	productID, err := strconv.Atoi(c.QueryParam("product_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	var product models.Product
	if err := h.DB.First(&product, productID).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "There is no product found")
	}

	if err := h.DB.Model(&models.Product{}).
		Where("id = ?", product.ID).
		Update("status", models.StatusDeleted).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	publish(c, h.Producer, "product_events", product.ID, map[string]interface{}{
		"type":      "product_deleted",
		"productID": product.ID,
	})

	return transaction(c, http.StatusOK, "Product delete is successful")
}
