package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/ecommerce_catalog/internal/events"
	"github.com/Skotchmaster/ecommerce_catalog/internal/models"
	"github.com/Skotchmaster/ecommerce_catalog/internal/slugify"
)

type CategoryHandler struct {
	DB       *gorm.DB
	Producer events.Publisher
}

func (h *CategoryHandler) AllCategories(c echo.Context) error {
	var categories []models.Category
	if err := h.DB.Where("status = ?", models.StatusActive).Find(&categories).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, categories)
}

func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	var req struct {
		Name     string `json:"name"`
		ParentID *uint  `json:"parent_id"`
	}

	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	if req.ParentID != nil {
		var parent models.Category
		if err := h.DB.Where("id = ? AND status = ?", *req.ParentID, models.StatusActive).
			First(&parent).Error; err != nil {
			return echo.NewHTTPError(http.StatusNotFound, "Parent category not found")
		}
	}

	category := models.Category{
		Name:     req.Name,
		Slug:     slugify.Make(req.Name),
		ParentID: req.ParentID,
		Status:   models.StatusActive,
	}
	if err := h.DB.Create(&category).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	publish(c, h.Producer, "category_events", category.ID, map[string]interface{}{
		"type":       "category_created",
		"categoryID": category.ID,
		"name":       category.Name,
	})

	return transaction(c, http.StatusCreated, "Successful")
}

func (h *CategoryHandler) UpdateCategory(c echo.Context) error {
	categoryID, err := strconv.Atoi(c.QueryParam("category_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	var req struct {
		Name     string `json:"name"`
		ParentID *uint  `json:"parent_id"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	var category models.Category
	if err := h.DB.Where("id = ? AND status = ?", categoryID, models.StatusActive).
		First(&category).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Category not found")
	}

	category.Name = req.Name
	category.Slug = slugify.Make(req.Name)
	category.ParentID = req.ParentID

	if err := h.DB.Save(&category).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	publish(c, h.Producer, "category_events", category.ID, map[string]interface{}{
		"type":       "category_updated",
		"categoryID": category.ID,
		"name":       category.Name,
	})

	return transaction(c, http.StatusOK, "Category update is successful")
}

func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	categoryID, err := strconv.Atoi(c.QueryParam("category_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	var category models.Category
	if err := h.DB.Where("id = ? AND status = ?", categoryID, models.StatusActive).
		First(&category).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Category not found")
	}

	if err := h.DB.Model(&models.Category{}).
		Where("id = ?", category.ID).
		Update("status", models.StatusDeleted).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	publish(c, h.Producer, "category_events", category.ID, map[string]interface{}{
		"type":       "category_deleted",
		"categoryID": category.ID,
	})

	return transaction(c, http.StatusOK, "Category delete is successful")
}
