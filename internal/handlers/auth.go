package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/ecommerce_catalog/internal/auth"
	"github.com/Skotchmaster/ecommerce_catalog/internal/events"
	"github.com/Skotchmaster/ecommerce_catalog/internal/hash"
	"github.com/Skotchmaster/ecommerce_catalog/internal/models"
)

type AuthHandler struct {
	DB       *gorm.DB
	Tokens   *auth.TokenService
	Producer events.Publisher
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Username  string `json:"username"`
		Email     string `json:"email"`
		Password  string `json:"password"`
	}

	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	var existing models.User
	result := h.DB.Where("username = ?", req.Username).First(&existing)
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusBadRequest, "user already exists")
	}

	hashed, err := hash.HashPassword(req.Password)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	user := models.User{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Username:       req.Username,
		Email:          req.Email,
		HashedPassword: hashed,
		IsCustomer:     true,
		Status:         models.StatusActive,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	publish(c, h.Producer, "user_events", user.ID, map[string]interface{}{
		"type":     "user_registered",
		"userID":   user.ID,
		"username": user.Username,
	})

	return transaction(c, http.StatusCreated, "Successful")
}

func (h *AuthHandler) Login(c echo.Context) error {
	username := c.FormValue("username")
	password := c.FormValue("password")

	var user models.User
	if err := h.DB.Where("username = ?", username).First(&user).Error; err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid authentication credentials")
	}

	if !hash.CheckPassword(user.HashedPassword, password) || user.Status != models.StatusActive {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid authentication credentials")
	}

	token, err := h.Tokens.SignAccessToken(&user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not create access token")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"access_token": token,
		"token_type":   "bearer",
	})
}

func (h *AuthHandler) DeleteUser(c echo.Context) error {
	userID, err := strconv.Atoi(c.QueryParam("user_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	var user models.User
	if err := h.DB.First(&user, userID).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	if user.IsAdmin {
		return echo.NewHTTPError(http.StatusUnauthorized, "You can't delete admin user")
	}

	if user.Status == models.StatusDeleted {
		return transaction(c, http.StatusOK, "User has already been deleted")
	}

	if err := h.DB.Model(&models.User{}).
		Where("id = ?", user.ID).
		Update("status", models.StatusDeleted).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	publish(c, h.Producer, "user_events", user.ID, map[string]interface{}{
		"type":     "user_deleted",
		"userID":   user.ID,
		"username": user.Username,
	})

	return transaction(c, http.StatusOK, "User is deleted")
}

func (h *AuthHandler) ReadCurrentUser(c echo.Context) error {
	ident, ok := auth.CurrentIdentity(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Could not validate user")
	}
	return c.JSON(http.StatusOK, echo.Map{"User": ident})
}
