package models

import (
	"time"
)

// Status marks a row as live or soft-deleted. Rows are never hard-deleted,
// so foreign keys stay resolvable after a "delete".
type Status string

const (
	StatusActive  Status = "active"
	StatusDeleted Status = "deleted"
)

type User struct {
	ID             uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Username       string `gorm:"unique;not null"          json:"username"`
	Email          string `json:"email"`
	HashedPassword string `gorm:"not null"                 json:"-"`
	IsAdmin        bool   `gorm:"default:false"            json:"is_admin"`
	IsSupplier     bool   `gorm:"default:false"            json:"is_supplier"`
	IsCustomer     bool   `gorm:"default:true"             json:"is_customer"`
	Status         Status `gorm:"not null;default:active"  json:"status"`
}

type Category struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string `gorm:"not null"                 json:"name"`
	Slug     string `gorm:"unique;not null;index"    json:"slug"`
	ParentID *uint  `gorm:"index"                    json:"parent_id"`
	Status   Status `gorm:"not null;default:active"  json:"status"`
}

type Product struct {
	ID          uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string  `gorm:"not null"                 json:"name"`
	Slug        string  `gorm:"unique;not null;index"    json:"slug"`
	Description string  `json:"description"`
	Price       float64 `gorm:"not null"                 json:"price"`
	ImageURL    string  `json:"image_url"`
	Stock       int     `gorm:"not null"                 json:"stock"`
	CategoryID  uint    `gorm:"index;not null"           json:"category_id"`
	// Rating is derived: the one-decimal mean of this product's active
	// ratings, written only by the rating aggregator.
	Rating float64 `gorm:"default:0"                json:"rating"`
	Status Status  `gorm:"not null;default:active"  json:"status"`
}

type Rating struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Grade     int    `gorm:"not null"                 json:"grade"`
	UserID    uint   `gorm:"index;not null"           json:"user_id"`
	ProductID uint   `gorm:"index;not null"           json:"product_id"`
	Status    Status `gorm:"not null;default:active"  json:"status"`
}

type Review struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      uint      `gorm:"index;not null"           json:"user_id"`
	ProductID   uint      `gorm:"index;not null"           json:"product_id"`
	RatingID    uint      `gorm:"index;not null"           json:"rating_id"`
	Comment     string    `json:"comment"`
	CommentDate time.Time `gorm:"not null"                 json:"comment_date"`
	Status      Status    `gorm:"not null;default:active"  json:"status"`
}
