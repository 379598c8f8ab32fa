// models/product.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is a catalog item owned by one seller. Slug is unique per seller
// so repeated create requests for the same product are idempotent.
type Product struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	SellerID    primitive.ObjectID `json:"sellerId" bson:"sellerId"`
	CategoryID  primitive.ObjectID `json:"categoryId" bson:"categoryId"`
	Name        string             `json:"name" bson:"name"`
	Slug        string             `json:"slug" bson:"slug"`
	Description string             `json:"description" bson:"description"`
	Price       float64            `json:"price" bson:"price"`
	MRP         float64            `json:"mrp,omitempty" bson:"mrp,omitempty"`
	Images      []string           `json:"images" bson:"images"`
	Thumbnail   string             `json:"thumbnail,omitempty" bson:"thumbnail,omitempty"`
	Stock       int                `json:"stock" bson:"stock"`
	IsActive    bool               `json:"isActive" bson:"isActive"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// ProductRequest is the seller create/update payload
type ProductRequest struct {
	Name        string  `json:"name" validate:"required"`
	CategoryID  string  `json:"categoryId" validate:"required"`
	Description string  `json:"description" validate:"required"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	MRP         float64 `json:"mrp,omitempty" validate:"omitempty,gt=0"`
	Stock       int     `json:"stock" validate:"gte=0"`
	IsActive    *bool   `json:"isActive,omitempty"`
}

// ProductList is a paginated product listing
type ProductList struct {
	Products []Product `json:"products"`
	Total    int64     `json:"total"`
	Page     int64     `json:"page"`
	Limit    int64     `json:"limit"`
}
