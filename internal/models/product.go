// internal/models/product.go
package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Product struct {
	BaseModel
	CreatorID     uuid.UUID         `json:"creator_id" gorm:"type:uuid;not null;index"`
	Name          string            `json:"name" gorm:"size:255;not null"`
	Description   string            `json:"description" gorm:"type:text"`
	Price         decimal.Decimal   `json:"price" gorm:"type:numeric(10,2);not null"`
	Currency      string            `json:"currency" gorm:"size:3;default:'INR'"`
	Categories    pq.StringArray    `json:"categories" gorm:"type:text[]"`
	IsActive      bool              `json:"is_active" gorm:"default:true;index"`
	IsFeatured    bool              `json:"is_featured" gorm:"default:false;index"`
	ThumbnailURL  string            `json:"thumbnail_url,omitempty" gorm:"type:text"`
	PreviewImages pq.StringArray    `json:"preview_images" gorm:"type:text[]"`
	FileKeys      pq.StringArray    `json:"-" gorm:"type:text[]"`
	Metadata      datatypes.JSONMap `json:"metadata,omitempty" gorm:"type:jsonb"`

	Variants []ProductVariant `json:"variants,omitempty" gorm:"foreignKey:ProductID"`
}

func (Product) TableName() string {
	return "products"
}

type ProductVariant struct {
	BaseModel
	ProductID uuid.UUID       `json:"product_id" gorm:"type:uuid;not null;index"`
	Name      string          `json:"name" gorm:"size:255;not null"`
	Price     decimal.Decimal `json:"price" gorm:"type:numeric(10,2);not null"`
}

func (ProductVariant) TableName() string {
	return "product_variants"
}
