package models

import (
	"time"

	"github.com/google/uuid"
)

// ProductImage is the metadata row for an image stored in the product
// images bucket. Upload and delivery are handled outside this layer;
// ObjectKey is the S3 object key within the configured bucket.
type ProductImage struct {
	ID        uuid.UUID `json:"id" db:"id"`
	ProductID uuid.UUID `json:"product_id" db:"product_id"`
	ObjectKey string    `json:"object_key" db:"object_key"`
	AltText   *string   `json:"alt_text" db:"alt_text"`
	Position  int       `json:"position" db:"position"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
