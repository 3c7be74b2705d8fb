package models

import (
	"time"

	"github.com/google/uuid"
)

// Category is a node in the self-referential catalog hierarchy.
// A nil ParentID marks a root; the parent relation must form a forest.
type Category struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	Name      string     `json:"name" db:"name"`
	ParentID  *uuid.UUID `json:"parent_id" db:"parent_id"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}
