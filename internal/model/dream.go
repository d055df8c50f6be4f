package model

import (
	"github.com/go-openapi/strfmt"
)

// Dream is a user's tracked goal with its ordered steps. Optional fields are
// pointers because older schema generations may not carry their columns; the
// repository fills documented defaults when a column is absent.
type Dream struct {
	ID         int64        `json:"id"`
	UserID     int64        `json:"user_id"`
	Dream      string       `json:"dream"`
	StatusID   int64        `json:"status_id"`
	Status     string       `json:"status"`
	CategoryID *int64       `json:"category_id"`
	Deadline   *strfmt.Date `json:"deadline"`
	Price      *float64     `json:"price"`
	IsPublic   bool         `json:"is_public"`
	Steps      []*Step      `json:"steps"`

	// Resolved display metadata, nil when the reference is absent.
	StatusMeta   *TaxonomyEntry `json:"status_meta"`
	CategoryMeta *TaxonomyEntry `json:"category_meta"`
}

// DreamPatch carries a partial dream update. Only Set fields are applied;
// a null field clears the column.
type DreamPatch struct {
	Dream      Field[string]      `json:"dream"`
	StatusID   Field[int64]       `json:"status_id"`
	CategoryID Field[int64]       `json:"category_id"`
	Deadline   Field[strfmt.Date] `json:"deadline"`
	Price      Field[float64]     `json:"price"`
	IsPublic   Field[bool]        `json:"is_public"`
}

// Empty reports whether the patch carries no supplied fields at all.
func (p DreamPatch) Empty() bool {
	return !p.Dream.Set && !p.StatusID.Set && !p.CategoryID.Set &&
		!p.Deadline.Set && !p.Price.Set && !p.IsPublic.Set
}
