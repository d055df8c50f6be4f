package model

import (
	"github.com/go-openapi/strfmt"
)

// Step is an ordered sub-task of a dream. Soft-deleted steps are retained
// for history but excluded from active display.
type Step struct {
	ID        int64        `json:"id"`
	DreamID   int64        `json:"dream_id"`
	Title     string       `json:"title"`
	Completed bool         `json:"completed"`
	SortOrder int64        `json:"sort_order"`
	Deadline  *strfmt.Date `json:"deadline"`
	Deleted   bool         `json:"-"`
}

// StepPatch carries a partial step update.
type StepPatch struct {
	Title     Field[string]      `json:"title"`
	Completed Field[bool]        `json:"completed"`
	SortOrder Field[int64]       `json:"sort_order"`
	Deadline  Field[strfmt.Date] `json:"deadline"`
	Deleted   Field[bool]        `json:"deleted"`
}

// Empty reports whether the patch carries no supplied fields at all.
func (p StepPatch) Empty() bool {
	return !p.Title.Set && !p.Completed.Set && !p.SortOrder.Set &&
		!p.Deadline.Set && !p.Deleted.Set
}
