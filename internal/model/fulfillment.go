package model

import (
	"github.com/go-openapi/strfmt"
)

// FulfillmentEntry is one immutable ledger record, appended exactly once per
// transition of a dream into the done status.
type FulfillmentEntry struct {
	ID          int64       `db:"id" json:"id"`
	DreamID     int64       `db:"dream_id" json:"dream_id"`
	FulfilledOn strfmt.Date `db:"fulfilled_on" json:"fulfilled_on"`
	FulfilledBy int64       `db:"fulfilled_by" json:"fulfilled_by"`
}

// FulfillmentCounts are the per-user counters derived from the ledger.
// Distinct and Times cover dreams owned by the listed user; ByViewer counts
// entries the acting user recorded on dreams belonging to someone else.
type FulfillmentCounts struct {
	Distinct int64 `json:"fulfilled_count"`
	Times    int64 `json:"fulfilled_times"`
	ByViewer int64 `json:"fulfilled_by_me"`
}

// GlobalStats are the ledger-wide aggregates.
type GlobalStats struct {
	Fulfillments   int64 `json:"fulfillments"`
	DistinctDreams int64 `json:"distinct_dreams"`
	Fulfillers     int64 `json:"fulfillers"`
}
