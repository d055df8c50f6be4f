package model

// TaxonomyEntry is one row of the status or category reference tables.
type TaxonomyEntry struct {
	ID    int64  `db:"id" json:"id"`
	Code  string `db:"code" json:"code"`
	Label string `db:"label" json:"label"`
	Icon  string `db:"icon" json:"icon"`
}

// Status lifecycle codes. The seeded status ids are stable so legacy
// databases that store the literal code map onto the same taxonomy.
const (
	StatusPlanned    = "planned"
	StatusInProgress = "in_progress"
	StatusDone       = "done"
)

const (
	StatusIDPlanned    int64 = 1
	StatusIDInProgress int64 = 2
	StatusIDDone       int64 = 3
)

var statusCodeByID = map[int64]string{
	StatusIDPlanned:    StatusPlanned,
	StatusIDInProgress: StatusInProgress,
	StatusIDDone:       StatusDone,
}

var statusIDByCode = map[string]int64{
	StatusPlanned:    StatusIDPlanned,
	StatusInProgress: StatusIDInProgress,
	StatusDone:       StatusIDDone,
}

// StatusCodeByID maps a status id to its code, defaulting to planned for
// ids outside the closed taxonomy.
func StatusCodeByID(id int64) string {
	if code, ok := statusCodeByID[id]; ok {
		return code
	}
	return StatusPlanned
}

// ValidStatusID reports whether id belongs to the closed status taxonomy.
func ValidStatusID(id int64) bool {
	_, ok := statusCodeByID[id]
	return ok
}

// StatusIDByCode maps a literal status code from a legacy schema generation
// to its taxonomy id. Unknown codes report false.
func StatusIDByCode(code string) (int64, bool) {
	id, ok := statusIDByCode[code]
	return id, ok
}
