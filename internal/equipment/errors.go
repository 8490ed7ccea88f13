package equipment

import "errors"

// Domain errors for the equipment package.
//
// Checked with errors.Is:
//
//	if errors.Is(err, equipment.ErrNotFound) {
//	    // drop the message, see spec §4.3 step 1
//	}
var (
	// ErrNotFound is returned when an (equipment_type, id) pair has no
	// matching Equipment row.
	ErrNotFound = errors.New("equipment: not found")

	// ErrInvalidCanonicalID names a canonical id that DecomposeID rejects,
	// for callers that want an error rather than the ("", 0) sentinel pair.
	// No function in this module returns it.
	ErrInvalidCanonicalID = errors.New("equipment: invalid canonical id")
)
