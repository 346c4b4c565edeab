package ops

import (
	"database/sql"
	"time"

	"dailyforge/internal/db"
	"dailyforge/internal/errors"
)

// PurgeInput contains parameters for the Purge operation.
type PurgeInput struct {
	OlderThanDays *int // only purge failed runs recorded more than N days ago
}

// PurgeOutput contains the result of the Purge operation.
type PurgeOutput struct {
	Purged int `json:"purged"`
}

// Purge permanently deletes failed run records from the ledger.
// Successful runs and their artifacts are never touched; the repository's
// version history owns artifacts once committed.
func Purge(database *sql.DB, input PurgeInput) (*PurgeOutput, error) {
	cutoff := time.Now().Unix()
	if input.OlderThanDays != nil {
		if *input.OlderThanDays < 0 {
			return nil, errors.NewInvalidRequest("older_than_days must be non-negative")
		}
		cutoff = time.Now().AddDate(0, 0, -*input.OlderThanDays).Unix()
	}

	purged, err := db.PurgeFailedRuns(database, cutoff)
	if err != nil {
		return nil, err
	}

	return &PurgeOutput{Purged: purged}, nil
}
