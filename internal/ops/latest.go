package ops

import (
	"database/sql"

	"dailyforge/internal/db"
)

// LatestInput contains parameters for the Latest operation.
type LatestInput struct {
	IncludeFailed bool // consider failed runs too, not just successful ones
}

// LatestOutput contains the result of the Latest operation.
type LatestOutput struct {
	Item *db.Run `json:"item"` // nil if the ledger is empty
}

// Latest retrieves the most recent run.
func Latest(database *sql.DB, input LatestInput) (*LatestOutput, error) {
	run, err := db.GetLatestRun(database, !input.IncludeFailed)
	if err != nil {
		return nil, err
	}
	return &LatestOutput{Item: run}, nil
}
