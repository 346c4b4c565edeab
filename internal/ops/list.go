package ops

import (
	"database/sql"

	"dailyforge/internal/db"
	"dailyforge/internal/errors"
)

// ListInput contains parameters for the List operation.
type ListInput struct {
	Status string // "", "ok" or "failed"
	Limit  int    // default: 20, max: 100
	Offset int    // default: 0
}

// ListOutput contains the result of the List operation.
type ListOutput struct {
	Items      []db.Run   `json:"items"`
	Pagination Pagination `json:"pagination"`
	Sort       string     `json:"sort"`
}

// List retrieves run records newest first with pagination.
func List(database *sql.DB, input ListInput) (*ListOutput, error) {
	if input.Status != "" && input.Status != db.StatusOK && input.Status != db.StatusFailed {
		return nil, errors.NewInvalidRequest("status must be one of: ok, failed")
	}

	limit := input.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	offset := max(input.Offset, 0)

	runs, total, err := db.ListRuns(database, input.Status, limit, offset)
	if err != nil {
		return nil, err
	}
	if runs == nil {
		runs = []db.Run{}
	}

	hasMore := offset+len(runs) < total

	return &ListOutput{
		Items: runs,
		Pagination: Pagination{
			Limit:   limit,
			Offset:  offset,
			HasMore: hasMore,
			Total:   total,
		},
		Sort: "created_at_desc",
	}, nil
}
