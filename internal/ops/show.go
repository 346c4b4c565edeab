package ops

import (
	"database/sql"
	"regexp"
	"strings"

	"dailyforge/internal/db"
	"dailyforge/internal/errors"
	"dailyforge/internal/store"
)

// datePattern matches ISO dates used for by-date addressing.
var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ShowInput contains parameters for the Show operation.
// Exactly one of ID or Date addresses the run.
type ShowInput struct {
	ID           string
	Date         string // ISO date; resolves to that day's run, successful preferred
	IncludeFiles bool   // read artifact files back from disk
}

// ShowOutput contains the result of the Show operation.
type ShowOutput struct {
	Run   *db.Run           `json:"run"`
	Files map[string]string `json:"files,omitempty"`
}

// Show retrieves one run record, optionally with its artifact contents.
func Show(database *sql.DB, input ShowInput) (*ShowOutput, error) {
	id := strings.TrimSpace(input.ID)
	date := strings.TrimSpace(input.Date)

	if id != "" && date != "" {
		return nil, errors.NewInvalidRequest("cannot specify both id and date; use one addressing mode")
	}
	if id == "" && date == "" {
		return nil, errors.NewInvalidRequest("must specify either id or date")
	}
	if date != "" && !datePattern.MatchString(date) {
		return nil, errors.NewInvalidRequest("date must be formatted YYYY-MM-DD")
	}

	var run *db.Run
	var err error
	if id != "" {
		run, err = db.GetRunByID(database, id)
	} else {
		run, err = db.GetLatestRunForDate(database, date)
	}
	if err != nil {
		return nil, err
	}

	output := &ShowOutput{Run: run}

	if input.IncludeFiles && run.DirPath != nil {
		files, err := store.ReadFiles(*run.DirPath)
		if err != nil {
			return nil, err
		}
		output.Files = files
	}

	return output, nil
}
