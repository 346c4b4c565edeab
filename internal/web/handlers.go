package web

import (
	"database/sql"
	"net/http"
	"strconv"

	"dailyforge/internal/blueprint"
	"dailyforge/internal/config"
	"dailyforge/internal/errors"
	"dailyforge/internal/ops"
	"dailyforge/internal/store"
)

// Handlers contains HTTP route handlers for the web UI.
type Handlers struct {
	db       *sql.DB
	cfg      *config.Config
	renderer *Renderer
}

// HandleList handles GET /runs — list generation runs, newest first.
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")

	input := ops.ListInput{
		Status: status,
		Limit:  parseIntParam(r, "limit", ops.DefaultListLimit),
		Offset: parseIntParam(r, "offset", 0),
	}

	result, err := ops.List(h.db, input)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, r, "list", ListPageData{
		PageData: PageData{
			Title:   "Runs",
			Version: h.renderer.version,
			Nav:     "runs",
		},
		Items:      result.Items,
		Pagination: result.Pagination,
		Status:     status,
	})
}

// HandleDetail handles GET /runs/{id} — view a single run with its artifacts.
func (h *Handlers) HandleDetail(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("run ID is required"))
		return
	}

	result, err := ops.Show(h.db, ops.ShowInput{ID: id})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	// A run whose directory was removed outside of dailyforge still shows its
	// ledger record, so file read errors are tolerated here.
	if result.Run.DirPath != nil {
		if files, err := store.ReadFiles(*result.Run.DirPath); err == nil {
			result.Files = files
		}
	}

	data := DetailPageData{
		PageData: PageData{
			Title:   displayTitle(result.Run.Topic, result.Run.ID),
			Version: h.renderer.version,
			Nav:     "runs",
		},
		Run: result.Run,
	}

	if len(result.Files) > 0 {
		data.HasFiles = true
		data.Script = result.Files[blueprint.FileScript]
		data.Requirements = result.Files[blueprint.FileRequirements]
		data.ReadmeHTML = renderMarkdown(result.Files[blueprint.FileReadme])
	}

	h.renderer.renderPage(w, r, "detail", data)
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}

// displayTitle returns the run topic if present, or a truncated ID.
func displayTitle(topic *string, id string) string {
	if topic != nil && *topic != "" {
		return *topic
	}
	if len(id) > 10 {
		return id[:10] + "..."
	}
	return id
}
