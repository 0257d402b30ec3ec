package web

import (
	"database/sql"
	"html/template"
	"net/http"
	"strconv"

	"github.com/hpungsan/combo/internal/errors"
	"github.com/hpungsan/combo/internal/ops"
	"github.com/hpungsan/combo/internal/session"
)

// Handlers contains HTTP route handlers for the web UI.
type Handlers struct {
	trainer  *ops.Trainer
	db       *sql.DB
	renderer *Renderer
	help     template.HTML
}

// HandleTrainer handles GET /: the trainer page.
func (h *Handlers) HandleTrainer(w http.ResponseWriter, r *http.Request) {
	h.renderTrainer(w, http.StatusOK, h.trainer.View(), "")
}

// HandleAction handles POST /actions/{action}: run a named action.
func (h *Handlers) HandleAction(w http.ResponseWriter, r *http.Request) {
	view, err := h.trainer.Do(r.Context(), r.PathValue("action"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, view)
}

// HandleSelect handles POST /select/{index} to jump to a row of the working set.
func (h *Handlers) HandleSelect(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		h.fail(w, r, errors.NewInvalidRequest("index must be an integer"))
		return
	}

	view, err := h.trainer.Select(r.Context(), ops.SelectInput{Index: index})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, view)
}

// HandleFilter handles POST /filter to update facet selections from form values.
// Absent fields keep their current selection.
func (h *Handlers) HandleFilter(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.fail(w, r, errors.NewInvalidRequest("invalid form data"))
		return
	}

	view, err := h.trainer.Filter(r.Context(), ops.FilterInput{
		Distance: formValue(r, "distance"),
		Defence:  formValue(r, "defence"),
		Faint:    formValue(r, "faint"),
		Body:     formValue(r, "body"),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, view)
}

// HandleState handles GET /api/state: the trainer state as JSON.
func (h *Handlers) HandleState(w http.ResponseWriter, r *http.Request) {
	view := h.trainer.View()
	if r.URL.Query().Get("items") == "false" {
		view = view.WithoutItems()
	}
	renderJSON(w, http.StatusOK, view)
}

// HandleHelp handles GET /help: the data file format reference.
func (h *Handlers) HandleHelp(w http.ResponseWriter, r *http.Request) {
	h.renderer.renderPage(w, "help", HelpPageData{
		PageData: h.page("Help", "help"),
		Content:  h.help,
	})
}

// HandleHistory handles GET /history: recent and most drilled combinations.
func (h *Handlers) HandleHistory(w http.ResponseWriter, r *http.Request) {
	data := HistoryPageData{PageData: h.page("History", "history")}
	if h.db == nil {
		h.renderer.renderPage(w, "history", data)
		return
	}
	data.Enabled = true

	recent, err := ops.History(r.Context(), h.db, ops.HistoryInput{
		Limit:  parseIntParam(r, "limit", ops.DefaultHistoryLimit),
		Offset: parseIntParam(r, "offset", 0),
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	top, err := ops.History(r.Context(), h.db, ops.HistoryInput{Top: true, Limit: 10})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	data.Items = recent.Items
	data.Pagination = recent.Pagination
	data.Top = top.Top

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, map[string]any{
			"items":      data.Items,
			"top":        data.Top,
			"pagination": data.Pagination,
		})
		return
	}
	h.renderer.renderPage(w, "history", data)
}

// respond answers a state-changing request: JSON clients get the view,
// browsers are redirected back to the trainer page.
func (h *Handlers) respond(w http.ResponseWriter, r *http.Request, view *ops.View) {
	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, view)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// fail reports err. Browsers see the trainer page with the message inline,
// since navigation state is unaffected by a failed action.
func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	if wantsJSON(r) {
		h.renderer.renderError(w, r, err)
		return
	}
	cErr := errors.As(err)
	if cErr == nil {
		cErr = errors.NewInternal(err)
	}
	h.renderTrainer(w, cErr.Status, h.trainer.View(), cErr.Message)
}

func (h *Handlers) renderTrainer(w http.ResponseWriter, status int, view *ops.View, message string) {
	sel := view.Selections
	yesNo := []string{string(session.All), string(session.Yes), string(session.No)}

	h.renderer.renderPageStatus(w, status, "trainer", TrainerPageData{
		PageData: h.page("Trainer", "trainer"),
		View:     view,
		Actions:  ops.Actions,
		Error:    message,
		Facets: []Facet{
			{
				Name:     "distance",
				Label:    "Distance",
				Options:  []string{string(session.DistanceAll), string(session.DistanceLong), string(session.DistanceShort)},
				Selected: string(sel.Distance),
			},
			{Name: "defence", Label: "Defence", Options: yesNo, Selected: string(sel.Defence)},
			{Name: "faint", Label: "Faint", Options: yesNo, Selected: string(sel.Faint)},
			{Name: "body", Label: "Body", Options: yesNo, Selected: string(sel.Body)},
		},
	})
}

func (h *Handlers) page(title, nav string) PageData {
	return PageData{Title: title, Version: h.renderer.version, Nav: nav}
}

// formValue returns a pointer to the form value, or nil when the field is absent.
func formValue(r *http.Request, key string) *string {
	if _, ok := r.Form[key]; !ok {
		return nil
	}
	v := r.Form.Get(key)
	return &v
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, key string, defaultVal int) int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}
