package web

import (
	"context"
	"encoding/json"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hpungsan/combo/internal/combination"
	"github.com/hpungsan/combo/internal/db"
	"github.com/hpungsan/combo/internal/ops"
	"github.com/hpungsan/combo/internal/session"
)

const testData = `1-2; short; no; no; no;
1-1-2; long; yes; no; no; https://example.com/112
jab-body; short; no; yes; yes;
`

type testEnv struct {
	handler http.Handler
	trainer *ops.Trainer
	path    string
}

func setupTest(t *testing.T, withHistory bool) *testEnv {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "combinations.txt")
	require.NoError(t, os.WriteFile(path, []byte(testData), 0600))

	sess, err := session.New(combination.DefaultFormat, path)
	require.NoError(t, err)
	sess.ResetSequential()

	h := &Handlers{help: renderMarkdown("# Format\n\nUse `;` between fields.")}
	var recorder ops.Recorder
	if withHistory {
		database, err := db.Init(dir)
		require.NoError(t, err)
		t.Cleanup(func() { database.Close() })
		h.db = database
		recorder = ops.NewHistoryRecorder(database)
	}
	h.trainer = ops.NewTrainer(sess, recorder)

	templateSub, err := fs.Sub(templateFS, "templates")
	require.NoError(t, err)
	h.renderer = NewRenderer(templateSub, "test")

	staticSub, err := fs.Sub(staticFS, "static")
	require.NoError(t, err)

	return &testEnv{handler: h.Routes(staticSub), trainer: h.trainer, path: path}
}

func (e *testEnv) do(t *testing.T, method, target string, body url.Values, accept string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(body.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decodeView(t *testing.T, rec *httptest.ResponseRecorder) ops.View {
	t.Helper()
	var v ops.View
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

// --- HandleTrainer ---

func TestHandleTrainer(t *testing.T) {
	env := setupTest(t, false)

	rec := env.do(t, http.MethodGet, "/", nil, "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "1-2")
	assert.Contains(t, body, "1.")
	assert.Contains(t, body, `action="/actions/next"`)
	assert.Contains(t, body, `action="/select/2"`)
	assert.Contains(t, body, `value="all" checked`)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestHandleTrainer_UnknownPath(t *testing.T) {
	env := setupTest(t, false)

	rec := env.do(t, http.MethodGet, "/nope", nil, "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// --- HandleAction ---

func TestHandleAction_RedirectsBrowser(t *testing.T) {
	env := setupTest(t, false)

	rec := env.do(t, http.MethodPost, "/actions/next", nil, "")

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.Equal(t, "1-1-2", env.trainer.View().Description)
}

func TestHandleAction_JSON(t *testing.T) {
	env := setupTest(t, false)

	rec := env.do(t, http.MethodPost, "/actions/previous", nil, "application/json")

	require.Equal(t, http.StatusOK, rec.Code)
	v := decodeView(t, rec)
	assert.Equal(t, "jab-body", v.Description)
	assert.Equal(t, 2, v.Cursor)
	assert.Equal(t, 2, v.Step)
}

func TestHandleAction_Unknown(t *testing.T) {
	env := setupTest(t, false)

	rec := env.do(t, http.MethodPost, "/actions/uppercut", nil, "application/json")

	require.Equal(t, http.StatusNotFound, rec.Code)
	var body map[string]map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "NOT_FOUND", body["error"]["code"])
}

func TestHandleAction_ReloadFailureKeepsState(t *testing.T) {
	env := setupTest(t, false)
	require.NoError(t, os.WriteFile(env.path, []byte("broken; line\n"), 0600))

	rec := env.do(t, http.MethodPost, "/actions/reload", nil, "")

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Expect 6 elements delimited by ;")
	assert.Equal(t, 3, env.trainer.View().Total)
}

// --- HandleSelect ---

func TestHandleSelect(t *testing.T) {
	env := setupTest(t, false)

	rec := env.do(t, http.MethodPost, "/select/2", nil, "application/json")

	require.Equal(t, http.StatusOK, rec.Code)
	v := decodeView(t, rec)
	assert.Equal(t, "jab-body", v.Description)
	assert.Equal(t, 2, v.Cursor)
	assert.Equal(t, "2.", v.Number, "number is the step count, not the row")
}

func TestHandleSelect_CountsOneStep(t *testing.T) {
	env := setupTest(t, false)
	env.do(t, http.MethodPost, "/actions/next", nil, "")
	env.do(t, http.MethodPost, "/actions/next", nil, "")
	before := env.trainer.View().Step

	rec := env.do(t, http.MethodPost, "/select/0", nil, "application/json")

	require.Equal(t, http.StatusOK, rec.Code)
	v := decodeView(t, rec)
	assert.Equal(t, "1-2", v.Description)
	assert.Equal(t, before+1, v.Step)
	assert.Equal(t, "4.", v.Number)
}

func TestHandleSelect_OutOfRange(t *testing.T) {
	env := setupTest(t, false)

	rec := env.do(t, http.MethodPost, "/select/9", nil, "application/json")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, env.trainer.View().Cursor)
}

func TestHandleSelect_NotANumber(t *testing.T) {
	env := setupTest(t, false)

	rec := env.do(t, http.MethodPost, "/select/abc", nil, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "index must be an integer")
}

// --- HandleFilter ---

func TestHandleFilter(t *testing.T) {
	env := setupTest(t, false)

	rec := env.do(t, http.MethodPost, "/filter", url.Values{"distance": {"short"}}, "application/json")

	require.Equal(t, http.StatusOK, rec.Code)
	v := decodeView(t, rec)
	assert.Equal(t, 2, v.Size)
	assert.Equal(t, session.DistanceShort, v.Selections.Distance)
	assert.Equal(t, session.All, v.Selections.Body)
}

func TestHandleFilter_KeepsAbsentFacets(t *testing.T) {
	env := setupTest(t, false)
	env.do(t, http.MethodPost, "/filter", url.Values{"body": {"yes"}}, "")

	rec := env.do(t, http.MethodPost, "/filter", url.Values{"distance": {"short"}}, "application/json")

	v := decodeView(t, rec)
	assert.Equal(t, session.Yes, v.Selections.Body)
	assert.Equal(t, 1, v.Size)
	assert.Equal(t, "jab-body", v.Description)
}

func TestHandleFilter_Invalid(t *testing.T) {
	env := setupTest(t, false)

	rec := env.do(t, http.MethodPost, "/filter", url.Values{"faint": {"maybe"}}, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "faint")
}

// --- HandleState ---

func TestHandleState(t *testing.T) {
	env := setupTest(t, false)

	rec := env.do(t, http.MethodGet, "/api/state", nil, "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	v := decodeView(t, rec)
	assert.Equal(t, 3, v.Total)
	assert.Len(t, v.Items, 3)
}

func TestHandleState_WithoutItems(t *testing.T) {
	env := setupTest(t, false)

	rec := env.do(t, http.MethodGet, "/api/state?items=false", nil, "")

	v := decodeView(t, rec)
	assert.Empty(t, v.Items)
	assert.Equal(t, "1-2", v.Description)
}

// --- HandleHelp ---

func TestHandleHelp(t *testing.T) {
	env := setupTest(t, false)

	rec := env.do(t, http.MethodGet, "/help", nil, "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<h1>Format</h1>")
	assert.Contains(t, rec.Body.String(), "<code>;</code>")
}

func TestRenderMarkdown_EmbeddedHelp(t *testing.T) {
	html := string(renderMarkdown(string(helpMarkdown)))
	assert.Contains(t, html, "<h1>Combination file format</h1>")
}

// --- HandleHistory ---

func TestHandleHistory_Disabled(t *testing.T) {
	env := setupTest(t, false)

	rec := env.do(t, http.MethodGet, "/history", nil, "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "practice log is disabled")
}

func TestHandleHistory_ListsDrills(t *testing.T) {
	env := setupTest(t, true)
	ctx := context.Background()
	env.trainer.Next(ctx)
	env.trainer.Next(ctx)

	rec := env.do(t, http.MethodGet, "/history", nil, "application/json")

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Items      []db.Drill            `json:"items"`
		Top        []db.DescriptionCount `json:"top"`
		Pagination ops.Pagination        `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Items, 2)
	assert.ElementsMatch(t, []string{"1-1-2", "jab-body"},
		[]string{body.Items[0].Description, body.Items[1].Description})
	assert.Equal(t, 2, body.Pagination.Total)
	assert.Len(t, body.Top, 2)

	page := env.do(t, http.MethodGet, "/history", nil, "")
	assert.Contains(t, page.Body.String(), "Most drilled")
	assert.Contains(t, page.Body.String(), "1-1-2")
}

// --- static ---

func TestStaticStylesheet(t *testing.T) {
	env := setupTest(t, false)

	rec := env.do(t, http.MethodGet, "/static/style.css", nil, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), ".card")
}
