package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []*ContactMessage
	err  error
}

func (f *fakeMailer) Send(msg *ContactMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

const testAdminToken = "test-admin-token"

func newTestApp(t *testing.T) (*app, *fakeMailer) {
	t.Helper()

	store, err := OpenStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	tmpl, err := loadTemplates()
	require.NoError(t, err)

	log := zap.NewNop()
	tracker := NewTracker(store, "salt", log)
	tracker.async = false

	mailer := &fakeMailer{}
	return &app{
		profile:    Profile{Name: "Zach", Email: "zach@example.com", Location: "Minneapolis, MN"},
		newPanel:   NewPanel,
		store:      store,
		mailer:     mailer,
		tracker:    tracker,
		tmpl:       tmpl,
		log:        log,
		adminToken: testAdminToken,
	}, mailer
}

func do(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func postContact(r http.Handler, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return do(r, req)
}

func validForm() url.Values {
	return url.Values{
		"fullName": {"Ada Lovelace"},
		"email":    {"ada@example.com"},
		"message":  {"Interested in an internship?"},
	}
}

func TestContactInfoFragment(t *testing.T) {
	a, _ := newTestApp(t)
	r := newRouter(a)

	w := do(r, httptest.NewRequest(http.MethodGet, "/contact-info", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")

	doc := parseHTML(t, w.Body.String())
	assert.Equal(t, []renderedRow{
		{Label: "Location", Value: "Minneapolis, MN"},
		{Label: "Response", Value: "Within 24 hours"},
	}, contactRows(doc))
	assert.Equal(t, InterestTags, badges(doc))
	assert.NotEmpty(t, findAll(doc, hasAttr("data-motion")))
}

func TestContactInfoFragmentMotionOff(t *testing.T) {
	a, _ := newTestApp(t)
	r := newRouter(a)

	w := do(r, httptest.NewRequest(http.MethodGet, "/contact-info?motion=off", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, findAll(parseHTML(t, w.Body.String()), hasAttr("data-motion")))
}

func TestIndexEmbedsPanel(t *testing.T) {
	a, _ := newTestApp(t)
	r := newRouter(a)

	w := do(r, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)

	doc := parseHTML(t, w.Body.String())
	assert.Len(t, contactRows(doc), 2)
	assert.Len(t, badges(doc), 4)

	titles := findAll(doc, func(n *html.Node) bool { return n.Data == "title" })
	require.Len(t, titles, 1)
	assert.Equal(t, "Zach", textContent(titles[0]))
}

func TestInvalidPanelIsNotServed(t *testing.T) {
	a, _ := newTestApp(t)
	a.newPanel = func(p Profile) Panel {
		panel := NewPanel(p)
		panel.Rows = append(panel.Rows, TextRow{Icon: IconClock, Label: "Location", Value: "again"})
		return panel
	}
	r := newRouter(a)

	for _, path := range []string{"/", "/contact-info"} {
		w := do(r, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusInternalServerError, w.Code, path)
		assert.Empty(t, contactRows(parseHTML(t, w.Body.String())), path)
	}
}

func TestContactFormFragment(t *testing.T) {
	a, _ := newTestApp(t)
	r := newRouter(a)

	w := do(r, httptest.NewRequest(http.MethodGet, "/contact-form", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `hx-post="/contact"`)
}

func TestContactSubmit(t *testing.T) {
	a, mailer := newTestApp(t)
	r := newRouter(a)

	w := postContact(r, validForm())
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `data-result="success"`)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "Ada Lovelace", mailer.sent[0].Name)
	assert.Equal(t, "ada@example.com", mailer.sent[0].Email)

	stats, err := a.store.Stats()
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.TotalMessages)
}

func TestContactSubmitInvalid(t *testing.T) {
	a, mailer := newTestApp(t)
	r := newRouter(a)

	form := validForm()
	form.Set("email", "not-an-email")

	w := postContact(r, form)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), `data-result="error"`)
	assert.Empty(t, mailer.sent)

	stats, err := a.store.Stats()
	require.NoError(t, err)
	assert.Zero(t, stats.TotalMessages)
}

func TestContactSubmitMailNotConfigured(t *testing.T) {
	a, mailer := newTestApp(t)
	mailer.err = ErrMailNotConfigured
	r := newRouter(a)

	w := postContact(r, validForm())
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `data-result="success"`)
}

func TestContactSubmitMailFailure(t *testing.T) {
	a, mailer := newTestApp(t)
	mailer.err = errors.New("connection refused")
	r := newRouter(a)

	w := postContact(r, validForm())
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `data-result="error"`)

	// The message is kept even though mailing failed.
	stats, err := a.store.Stats()
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.TotalMessages)
}

func TestVisitorTracking(t *testing.T) {
	a, _ := newTestApp(t)
	r := newRouter(a)

	do(r, httptest.NewRequest(http.MethodGet, "/contact-info", nil))
	do(r, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	dnt := httptest.NewRequest(http.MethodGet, "/contact-info", nil)
	dnt.Header.Set("DNT", "1")
	do(r, dnt)

	stats, err := a.store.Stats()
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.TotalVisitors)
	require.Len(t, stats.RecentVisitors, 1)
	assert.Equal(t, "/contact-info", stats.RecentVisitors[0].Path)
	assert.Len(t, stats.RecentVisitors[0].HashedIP, 16)
}

func TestAdminStatsAuth(t *testing.T) {
	a, _ := newTestApp(t)
	r := newRouter(a)

	w := do(r, httptest.NewRequest(http.MethodGet, "/admin/api/stats", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/admin/api/stats", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	assert.Equal(t, http.StatusUnauthorized, do(r, req).Code)

	// The token alone, without the Bearer scheme, is not accepted.
	req = httptest.NewRequest(http.MethodGet, "/admin/api/stats", nil)
	req.Header.Set("Authorization", testAdminToken)
	assert.Equal(t, http.StatusUnauthorized, do(r, req).Code)

	do(r, httptest.NewRequest(http.MethodGet, "/contact-info", nil))

	req = httptest.NewRequest(http.MethodGet, "/admin/api/stats", nil)
	req.Header.Set("Authorization", "Bearer "+testAdminToken)
	w = do(r, req)
	require.Equal(t, http.StatusOK, w.Code)

	var stats Stats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.EqualValues(t, 1, stats.TotalVisitors)
	assert.Equal(t, []PathCount{{Path: "/contact-info", Views: 1}}, stats.TopPaths)
}

func TestAdminExportStats(t *testing.T) {
	a, _ := newTestApp(t)
	r := newRouter(a)

	req := httptest.NewRequest(http.MethodGet, "/admin/export/stats", nil)
	req.Header.Set("Authorization", "Bearer "+testAdminToken)
	w := do(r, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "attachment; filename=admin-stats.json", w.Header().Get("Content-Disposition"))
}

func TestHealthz(t *testing.T) {
	a, _ := newTestApp(t)
	w := do(newRouter(a), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
