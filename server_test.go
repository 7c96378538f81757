package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Zachkp/folio/internal/contact"
	"github.com/Zachkp/folio/internal/content"
	"github.com/Zachkp/folio/internal/motion"
	"github.com/Zachkp/folio/internal/page"
	"github.com/Zachkp/folio/internal/store"
)

type testServer struct {
	app    *app
	router *gin.Engine
	sched  *motion.ManualScheduler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "folio.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	auth, err := newAdminAuth("admin", "pw")
	require.NoError(t, err)

	sched := motion.NewManualScheduler(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	a := &app{
		log:       zap.NewNop(),
		site:      content.Default(),
		views:     page.NewRegistry(content.Default(), sched, page.RegistryConfig{}, nil),
		store:     db,
		contact:   contact.Multi{Required: []contact.Handler{contact.Inbox{Store: db}}},
		admin:     auth,
		now:       sched.Now,
		retention: 24 * time.Hour,
	}
	return &testServer{app: a, router: newRouter(a, ""), sched: sched}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decodeSnapshot(t *testing.T, w *httptest.ResponseRecorder) page.Snapshot {
	t.Helper()
	var snap page.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap), w.Body.String())
	return snap
}

func sectionState(snap page.Snapshot, id string) string {
	for _, s := range snap.Sections {
		if s.ID == id {
			return s.State.String()
		}
	}
	return ""
}

func TestViewLifecycle(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/views", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	snap := decodeSnapshot(t, w)
	require.NotEmpty(t, snap.ID)
	assert.Equal(t, "hidden", sectionState(snap, content.SectionProjects))
	assert.Len(t, snap.Projects, 8)

	ratio := 0.5
	w = s.do(t, http.MethodPost, "/api/views/"+snap.ID+"/visibility", map[string]any{
		"section": content.SectionProjects, "ratio": ratio,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "visible", sectionState(decodeSnapshot(t, w), content.SectionProjects))

	w = s.do(t, http.MethodPost, "/api/views/"+snap.ID+"/tab", map[string]string{"key": "ui-ux"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	snap2 := decodeSnapshot(t, w)
	assert.Equal(t, "ui-ux", snap2.ActiveTab)
	require.Len(t, snap2.Projects, 2)
	assert.Equal(t, "3", snap2.Projects[0].ID)
	assert.Equal(t, "4", snap2.Projects[1].ID)

	w = s.do(t, http.MethodPost, "/api/views/"+snap.ID+"/tab", map[string]string{"key": "Blockchain"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	s.sched.Advance(time.Second)
	w = s.do(t, http.MethodGet, "/api/views/"+snap.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	for _, it := range decodeSnapshot(t, w).Gallery.Items {
		assert.True(t, it.Entered)
	}

	w = s.do(t, http.MethodDelete, "/api/views/"+snap.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = s.do(t, http.MethodGet, "/api/views/"+snap.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMeasuredVisibilityAndCounters(t *testing.T) {
	s := newTestServer(t)
	snap := decodeSnapshot(t, s.do(t, http.MethodPost, "/api/views", nil))

	w := s.do(t, http.MethodPost, "/api/views/"+snap.ID+"/visibility", map[string]any{
		"section": content.SectionContact, "top": 100, "bottom": 700, "viewport": 800,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	s.sched.Advance(3 * time.Second)
	snap = decodeSnapshot(t, s.do(t, http.MethodGet, "/api/views/"+snap.ID, nil))
	require.Len(t, snap.Counters, 4)
	assert.Equal(t, "2000+", snap.Counters[0].Display)
	assert.Equal(t, 53, snap.Counters[1].Value)
}

func TestMountWithoutObservation(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodPost, "/api/views", map[string]bool{"observe": false})
	require.Equal(t, http.StatusCreated, w.Code)
	snap := decodeSnapshot(t, w)
	for _, sec := range snap.Sections {
		assert.Equal(t, motion.Visible, sec.State)
	}
}

func TestVisibilityValidation(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodPost, "/api/views/nope/visibility", map[string]any{"ratio": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/views/nope/visibility", map[string]any{"section": "hero", "ratio": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestContent(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/api/content", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Tabs []motion.Tab `json:"tabs"`
		Hero content.Hero `json:"hero"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, content.Default().Tabs, body.Tabs)
	assert.Equal(t, content.Default().Hero, body.Hero)
}

func postForm(s *testServer, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func TestContactForm(t *testing.T) {
	s := newTestServer(t)

	w := postForm(s, "/contact", url.Values{"name": {"Ann"}, "email": {" "}, "message": {"hi"}})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), `"email":"required"`)

	msgs, err := s.app.store.Messages(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, msgs, "invalid form never reaches the inbox")

	w = postForm(s, "/contact", url.Values{"name": {"Ann"}, "email": {"ann@example.com"}, "message": {"hi"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	msgs, err = s.app.store.Messages(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "ann@example.com", msgs[0].Email)
}

func loginCookie(t *testing.T, s *testServer) *http.Cookie {
	t.Helper()
	w := postForm(s, "/admin/login", url.Values{"username": {"admin"}, "password": {"pw"}})
	require.Equal(t, http.StatusFound, w.Code)
	for _, c := range w.Result().Cookies() {
		if c.Name == "admin_token" {
			return c
		}
	}
	t.Fatal("no admin cookie")
	return nil
}

func TestAdmin(t *testing.T) {
	s := newTestServer(t)

	w := postForm(s, "/admin/login", url.Values{"username": {"admin"}, "password": {"wrong"}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusFound, w.Code, "unauthenticated requests are redirected")

	s.do(t, http.MethodPost, "/api/views", nil)
	postForm(s, "/contact", url.Values{"name": {"Bo"}, "email": {"bo@example.com"}, "message": {"yo"}})

	cookie := loginCookie(t, s)
	get := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.AddCookie(cookie)
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, req)
		return w
	}

	w = get("/admin/dashboard")
	require.Equal(t, http.StatusOK, w.Code)
	var dash struct {
		Stats     store.Stats `json:"stats"`
		LiveViews int         `json:"live_views"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dash))
	assert.EqualValues(t, 1, dash.Stats.TotalViews)
	assert.EqualValues(t, 1, dash.Stats.TotalMessages)
	assert.Equal(t, 1, dash.LiveViews)

	w = get("/admin/messages")
	require.Equal(t, http.StatusOK, w.Code)
	var inbox struct {
		Messages []store.Message `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &inbox))
	require.Len(t, inbox.Messages, 1)

	req = httptest.NewRequest(http.MethodDelete, "/admin/messages/"+inbox.Messages[0].ID, nil)
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodDelete, "/admin/messages/"+inbox.Messages[0].ID, nil)
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = get("/admin/export/stats")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "attachment; filename=admin-stats.json", w.Header().Get("Content-Disposition"))

	w = postForm(s, "/admin/privacy/cleanup", url.Values{}, cookie)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDoNotTrackSkipsViewRecord(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/views", nil)
	req.Header.Set("DNT", "1")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	st, err := s.app.store.Stats(context.Background(), s.app.now())
	require.NoError(t, err)
	assert.Zero(t, st.TotalViews)
}

func TestHashIPIsStablePerProcess(t *testing.T) {
	a, err := newAdminAuth("u", "p")
	require.NoError(t, err)
	b, err := newAdminAuth("u", "p")
	require.NoError(t, err)
	assert.Equal(t, a.hashIP("10.0.0.1"), a.hashIP("10.0.0.1"))
	assert.Len(t, a.hashIP("10.0.0.1"), 16)
	assert.NotEqual(t, a.hashIP("10.0.0.1"), b.hashIP("10.0.0.1"))
}
