package web_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goliatone/go-router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finmind/finmind-go"
	"github.com/finmind/finmind-go/client"
	"github.com/finmind/finmind-go/web"
)

// stubContext fakes the handful of router.Context methods the page
// controllers touch. Anything else panics, which is what we want in a
// test.
type stubContext struct {
	router.Context

	login   web.LoginRequest
	queries map[string]string
	params  map[string]string

	renderedView string
	renderedBind router.ViewContext
	redirectedTo string
}

func (s *stubContext) Context() context.Context { return context.Background() }

func (s *stubContext) Bind(i any) error {
	if p, ok := i.(*web.LoginRequest); ok {
		*p = s.login
	}
	return nil
}

func (s *stubContext) Render(name string, bind any, layout ...string) error {
	s.renderedView = name
	if vc, ok := bind.(router.ViewContext); ok {
		s.renderedBind = vc
	}
	return nil
}

func (s *stubContext) Redirect(path string, status ...int) error {
	s.redirectedTo = path
	return nil
}

func (s *stubContext) Query(key string, def string) string {
	if v, ok := s.queries[key]; ok {
		return v
	}
	return def
}

func (s *stubContext) Param(key string, def ...string) string {
	if v, ok := s.params[key]; ok {
		return v
	}
	if len(def) > 0 {
		return def[0]
	}
	return ""
}

func (s *stubContext) Referer() string { return "" }

func newTestController(t *testing.T, apiURL string) (*web.Controller, *finmind.Queue) {
	t.Helper()

	tokens := finmind.NewMemoryTokenStore()
	session := finmind.NewSessionController(tokens)
	queue := finmind.NewQueue()
	toaster := finmind.NewToaster(queue, finmind.WithoutAutoClose())
	t.Cleanup(toaster.Stop)

	gateway := client.New(apiURL, tokens)

	controller := web.NewController(
		web.WithSession(session),
		web.WithTokens(tokens),
		web.WithGateway(gateway),
		web.WithNotifications(queue, toaster),
	)

	return controller, queue
}

func TestNewControllerDefaults(t *testing.T) {
	controller, _ := newTestController(t, "http://localhost:8000")

	assert.Equal(t, "/login", controller.Routes.Login)
	assert.Equal(t, "/notifications", controller.Routes.Notifications)
	assert.Equal(t, "login", controller.Views.Login)
	assert.Equal(t, "/dashboard", controller.DefaultRoute)
}

func TestNewControllerPanicsWithoutSession(t *testing.T) {
	assert.Panics(t, func() {
		web.NewController()
	})
}

func TestLoginShowRendersForm(t *testing.T) {
	controller, queue := newTestController(t, "http://localhost:8000")
	queue.Add(finmind.LevelInfo, "Welcome", "hello")

	ctx := &stubContext{}
	err := controller.LoginShow(ctx)

	require.NoError(t, err)
	assert.Equal(t, "login", ctx.renderedView)
	assert.Equal(t, 1, ctx.renderedBind["unread"])
	assert.Equal(t, false, ctx.renderedBind["authenticated"])
}

func TestLoginPostInvalidCredentialsRendersError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail": "Invalid credentials"}`))
	}))
	defer srv.Close()

	controller, _ := newTestController(t, srv.URL)

	ctx := &stubContext{
		login: web.LoginRequest{Email: "owner@acme.test", Password: "wrong"},
	}

	err := controller.LoginPost(ctx)
	require.NoError(t, err)

	assert.Equal(t, "login", ctx.renderedView)
	errs, ok := ctx.renderedBind["errors"].(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "Invalid credentials", errs["authentication"])
}

func TestLoginPostInvalidPayloadRendersValidation(t *testing.T) {
	controller, _ := newTestController(t, "http://localhost:8000")

	ctx := &stubContext{
		login: web.LoginRequest{Email: "not-an-email", Password: "x"},
	}

	err := controller.LoginPost(ctx)
	require.NoError(t, err)

	assert.Equal(t, "login", ctx.renderedView)
	assert.Contains(t, ctx.renderedBind, "validation")
}

func TestLogOutClearsSessionAndRedirects(t *testing.T) {
	controller, queue := newTestController(t, "http://localhost:8000")

	ctx := &stubContext{}
	err := controller.LogOut(ctx)

	require.NoError(t, err)
	assert.Equal(t, "/login", ctx.redirectedTo)
	assert.Equal(t, 1, queue.Len(), "logout should queue a notification")
}

func TestNotificationsShowFiltersUnread(t *testing.T) {
	controller, queue := newTestController(t, "http://localhost:8000")

	queue.Add(finmind.LevelInfo, "First", "alpha")
	read := queue.Add(finmind.LevelError, "Second", "beta")
	queue.Add(finmind.LevelSuccess, "Third", "gamma")
	queue.MarkRead(read)

	ctx := &stubContext{queries: map[string]string{"filter": "unread"}}
	err := controller.NotificationsShow(ctx)

	require.NoError(t, err)
	assert.Equal(t, "notifications", ctx.renderedView)

	items, ok := ctx.renderedBind["notifications"].([]finmind.Notification)
	require.True(t, ok)
	require.Len(t, items, 2)
	assert.Equal(t, "Third", items[0].Title, "newest first")
	assert.Equal(t, "First", items[1].Title)
	assert.Equal(t, 3, ctx.renderedBind["total"])
}

func TestNotificationsMarkAllRead(t *testing.T) {
	controller, queue := newTestController(t, "http://localhost:8000")

	queue.Add(finmind.LevelInfo, "First", "alpha")
	queue.Add(finmind.LevelInfo, "Second", "beta")
	require.Equal(t, 2, queue.UnreadCount())

	ctx := &stubContext{}
	err := controller.NotificationsMarkAllRead(ctx)

	require.NoError(t, err)
	assert.Equal(t, "/notifications", ctx.redirectedTo)
	assert.Equal(t, 0, queue.UnreadCount())
}

func TestNotificationRemove(t *testing.T) {
	controller, queue := newTestController(t, "http://localhost:8000")

	id := queue.Add(finmind.LevelWarning, "Stale", "old news")
	require.Equal(t, 1, queue.Len())

	ctx := &stubContext{params: map[string]string{"id": id.String()}}
	err := controller.NotificationRemove(ctx)

	require.NoError(t, err)
	assert.Equal(t, "/notifications", ctx.redirectedTo)
	assert.Equal(t, 0, queue.Len())
}
