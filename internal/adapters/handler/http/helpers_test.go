package http_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	adapterHTTP "github.com/comitanigiacomo/kanso-streaks/internal/adapters/handler/http"
	"github.com/comitanigiacomo/kanso-streaks/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/kanso-streaks/internal/adapters/repository"
	"github.com/comitanigiacomo/kanso-streaks/internal/core/services"
)

var fixedNow = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

type fakeRecalculator struct {
	mu  sync.Mutex
	ids []string
}

func (f *fakeRecalculator) Enqueue(streakID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ids = append(f.ids, streakID)
}

func (f *fakeRecalculator) Enqueued() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.ids...)
}

type testEnv struct {
	router *gin.Engine
	store  *repository.InMemoryStore
	worker *fakeRecalculator
}

// setupRouter wires the real services over the in-memory store. The caller is
// identified by the X-User-ID header instead of a session.
func setupRouter() *testEnv {
	gin.SetMode(gin.TestMode)

	store := repository.NewInMemoryStore()
	worker := &fakeRecalculator{}
	clock := func() time.Time { return fixedNow }

	streakSvc := services.NewStreakService(store.Streaks())
	statsSvc := services.NewStatsService(store.Streaks()).WithClock(clock, time.UTC)
	completionSvc := services.NewCompletionService(store.Completions(), store.Streaks(), worker).WithClock(clock, time.UTC)

	r := gin.New()
	api := r.Group("/api/v1")
	api.Use(func(c *gin.Context) {
		if id := c.GetHeader("X-User-ID"); id != "" {
			c.Set(middleware.ContextUserIDKey, id)
		}
		c.Next()
	})

	adapterHTTP.NewStreakHandler(streakSvc, statsSvc).RegisterRoutes(api)
	adapterHTTP.NewCompletionHandler(completionSvc).RegisterRoutes(api)
	adapterHTTP.NewStatsHandler(statsSvc).RegisterRoutes(api)

	return &testEnv{router: r, store: store, worker: worker}
}

func (e *testEnv) do(method, path, userID, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req, _ = http.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, _ = http.NewRequest(method, path, nil)
	}
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}
