package security

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestVisitorStoreSweep(t *testing.T) {
	store := newVisitorStore(1, 1)
	now := time.Now()

	store.get("10.0.0.1", now.Add(-10*time.Minute))
	store.get("10.0.0.2", now)
	store.sweep(now, 5*time.Minute)

	if store.len() != 1 {
		t.Fatalf("visitors after sweep = %d, want 1", store.len())
	}
	if _, ok := store.visitors["10.0.0.2"]; !ok {
		t.Error("active visitor was removed")
	}
}

func TestCleanupStopsWithContext(t *testing.T) {
	store := newVisitorStore(1, 1)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		store.cleanup(ctx, time.Hour, time.Hour)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("cleanup did not return after cancel")
	}
}

func TestRateLimiter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	router := gin.New()
	router.Use(RateLimiter(ctx, 2, time.Hour))
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	want := []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}
	for i, code := range want {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		if w.Code != code {
			t.Errorf("request %d: status %d, want %d", i+1, w.Code, code)
		}
	}
}

func TestRateLimiterDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RateLimiter(context.Background(), 0, time.Minute))
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: status %d", i+1, w.Code)
		}
	}
}
