package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"godrive_backend/internal/config"
	"godrive_backend/internal/service"
	"godrive_backend/pkg/database"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

type envelope struct {
	Code    int             `json:"code"`
	Kind    string          `json:"kind"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Server:   config.ServerConfig{Mode: gin.TestMode, RequestTimeout: 5 * time.Second},
		Database: config.DatabaseConfig{Driver: "sqlite", Path: ":memory:"},
		JWT:      config.JWTConfig{Secret: "router-test-secret-router-test-secret", ExpireTime: time.Hour},
		Auth: config.AuthConfig{
			AdminUsername: "admin",
			AdminPassword: "admin-pass",
			AdminName:     "Администратор",
			AllowSignup:   true,
		},
		Exam: config.ExamConfig{
			QuestionsPerTicket: 10,
			TotalQuestions:     1130,
			Locales:            []string{"uz", "ru", "uzk"},
			DefaultLocale:      "uz",
		},
		Storage: config.StorageConfig{Type: "local", LocalPath: t.TempDir()},
	}

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	app, err := New(cfg, db, nil)
	if err != nil {
		t.Fatalf("build app: %v", err)
	}
	t.Cleanup(app.Close)

	if err := app.services.user.EnsureBootstrapAdmin(context.Background()); err != nil {
		t.Fatalf("bootstrap admin: %v", err)
	}
	return app
}

func call(t *testing.T, app *App, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			t.Fatalf("%s %s: decode %q: %v", method, path, w.Body.String(), err)
		}
	}
	return w.Code, env
}

func login(t *testing.T, app *App, username, password string) (string, uint) {
	t.Helper()
	code, resp := call(t, app, http.MethodPost, "/api/auth/login", "", gin.H{
		"username": username,
		"password": password,
	})
	if code != http.StatusOK {
		t.Fatalf("login %s: status %d (%s)", username, code, resp.Message)
	}
	var data struct {
		Token string `json:"token"`
		User  struct {
			ID uint `json:"id"`
		} `json:"user"`
	}
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatal(err)
	}
	return data.Token, data.User.ID
}

func TestHealthAndTickets(t *testing.T) {
	app := newTestApp(t)

	if code, _ := call(t, app, http.MethodGet, "/api/health", "", nil); code != http.StatusOK {
		t.Errorf("health status = %d", code)
	}

	code, resp := call(t, app, http.MethodGet, "/api/tickets", "", nil)
	if code != http.StatusOK {
		t.Fatalf("tickets status = %d", code)
	}
	var overview struct {
		TicketCount int `json:"ticketCount"`
	}
	json.Unmarshal(resp.Data, &overview)
	if overview.TicketCount != 113 {
		t.Errorf("ticket count = %d, want 113", overview.TicketCount)
	}

	tests := []struct {
		path string
		want int
	}{
		{"/api/tickets/0", http.StatusBadRequest},
		{"/api/tickets/abc", http.StatusBadRequest},
		{"/api/tickets/114", http.StatusBadRequest},
		{"/api/tickets/1?lang=en", http.StatusBadRequest},
		// 题库为空
		{"/api/tickets/1", http.StatusNotFound},
	}
	for _, tt := range tests {
		if code, _ := call(t, app, http.MethodGet, tt.path, "", nil); code != tt.want {
			t.Errorf("GET %s = %d, want %d", tt.path, code, tt.want)
		}
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	app := newTestApp(t)

	codeUnknown, unknown := call(t, app, http.MethodPost, "/api/auth/login", "", gin.H{"username": "ghost", "password": "x"})
	codeWrong, wrong := call(t, app, http.MethodPost, "/api/auth/login", "", gin.H{"username": "admin", "password": "x"})

	if codeUnknown != http.StatusUnauthorized || codeWrong != http.StatusUnauthorized {
		t.Fatalf("status unknown=%d wrong=%d, want 401", codeUnknown, codeWrong)
	}
	if unknown.Message != wrong.Message {
		t.Errorf("messages differ: %q vs %q", unknown.Message, wrong.Message)
	}
}

func TestAccessControl(t *testing.T) {
	app := newTestApp(t)
	adminToken, adminID := login(t, app, "admin", "admin-pass")

	code, _ := call(t, app, http.MethodPost, "/api/users", adminToken, gin.H{
		"username": "driver1",
		"password": "secret-pass",
		"name":     "Driver",
	})
	if code != http.StatusCreated {
		t.Fatalf("create user status = %d", code)
	}
	driverToken, _ := login(t, app, "driver1", "secret-pass")

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"no token", http.MethodGet, "/api/progress", "", http.StatusUnauthorized},
		{"garbage token", http.MethodGet, "/api/progress", "nope", http.StatusUnauthorized},
		{"user on admin route", http.MethodGet, "/api/users", driverToken, http.StatusForbidden},
		{"admin lists users", http.MethodGet, "/api/users", adminToken, http.StatusOK},
		{"admin deletes bootstrap admin", http.MethodDelete, fmt.Sprintf("/api/users/%d", adminID), adminToken, http.StatusForbidden},
		{"verify token", http.MethodGet, "/api/auth/verify", driverToken, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code, _ := call(t, app, tt.method, tt.path, tt.token, nil); code != tt.want {
				t.Errorf("status = %d, want %d", code, tt.want)
			}
		})
	}
}

func TestProgressStatsAndFavoritesFlow(t *testing.T) {
	app := newTestApp(t)
	if _, err := app.services.auth.CreateAccount(context.Background(), serviceAccount("driver1")); err != nil {
		t.Fatal(err)
	}
	token, _ := login(t, app, "driver1", "secret-pass")

	// 进度
	code, resp := call(t, app, http.MethodPost, "/api/progress/ticket/1", token,
		`{"completed": true, "score": 8, "totalQuestions": 10, "answers": {"1": 2, "2": 1}}`)
	if code != http.StatusOK {
		t.Fatalf("save progress status = %d (%s)", code, resp.Message)
	}
	rejected := []struct {
		path string
		body string
	}{
		{"/api/progress/ticket/114", `{"completed": true, "answers": {}}`},
		{"/api/progress/ticket/1", `{"completed": "yes", "answers": {}}`},
		{"/api/progress/ticket/1", `{"answers": {}}`},
		{"/api/progress/ticket/1", `{"completed": false, "answers": {"55": 1}}`},
	}
	for _, r := range rejected {
		if code, _ := call(t, app, http.MethodPost, r.path, token, r.body); code != http.StatusBadRequest {
			t.Errorf("POST %s %s = %d, want 400", r.path, r.body, code)
		}
	}

	code, resp = call(t, app, http.MethodGet, "/api/progress", token, nil)
	if code != http.StatusOK {
		t.Fatalf("overview status = %d", code)
	}
	var overview struct {
		Stats struct {
			TicketsCompleted int `json:"ticketsCompleted"`
		} `json:"stats"`
		CompletedTickets []struct {
			TicketNumber int `json:"ticketNumber"`
		} `json:"completedTickets"`
	}
	json.Unmarshal(resp.Data, &overview)
	if overview.Stats.TicketsCompleted != 1 || len(overview.CompletedTickets) != 1 {
		t.Errorf("overview = %+v", overview)
	}

	// 统计
	call(t, app, http.MethodPost, "/api/stats/answers", token, gin.H{"total": 5, "correct": 3})
	call(t, app, http.MethodPost, "/api/stats/answers", token, gin.H{"total": 2, "correct": 1})
	if code, _ := call(t, app, http.MethodPost, "/api/stats/answers", token, gin.H{"total": 1, "correct": 2}); code != http.StatusBadRequest {
		t.Errorf("correct > total status = %d", code)
	}
	_, resp = call(t, app, http.MethodGet, "/api/stats", token, nil)
	var stats struct {
		TotalQuestionsAnswered int64   `json:"totalQuestionsAnswered"`
		CorrectAnswers         int64   `json:"correctAnswers"`
		Accuracy               float64 `json:"accuracy"`
	}
	json.Unmarshal(resp.Data, &stats)
	if stats.TotalQuestionsAnswered != 7 || stats.CorrectAnswers != 4 || stats.Accuracy != 57.1 {
		t.Errorf("stats = %+v", stats)
	}

	// 收藏
	call(t, app, http.MethodPost, "/api/favorites", token, gin.H{"questionId": 42})
	_, resp = call(t, app, http.MethodPost, "/api/favorites", token, gin.H{"questionId": 42})
	var favs struct {
		Favorites []int `json:"favorites"`
	}
	json.Unmarshal(resp.Data, &favs)
	if len(favs.Favorites) != 1 || favs.Favorites[0] != 42 {
		t.Errorf("favorites = %v, want [42]", favs.Favorites)
	}

	// 设置
	if code, _ := call(t, app, http.MethodPut, "/api/auth/settings", token, gin.H{"language": "en"}); code != http.StatusBadRequest {
		t.Errorf("unsupported language status = %d", code)
	}
	if code, _ := call(t, app, http.MethodPut, "/api/auth/settings", token, gin.H{"language": "uzk"}); code != http.StatusOK {
		t.Errorf("settings status = %d", code)
	}

	// 清除个人数据
	if code, _ := call(t, app, http.MethodPost, "/api/auth/clear-data", token, nil); code != http.StatusOK {
		t.Fatalf("clear data status = %d", code)
	}
	_, resp = call(t, app, http.MethodGet, "/api/favorites", token, nil)
	json.Unmarshal(resp.Data, &favs)
	if len(favs.Favorites) != 0 {
		t.Errorf("favorites after clear = %v", favs.Favorites)
	}
	if code, _ := call(t, app, http.MethodGet, "/api/progress/ticket/1", token, nil); code != http.StatusNotFound {
		t.Errorf("progress after clear status = %d", code)
	}
}

func serviceAccount(username string) service.NewAccount {
	return service.NewAccount{Username: username, Password: "secret-pass"}
}

func TestUnknownRoute(t *testing.T) {
	app := newTestApp(t)

	code, resp := call(t, app, http.MethodGet, "/api/nope", "", nil)
	if code != http.StatusNotFound || resp.Kind != "not_found" {
		t.Errorf("status = %d kind = %q, want 404 not_found", code, resp.Kind)
	}
}

func TestCloseStopsBackgroundWork(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		Database:  config.DatabaseConfig{Driver: "sqlite", Path: ":memory:"},
		Exam:      config.ExamConfig{QuestionsPerTicket: 10, TotalQuestions: 1130, Locales: []string{"ru"}, DefaultLocale: "ru"},
		Storage:   config.StorageConfig{Type: "local", LocalPath: t.TempDir()},
		RateLimit: config.RateLimitConfig{MaxRequests: 100, WindowMinutes: 15},
	}
	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		t.Fatal(err)
	}
	app, err := New(cfg, db, nil)
	if err != nil {
		t.Fatal(err)
	}
	if app.ctx.Err() != nil {
		t.Fatal("context cancelled before Close")
	}

	app.Close()
	if app.ctx.Err() == nil {
		t.Error("Close did not cancel the app context")
	}
}
