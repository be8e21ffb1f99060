package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestLoadConfigDefaults(t *testing.T) {
	uploads := filepath.Join(t.TempDir(), "uploads")
	dir := writeConfig(t, `
database:
  driver: sqlite
  path: ":memory:"
jwt:
  secret: test-secret
storage:
  local_path: `+uploads+`
`)

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Exam.QuestionsPerTicket != 10 || cfg.Exam.TotalQuestions != 1130 {
		t.Errorf("exam = %+v", cfg.Exam)
	}
	if cfg.Exam.TicketCount() != 113 {
		t.Errorf("TicketCount() = %d, want 113", cfg.Exam.TicketCount())
	}
	if cfg.Exam.DefaultLocale != "uz" || len(cfg.Exam.Locales) != 3 {
		t.Errorf("locales = %v default %q", cfg.Exam.Locales, cfg.Exam.DefaultLocale)
	}
	if cfg.JWT.ExpireTime != 24*time.Hour {
		t.Errorf("jwt expire = %v, want 24h", cfg.JWT.ExpireTime)
	}
	if cfg.Server.RequestTimeout != 10*time.Second {
		t.Errorf("request timeout = %v", cfg.Server.RequestTimeout)
	}
	if cfg.Storage.DefaultImage != "defaultpic.webp" {
		t.Errorf("default image = %q", cfg.Storage.DefaultImage)
	}
	if cfg.FilePath == "" {
		t.Error("FilePath not recorded")
	}
	if _, err := os.Stat(uploads); err != nil {
		t.Errorf("local storage dir not created: %v", err)
	}
}

func TestLoadConfigRejects(t *testing.T) {
	storage := "\nstorage:\n  local_path: " + t.TempDir() + "\n"
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "short secret in release",
			body: "server:\n  mode: release\ndatabase:\n  driver: sqlite\njwt:\n  secret: short\nauth:\n  admin_password: strong-admin-pass\n",
			want: "JWT secret",
		},
		{
			name: "default admin password in release",
			body: "server:\n  mode: release\ndatabase:\n  driver: sqlite\njwt:\n  secret: a-very-long-secret-for-release-mode-ok\n",
			want: "admin_password",
		},
		{
			name: "unknown driver",
			body: "database:\n  driver: oracle\n",
			want: "unsupported database driver",
		},
		{
			name: "default locale not listed",
			body: "database:\n  driver: sqlite\nexam:\n  locales: [ru]\n  default_locale: uz\n",
			want: "default_locale",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body+storage))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestSupportsLocale(t *testing.T) {
	exam := ExamConfig{Locales: []string{"uz", "ru", "uzk"}}
	for _, tt := range []struct {
		locale string
		want   bool
	}{
		{"uz", true},
		{"uzk", true},
		{"en", false},
		{"", false},
		{"RU", false},
	} {
		if got := exam.SupportsLocale(tt.locale); got != tt.want {
			t.Errorf("SupportsLocale(%q) = %v, want %v", tt.locale, got, tt.want)
		}
	}
}
