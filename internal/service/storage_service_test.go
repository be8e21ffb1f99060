package service

import (
	"context"
	"godrive_backend/internal/config"
	"os"
	"path/filepath"
	"testing"
)

func TestLocalStorageUploadFile(t *testing.T) {
	cfg := &config.StorageConfig{Type: "local", LocalPath: t.TempDir()}
	provider := &LocalStorageProvider{Config: cfg}

	src := filepath.Join(t.TempDir(), "7.png")
	if err := os.WriteFile(src, []byte("png"), 0644); err != nil {
		t.Fatal(err)
	}

	url, err := provider.UploadFile(context.Background(), "questions/7.png", src, "image/png")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if url != "/uploads/questions/7.png" {
		t.Errorf("url = %q", url)
	}
	data, err := os.ReadFile(filepath.Join(cfg.LocalPath, "questions", "7.png"))
	if err != nil || string(data) != "png" {
		t.Errorf("stored file = %q, %v", data, err)
	}

	// 路径穿越被限制在存储目录内
	if _, err := provider.UploadFile(context.Background(), "../../escape.png", src, "image/png"); err != nil {
		t.Fatalf("upload: %v", err)
	}
	if _, err := os.Stat(filepath.Join(cfg.LocalPath, "escape.png")); err != nil {
		t.Errorf("file not kept inside storage dir: %v", err)
	}
}

func TestStorageImageURL(t *testing.T) {
	tests := []struct {
		name  string
		cfg   config.StorageConfig
		image string
		want  string
	}{
		{"local file", config.StorageConfig{Type: "local"}, "questions/1.png", "/uploads/questions/1.png"},
		{"default image", config.StorageConfig{Type: "local", DefaultImage: "defaultpic.webp"}, "", "/uploads/defaultpic.webp"},
		{"no image at all", config.StorageConfig{Type: "local"}, "", ""},
		{"public base url", config.StorageConfig{Type: "local", PublicBaseURL: "https://cdn.example.com/"}, "/questions/1.png", "https://cdn.example.com/questions/1.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.cfg.LocalPath = t.TempDir()
			storage, err := NewStorageService(&config.Config{Storage: tt.cfg})
			if err != nil {
				t.Fatal(err)
			}
			if got := storage.ImageURL(tt.image); got != tt.want {
				t.Errorf("ImageURL(%q) = %q, want %q", tt.image, got, tt.want)
			}
		})
	}
}
