package storage

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mastermind-creat/techsafi/internal/config"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string", "", "unnamed"},
		{"simple filename", "logo.png", "logo.png"},
		{"uppercase to lowercase", "HERO.JPG", "hero.jpg"},
		{"spaces replaced with underscore", "team photo.jpg", "team_photo.jpg"},
		{"multiple spaces collapsed", "team   photo.jpg", "team_photo.jpg"},
		{"special characters replaced", "logo@#$%v2.svg", "logo_v2.svg"},
		{"leading underscore trimmed", "_logo.png", "logo.png"},
		{"parentheses replaced", "banner (1).webp", "banner_1_.webp"},
		{"dashes preserved", "client-logo.png", "client-logo.png"},
		{"only symbols", "@@@", "unnamed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeFilename(tt.input))
		})
	}

	long := strings.Repeat("a", 300) + ".png"
	assert.Len(t, SanitizeFilename(long), 200)
}

func TestMediaKey(t *testing.T) {
	at := time.Date(2026, 4, 9, 10, 0, 0, 0, time.UTC)
	key := MediaKey("Team Photo.JPG", at)

	require.True(t, strings.HasPrefix(key, "media/2026/04/"), key)
	assert.True(t, strings.HasSuffix(key, "-team_photo.jpg"), key)
	// uuid (36) + "-" + name
	assert.Len(t, strings.TrimPrefix(key, "media/2026/04/"), 36+1+len("team_photo.jpg"))
	assert.NotEqual(t, key, MediaKey("Team Photo.JPG", at))
}

func TestSnapshotKey(t *testing.T) {
	at := time.Date(2026, 4, 9, 3, 0, 0, 0, time.FixedZone("EAT", 3*3600))
	assert.Equal(t, "snapshots/content-20260409T000000Z.json", SnapshotKey(at))
}

func TestPublicURL(t *testing.T) {
	assert.Equal(t, "https://cdn.example.com/media/a.png", PublicURL("https://cdn.example.com/", "/media/a.png"))
}

func TestService_Disabled(t *testing.T) {
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	svc, err := NewService(&config.Config{}, log)
	require.NoError(t, err)
	assert.False(t, svc.Enabled())

	ctx := context.Background()
	_, err = svc.Upload(ctx, "k", strings.NewReader("x"), 1, UploadOptions{})
	assert.ErrorIs(t, err, ErrDisabled)
	assert.ErrorIs(t, svc.Delete(ctx, "k"), ErrDisabled)
	_, err = svc.Download(ctx, "k")
	assert.ErrorIs(t, err, ErrDisabled)
	_, err = svc.Exists(ctx, "k")
	assert.ErrorIs(t, err, ErrDisabled)
	_, err = svc.List(ctx, MediaPrefix)
	assert.ErrorIs(t, err, ErrDisabled)
	_, err = svc.URL(ctx, "k", 0)
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestService_EnabledWithConfig(t *testing.T) {
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	cfg := &config.Config{Storage: config.StorageConfig{
		Endpoint:        "http://localhost:9000",
		AccessKeyID:     "minio",
		SecretAccessKey: "minio123",
		Bucket:          "media",
		Region:          "us-east-1",
		PublicURL:       "http://localhost:9000/media",
	}}
	svc, err := NewService(cfg, log)
	require.NoError(t, err)
	assert.True(t, svc.Enabled())

	url, err := svc.URL(context.Background(), "media/2026/04/x.png", 0)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000/media/media/2026/04/x.png", url)
}
