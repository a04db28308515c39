package minio

import (
	"Parchment/internal/api/config"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetPublicURL(t *testing.T) {
	prev := config.Cfg
	t.Cleanup(func() { config.Cfg = prev })

	config.Cfg = nil
	assert.Equal(t, "avatar/1.png", GetPublicURL("avatar/1.png"))

	config.Cfg = &config.Config{MinIO: config.MinIOConfig{ExternalEndpoint: "cdn.example.com", MainBucket: "main"}}
	assert.Equal(t, "https://cdn.example.com/main/avatar/1.png", GetPublicURL("/avatar/1.png"))
	assert.Equal(t, "https://img.example.org/a.jpg", GetPublicURL("https://img.example.org/a.jpg"))
	assert.Equal(t, "", GetPublicURL(""))
}
