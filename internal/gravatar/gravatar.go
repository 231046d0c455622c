package gravatar

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strconv"
	"strings"

	"github.com/jon4hz/todolab/internal/config"
)

const baseURL = "https://www.gravatar.com/avatar/"

// URL returns the avatar URL for a user's email, or "" when avatars are disabled.
func URL(email string, cfg *config.GravatarConfig) string {
	email = strings.ToLower(strings.TrimSpace(email))
	if cfg == nil || !cfg.Enabled || email == "" {
		return ""
	}

	sum := sha256.Sum256([]byte(email))
	u := baseURL + hex.EncodeToString(sum[:])

	q := url.Values{}
	if cfg.DefaultImage != "" {
		q.Set("d", cfg.DefaultImage)
	}
	if cfg.Rating != "" {
		q.Set("r", cfg.Rating)
	}
	if cfg.Size > 0 {
		q.Set("s", strconv.Itoa(cfg.Size))
	}
	if len(q) == 0 {
		return u
	}
	return u + "?" + q.Encode()
}
