package gravatar

import (
	"testing"

	"github.com/jon4hz/todolab/internal/config"
	"github.com/stretchr/testify/assert"
)

const bobHash = "973dfe463ec85785f5f95af5ba3906eedb2d931c24e69824a89ea65dba4e813b"

func TestURL(t *testing.T) {
	tests := []struct {
		name  string
		email string
		cfg   *config.GravatarConfig
		want  string
	}{
		{name: "nil config", email: "test@example.com", want: ""},
		{name: "disabled", email: "test@example.com", cfg: &config.GravatarConfig{Size: 80}, want: ""},
		{name: "blank email", email: "  ", cfg: &config.GravatarConfig{Enabled: true}, want: ""},
		{name: "no options", email: "test@example.com", cfg: &config.GravatarConfig{Enabled: true}, want: baseURL + bobHash},
		{
			name:  "normalized email with options",
			email: " TEST@Example.com ",
			cfg:   &config.GravatarConfig{Enabled: true, DefaultImage: "identicon", Rating: "pg", Size: 120},
			want:  baseURL + bobHash + "?d=identicon&r=pg&s=120",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, URL(tt.email, tt.cfg))
		})
	}
}
