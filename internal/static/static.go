package static

import (
	"embed"
	"fmt"
)

//go:embed static/*
var StaticFS embed.FS

// GetUnauthorizedPage reads and returns the 401 error page from the embedded static files.
func GetUnauthorizedPage() ([]byte, error) {
	page, err := StaticFS.ReadFile("static/401.html")
	if err != nil {
		return nil, fmt.Errorf("failed to read unauthorized page from embedded files: %w", err)
	}
	return page, nil
}
