package static

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetUnauthorizedPage(t *testing.T) {
	page, err := GetUnauthorizedPage()
	require.NoError(t, err)
	assert.Contains(t, string(page), "401")
}
