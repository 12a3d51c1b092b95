package pathutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleID = strings.Repeat("0123456789", 4) // 40 chars, hex

func TestExtractID_Valid(t *testing.T) {
	id, err := ExtractID("/items/"+sampleID, "/items/")
	require.NoError(t, err)
	assert.Equal(t, sampleID, id)
}

func TestExtractID_Invalid(t *testing.T) {
	cases := map[string]string{
		"empty":         "/items/",
		"too short":     "/items/abc123",
		"uppercase hex": "/items/" + strings.ToUpper(sampleID),
		"non-hex":       "/items/" + strings.Repeat("zz", 20),
		"nested path":   "/items/" + sampleID + "/extra",
	}
	for name, path := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ExtractID(path, "/items/")
			assert.ErrorIs(t, err, ErrInvalidID)
		})
	}
}

func TestNormalizePath(t *testing.T) {
	cases := map[string]string{
		"/items/" + sampleID:          "/items/:id",
		"/items/" + sampleID + "/":    "/items/:id",
		"/items/" + sampleID + "?x=1": "/items/:id",
		"/items":                      "/items",
		"/categories/counts":          "/categories/counts",
		"/healthz":                    "/healthz",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizePath(in), "input %q", in)
	}
}
