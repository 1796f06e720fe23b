package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractVolumeID(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected string
	}{
		{"dp path", "https://www.amazon.com/dp/0805047905", "0805047905"},
		{"dp with trailing segments", "https://www.amazon.com/Brown-Bear-What-You-See/dp/0805047905/ref=sr_1_1", "0805047905"},
		{"gp product path", "https://www.amazon.com/gp/product/0805047905", "0805047905"},
		{"asin not isbn", "https://www.amazon.co.uk/dp/B08N5WRWNW", "B08N5WRWNW"},
		{"not amazon", "https://bookshop.org/dp/0805047905", ""},
		{"amazon without identifier", "https://www.amazon.com/gp/cart", ""},
		{"garbage", "::::", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractVolumeID(tt.url))
		})
	}
}

func TestIsLikelyISBN(t *testing.T) {
	assert.True(t, IsLikelyISBN("0805047905"))
	assert.True(t, IsLikelyISBN("080504790X"))
	assert.True(t, IsLikelyISBN("080504790x"))
	assert.False(t, IsLikelyISBN("B08N5WRWNW"))
	assert.False(t, IsLikelyISBN("12345"))
	assert.False(t, IsLikelyISBN(""))
}
