package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRefSetAddDedupes(t *testing.T) {
	s := newRefSet(nil)
	assert.True(t, s.add("a"))
	assert.True(t, s.add("b"))
	assert.False(t, s.add("a"))
	assert.False(t, s.add(""))
	assert.Equal(t, []string{"a", "b"}, s.list())
}

func TestRefSetRemoveFirstMatch(t *testing.T) {
	s := newRefSet([]string{"a", "b", "c"})
	assert.True(t, s.remove("b"))
	assert.Equal(t, []string{"a", "c"}, s.list())

	// Removing an absent value leaves the set unchanged.
	assert.False(t, s.remove("zzz"))
	assert.Equal(t, []string{"a", "c"}, s.list())
}

func TestRefSetPreservesOrderAcrossOps(t *testing.T) {
	s := newRefSet([]string{"one", "two", "three"})
	s.remove("two")
	s.add("four")
	s.add("five")
	s.add("one")
	assert.Equal(t, []string{"one", "three", "four", "five"}, s.list())
}

func TestRefSetSeedDedupes(t *testing.T) {
	s := newRefSet([]string{"a", "a", "b"})
	assert.Equal(t, []string{"a", "b"}, s.list())
}

func TestNormalizeImageRef(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"https://cdn.example.com/storage/products/a.jpg", "storage/products/a.jpg"},
		{"/storage/products/a.jpg", "storage/products/a.jpg"},
		{"storage/products/a.jpg", "storage/products/a.jpg"},
		{"  storage/products/a.jpg  ", "storage/products/a.jpg"},
		{"https://elsewhere.example.com/images/b.png", "https://elsewhere.example.com/images/b.png"},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, normalizeImageRef(tc.in), tc.in)
	}
}
