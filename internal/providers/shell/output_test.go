package shell

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterStderr(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"only code page banner", "Active code page: 65001", ""},
		{"banner with crlf", "Active code page: 65001\r\n", ""},
		{"case insensitive", "ACTIVE CODE PAGE: 936\nreal error", "real error"},
		{"blank lines dropped", "\n\nfirst\n\nsecond\n", "first\nsecond"},
		{"whitespace-only line kept", "  \nx", "  \nx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterStderr(tt.in))
		})
	}
}

func TestMerge(t *testing.T) {
	assert.Equal(t, "", Merge("", ""))
	assert.Equal(t, "out", Merge("out", ""))
	assert.Equal(t, "err", Merge("", "err"))
	assert.Equal(t, "out\n\nerr", Merge("out\n", "err"))
	assert.Equal(t, "out\nerr", Merge("out", "err"))
}
