package charset

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"

	"github.com/GriffinCanCode/termhost/internal/shared/types"
)

func TestDecodeEmpty(t *testing.T) {
	for _, goos := range []string{"windows", "linux", "darwin"} {
		r := NewResolver(goos)
		for _, f := range types.ShellFamilies {
			assert.Equal(t, "", r.Decode(nil, f), "goos=%s family=%s", goos, f)
			assert.Equal(t, "", r.Decode([]byte{}, f), "goos=%s family=%s", goos, f)
		}
	}
}

func TestDecodeUTF8RoundTrip(t *testing.T) {
	marker := "héllo 世界 ✓"
	for _, goos := range []string{"windows", "linux"} {
		r := NewResolver(goos)
		for _, f := range types.ShellFamilies {
			assert.Equal(t, marker, r.Decode([]byte(marker), f), "goos=%s family=%s", goos, f)
		}
	}
}

func TestDecodeConsolePrefersGBK(t *testing.T) {
	// 0xA4A4 is a valid double-byte character in both GBK and Big5 and is not UTF-8.
	data := []byte{0xA4, 0xA4, 0xA4, 0xA4}
	require.False(t, utf8.Valid(data))

	gbk, err := simplifiedchinese.GBK.NewDecoder().Bytes(data)
	require.NoError(t, err)
	big5, err := traditionalchinese.Big5.NewDecoder().Bytes(data)
	require.NoError(t, err)
	require.NotContains(t, string(gbk), string(utf8.RuneError))
	require.NotContains(t, string(big5), string(utf8.RuneError))

	r := NewResolver("windows")
	assert.Equal(t, string(gbk), r.Decode(data, types.FamilyCmd))
	assert.Equal(t, string(gbk), r.Decode(data, types.FamilyPowerShell))

	_, name := r.DecodeWith(data, types.FamilyCmd)
	assert.Equal(t, "gbk", name)
}

func TestDecodeConsoleFallsBackToWestern(t *testing.T) {
	// A lone trailing lead byte is invalid in both double-byte code pages.
	data := []byte("caf\xe9")

	r := NewResolver("windows")
	assert.Equal(t, "café", r.Decode(data, types.FamilyCmd))

	_, name := r.DecodeWith(data, types.FamilyCmd)
	assert.Equal(t, "windows-1252", name)
}

func TestDecodeConsoleLossyWhenControlCharactersPresent(t *testing.T) {
	data := []byte("\x1b[0mcaf\xe9")

	want, err := charmap.Windows1252.NewDecoder().Bytes(data)
	require.NoError(t, err)

	r := NewResolver("windows")
	assert.Equal(t, string(want), r.Decode(data, types.FamilyPowerShell))

	_, name := r.DecodeWith(data, types.FamilyPowerShell)
	assert.Equal(t, "windows-1252 (lossy)", name)
}

func TestDecodeNonWindowsIsLossyUTF8(t *testing.T) {
	data := []byte{'o', 'k', 0xA4, 0xA4}

	r := NewResolver("linux")
	for _, f := range types.ShellFamilies {
		got := r.Decode(data, f)
		assert.True(t, strings.HasPrefix(got, "ok"))
		assert.Contains(t, got, string(utf8.RuneError))
		assert.True(t, utf8.ValidString(got))
	}
}

func TestDecodePosixFamiliesOnWindowsAreUTF8(t *testing.T) {
	data := []byte{0xA4, 0xA4}

	r := NewResolver("windows")
	assert.Equal(t, string(utf8.RuneError), r.Decode(data, types.FamilyBash))
}

func TestDecodeWithNamesEncoding(t *testing.T) {
	tests := []struct {
		name   string
		goos   string
		family types.ShellFamily
		data   []byte
		enc    string
	}{
		{"empty", "windows", types.FamilyCmd, nil, "utf-8"},
		{"valid utf-8 console", "windows", types.FamilyCmd, []byte("héllo"), "utf-8"},
		{"western console", "windows", types.FamilyCmd, []byte("caf\xe9"), "windows-1252"},
		{"control bytes console", "windows", types.FamilyPowerShell, []byte("\x1b[0mcaf\xe9"), "windows-1252 (lossy)"},
		{"invalid posix output", "linux", types.FamilyBash, []byte{'o', 'k', 0xA4}, "utf-8 (lossy)"},
		{"console family off windows", "darwin", types.FamilyCmd, []byte{0xA4, 0xA4}, "utf-8 (lossy)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(tt.goos)
			text, enc := r.DecodeWith(tt.data, tt.family)
			assert.Equal(t, tt.enc, enc)
			assert.Equal(t, r.Decode(tt.data, tt.family), text)
		})
	}
}

func TestSniff(t *testing.T) {
	assert.Equal(t, "utf-8", Sniff(nil))
	assert.NotEmpty(t, Sniff([]byte("plain ascii output from a shell command\n")))
}
