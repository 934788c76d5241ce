package charset

import (
	"runtime"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"

	"github.com/GriffinCanCode/termhost/internal/shared/types"
)

// Candidate is a legacy code page tried for console output
type Candidate struct {
	Name     string
	Encoding encoding.Encoding
}

// Candidates in priority order. The first clean decode wins.
var Candidates = []Candidate{
	{Name: "gbk", Encoding: simplifiedchinese.GBK},
	{Name: "big5", Encoding: traditionalchinese.Big5},
	{Name: "windows-1252", Encoding: charmap.Windows1252},
}

const (
	utf8Name    = "utf-8"
	lossySuffix = " (lossy)"
)

// Resolver decodes shell output for a given host operating system
type Resolver struct {
	windows bool
}

var defaultResolver = NewResolver(runtime.GOOS)

// NewResolver creates a resolver for the given GOOS value
func NewResolver(goos string) *Resolver {
	return &Resolver{windows: goos == "windows"}
}

// Default returns the resolver for the host operating system
func Default() *Resolver {
	return defaultResolver
}

// Decode converts output of a shell of the given family using the host resolver
func Decode(b []byte, family types.ShellFamily) string {
	return defaultResolver.Decode(b, family)
}

// Decode converts b to UTF-8. It never fails; undecodable input produces
// replacement characters.
func (r *Resolver) Decode(b []byte, family types.ShellFamily) string {
	text, _ := r.DecodeWith(b, family)
	return text
}

// DecodeWith is Decode that also names the encoding that produced the text:
// "utf-8", a candidate name, or a lossy fallback marked " (lossy)".
func (r *Resolver) DecodeWith(b []byte, family types.ShellFamily) (string, string) {
	if len(b) == 0 {
		return "", utf8Name
	}

	switch family {
	case types.FamilyPowerShell, types.FamilyCmd:
		if r.windows {
			return decodeConsole(b)
		}
		return decodeUTF8(b)
	case types.FamilyBash, types.FamilyZsh, types.FamilyOther:
		return decodeUTF8(b)
	default:
		return decodeUTF8(b)
	}
}

// decodeConsole tries strict UTF-8, then each candidate code page, then
// falls back to lossy Windows-1252
func decodeConsole(b []byte) (string, string) {
	if utf8.Valid(b) {
		return string(b), utf8Name
	}
	for _, c := range Candidates {
		if s, ok := decodeStrict(c.Encoding, b); ok {
			return s, c.Name
		}
	}
	return decodeLossy(charmap.Windows1252, b), "windows-1252" + lossySuffix
}

func decodeUTF8(b []byte) (string, string) {
	if utf8.Valid(b) {
		return string(b), utf8Name
	}
	return lossyUTF8(b), utf8Name + lossySuffix
}

// decodeStrict accepts a decode only if it needed no substitutions and
// introduced no non-whitespace control characters.
func decodeStrict(enc encoding.Encoding, b []byte) (string, bool) {
	out, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", false
	}
	s := string(out)
	for _, r := range s {
		if r == utf8.RuneError {
			return "", false
		}
		if unicode.IsControl(r) && !unicode.IsSpace(r) {
			return "", false
		}
	}
	return s, true
}

func decodeLossy(enc encoding.Encoding, b []byte) string {
	out, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return lossyUTF8(b)
	}
	return string(out)
}

func lossyUTF8(b []byte) string {
	return strings.ToValidUTF8(string(b), string(utf8.RuneError))
}
