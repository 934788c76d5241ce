package charset

import (
	"strings"

	"github.com/saintfish/chardet"
)

// Sniff returns a best guess of the charset of b, lower-cased.
// It is diagnostic only; Decode never consults it.
func Sniff(b []byte) string {
	if len(b) == 0 {
		return "utf-8"
	}
	detector := chardet.NewTextDetector()
	result, err := detector.DetectBest(b)
	if err != nil || result == nil {
		return "utf-8"
	}
	return strings.ToLower(result.Charset)
}
