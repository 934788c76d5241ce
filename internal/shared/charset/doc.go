// Package charset turns raw shell output into UTF-8 text.
//
// Console shells on Windows emit bytes in whatever code page the host locale
// selects, and the code page cannot be queried reliably from the outside. The
// resolver therefore tries strict UTF-8 first (the command builder switches
// consoles to code page 65001), then a fixed chain of legacy code pages, and
// finally a lossy Western decode. Everything else is treated as UTF-8 with
// invalid sequences replaced.
//
// Candidate order for Windows console output:
//   - UTF-8 (strict)
//   - GBK (Simplified Chinese)
//   - Big5 (Traditional Chinese)
//   - Windows-1252 (Western European)
//
// A candidate is accepted only when it decodes without errors and yields no
// control characters other than whitespace. The first acceptable candidate
// wins, so the result is free of visible corruption but not guaranteed to be
// the encoding the program actually used.
//
// Example Usage:
//
//	text := charset.Decode(stdout, types.FamilyCmd)
//
//	dec := charset.NewStreamDecoder(charset.Default(), types.FamilyBash)
//	for chunk := range chunks {
//	    emit(dec.Decode(chunk))
//	}
package charset
