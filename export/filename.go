package export

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultFilename is the base name used when none is usable.
const DefaultFilename = "my-svg-design"

// Filename returns "<slug>.<ext>" for a download. Accents are folded to
// ASCII, other characters collapse into single hyphens, and an empty result
// falls back to DefaultFilename. jpeg downloads use the .jpg extension.
func Filename(base string, f Format) string {
	ext := string(f)
	if f == FormatJPEG {
		ext = string(FormatJPG)
	}
	return slug(base) + "." + ext
}

func slug(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	hyphen := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
			hyphen = false
		case r == '_' || r == '.':
			b.WriteRune(r)
			hyphen = false
		default:
			if !hyphen && b.Len() > 0 {
				b.WriteByte('-')
				hyphen = true
			}
		}
	}
	out := strings.Trim(b.String(), "-._")
	if out == "" {
		return DefaultFilename
	}
	return out
}
