package server

import (
	"path/filepath"
	"strings"
	"unicode"
)

// reservedNames cannot be used as file names on Windows.
var reservedNames = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true,
	"LPT1": true, "LPT2": true, "LPT3": true,
}

// SecureFilename reduces an uploaded file name to ASCII letters, digits, '_', '-'
// and '.', so it can be joined to the upload directory safely. Path separators
// become spaces, spaces become '_', and leading or trailing dots and underscores
// are removed. The result may be empty.
func SecureFilename(name string) string {
	name = strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\':
			return ' '
		case r > unicode.MaxASCII:
			return -1
		}
		return r
	}, name)

	name = strings.Join(strings.Fields(name), "_")
	name = strings.Map(func(r rune) rune {
		if r == '_' || r == '-' || r == '.' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return -1
	}, name)
	name = strings.Trim(name, "._")

	if base := strings.ToUpper(strings.TrimSuffix(name, filepath.Ext(name))); reservedNames[base] {
		name = "_" + name
	}
	return name
}

// allowedExtension reports whether name has an accepted resume extension.
func allowedExtension(name string, allowed []string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	for _, a := range allowed {
		if ext == a {
			return true
		}
	}
	return false
}
