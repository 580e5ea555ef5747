package kml

import (
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const defaultTitle = "Overlay"

// TitleFromPath derives a display name from an archive path, e.g.
// "usgs_topo-1982.kmz" becomes "Usgs Topo 1982".
func TitleFromPath(sourcePath string) string {
	base := filepath.Base(sourcePath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	words := strings.FieldsFunc(stem, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	if sourcePath == "" || len(words) == 0 {
		return defaultTitle
	}
	return cases.Title(language.Und).String(strings.Join(words, " "))
}
