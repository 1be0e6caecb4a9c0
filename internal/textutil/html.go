package textutil

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Flatten renders a description blob down to plain text. Some publishers ship
// HTML descriptions; scoring wants the words, not the markup. Input that
// doesn't look like markup is returned with whitespace collapsed.
func Flatten(s string) string {
	if !strings.ContainsRune(s, '<') {
		return collapse(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return collapse(s)
	}
	return collapse(doc.Text())
}

func collapse(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.Join(strings.Fields(s), " ")
}
