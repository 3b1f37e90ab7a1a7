package source

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const blockSelector = "p, div, li, tr, h1, h2, h3, h4, h5, h6, blockquote, pre, table, ul, ol"

// HTMLText converts an HTML body to plain text. Block elements end a line,
// <br> breaks a line, links keep only their text, scripts and styles are
// dropped. Whitespace is collapsed and empty lines are removed.
func HTMLText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}
	doc.Find("script, style, head, noscript").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("li").PrependHtml("* ")
	doc.Find(blockSelector).AppendHtml("\n")

	var lines []string
	for _, l := range strings.Split(doc.Text(), "\n") {
		if l = strings.Join(strings.Fields(l), " "); l != "" {
			lines = append(lines, l)
		}
	}
	return strings.Join(lines, "\n"), nil
}
