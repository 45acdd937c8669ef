package signature

import (
	"strings"

	"golang.org/x/net/html"
)

// StripMarkup returns an HTML fragment with every tag and comment replaced
// by a space. Text is copied raw, so entities such as "&amp;" survive as
// written. Malformed markup never fails; whatever text the tokenizer
// recovers is kept.
func StripMarkup(fragment string) string {
	if !strings.Contains(fragment, "<") {
		return fragment
	}

	var sb strings.Builder
	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return sb.String()
		case html.TextToken:
			sb.Write(z.Raw())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken, html.CommentToken, html.DoctypeToken:
			sb.WriteByte(' ')
		}
	}
}
