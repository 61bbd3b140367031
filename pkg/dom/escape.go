package dom

import "strings"

// textEntities are escaped in text and attribute values alike.
var textEntities = []string{
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
}

var (
	textEscaper = strings.NewReplacer(textEntities...)

	// Attribute values also keep line breaks and tabs as references so
	// serialized output stays one tag per line.
	attrEscaper = strings.NewReplacer(append(textEntities[:len(textEntities):len(textEntities)],
		"\n", "&#10;",
		"\r", "&#13;",
		"\t", "&#9;",
	)...)

	commentEscaper = strings.NewReplacer("--", "- -")
)

func escapeHTML(s string) string    { return textEscaper.Replace(s) }
func escapeAttr(s string) string    { return attrEscaper.Replace(s) }
func escapeComment(s string) string { return commentEscaper.Replace(s) }
