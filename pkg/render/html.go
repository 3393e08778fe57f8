// Package render produces human-readable views of records.
package render

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/russross/blackfriday/v2"

	"marcserializer/pkg/alephseq"
	"marcserializer/pkg/marc"
)

// Characters blackfriday treats as markup unless escaped.
const markdownSpecial = "\\`*_{}[]()#+-.!:|&<>~"

// Markdown renders a record as a markdown section: a heading with the control
// number, the leader and format, and a table with one row per field.
func Markdown(record *marc.Record) string {
	var b strings.Builder

	title := "Record"
	if f, ok := record.First("001"); ok && f.Value != "" {
		title = "Record " + escape(f.Value)
	}
	b.WriteString("## " + title + "\n\n")
	b.WriteString("**Leader** " + escape(record.Leader) + "\n\n")
	b.WriteString("**Format** " + string(alephseq.Classify(record.Leader)) + "\n\n")

	b.WriteString("| Tag | Ind | Content |\n")
	b.WriteString("| --- | --- | --- |\n")
	for _, f := range record.Fields() {
		b.WriteString("| " + escape(f.Tag) + " | ")
		if f.IsControl() {
			b.WriteString(" | " + escape(f.Value))
		} else {
			b.WriteString(escape(blank(f.Ind1)+blank(f.Ind2)) + " | ")
			parts := make([]string, 0, len(f.Subfields))
			for _, sf := range f.Subfields {
				parts = append(parts, "‡"+escape(sf.Code)+" "+escape(sf.Value))
			}
			b.WriteString(strings.Join(parts, " "))
		}
		b.WriteString(" |\n")
	}
	b.WriteString("\n")

	return b.String()
}

// HTML renders a record to sanitized HTML. Record content is untrusted and
// never passes through as markup.
func HTML(record *marc.Record) string {
	unsafeHTML := blackfriday.Run(
		[]byte(Markdown(record)),
		blackfriday.WithExtensions(
			blackfriday.CommonExtensions|
				blackfriday.AutoHeadingIDs,
		),
	)

	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("id").Matching(bluemonday.SpaceSeparatedTokens).OnElements("h2")

	return string(policy.SanitizeBytes(unsafeHTML))
}

// blank shows an empty indicator as "_".
func blank(ind string) string {
	if ind == "" || ind == " " {
		return "_"
	}
	return ind
}

func escape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if strings.ContainsRune(markdownSpecial, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
