package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Judgement is what the submission row of the status JSON says about the
// test cases judged so far.
type Judgement struct {
	// Marks has one rune per judged test case: '.' accepted, 'x' rejected.
	Marks   string
	Total   int
	CPUTime string
}

// SubmissionRow reads the row_html fragment Kattis returns while judging.
// A fragment it cannot make sense of yields the zero Judgement.
func SubmissionRow(rowHTML string) Judgement {
	// a bare <tr> outside a table loses its cells when parsed
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<table>" + rowHTML + "</table>"))
	if err != nil {
		return Judgement{}
	}

	var j Judgement
	var marks strings.Builder
	empty := false
	doc.Find("i").Each(func(_ int, icon *goquery.Selection) {
		class, ok := icon.Attr("class")
		if !ok {
			return
		}
		if _, titled := icon.Attr("title"); !titled {
			return
		}
		j.Total++
		switch {
		case empty:
		case strings.Contains(class, "is-empty"):
			empty = true
		case strings.Contains(class, "accepted"):
			marks.WriteByte('.')
		case strings.Contains(class, "rejected"):
			marks.WriteByte('x')
		}
	})
	j.Marks = marks.String()
	j.CPUTime = strings.TrimSpace(doc.Find(`[data-type="cpu"]`).First().Text())
	return j
}

// CompilerOutput pulls the compiler message out of feedback_html.
func CompilerOutput(feedbackHTML string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(feedbackHTML))
	if err != nil {
		return ""
	}
	return doc.Find("pre").First().Text()
}
