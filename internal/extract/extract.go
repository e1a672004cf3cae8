// Package extract turns raw judge pages into structured data. Every
// dependency on Kattis' page layout lives here so a layout change surfaces
// as a single ErrParse instead of scattered breakage.
package extract

import (
	"bytes"
	"fmt"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/chrismacdonaldw/kattis-grind/internal/kgerrors"
)

type Sample struct {
	Input  string
	Output string
}

type Problem struct {
	ID      string
	Title   string
	Samples []Sample
	// Raw is the statement page exactly as downloaded.
	Raw []byte
}

type CatalogEntry struct {
	ID         string
	Name       string
	Difficulty float64
}

type Hint struct {
	Type string
	Text string
}

var submissionIDRe = regexp.MustCompile(`Submission ID: (\d+)`)

func parse(raw []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w, %v", kgerrors.ErrParse, err)
	}
	return doc, nil
}

// Statement extracts title and samples from a problem page.
func Statement(id string, raw []byte) (*Problem, error) {
	doc, err := parse(raw)
	if err != nil {
		return nil, err
	}

	body := doc.Find("div.problembody").First()
	if body.Length() == 0 {
		return nil, fmt.Errorf("%w, no problem body on page for '%s'", kgerrors.ErrParse, id)
	}

	title := strings.TrimSpace(doc.Find("h1").First().Text())
	if title == "" {
		title = id
	}

	p := &Problem{ID: id, Title: title, Raw: raw}
	body.Find("table.sample").Each(func(_ int, table *goquery.Selection) {
		pres := table.Find("pre")
		switch pres.Length() {
		case 0:
			return
		case 1:
			p.Samples = append(p.Samples, Sample{Input: sampleText(pres.Eq(0))})
		default:
			p.Samples = append(p.Samples, Sample{
				Input:  sampleText(pres.Eq(0)),
				Output: sampleText(pres.Eq(1)),
			})
		}
	})
	return p, nil
}

func sampleText(s *goquery.Selection) string {
	text := s.Text()
	if text != "" && !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	return text
}

// ProblemList parses one page of the difficulty-ordered problem listing.
// found is false when the page has no problems table at all.
func ProblemList(raw []byte) (entries []CatalogEntry, found bool, err error) {
	doc, err := parse(raw)
	if err != nil {
		return nil, false, err
	}

	tbody := doc.Find(`section[data-cy="problems-table"] tbody`).First()
	if tbody.Length() == 0 {
		tbody = doc.Find("table.problem_list tbody").First()
	}
	if tbody.Length() == 0 {
		return nil, false, nil
	}

	tbody.Find("tr").Each(func(_ int, row *goquery.Selection) {
		entry, ok := catalogRow(row)
		if ok {
			entries = append(entries, entry)
		}
	})
	return entries, true, nil
}

func catalogRow(row *goquery.Selection) (CatalogEntry, bool) {
	cells := row.Find("td")
	if cells.Length() < 7 {
		return CatalogEntry{}, false
	}

	link := cells.Eq(0).Find("a").First()
	href, ok := link.Attr("href")
	if !ok || href == "" {
		return CatalogEntry{}, false
	}
	id := path.Base(strings.TrimRight(href, "/"))
	name := strings.TrimSpace(link.Text())
	if id == "" || id == "." || id == "/" || name == "" {
		return CatalogEntry{}, false
	}

	cell := cells.Eq(6)
	text := cell.Find("span").First().Text()
	if strings.TrimSpace(text) == "" {
		text = cell.Text()
	}
	difficulty, ok := parseDifficulty(text)
	if !ok {
		return CatalogEntry{}, false
	}
	return CatalogEntry{ID: id, Name: name, Difficulty: difficulty}, true
}

// parseDifficulty reads "2.3" or a range "2.3 - 4.5", keeping the lower end.
func parseDifficulty(s string) (float64, bool) {
	lo, _, _ := strings.Cut(strings.TrimSpace(s), "-")
	d, err := strconv.ParseFloat(strings.TrimSpace(lo), 64)
	if err != nil || d < 0 {
		return 0, false
	}
	return d, true
}

// MethodsToSolve looks id up in the cpbook.net methods-to-solve table.
func MethodsToSolve(id string, raw []byte) (*Hint, bool, error) {
	doc, err := parse(raw)
	if err != nil {
		return nil, false, err
	}

	table := doc.Find("table#problemtable")
	if table.Length() == 0 {
		return nil, false, fmt.Errorf("%w, no problem table on hint page", kgerrors.ErrParse)
	}

	var hint *Hint
	table.Find("tbody tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		tds := row.Find("td")
		if tds.Length() < 4 || strings.TrimSpace(tds.Eq(0).Text()) != id {
			return true
		}
		h := Hint{
			Type: strings.TrimSpace(tds.Eq(2).Text()),
			Text: strings.TrimSpace(tds.Eq(3).Text()),
		}
		if h.Type != "" || h.Text != "" {
			hint = &h
			return false
		}
		return true
	})
	return hint, hint != nil, nil
}

// SubmissionID pulls the id out of the plain-text reply to a submission.
func SubmissionID(reply string) (string, error) {
	m := submissionIDRe.FindStringSubmatch(reply)
	if m == nil {
		return "", fmt.Errorf("%w, no submission id in reply", kgerrors.ErrParse)
	}
	return m[1], nil
}
