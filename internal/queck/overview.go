package queck

import (
	"github.com/queckhq/queck/internal/answer"
	"github.com/queckhq/queck/internal/microfmt"
	"github.com/shopspring/decimal"
)

// Labels maps answer type tags and item kinds to display names.
type Labels map[string]string

// Get returns the display name for a tag, falling back to the tag
// itself.
func (l Labels) Get(tag string) string {
	if v, ok := l[tag]; ok {
		return v
	}
	return tag
}

// DefaultLabels returns the built-in English display names.
func DefaultLabels() Labels {
	return Labels{
		answer.TypeSingleSelect:   "Single Select",
		answer.TypeMultipleSelect: "Multiple Select",
		answer.TypeInteger:        "Numerical",
		answer.TypeRange:          "Numerical",
		answer.TypeTolerance:      "Numerical",
		answer.TypeShortAnswer:    "Short Answer",
		answer.TypeTrueOrFalse:    "True/False",
		ItemTypeCommonData:        "Common Data",
		ItemTypeDescription:       "Description",
	}
}

// Stat is one overview row: a display label with the number of
// questions and the marks behind it. Bank and common-data rows carry a
// breakdown of their contents.
type Stat struct {
	Label     string
	Count     int
	Marks     microfmt.Number
	Breakdown []Stat
}

// Overview summarizes a quiz by answer type. Rows follow the canonical
// answer-type order, descriptions are skipped and the three numerical
// forms share one row under the default labels. Common-data groups come
// last with a breakdown of their sub-questions. For a bank the rows are
// the nested quizzes instead, each carrying its own overview as the
// breakdown.
func Overview(q *Queck, labels Labels) []Stat {
	if q.IsBank() {
		out := make([]Stat, 0, len(q.Items))
		for _, it := range q.Items {
			child, ok := it.(*Queck)
			if !ok {
				continue
			}
			out = append(out, Stat{
				Label:     child.Title,
				Count:     child.QuestionCount(),
				Marks:     child.TotalMarks(),
				Breakdown: Overview(child, labels),
			})
		}
		return out
	}
	c := &overviewCollector{
		labels: labels,
		main:   newOverviewAcc(labels),
		cd:     newOverviewAcc(labels),
	}
	c.walk(q)
	out := c.main.stats()
	if c.cdCount > 0 {
		out = append(out, Stat{
			Label:     labels.Get(ItemTypeCommonData),
			Count:     c.cdCount,
			Marks:     numberFromDecimal(c.cdMarks),
			Breakdown: c.cd.stats(),
		})
	}
	return out
}

type overviewCollector struct {
	labels  Labels
	main    *overviewAcc
	cd      *overviewAcc
	cdCount int
	cdMarks decimal.Decimal
}

func (c *overviewCollector) walk(q *Queck) {
	for _, it := range q.Items {
		switch v := it.(type) {
		case *Question:
			c.main.add(c.labels.Get(v.Answer.TypeTag()), decimalFromNumber(v.Marks))
		case *CommonDataQuestion:
			for _, sub := range v.Questions {
				marks := decimalFromNumber(sub.Marks)
				c.cd.add(c.labels.Get(sub.Answer.TypeTag()), marks)
				c.cdCount++
				c.cdMarks = c.cdMarks.Add(marks)
			}
		case *Queck:
			c.walk(v)
		}
	}
}

type overviewAcc struct {
	labels Labels
	rows   map[string]*statRow
}

type statRow struct {
	count int
	marks decimal.Decimal
}

func newOverviewAcc(labels Labels) *overviewAcc {
	return &overviewAcc{labels: labels, rows: map[string]*statRow{}}
}

func (a *overviewAcc) add(label string, marks decimal.Decimal) {
	r := a.rows[label]
	if r == nil {
		r = &statRow{}
		a.rows[label] = r
	}
	r.count++
	r.marks = r.marks.Add(marks)
}

// stats returns the accumulated rows, ordered by the first answer type
// that maps to each label.
func (a *overviewAcc) stats() []Stat {
	var out []Stat
	seen := map[string]bool{}
	for _, tag := range answer.TypeOrder {
		label := a.labels.Get(tag)
		if seen[label] {
			continue
		}
		seen[label] = true
		if r, ok := a.rows[label]; ok {
			out = append(out, Stat{Label: label, Count: r.count, Marks: numberFromDecimal(r.marks)})
		}
	}
	return out
}
