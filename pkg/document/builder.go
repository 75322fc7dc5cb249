package document

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/de-tools/report-relay/pkg/models/domain"
	"github.com/jung-kurt/gofpdf/v2"
)

const (
	marginLeft  = 15.0
	marginTop   = 12.0
	tableWidth  = 180.0
	lineHeight  = 5.0
	pageBreakAt = 260.0 // vertical cursor past this starts a new page
)

type column struct {
	title  string
	width  float64
	budget int // character budget before truncation
}

// Fixed column layout; only the trailing observations column wraps.
var columns = []column{
	{"Locality", 24, 15},
	{"Route", 20, 12},
	{"Client", 34, 21},
	{"Signed", 18, 10},
	{"Subject", 20, 9},
	{"Problems", 40, 25},
	{"Observations", 24, 0},
}

// Builder renders aggregated problem rows into a paginated PDF artifact.
type Builder struct {
	title string
}

func NewBuilder(title string) *Builder {
	if title == "" {
		title = "Document Problem Report"
	}
	return &Builder{title: title}
}

// Build renders the report for the given week groups. Empty input produces a
// single confirmation page instead of an empty table.
func (b *Builder) Build(groups []domain.WeekGroup, periodLabel string, generatedAt time.Time) ([]byte, error) {
	pdf := b.render(groups, periodLabel, generatedAt)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render document: %w", err)
	}
	return buf.Bytes(), nil
}

func (b *Builder) render(groups []domain.WeekGroup, periodLabel string, generatedAt time.Time) *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(marginLeft, marginTop, marginLeft)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AliasNbPages("{nb}")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Arial", "", 8)
		pdf.SetTextColor(108, 117, 125)
		pdf.SetX(marginLeft)
		pdf.CellFormat(0, 8, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	b.addHeaderBand(pdf, periodLabel, generatedAt)

	var rows []domain.ProblemRecord
	for _, g := range groups {
		rows = append(rows, g.Rows...)
	}

	if len(rows) == 0 {
		b.addEmptyPage(pdf)
		return pdf
	}

	b.addSummary(pdf, rows)

	pdf.AddPage()
	b.addHeaderBand(pdf, periodLabel, generatedAt)
	b.addTable(pdf, groups, periodLabel, generatedAt)

	pdf.AddPage()
	b.addHeaderBand(pdf, periodLabel, generatedAt)
	b.addActionPlan(pdf, rows)

	return pdf
}

// addHeaderBand draws the branded band repeated at the top of every page.
func (b *Builder) addHeaderBand(pdf *gofpdf.Fpdf, periodLabel string, generatedAt time.Time) {
	pdf.SetFillColor(0, 71, 133)
	pdf.Rect(marginLeft, marginTop, tableWidth, 14, "F")

	pdf.SetFont("Arial", "B", 14)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetXY(marginLeft+4, marginTop+2)
	pdf.CellFormat(110, 10, b.title, "", 0, "L", false, 0, "")

	pdf.SetFont("Arial", "", 9)
	pdf.SetXY(marginLeft+4, marginTop+2)
	label := periodLabel
	if label == "" {
		label = generatedAt.Format("2006-01-02")
	}
	pdf.CellFormat(tableWidth-8, 10, label, "", 0, "R", false, 0, "")

	pdf.SetTextColor(33, 37, 41)
	pdf.SetY(marginTop + 20)
}

func (b *Builder) addEmptyPage(pdf *gofpdf.Fpdf) {
	pdf.Ln(30)
	pdf.SetFont("Arial", "B", 16)
	pdf.SetTextColor(25, 135, 84)
	pdf.CellFormat(0, 12, "No document problems found", "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.SetTextColor(108, 117, 125)
	pdf.SetX(marginLeft)
	pdf.CellFormat(0, 8, "All loan files in the reporting window are complete.", "", 0, "C", false, 0, "")
}

func (b *Builder) addSummary(pdf *gofpdf.Fpdf, rows []domain.ProblemRecord) {
	stats := computeStats(rows)

	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(0, 9, "Executive Summary", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	b.addStatLine(pdf, "Affected clients", stats.affectedClients)
	b.addStatLine(pdf, "Client document rows", stats.clientRows)
	b.addStatLine(pdf, "Guarantor document rows", stats.guarantorRows)
	pdf.Ln(4)

	b.addCountTable(pdf, "By locality", stats.byLocality)
	pdf.Ln(4)
	b.addCountTable(pdf, "By document type", stats.byDocType)
}

func (b *Builder) addStatLine(pdf *gofpdf.Fpdf, label string, value int) {
	pdf.SetFont("Arial", "", 10)
	pdf.SetX(marginLeft)
	pdf.CellFormat(70, 6, label, "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(20, 6, fmt.Sprintf("%d", value), "", 1, "R", false, 0, "")
}

func (b *Builder) addCountTable(pdf *gofpdf.Fpdf, title string, counts []labelCount) {
	pdf.SetFont("Arial", "B", 11)
	pdf.SetX(marginLeft)
	pdf.CellFormat(0, 7, title, "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 9)
	for i, c := range counts {
		if i%2 == 1 {
			pdf.SetFillColor(248, 249, 250)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		pdf.SetX(marginLeft)
		pdf.CellFormat(70, 6, truncate(c.label, 40), "", 0, "L", true, 0, "")
		pdf.CellFormat(20, 6, fmt.Sprintf("%d", c.count), "", 1, "R", true, 0, "")
	}
}

func (b *Builder) addTable(pdf *gofpdf.Fpdf, groups []domain.WeekGroup, periodLabel string, generatedAt time.Time) {
	b.addTableHeader(pdf)

	for gi, group := range groups {
		shaded := gi%2 == 0
		for _, row := range group.Rows {
			b.addRow(pdf, row, shaded, periodLabel, generatedAt)
		}
	}
}

func (b *Builder) addTableHeader(pdf *gofpdf.Fpdf) {
	pdf.SetFont("Arial", "B", 8)
	pdf.SetFillColor(0, 71, 133)
	pdf.SetTextColor(255, 255, 255)

	pdf.SetX(marginLeft)
	for _, col := range columns {
		pdf.CellFormat(col.width, 7, col.title, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetTextColor(33, 37, 41)
}

func (b *Builder) addRow(pdf *gofpdf.Fpdf, row domain.ProblemRecord, shaded bool, periodLabel string, generatedAt time.Time) {
	obsCol := columns[len(columns)-1]
	obsLines := pdf.SplitText(row.Observations, obsCol.width-2)
	if len(obsLines) == 0 {
		obsLines = []string{""}
	}
	rowHeight := float64(len(obsLines)) * lineHeight
	if rowHeight < lineHeight {
		rowHeight = lineHeight
	}

	if pdf.GetY()+rowHeight > pageBreakAt {
		pdf.AddPage()
		b.addHeaderBand(pdf, periodLabel, generatedAt)
		b.addTableHeader(pdf)
	}

	if shaded {
		pdf.SetFillColor(235, 242, 250)
	} else {
		pdf.SetFillColor(255, 255, 255)
	}

	values := []string{
		row.Locality,
		row.RouteName,
		row.ClientName,
		row.SignDate.Format("2006-01-02"),
		string(row.Subject),
		strings.Join(row.Problems, ", "),
	}

	pdf.SetFont("Arial", "", 8)
	y := pdf.GetY()
	x := marginLeft
	for i, col := range columns[:len(columns)-1] {
		pdf.Rect(x, y, col.width, rowHeight, "FD")
		pdf.SetXY(x+1, y)
		pdf.CellFormat(col.width-2, lineHeight, truncate(values[i], col.budget), "", 0, "L", false, 0, "")
		x += col.width
	}

	// Observations is the only wrapping column.
	pdf.Rect(x, y, obsCol.width, rowHeight, "FD")
	for li, line := range obsLines {
		pdf.SetXY(x+1, y+float64(li)*lineHeight)
		pdf.CellFormat(obsCol.width-2, lineHeight, line, "", 0, "L", false, 0, "")
	}

	pdf.SetY(y + rowHeight)
}

func (b *Builder) addActionPlan(pdf *gofpdf.Fpdf, rows []domain.ProblemRecord) {
	high, medium := priorityBuckets(rows)

	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(0, 9, "Action Plan", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	b.addPriorityBucket(pdf, "High priority - missing documents", high, 192, 57, 43)
	pdf.Ln(4)
	b.addPriorityBucket(pdf, "Medium priority - erroneous documents", medium, 211, 132, 0)
}

func (b *Builder) addPriorityBucket(pdf *gofpdf.Fpdf, title string, rows []domain.ProblemRecord, r, g, bl int) {
	pdf.SetFont("Arial", "B", 11)
	pdf.SetTextColor(r, g, bl)
	pdf.SetX(marginLeft)
	pdf.CellFormat(0, 7, title, "", 1, "L", false, 0, "")
	pdf.SetTextColor(33, 37, 41)

	pdf.SetFont("Arial", "", 9)
	if len(rows) == 0 {
		pdf.SetX(marginLeft)
		pdf.CellFormat(0, 6, "Nothing pending.", "", 1, "L", false, 0, "")
		return
	}

	for _, row := range rows {
		if pdf.GetY()+lineHeight > pageBreakAt {
			pdf.AddPage()
			pdf.SetY(marginTop + 20)
		}
		item := fmt.Sprintf("%s (%s, %s): %s", row.ClientName, row.Locality, row.Subject, strings.Join(row.Problems, ", "))
		pdf.SetX(marginLeft)
		pdf.CellFormat(0, 6, truncate(item, 100), "", 1, "L", false, 0, "")
	}
}

type labelCount struct {
	label string
	count int
}

type summaryStats struct {
	affectedClients int
	clientRows      int
	guarantorRows   int
	byLocality      []labelCount
	byDocType       []labelCount
}

func computeStats(rows []domain.ProblemRecord) summaryStats {
	clients := map[string]bool{}
	localities := map[string]int{}
	docTypes := map[string]int{}

	stats := summaryStats{}
	for _, row := range rows {
		clients[row.ClientName] = true
		localities[row.Locality]++
		switch row.Subject {
		case domain.SubjectClient:
			stats.clientRows++
		case domain.SubjectGuarantor:
			stats.guarantorRows++
		}
		for _, p := range row.Problems {
			docTypes[stripProblemPrefix(p)]++
		}
	}

	stats.affectedClients = len(clients)
	stats.byLocality = sortedCounts(localities)
	stats.byDocType = sortedCounts(docTypes)
	return stats
}

// priorityBuckets splits rows for the action plan: any missing document puts
// the row in the high bucket; otherwise erroneous documents make it medium.
func priorityBuckets(rows []domain.ProblemRecord) (high, medium []domain.ProblemRecord) {
	for _, row := range rows {
		if hasProblemPrefix(row, "missing ") {
			high = append(high, row)
			continue
		}
		if hasProblemPrefix(row, "erroneous ") {
			medium = append(medium, row)
		}
	}
	return high, medium
}

func hasProblemPrefix(row domain.ProblemRecord, prefix string) bool {
	for _, p := range row.Problems {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	return false
}

func stripProblemPrefix(p string) string {
	p = strings.TrimPrefix(p, "missing ")
	p = strings.TrimPrefix(p, "erroneous ")
	return p
}

func sortedCounts(m map[string]int) []labelCount {
	counts := make([]labelCount, 0, len(m))
	for label, count := range m {
		counts = append(counts, labelCount{label: label, count: count})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].count != counts[j].count {
			return counts[i].count > counts[j].count
		}
		return counts[i].label < counts[j].label
	})
	return counts
}

func truncate(s string, budget int) string {
	if budget <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= budget {
		return s
	}
	if budget <= 3 {
		return string(r[:budget])
	}
	return string(r[:budget-3]) + "..."
}
