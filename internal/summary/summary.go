// Package summary renders compact, token-bounded text and CSV digests of an
// analyzed ledger sheet for an external AI reviewer.
package summary

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"fjacquet/gl-audit/internal/common"
	"fjacquet/gl-audit/internal/logging"
	"fjacquet/gl-audit/internal/models"
	"fjacquet/gl-audit/internal/stats"
)

const (
	// CharsPerToken is the rough character count of one model token.
	CharsPerToken = 4
	// DefaultTokenBudget bounds a full summary when none is configured.
	DefaultTokenBudget = 6000
	// DefaultTopN limits the anomaly and relation tables.
	DefaultTopN = 20

	truncationMarker = "... (%d more rows omitted)"
)

// Section titles.
const (
	SectionMonthly   = "Monthly totals"
	SectionBenford   = "Benford first-digit test"
	SectionAnomalies = "Top anomalies"
	SectionRelations = "Top account relationships"
	SectionSample    = "Sampled transactions (CSV)"
)

// sectionShares split the token budget; the sample carries the most detail.
var sectionShares = map[string]float64{
	SectionMonthly:   0.15,
	SectionBenford:   0.10,
	SectionAnomalies: 0.20,
	SectionRelations: 0.15,
	SectionSample:    0.40,
}

// EstimateTokens approximates the token count of s.
func EstimateTokens(s string) int {
	return (utf8.RuneCountInString(s) + CharsPerToken - 1) / CharsPerToken
}

// Section is one titled block of a Summary.
type Section struct {
	Title     string `json:"title" yaml:"title"`
	Body      string `json:"body" yaml:"body"`
	Truncated bool   `json:"truncated" yaml:"truncated"`
}

// Summary is the bounded digest of one sheet.
type Summary struct {
	Sheet    string    `json:"sheet" yaml:"sheet"`
	Sections []Section `json:"sections" yaml:"sections"`
}

// String renders the summary as plain text with one heading per section.
func (s Summary) String() string {
	var b strings.Builder
	if s.Sheet != "" {
		fmt.Fprintf(&b, "# %s\n\n", s.Sheet)
	}
	for i, sec := range s.Sections {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "## %s\n%s\n", sec.Title, sec.Body)
	}
	return b.String()
}

// Tokens estimates the size of the rendered summary.
func (s Summary) Tokens() int {
	return EstimateTokens(s.String())
}

// Section returns the section with the given title.
func (s Summary) Section(title string) (Section, bool) {
	for _, sec := range s.Sections {
		if sec.Title == title {
			return sec, true
		}
	}
	return Section{}, false
}

// Input is everything the Builder can summarize. Zero-valued parts are
// skipped.
type Input struct {
	Sheet        string
	Transactions []models.Transaction
	Benford      *stats.BenfordReport
	Anomalies    []models.AnomalyResult
	Relations    []models.RelationEdge
	Sample       *models.SampleSet
}

// Builder produces Summaries within a token budget.
type Builder struct {
	tokenBudget int
	topN        int
	logger      logging.Logger
}

// NewBuilder creates a Builder. Non-positive budget or topN select the
// defaults.
func NewBuilder(tokenBudget, topN int, logger logging.Logger) *Builder {
	if tokenBudget <= 0 {
		tokenBudget = DefaultTokenBudget
	}
	if topN <= 0 {
		topN = DefaultTopN
	}
	return &Builder{tokenBudget: tokenBudget, topN: topN, logger: logging.OrDefault(logger)}
}

// TokenBudget returns the configured budget.
func (b *Builder) TokenBudget() int { return b.tokenBudget }

// Build renders every available section of in.
func (b *Builder) Build(in Input) Summary {
	out := Summary{Sheet: in.Sheet}

	if len(in.Transactions) > 0 {
		out.Sections = append(out.Sections, b.monthly(in.Transactions))
	}
	if in.Benford != nil && in.Benford.Total > 0 {
		out.Sections = append(out.Sections, b.benford(*in.Benford))
	}
	if len(in.Anomalies) > 0 {
		out.Sections = append(out.Sections, b.anomalies(in.Anomalies))
	}
	if len(in.Relations) > 0 {
		out.Sections = append(out.Sections, b.relations(in.Relations))
	}
	if in.Sample != nil && in.Sample.Size() > 0 {
		sec, err := b.sample(*in.Sample)
		if err != nil {
			b.logger.WithError(err).Warn("Failed to render sample CSV", logging.F(logging.FieldSheet, in.Sheet))
		} else {
			out.Sections = append(out.Sections, sec)
		}
	}

	b.logger.Debug("Built summary",
		logging.F(logging.FieldSheet, in.Sheet),
		logging.F("sections", len(out.Sections)),
		logging.F("tokens", out.Tokens()))
	return out
}

func (b *Builder) budget(title string) int {
	return int(float64(b.tokenBudget) * sectionShares[title])
}

// monthly keeps the most recent months when the table does not fit.
func (b *Builder) monthly(txs []models.Transaction) Section {
	totals := stats.Monthly(txs)
	lines := make([]string, len(totals))
	for i, t := range totals {
		lines[i] = fmt.Sprintf("%s | %d | %s | %s", t.Month, t.Count, t.Debit.StringFixed(0), t.Credit.StringFixed(0))
	}
	body, truncated := fit("month | count | debit | credit", lines, b.budget(SectionMonthly), true)
	return Section{Title: SectionMonthly, Body: body, Truncated: truncated}
}

func (b *Builder) benford(r stats.BenfordReport) Section {
	lines := make([]string, 0, len(r.Digits)+1)
	for _, d := range r.Digits {
		lines = append(lines, fmt.Sprintf("%d | %d | %.1f%% | %.1f%% | %+.1f",
			d.Digit, d.ActualCount, d.ActualPercent, d.BenfordPercent, d.Difference))
	}
	verdict := fmt.Sprintf("n=%d, MAD=%.4f (%s), chi2=%.2f, p=%.4f", r.Total, r.MAD, r.Conformity, r.ChiSquare, r.PValue)
	if r.LowConfidence {
		verdict += ", low confidence: sample too small"
	}
	body, truncated := fit("digit | count | actual | expected | diff", lines, b.budget(SectionBenford), false)
	return Section{Title: SectionBenford, Body: body + "\n" + verdict, Truncated: truncated}
}

// anomalies expects results ranked most severe first and drops from the tail.
func (b *Builder) anomalies(results []models.AnomalyResult) Section {
	n := min(len(results), b.topN)
	lines := make([]string, 0, n)
	for _, r := range results[:n] {
		lines = append(lines, fmt.Sprintf("%d | %s | %s | %.0f | %s | %s",
			r.Row, r.Date, r.Account, r.Amount, r.Severity, strings.Join(r.Reasons, "; ")))
	}
	body, truncated := fit("row | date | account | amount | severity | reasons", lines, b.budget(SectionAnomalies), false)
	return Section{Title: SectionAnomalies, Body: body, Truncated: truncated || n < len(results)}
}

func (b *Builder) relations(edges []models.RelationEdge) Section {
	n := min(len(edges), b.topN)
	lines := make([]string, 0, n)
	for _, e := range edges[:n] {
		lines = append(lines, fmt.Sprintf("%s -> %s | %d | %s", e.Source, e.Target, e.Count, e.Amount.StringFixed(0)))
	}
	body, truncated := fit("debit -> credit | count | amount", lines, b.budget(SectionRelations), false)
	return Section{Title: SectionRelations, Body: body, Truncated: truncated || n < len(edges)}
}

// sampleRow is the CSV shape handed to the reviewer.
type sampleRow struct {
	Date        string `csv:"date"`
	Description string `csv:"description"`
	Debit       string `csv:"debit"`
	Credit      string `csv:"credit"`
}

// sample renders the sample as CSV, keeping the earliest-chosen (most
// material) rows when it does not fit.
func (b *Builder) sample(set models.SampleSet) (Section, error) {
	rows := make([]sampleRow, len(set.Transactions))
	for i, tx := range set.Transactions {
		rows[i] = sampleRow{
			Date:        tx.Date,
			Description: tx.Description,
			Debit:       tx.Debit.String(),
			Credit:      tx.Credit.String(),
		}
	}
	var buf bytes.Buffer
	if err := common.MarshalCSV(&buf, rows, ','); err != nil {
		return Section{}, err
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	body, truncated := fit(lines[0], lines[1:], b.budget(SectionSample), false)
	return Section{Title: SectionSample, Body: body, Truncated: truncated}, nil
}

// fit joins header and lines, dropping lines until the estimate is within
// budget. dropFront drops from the start of lines instead of the end. A
// marker line records how many were dropped. The header is always kept.
func fit(header string, lines []string, budget int, dropFront bool) (string, bool) {
	render := func(kept []string, dropped int) string {
		parts := make([]string, 0, len(kept)+2)
		parts = append(parts, header)
		if dropped > 0 && dropFront {
			parts = append(parts, fmt.Sprintf(truncationMarker, dropped))
		}
		parts = append(parts, kept...)
		if dropped > 0 && !dropFront {
			parts = append(parts, fmt.Sprintf(truncationMarker, dropped))
		}
		return strings.Join(parts, "\n")
	}

	body := render(lines, 0)
	if EstimateTokens(body) <= budget {
		return body, false
	}

	total := EstimateTokens(header) + 1
	kept := 0
	if dropFront {
		for i := len(lines) - 1; i >= 0; i-- {
			cost := EstimateTokens(lines[i]) + 1
			if total+cost > budget-markerTokens {
				break
			}
			total += cost
			kept++
		}
		return render(lines[len(lines)-kept:], len(lines)-kept), true
	}
	for _, line := range lines {
		cost := EstimateTokens(line) + 1
		if total+cost > budget-markerTokens {
			break
		}
		total += cost
		kept++
	}
	return render(lines[:kept], len(lines)-kept), true
}

var markerTokens = EstimateTokens(fmt.Sprintf(truncationMarker, 100000)) + 1
