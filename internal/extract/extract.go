// Package extract turns the rendered activity page into YNAB entries.
package extract

import (
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/wsynab/wsynab/internal/dom"
	"github.com/wsynab/wsynab/internal/model"
)

// PrivacyAttr marks the page elements that carry transaction text.
const PrivacyAttr = "data-fs-privacy-rule"

// headingDateFormat is the layout of dated group headings, e.g. "March 4, 2024".
const headingDateFormat = "January 2, 2006"

// minusSign is U+2212, which the page renders in front of outflows. An ASCII
// hyphen does not mark an outflow.
const minusSign = "−"

// Spacing on the page is often U+00A0, which \s alone does not match.
var amountPattern = regexp.MustCompile(`^(?P<negativeSign>\x{2212})?[\s\p{Zs}]*\$(?P<amount>[\d,.]+)[\s\p{Zs}]*(?P<currency>\w+)$`)

// Skip reasons recorded in Stats.
const (
	ReasonDate    = "date"
	ReasonPayee   = "payee"
	ReasonAmount  = "amount"
	ReasonPattern = "amount_format"

	// ReasonCancelled is counted in Stats.Cancelled, not Skipped.
	ReasonCancelled = "cancelled"
)

// Stats summarizes one extraction pass.
type Stats struct {
	Groups        int
	SkippedGroups int
	Entries       int
	Cancelled     int
	Skipped       map[string]int // by reason
}

// Add accumulates o into s.
func (s *Stats) Add(o Stats) {
	s.Groups += o.Groups
	s.SkippedGroups += o.SkippedGroups
	s.Entries += o.Entries
	s.Cancelled += o.Cancelled
	if s.Skipped == nil {
		s.Skipped = map[string]int{}
	}
	for reason, n := range o.Skipped {
		s.Skipped[reason] += n
	}
}

// SkippedEntries returns the number of blocks discarded for parse failures.
func (s Stats) SkippedEntries() int {
	n := 0
	for reason, c := range s.Skipped {
		if reason != ReasonDate {
			n += c
		}
	}
	return n
}

// Extractor walks a document tree for date-grouped transactions.
type Extractor struct {
	// Now returns the current time; "Today" and "Yesterday" are relative to it.
	Now func() time.Time
	// Location is used for dated headings and for the start of today.
	Location *time.Location
	Logger   zerolog.Logger
}

// New returns an Extractor using the wall clock and local time zone.
func New(logger zerolog.Logger) *Extractor {
	return &Extractor{
		Now:      time.Now,
		Location: time.Local,
		Logger:   logger,
	}
}

// Extract returns every parseable transaction under root in document order.
func (x *Extractor) Extract(root dom.Node) []model.YnabEntry {
	entries, _ := x.ExtractWithStats(root)
	return entries
}

// ExtractWithStats is Extract plus a summary of what was skipped.
func (x *Extractor) ExtractWithStats(root dom.Node) ([]model.YnabEntry, Stats) {
	stats := Stats{Skipped: map[string]int{}}
	entries := []model.YnabEntry{}

	headings := dom.FindAll(root, dom.And(dom.Tag("h2"), dom.HasAttr(PrivacyAttr)))
	for _, heading := range headings {
		stats.Groups++

		text := heading.Text()
		date, ok := x.parseDate(text)
		if !ok {
			x.Logger.Warn().Str("heading", text).Msg("failed to parse heading as date")
			stats.SkippedGroups++
			stats.Skipped[ReasonDate]++
			continue
		}

		for _, block := range groupBlocks(heading) {
			parsed, reason := x.parseTransaction(block)
			switch {
			case reason == ReasonCancelled:
				stats.Cancelled++
				continue
			case reason != "":
				stats.Skipped[reason]++
				continue
			}

			parsed.Date = date
			parsed.Memo = ""
			x.Logger.Debug().
				Str("date", date.Format(time.DateOnly)).
				Str("payee", parsed.Payee).
				Str("inflow", parsed.Inflow.String()).
				Str("outflow", parsed.Outflow.String()).
				Msg("extracted transaction")
			entries = append(entries, parsed)
		}
	}

	stats.Entries = len(entries)
	return entries, stats
}

func (x *Extractor) today() time.Time {
	loc := x.location()
	now := x.Now().In(loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
}

func (x *Extractor) location() *time.Location {
	if x.Location == nil {
		return time.Local
	}
	return x.Location
}

// parseDate understands "Today", "Yesterday" and "March 4, 2024".
func (x *Extractor) parseDate(text string) (time.Time, bool) {
	s := strings.TrimSpace(text)
	switch strings.ToLower(s) {
	case "today":
		return x.today(), true
	case "yesterday":
		return x.today().AddDate(0, 0, -1), true
	}

	d, err := time.ParseInLocation(headingDateFormat, s, x.location())
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// groupBlocks returns the div siblings after heading up to the first
// non-div sibling. Empty divs are skipped without ending the group.
func groupBlocks(heading dom.Node) []dom.Node {
	var blocks []dom.Node
	for n := heading.NextSibling(); n != nil; n = n.NextSibling() {
		if n.Tag() != "div" {
			break
		}
		if len(n.Children()) == 0 {
			continue
		}
		blocks = append(blocks, n)
	}
	return blocks
}

// parseTransaction reads payee and amount from a transaction block. The
// second return is a skip reason, ReasonCancelled, or "" on success.
func (x *Extractor) parseTransaction(block dom.Node) (model.YnabEntry, string) {
	if isCancelled(block) {
		return model.YnabEntry{}, ReasonCancelled
	}

	container := dom.Find(block, dom.And(dom.Tag("div"), dom.FirstChild, dom.ChildOf(dom.Tag("button"))))
	var payeeNode, amountNode dom.Node
	if container != nil {
		children := container.Children()
		if len(children) > 0 {
			payeeNode = dom.Find(children[0], dom.And(
				dom.Tag("p"),
				dom.HasAttr(PrivacyAttr),
				dom.ChildOf(dom.And(dom.Tag("div"), dom.Not(dom.Contains(dom.Tag("svg"))))),
			))
		}
		if len(children) > 1 {
			amountNode = dom.Find(children[1], dom.And(dom.Tag("p"), dom.HasAttr(PrivacyAttr)))
		}
	}

	if payeeNode == nil {
		x.Logger.Warn().Str("block", dom.Render(block)).Msg("failed to parse payee")
		return model.YnabEntry{}, ReasonPayee
	}
	if amountNode == nil {
		x.Logger.Warn().Str("block", dom.Render(block)).Msg("failed to parse amount")
		return model.YnabEntry{}, ReasonAmount
	}

	amountText := strings.TrimSpace(amountNode.Text())
	negative, amount, err := parseAmount(amountText)
	if err != nil {
		x.Logger.Warn().Err(err).Str("amount", amountText).Msg("failed to parse amount")
		return model.YnabEntry{}, ReasonPattern
	}

	entry := model.YnabEntry{
		Payee:   strings.TrimSpace(payeeNode.Text()),
		Inflow:  decimal.Zero,
		Outflow: decimal.Zero,
	}
	if negative {
		entry.Outflow = amount
	} else {
		entry.Inflow = amount
	}
	return entry, ""
}

// isCancelled reports whether the block's status label reads "cancelled".
func isCancelled(block dom.Node) bool {
	label := dom.QuerySelector(block,
		dom.Tag("button"),
		dom.And(dom.Tag("div"), dom.HasAttr(PrivacyAttr)),
		dom.Tag("span"),
	)
	return label != nil && strings.EqualFold(strings.TrimSpace(label.Text()), "cancelled")
}
