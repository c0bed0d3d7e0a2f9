package rules

import (
	"regexp"

	"github.com/wsynab/wsynab/internal/model"
)

// Renamer holds the active rules with their patterns compiled, so a batch
// of entries compiles each pattern once.
type Renamer struct {
	rules []compiledRule
}

type compiledRule struct {
	index int
	re    *regexp.Regexp
	rule  model.PayeeRenameRule
}

// NewRenamer compiles rules. Inactive rules and patterns that do not
// compile are dropped; the others keep their priority order.
func NewRenamer(rules []model.PayeeRenameRule) *Renamer {
	r := &Renamer{}
	for i, rule := range rules {
		if !rule.Active() {
			continue
		}
		re, err := regexp.Compile(*rule.PayeeRegex)
		if err != nil {
			continue
		}
		r.rules = append(r.rules, compiledRule{index: i, re: re, rule: rule})
	}
	return r
}

// Match returns the index, in the rules passed to NewRenamer, of the first
// rule matching anywhere in payee, or -1.
func (r *Renamer) Match(payee string) int {
	if c := r.match(payee); c != nil {
		return c.index
	}
	return -1
}

// Rename returns entry rewritten by the first matching rule and whether a
// rule applied.
func (r *Renamer) Rename(entry model.YnabEntry) (model.YnabEntry, bool) {
	c := r.match(entry.Payee)
	if c == nil {
		return entry, false
	}

	renamed := entry
	renamed.Payee = *c.rule.NewName
	renamed.Memo = ""
	if c.rule.NewMemo != nil {
		renamed.Memo = *c.rule.NewMemo
	}
	return renamed, true
}

func (r *Renamer) match(payee string) *compiledRule {
	for i := range r.rules {
		if r.rules[i].re.MatchString(payee) {
			return &r.rules[i]
		}
	}
	return nil
}

// MatchingRule returns the index of the first active rule whose pattern
// matches anywhere in payee, or -1. Rules that do not compile are skipped.
func MatchingRule(rules []model.PayeeRenameRule, payee string) int {
	return NewRenamer(rules).Match(payee)
}

// RenamePayee returns entry with payee and memo taken from the first
// matching rule. entry is returned unchanged when nothing matches.
func RenamePayee(rules []model.PayeeRenameRule, entry model.YnabEntry) model.YnabEntry {
	renamed, _ := NewRenamer(rules).Rename(entry)
	return renamed
}

// RenameAll applies the rules to each entry. It returns a new slice and
// the number of entries a rule applied to.
func RenameAll(rules []model.PayeeRenameRule, entries []model.YnabEntry) ([]model.YnabEntry, int) {
	r := NewRenamer(rules)
	out := make([]model.YnabEntry, len(entries))
	renamed := 0
	for i, e := range entries {
		var ok bool
		out[i], ok = r.Rename(e)
		if ok {
			renamed++
		}
	}
	return out, renamed
}
