package settings

import (
	"fmt"

	"github.com/wsynab/wsynab/internal/model"
)

// AddRule returns state with rule appended.
func AddRule(state model.SettingsState, rule model.PayeeRenameRule) model.SettingsState {
	next := state.Clone()
	next.PayeeRenameRules = append(next.PayeeRenameRules, rule)
	return next
}

// DeleteRule returns state without the rule at idx.
func DeleteRule(state model.SettingsState, idx int) (model.SettingsState, error) {
	if err := checkIndex(state, idx); err != nil {
		return state, err
	}
	next := state.Clone()
	next.PayeeRenameRules = append(next.PayeeRenameRules[:idx], next.PayeeRenameRules[idx+1:]...)
	return next, nil
}

// EditRule returns state with the rule at idx replaced.
func EditRule(state model.SettingsState, idx int, rule model.PayeeRenameRule) (model.SettingsState, error) {
	if err := checkIndex(state, idx); err != nil {
		return state, err
	}
	next := state.Clone()
	next.PayeeRenameRules[idx] = rule
	return next, nil
}

// MoveRule returns state with the rule at from moved to position to.
func MoveRule(state model.SettingsState, from, to int) (model.SettingsState, error) {
	if err := checkIndex(state, from); err != nil {
		return state, err
	}
	if err := checkIndex(state, to); err != nil {
		return state, err
	}
	next := state.Clone()
	r := next.PayeeRenameRules[from]
	rules := append(next.PayeeRenameRules[:from], next.PayeeRenameRules[from+1:]...)
	rules = append(rules[:to], append([]model.PayeeRenameRule{r}, rules[to:]...)...)
	next.PayeeRenameRules = rules
	return next, nil
}

func checkIndex(state model.SettingsState, idx int) error {
	if idx < 0 || idx >= len(state.PayeeRenameRules) {
		return fmt.Errorf("%w: %d (have %d rules)", ErrNoSuchRule, idx, len(state.PayeeRenameRules))
	}
	return nil
}
