package model

// PayeeRenameRule maps payees matching PayeeRegex to NewName and NewMemo.
// A nil or empty PayeeRegex or NewName makes the rule inert.
type PayeeRenameRule struct {
	PayeeRegex *string `json:"payeeRegex"`
	NewName    *string `json:"newName"`
	NewMemo    *string `json:"newMemo"`
}

// Active reports whether the rule has both a pattern and a replacement name.
func (r PayeeRenameRule) Active() bool {
	return r.PayeeRegex != nil && *r.PayeeRegex != "" &&
		r.NewName != nil && *r.NewName != ""
}

// SettingsState is the persisted settings root.
type SettingsState struct {
	PayeeRenameRules []PayeeRenameRule `json:"payeeRenameRules"`
}

// DefaultSettingsState returns an empty settings state.
func DefaultSettingsState() SettingsState {
	return SettingsState{
		PayeeRenameRules: []PayeeRenameRule{},
	}
}

// Clone returns a copy of s that shares no slice storage with it.
func (s SettingsState) Clone() SettingsState {
	rules := make([]PayeeRenameRule, len(s.PayeeRenameRules))
	copy(rules, s.PayeeRenameRules)
	return SettingsState{PayeeRenameRules: rules}
}

// ValidationTypeError is the only severity currently produced.
const ValidationTypeError = "error"

// ValidationMessage is a user-facing validation result.
type ValidationMessage struct {
	Label string `json:"label"`
	Type  string `json:"type"`
}

// StrPtr returns a pointer to s. Handy for building rules.
func StrPtr(s string) *string {
	return &s
}
