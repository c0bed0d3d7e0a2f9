package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPayeeRenameRuleActive(t *testing.T) {
	tests := []struct {
		name string
		rule PayeeRenameRule
		want bool
	}{
		{"complete", PayeeRenameRule{PayeeRegex: StrPtr("A"), NewName: StrPtr("B")}, true},
		{"no memo is fine", PayeeRenameRule{PayeeRegex: StrPtr("A"), NewName: StrPtr("B"), NewMemo: nil}, true},
		{"nil pattern", PayeeRenameRule{NewName: StrPtr("B")}, false},
		{"empty pattern", PayeeRenameRule{PayeeRegex: StrPtr(""), NewName: StrPtr("B")}, false},
		{"nil name", PayeeRenameRule{PayeeRegex: StrPtr("A")}, false},
		{"empty name", PayeeRenameRule{PayeeRegex: StrPtr("A"), NewName: StrPtr("")}, false},
		{"zero value", PayeeRenameRule{}, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.rule.Active(), tt.name)
	}
}

func TestSettingsStateClone(t *testing.T) {
	s := SettingsState{PayeeRenameRules: []PayeeRenameRule{{PayeeRegex: StrPtr("A")}}}
	c := s.Clone()
	c.PayeeRenameRules[0] = PayeeRenameRule{PayeeRegex: StrPtr("Z")}

	assert.Equal(t, "A", *s.PayeeRenameRules[0].PayeeRegex)
	assert.Equal(t, "Z", *c.PayeeRenameRules[0].PayeeRegex)
}

func TestDefaultSettingsState(t *testing.T) {
	s := DefaultSettingsState()
	assert.NotNil(t, s.PayeeRenameRules)
	assert.Empty(t, s.PayeeRenameRules)
}
