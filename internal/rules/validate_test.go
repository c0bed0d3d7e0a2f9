package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wsynab/wsynab/internal/model"
)

func TestValidateRegex_NilAndEmpty(t *testing.T) {
	assert.Nil(t, ValidateRegex(nil))
	assert.Nil(t, ValidateRegex(model.StrPtr("")))
}

func TestValidateRegex_Valid(t *testing.T) {
	for _, p := range []string{"abc.*", "STARBUCKS", `^UBER\s+\*?EATS`, "(?i)tim hortons"} {
		assert.Nil(t, ValidateRegex(model.StrPtr(p)), "pattern %q", p)
	}
}

func TestValidateRegex_Invalid(t *testing.T) {
	msg := ValidateRegex(model.StrPtr("["))
	require.NotNil(t, msg)
	assert.Equal(t, "error", msg.Type)
	assert.Contains(t, msg.Label, "missing closing ]")
}

func TestValidateRegex_Deterministic(t *testing.T) {
	a := ValidateRegex(model.StrPtr("(unclosed"))
	b := ValidateRegex(model.StrPtr("(unclosed"))
	require.NotNil(t, a)
	assert.Equal(t, *a, *b)
}

func TestValidateRules(t *testing.T) {
	rules := []model.PayeeRenameRule{
		{PayeeRegex: model.StrPtr("ok"), NewName: model.StrPtr("Ok")},
		{PayeeRegex: model.StrPtr("["), NewName: model.StrPtr("Broken")},
		{},
		{PayeeRegex: model.StrPtr("a{2,1}")},
	}

	msgs := ValidateRules(rules)
	require.Len(t, msgs, 2)
	for _, m := range msgs {
		assert.Equal(t, model.ValidationTypeError, m.Type)
		assert.NotEmpty(t, m.Label)
	}
}

func TestValidateRules_Empty(t *testing.T) {
	assert.Empty(t, ValidateRules(nil))
}
