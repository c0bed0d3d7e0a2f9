package rules

import (
	"regexp"

	"github.com/wsynab/wsynab/internal/model"
)

// ValidateRegex checks that pattern compiles. A nil or empty pattern is an
// unconfigured rule, not an error.
func ValidateRegex(pattern *string) *model.ValidationMessage {
	if pattern == nil || *pattern == "" {
		return nil
	}

	if _, err := regexp.Compile(*pattern); err != nil {
		return &model.ValidationMessage{
			Label: err.Error(),
			Type:  model.ValidationTypeError,
		}
	}
	return nil
}

// ValidateRules validates every rule's pattern in order.
func ValidateRules(rules []model.PayeeRenameRule) []model.ValidationMessage {
	var msgs []model.ValidationMessage
	for _, r := range rules {
		if msg := ValidateRegex(r.PayeeRegex); msg != nil {
			msgs = append(msgs, *msg)
		}
	}
	return msgs
}
