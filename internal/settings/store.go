// Package settings holds the payee rename rules and persists them through a
// key-value store.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/wsynab/wsynab/internal/kv"
	"github.com/wsynab/wsynab/internal/model"
	"github.com/wsynab/wsynab/internal/rules"
)

// StateKey is the key the settings blob is stored under.
const StateKey = "__INIT_STATE__"

var (
	// ErrInvalidRules is returned by Save when a rule fails validation.
	ErrInvalidRules = errors.New("rename rules failed validation")
	// ErrNoSuchRule is returned for an out of range rule index.
	ErrNoSuchRule = errors.New("no such rule")
)

// Store owns the settings state. It is not safe for concurrent use.
type Store struct {
	kv     kv.Store
	logger zerolog.Logger

	state  model.SettingsState
	dirty  bool
	errors []model.ValidationMessage
}

// NewStore returns a Store holding the default state.
func NewStore(backend kv.Store, logger zerolog.Logger) *Store {
	return &Store{
		kv:     backend,
		logger: logger,
		state:  model.DefaultSettingsState(),
	}
}

// State returns a copy of the current state.
func (s *Store) State() model.SettingsState {
	return s.state.Clone()
}

// Rules returns a copy of the rename rules in priority order.
func (s *Store) Rules() []model.PayeeRenameRule {
	return s.state.Clone().PayeeRenameRules
}

// Dirty reports whether the state changed since the last Load or Save.
func (s *Store) Dirty() bool {
	return s.dirty
}

// Errors returns the messages from the last validation.
func (s *Store) Errors() []model.ValidationMessage {
	return s.errors
}

// Load replaces the state with the stored blob merged onto the defaults.
// On failure the current state is kept.
func (s *Store) Load(ctx context.Context) error {
	raw, err := s.kv.GetValue(ctx, StateKey, "{}")
	if err != nil {
		s.logger.Warn().Err(err).Msg("loading settings")
		return fmt.Errorf("loading settings: %w", err)
	}
	s.logger.Debug().Str("state", raw).Msg("loaded settings")

	state, err := decodeState(raw)
	if err != nil {
		s.logger.Warn().Err(err).Msg("loading settings")
		return fmt.Errorf("loading settings: %w", err)
	}

	s.state = state
	s.errors = nil
	s.dirty = false
	return nil
}

// Validate checks every rule and records the messages.
func (s *Store) Validate() []model.ValidationMessage {
	s.errors = rules.ValidateRules(s.state.PayeeRenameRules)
	return s.errors
}

// Save validates and persists the state. Validation messages block the
// save with ErrInvalidRules. A failed save leaves Dirty set.
func (s *Store) Save(ctx context.Context) error {
	if msgs := s.Validate(); len(msgs) > 0 {
		s.logger.Info().Interface("errors", msgs).Msg("settings not saved")
		return fmt.Errorf("%w: %s", ErrInvalidRules, msgs[0].Label)
	}

	data, err := json.Marshal(s.state)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	if err := s.kv.SetValue(ctx, StateKey, string(data)); err != nil {
		s.logger.Warn().Err(err).Msg("saving settings")
		return fmt.Errorf("saving settings: %w", err)
	}
	s.logger.Debug().Str("state", string(data)).Msg("saved settings")

	s.errors = nil
	s.dirty = false
	return nil
}

// AddRule appends rule. The zero rule is an unconfigured placeholder.
func (s *Store) AddRule(rule model.PayeeRenameRule) {
	s.state = AddRule(s.state, rule)
	s.dirty = true
}

// DeleteRule removes the rule at idx.
func (s *Store) DeleteRule(idx int) error {
	next, err := DeleteRule(s.state, idx)
	if err != nil {
		return err
	}
	s.state = next
	s.dirty = true
	return nil
}

// EditRule replaces the rule at idx.
func (s *Store) EditRule(idx int, rule model.PayeeRenameRule) error {
	next, err := EditRule(s.state, idx, rule)
	if err != nil {
		return err
	}
	s.state = next
	s.dirty = true
	return nil
}

// MoveRule changes the priority of the rule at from.
func (s *Store) MoveRule(from, to int) error {
	next, err := MoveRule(s.state, from, to)
	if err != nil {
		return err
	}
	s.state = next
	s.dirty = true
	return nil
}

// RenamePayee applies the current rules to entry.
func (s *Store) RenamePayee(entry model.YnabEntry) model.YnabEntry {
	return rules.RenamePayee(s.state.PayeeRenameRules, entry)
}

// decodeState merges the stored object onto the defaults. Valid JSON that
// is not an object (null, [], "x") contributes nothing.
func decodeState(raw string) (model.SettingsState, error) {
	state := model.DefaultSettingsState()

	var blob any
	if err := json.Unmarshal([]byte(raw), &blob); err != nil {
		return model.SettingsState{}, fmt.Errorf("parsing settings: %w", err)
	}
	if _, ok := blob.(map[string]any); !ok {
		return state, nil
	}

	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return model.SettingsState{}, fmt.Errorf("parsing settings: %w", err)
	}
	if state.PayeeRenameRules == nil {
		state.PayeeRenameRules = []model.PayeeRenameRule{}
	}
	return state, nil
}
