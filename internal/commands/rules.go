package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/wsynab/wsynab/internal/model"
	"github.com/wsynab/wsynab/internal/rules"
	"github.com/wsynab/wsynab/internal/settings"
)

func newRulesCommand(g *globalFlags) *cobra.Command {
	rulesCmd := &cobra.Command{
		Use:   "rules",
		Short: "Manage payee rename rules",
	}
	rulesCmd.AddCommand(
		newRulesListCommand(g),
		newRulesAddCommand(g),
		newRulesEditCommand(g),
		newRulesDeleteCommand(g),
		newRulesMoveCommand(g),
		newRulesValidateCommand(g),
		newRulesTestCommand(g),
	)
	return rulesCmd
}

// withStore loads the rules and runs fn. Unlike export, a settings load
// failure is fatal here so a broken blob is never overwritten.
func withStore(cmd *cobra.Command, g *globalFlags, fn func(ctx context.Context, store *settings.Store, out io.Writer) error) error {
	cfg, logger, err := g.load()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	store, closeStore, err := openSettings(ctx, cfg, logger)
	if closeStore != nil {
		defer closeStore()
	}
	if err != nil {
		return err
	}
	return fn(ctx, store, cmd.OutOrStdout())
}

// ruleFlags are the editable fields of a rule.
type ruleFlags struct {
	pattern   string
	name      string
	memo      string
	clearMemo bool
}

func (f *ruleFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.pattern, "pattern", "", "regular expression matched anywhere in the payee")
	cmd.Flags().StringVar(&f.name, "name", "", "replacement payee")
	cmd.Flags().StringVar(&f.memo, "memo", "", "memo for matching entries")
}

// apply copies the flags the user set onto rule.
func (f *ruleFlags) apply(cmd *cobra.Command, rule model.PayeeRenameRule) model.PayeeRenameRule {
	if cmd.Flags().Changed("pattern") {
		rule.PayeeRegex = model.StrPtr(f.pattern)
	}
	if cmd.Flags().Changed("name") {
		rule.NewName = model.StrPtr(f.name)
	}
	if cmd.Flags().Changed("memo") {
		rule.NewMemo = model.StrPtr(f.memo)
	}
	if f.clearMemo {
		rule.NewMemo = nil
	}
	return rule
}

func newRulesListCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List rename rules in priority order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, g, func(_ context.Context, store *settings.Store, out io.Writer) error {
				return printRules(out, store.Rules())
			})
		},
	}
}

func printRules(out io.Writer, list []model.PayeeRenameRule) error {
	if len(list) == 0 {
		_, err := fmt.Fprintln(out, "No rename rules.")
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tPATTERN\tNAME\tMEMO\tSTATUS")
	for i, r := range list {
		status := "ok"
		if msg := rules.ValidateRegex(r.PayeeRegex); msg != nil {
			status = "invalid: " + msg.Label
		} else if !r.Active() {
			status = "inactive"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", i+1, display(r.PayeeRegex), display(r.NewName), display(r.NewMemo), status)
	}
	return tw.Flush()
}

func display(s *string) string {
	if s == nil {
		return "-"
	}
	return strconv.Quote(*s)
}

func newRulesAddCommand(g *globalFlags) *cobra.Command {
	f := &ruleFlags{}
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Append a rename rule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, g, func(ctx context.Context, store *settings.Store, out io.Writer) error {
				store.AddRule(f.apply(cmd, model.PayeeRenameRule{}))
				if err := store.Save(ctx); err != nil {
					return err
				}
				fmt.Fprintf(out, "Added rule #%d\n", len(store.Rules()))
				return nil
			})
		},
	}
	f.register(cmd)
	return cmd
}

func newRulesEditCommand(g *globalFlags) *cobra.Command {
	f := &ruleFlags{}
	cmd := &cobra.Command{
		Use:   "edit <n>",
		Short: "Change fields of rule n",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := parseRuleNumber(args[0])
			if err != nil {
				return err
			}
			return withStore(cmd, g, func(ctx context.Context, store *settings.Store, out io.Writer) error {
				current := store.Rules()
				if idx < 0 || idx >= len(current) {
					return fmt.Errorf("rule #%d: %w", idx+1, settings.ErrNoSuchRule)
				}
				if err := store.EditRule(idx, f.apply(cmd, current[idx])); err != nil {
					return err
				}
				if err := store.Save(ctx); err != nil {
					return err
				}
				fmt.Fprintf(out, "Updated rule #%d\n", idx+1)
				return nil
			})
		},
	}
	f.register(cmd)
	cmd.Flags().BoolVar(&f.clearMemo, "clear-memo", false, "remove the memo")
	return cmd
}

func newRulesDeleteCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <n>",
		Short: "Remove rule n",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := parseRuleNumber(args[0])
			if err != nil {
				return err
			}
			return withStore(cmd, g, func(ctx context.Context, store *settings.Store, out io.Writer) error {
				if err := store.DeleteRule(idx); err != nil {
					return fmt.Errorf("rule #%d: %w", idx+1, err)
				}
				if err := store.Save(ctx); err != nil {
					return err
				}
				fmt.Fprintf(out, "Deleted rule #%d\n", idx+1)
				return nil
			})
		},
	}
}

func newRulesMoveCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "move <from> <to>",
		Short: "Change the priority of a rule",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := parseRuleNumber(args[0])
			if err != nil {
				return err
			}
			to, err := parseRuleNumber(args[1])
			if err != nil {
				return err
			}
			return withStore(cmd, g, func(ctx context.Context, store *settings.Store, out io.Writer) error {
				if err := store.MoveRule(from, to); err != nil {
					return err
				}
				if err := store.Save(ctx); err != nil {
					return err
				}
				fmt.Fprintf(out, "Moved rule #%d to #%d\n", from+1, to+1)
				return nil
			})
		},
	}
}

func newRulesValidateCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check every rule pattern compiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, g, func(_ context.Context, store *settings.Store, out io.Writer) error {
				msgs := store.Validate()
				for _, m := range msgs {
					fmt.Fprintf(out, "%s: %s\n", m.Type, m.Label)
				}
				if len(msgs) > 0 {
					return fmt.Errorf("%d invalid rule(s)", len(msgs))
				}
				fmt.Fprintf(out, "%d rule(s) OK\n", len(store.Rules()))
				return nil
			})
		},
	}
}

func newRulesTestCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "test <payee>",
		Short: "Show which rule would rename a payee",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payee := args[0]
			return withStore(cmd, g, func(_ context.Context, store *settings.Store, out io.Writer) error {
				idx := rules.MatchingRule(store.Rules(), payee)
				if idx < 0 {
					fmt.Fprintf(out, "No rule matches %q\n", payee)
					return nil
				}
				renamed := store.RenamePayee(model.YnabEntry{Payee: payee})
				fmt.Fprintf(out, "Rule #%d matches: payee %q, memo %q\n", idx+1, renamed.Payee, renamed.Memo)
				return nil
			})
		},
	}
}

var errBadRuleNumber = errors.New("rule numbers start at 1")

// parseRuleNumber converts a 1-based rule number to an index.
func parseRuleNumber(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("parsing rule number %q: %w", s, err)
	}
	if n < 1 {
		return 0, errBadRuleNumber
	}
	return n - 1, nil
}
