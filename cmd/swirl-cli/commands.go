package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/liquidlink-lab/swirl-engine/pkg/intent"
	"github.com/liquidlink-lab/swirl-engine/pkg/types"
	"github.com/liquidlink-lab/swirl-engine/pkg/units"
)

// mode selects what an intent command does with the built plan.
type mode int

const (
	modeExecute mode = iota // submit, or simulate with --dry-run
	modePlan                // print the plan only
)

// withApp opens the app for the duration of fn.
func withApp(g *globalFlags, fn func(a *app) error) (err error) {
	a, err := openApp(g)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(); err == nil {
			err = cerr
		}
	}()
	return fn(a)
}

func newCoinsCmd(g *globalFlags) *cobra.Command {
	var token string
	cmd := &cobra.Command{
		Use:   "coins",
		Short: "List the owner's coin objects of one token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(g, func(a *app) error {
				owner, err := a.owner()
				if err != nil {
					return err
				}
				ctx := cmd.Context()
				tok := a.token(token)
				coins, err := a.reader.ListCoins(ctx, owner, tok)
				if err != nil {
					return err
				}
				if g.jsonOut {
					return printJSON(cmd.OutOrStdout(), coins)
				}
				dec, err := a.decimals(ctx, tok)
				if err != nil {
					return err
				}
				printCoins(cmd.OutOrStdout(), tok, coins, dec)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "token: iota, cert or a full coin type")
	return cmd
}

func newBalanceCmd(g *globalFlags) *cobra.Command {
	var (
		token   string
		fromSet bool
	)
	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Show the owner's total balance of one token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(g, func(a *app) error {
				owner, err := a.owner()
				if err != nil {
					return err
				}
				ctx := cmd.Context()
				tok := a.token(token)

				var total uint64
				if fromSet {
					if total, err = a.reader.Balance(ctx, owner, tok); err != nil {
						return err
					}
				} else {
					bal, err := a.rpc.GetBalance(ctx, owner, tok)
					if err != nil {
						return err
					}
					total = bal.TotalBalance
				}

				dec, err := a.decimals(ctx, tok)
				if err != nil {
					return err
				}
				out := balanceOutput{
					Owner:   owner.String(),
					Token:   string(tok),
					Balance: total,
					Display: units.FormatUint64(total, dec),
				}
				if g.jsonOut {
					return printJSON(cmd.OutOrStdout(), out)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Owner:   %s\nToken:   %s\nBalance: %s\n", out.Owner, out.Token, out.Display)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "token: iota, cert or a full coin type")
	cmd.Flags().BoolVar(&fromSet, "from-coins", false, "sum the coin listing instead of asking the node")
	return cmd
}

func newSendCmd(g *globalFlags, m mode) *cobra.Command {
	var to, amount, token string
	var all bool
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send an amount, or the whole balance, of a token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runIntent(cmd, g, m, func(ctx context.Context, a *app) (intent.Intent, error) {
				recipient, err := types.ParseAddress(to)
				if err != nil {
					return nil, fmt.Errorf("--to: %w", err)
				}
				tok := a.token(token)
				switch {
				case all && amount != "":
					return nil, errors.New("--amount and --all are mutually exclusive")
				case all:
					return intent.PayAll{Token: tok, Recipient: recipient}, nil
				case amount == "":
					return nil, errors.New("--amount or --all is required")
				}
				amt, err := a.parseAmount(ctx, tok, amount)
				if err != nil {
					return nil, err
				}
				return intent.PayExact{Token: tok, Recipient: recipient, Amount: amt}, nil
			})
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "recipient address")
	cmd.Flags().StringVar(&amount, "amount", "", "amount in whole units, e.g. 1.5")
	cmd.Flags().BoolVar(&all, "all", false, "send the whole balance")
	cmd.Flags().StringVar(&token, "token", "", "token: iota, cert or a full coin type")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func newStakeCmd(g *globalFlags, m mode) *cobra.Command {
	var amount string
	cmd := &cobra.Command{
		Use:   "stake",
		Short: "Stake IOTA into the liquid staking pool",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runIntent(cmd, g, m, func(ctx context.Context, a *app) (intent.Intent, error) {
				amt, err := a.parseAmount(ctx, a.token("iota"), amount)
				if err != nil {
					return nil, err
				}
				return intent.StakeSplit{Amount: amt}, nil
			})
		},
	}
	cmd.Flags().StringVar(&amount, "amount", "", "IOTA amount, e.g. 2.5")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func newUnstakeCmd(g *globalFlags, m mode) *cobra.Command {
	var amount string
	cmd := &cobra.Command{
		Use:   "unstake",
		Short: "Redeem staking certificates for IOTA",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runIntent(cmd, g, m, func(ctx context.Context, a *app) (intent.Intent, error) {
				amt, err := a.parseAmount(ctx, a.token("cert"), amount)
				if err != nil {
					return nil, err
				}
				return intent.UnstakeSplit{Amount: amt}, nil
			})
		},
	}
	cmd.Flags().StringVar(&amount, "amount", "", "certificate amount, e.g. 1")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func newPlanCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Print the transaction plan for a request without running it",
	}
	cmd.AddCommand(
		newSendCmd(g, modePlan),
		newStakeCmd(g, modePlan),
		newUnstakeCmd(g, modePlan),
	)
	return cmd
}

func newHistoryCmd(g *globalFlags) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List transactions submitted from this machine",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(g, func(a *app) error {
				j, err := a.journal()
				if err != nil {
					return err
				}
				entries, err := j.List(limit)
				if err != nil {
					return err
				}
				if g.jsonOut {
					return printJSON(cmd.OutOrStdout(), entries)
				}
				printHistory(cmd.OutOrStdout(), entries, a.cfg.ExplorerURL)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum entries, 0 for all")
	return cmd
}

type intentFunc func(ctx context.Context, a *app) (intent.Intent, error)

func runIntent(cmd *cobra.Command, g *globalFlags, m mode, build intentFunc) error {
	return withApp(g, func(a *app) error {
		owner, err := a.owner()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		in, err := build(ctx, a)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()

		switch {
		case m == modePlan:
			p, err := a.engine.Build(ctx, owner, in)
			if err != nil {
				return err
			}
			return printPlan(w, p)

		case g.dryRun:
			ex, err := a.executor(false)
			if err != nil {
				return err
			}
			est, err := ex.DryRun(ctx, owner, in)
			if err != nil {
				return err
			}
			if g.jsonOut {
				return printJSON(w, est)
			}
			printEstimate(w, in, est)
			return nil

		default:
			ex, err := a.executor(true)
			if err != nil {
				return err
			}
			r, err := ex.Execute(ctx, owner, in)
			if err != nil {
				return err
			}
			if g.jsonOut {
				return printJSON(w, receiptOutput{Digest: r.Digest, Action: r.Action, ExplorerURL: r.ExplorerURL, Fingerprint: r.Fingerprint.String()})
			}
			fmt.Fprintf(w, "%s submitted\nDigest:   %s\nExplorer: %s\n", r.Action, r.Digest, r.ExplorerURL)
			return nil
		}
	})
}

// parseAmount converts a whole-unit decimal string to base units of token.
func (a *app) parseAmount(ctx context.Context, token types.TokenType, s string) (uint64, error) {
	dec, err := a.decimals(ctx, token)
	if err != nil {
		return 0, err
	}
	amt, err := units.ToBaseUnitsUint64(s, dec)
	if err != nil {
		return 0, fmt.Errorf("--amount: %w", err)
	}
	return amt, nil
}
