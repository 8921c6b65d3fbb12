package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/liquidlink-lab/swirl-engine/internal/executor"
	"github.com/liquidlink-lab/swirl-engine/internal/journal"
	"github.com/liquidlink-lab/swirl-engine/pkg/intent"
	"github.com/liquidlink-lab/swirl-engine/pkg/plan"
	"github.com/liquidlink-lab/swirl-engine/pkg/types"
	"github.com/liquidlink-lab/swirl-engine/pkg/units"
)

type balanceOutput struct {
	Owner   string `json:"owner"`
	Token   string `json:"token"`
	Balance uint64 `json:"balance,string"`
	Display string `json:"display"`
}

type receiptOutput struct {
	Digest      string `json:"digest"`
	Action      string `json:"action"`
	ExplorerURL string `json:"explorerUrl"`
	Fingerprint string `json:"fingerprint"`
}

type planOutput struct {
	Fingerprint string     `json:"fingerprint"`
	Plan        *plan.Plan `json:"plan"`
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printCoins(w io.Writer, token types.TokenType, coins []types.Coin, decimals int) {
	fmt.Fprintf(w, "%d coin(s) of %s\n", len(coins), token)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "OBJECT\tVERSION\tBALANCE")
	for _, c := range coins {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", c.ID, c.Version, units.FormatUint64(c.Balance, decimals))
	}
	tw.Flush()
}

func printPlan(w io.Writer, p *plan.Plan) error {
	fp, err := p.Fingerprint()
	if err != nil {
		return err
	}
	return printJSON(w, planOutput{Fingerprint: fp.String(), Plan: p})
}

func printEstimate(w io.Writer, in intent.Intent, est *executor.Estimate) {
	fmt.Fprintf(w, "Dry run: %s\n", in.Kind().Action())
	fmt.Fprintf(w, "  Computation: %d\n", est.Gas.Computation)
	fmt.Fprintf(w, "  Storage:     %d\n", est.Gas.Storage)
	fmt.Fprintf(w, "  Rebate:      %d\n", est.Gas.Rebate)
	fmt.Fprintf(w, "  Net fee:     %d\n", est.Gas.Net)
	if est.Plan.GasBudget > 0 {
		fmt.Fprintf(w, "  Budget:      %d\n", est.Plan.GasBudget)
	}
}

func printHistory(w io.Writer, entries []journal.Entry, explorer func(string) string) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No transactions recorded.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tACTION\tPLAN\tDIGEST\tEXPLORER")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", e.Time.Format("2006-01-02 15:04:05"), e.Action, e.Fingerprint.Short(), e.Digest, explorer(e.Digest))
	}
	tw.Flush()
}
