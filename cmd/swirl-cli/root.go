package main

import (
	"github.com/spf13/cobra"
)

// globalFlags are shared by every command.
type globalFlags struct {
	configPath  string
	network     string
	dataDir     string
	rpcURL      string
	signerURL   string
	owner       string
	logLevel    string
	metricsFile string
	dryRun      bool
	jsonOut     bool
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:   "swirl-cli",
		Short: "Build and submit IOTA coin transactions",
		Long: `swirl-cli turns transfer and staking requests into explicit-gas
transaction plans built from the owner's coin objects, then simulates them
on a full node or hands them to an external signer.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&g.configPath, "config", "", "config file (YAML, TOML or JSON)")
	pf.StringVar(&g.network, "network", "", "network: mainnet, testnet or devnet")
	pf.StringVar(&g.dataDir, "datadir", "", "data directory (default ~/.swirl)")
	pf.StringVar(&g.rpcURL, "rpc", "", "full node JSON-RPC endpoint")
	pf.StringVar(&g.signerURL, "signer", "", "signer bridge JSON-RPC endpoint")
	pf.StringVar(&g.owner, "owner", "", "owner address (0x...)")
	pf.StringVar(&g.logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
	pf.StringVar(&g.metricsFile, "metrics-file", "", "write RPC metrics to this file on exit")
	pf.BoolVar(&g.dryRun, "dry-run", false, "simulate instead of submitting")
	pf.BoolVar(&g.jsonOut, "json", false, "print JSON output")

	root.AddCommand(
		newCoinsCmd(g),
		newBalanceCmd(g),
		newSendCmd(g, modeExecute),
		newStakeCmd(g, modeExecute),
		newUnstakeCmd(g, modeExecute),
		newPlanCmd(g),
		newHistoryCmd(g),
	)
	return root
}
