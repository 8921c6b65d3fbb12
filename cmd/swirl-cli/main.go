// swirl-cli builds, simulates and submits coin transactions for an IOTA
// address: transfers, sweeps and liquid staking.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
