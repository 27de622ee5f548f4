// Command ledgerctl runs maintenance tasks against the ledger database.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
