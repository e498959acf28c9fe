// This program talks to a ledger node's public API.
package main

import "github.com/rybka/fishledger/app/tooling/ledger/cmd"

func main() {
	cmd.Execute()
}
