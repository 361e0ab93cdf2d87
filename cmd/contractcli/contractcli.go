package main

import (
	"github.com/yope/ethereum-contract/cmd/contractcli/cmd"
)

// Contract Orchestration CLI
//
func main() {
	cmd.Execute()
}
