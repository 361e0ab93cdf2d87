package cmd

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/yope/ethereum-contract/pkg/ethereum"
)

var cmdRun = &cobra.Command{
	Use:   "run <address> <source file> <method> [args...]",
	Short: "Runs a read-only method on a deployed contract",
	RunE: func(c *cobra.Command, args []string) error {
		if len(args) < 3 {
			return errors.New("Incorrect argument count")
		}

		source, err := os.ReadFile(args[1])
		if err != nil {
			fmt.Printf("Failed to read source : %s\n", err)
			return nil
		}

		request := contractRequest{
			Key:     flagString(c, FlagKey),
			Account: flagString(c, FlagAccount),
			Source:  string(source),
			Methods: methodFor(ethereum.MethodRun, args[2], args[3:]),
		}

		env, err := send("POST", host(c)+"/contracts/"+args[0], request)
		if err != nil {
			fmt.Printf("Run failed : %s\n", err)
			return nil
		}

		return printResponse(env)
	},
}

func init() {
	cmdRun.Flags().String(FlagKey, "", "Contract key in the compiler output")
	cmdRun.Flags().String(FlagAccount, "", "Account the call is made from")
}
