package cmd

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/yope/ethereum-contract/pkg/ethereum"
)

var cmdInvoke = &cobra.Command{
	Use:   "invoke <address> <source file> <method> [args...]",
	Short: "Invokes a state-changing method on a deployed contract",
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
			Key:        flagString(c, FlagKey),
			Account:    flagString(c, FlagAccount),
			Source:     string(source),
			Methods:    methodFor(ethereum.MethodModify, args[2], args[3:]),
			AccountGas: flagUint64(c, FlagGas),
		}

		env, err := send("PUT", host(c)+"/contracts/"+args[0], request)
		if err != nil {
			fmt.Printf("Invoke failed : %s\n", err)
			return nil
		}

		return printResponse(env)
	},
}

func init() {
	cmdInvoke.Flags().String(FlagKey, "", "Contract key in the compiler output")
	cmdInvoke.Flags().String(FlagAccount, "", "Account the transaction is sent from")
	cmdInvoke.Flags().Uint64(FlagGas, 0, "Gas the account authorizes for the operation")
}
