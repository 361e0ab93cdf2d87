package cmd

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/yope/ethereum-contract/pkg/ethereum"
)

const (
	FlagKey     = "key"
	FlagAccount = "account"
	FlagGas     = "gas"
)

var cmdDeploy = &cobra.Command{
	Use:   "deploy <source file>",
	Short: "Compiles and deploys a contract",
	RunE: func(c *cobra.Command, args []string) error {
		if len(args) != 1 {
			return errors.New("Incorrect argument count")
		}

		source, err := os.ReadFile(args[0])
		if err != nil {
			fmt.Printf("Failed to read source : %s\n", err)
			return nil
		}

		request := contractRequest{
			Key:        flagString(c, FlagKey),
			Account:    flagString(c, FlagAccount),
			Source:     string(source),
			AccountGas: flagUint64(c, FlagGas),
		}

		env, err := send("POST", host(c)+"/contracts", request)
		if err != nil {
			fmt.Printf("Deploy failed : %s\n", err)
			return nil
		}

		return printResponse(env)
	},
}

func init() {
	cmdDeploy.Flags().String(FlagKey, "", "Contract key in the compiler output")
	cmdDeploy.Flags().String(FlagAccount, "", "Account the transaction is sent from")
	cmdDeploy.Flags().Uint64(FlagGas, 0, "Gas the account authorizes for the operation")
}

func flagString(c *cobra.Command, name string) string {
	v, _ := c.Flags().GetString(name)
	return v
}

func flagUint64(c *cobra.Command, name string) uint64 {
	v, _ := c.Flags().GetUint64(name)
	return v
}

func methodArgs(args []string) []interface{} {
	out := make([]interface{}, 0, len(args))
	for _, a := range args {
		out = append(out, a)
	}
	return out
}

func methodFor(t ethereum.MethodType, name string, args []string) []ethereum.Method {
	return []ethereum.Method{{
		Type: t,
		Name: name,
		Args: methodArgs(args),
	}}
}
