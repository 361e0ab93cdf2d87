package cmd

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var cmdReceipt = &cobra.Command{
	Use:   "receipt <tx hash>",
	Short: "Looks up the receipt for a transaction",
	RunE: func(c *cobra.Command, args []string) error {
		if len(args) != 1 {
			return errors.New("Incorrect argument count")
		}

		env, err := send("GET", host(c)+"/receipts/"+args[0], nil)
		if err != nil {
			fmt.Printf("Receipt lookup failed : %s\n", err)
			return nil
		}

		return printResponse(env)
	},
}
