package cmd

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var cmdRemove = &cobra.Command{
	Use:   "remove <address>",
	Short: "Removes a deployed contract from the service registry",
	RunE: func(c *cobra.Command, args []string) error {
		if len(args) != 1 {
			return errors.New("Incorrect argument count")
		}

		if _, err := send("DELETE", host(c)+"/contracts/"+args[0], nil); err != nil {
			fmt.Printf("Remove failed : %s\n", err)
			return nil
		}

		fmt.Printf("Removed %s\n", args[0])
		return nil
	},
}
