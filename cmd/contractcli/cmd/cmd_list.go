package cmd

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var cmdList = &cobra.Command{
	Use:   "list",
	Short: "Lists the deployed contracts the service knows about",
	RunE: func(c *cobra.Command, args []string) error {
		if len(args) != 0 {
			return errors.New("Incorrect argument count")
		}

		env, err := send("GET", host(c)+"/contracts", nil)
		if err != nil {
			fmt.Printf("List failed : %s\n", err)
			return nil
		}

		return printResponse(env)
	},
}
