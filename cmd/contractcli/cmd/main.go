package cmd

import (
	"github.com/spf13/cobra"
)

const (
	FlagHost = "host"
)

var ccCmd = &cobra.Command{
	Use:   "contractcli",
	Short: "Contract Orchestration CLI",
}

func Execute() {
	ccCmd.PersistentFlags().String(FlagHost, "http://localhost:8080", "Orchestration service URL")

	ccCmd.AddCommand(cmdDeploy)
	ccCmd.AddCommand(cmdInvoke)
	ccCmd.AddCommand(cmdRun)
	ccCmd.AddCommand(cmdReceipt)
	ccCmd.AddCommand(cmdList)
	ccCmd.AddCommand(cmdRemove)
	ccCmd.Execute()
}

func host(c *cobra.Command) string {
	h, err := c.Flags().GetString(FlagHost)
	if err != nil {
		return "http://localhost:8080"
	}
	return h
}
