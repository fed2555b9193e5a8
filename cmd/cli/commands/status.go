package commands

import (
	"os"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check whether the gateway is running and ready",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := gatewayClient.Health(); err != nil {
				cmd.Println("Gateway is not running")
				return err
			}
			cmd.Println("Gateway is running")

			if err := gatewayClient.Ready(); err != nil {
				cmd.Println("Gateway is not ready:", err)
				osExit(1)
				return nil
			}
			cmd.Println("Gateway is ready")
			return nil
		},
	}
}

var osExit = os.Exit
