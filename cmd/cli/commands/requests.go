package commands

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

func newRequestsCmd() *cobra.Command {
	var capability string

	c := &cobra.Command{
		Use:   "requests",
		Short: "Show the gateway's recent requests",
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := gatewayClient.Requests()
			if err != nil {
				return err
			}
			if capability != "" {
				filtered := records[capability]
				out, err := json.MarshalIndent(filtered, "", "  ")
				if err != nil {
					return err
				}
				cmd.Println(string(out))
				return nil
			}
			out, err := json.MarshalIndent(records, "", "  ")
			if err != nil {
				return err
			}
			cmd.Println(string(out))
			return nil
		},
	}
	c.Flags().StringVar(&capability, "capability", "", "Only show records for this capability")
	return c
}
