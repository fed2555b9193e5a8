package commands

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

func newDatasetCmd() *cobra.Command {
	var subset string
	var streaming bool

	c := &cobra.Command{
		Use:   "dataset NAME",
		Short: "Load a dataset and print its summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := gatewayClient.LoadDataset(args[0], subset, streaming)
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(resp.Dataset, "", "  ")
			if err != nil {
				return err
			}
			cmd.Println(string(out))
			return nil
		},
	}
	c.Flags().StringVar(&subset, "subset", "", "Dataset subset (configuration) name")
	c.Flags().BoolVar(&streaming, "streaming", false, "Request streaming mode")
	return c
}

func newDatasetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "datasets",
		Short: "List the datasets the gateway advertises",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := gatewayClient.SupportedDatasets()
			if err != nil {
				return err
			}
			for name, subsets := range resp.Supported {
				cmd.Println(name)
				for _, subset := range subsets {
					if subset != "" {
						cmd.Println("  " + subset)
					}
				}
			}
			return nil
		},
	}
}
