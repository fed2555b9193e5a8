package commands

import (
	"github.com/spf13/cobra"
)

func newCaptionCmd() *cobra.Command {
	var model string

	c := &cobra.Command{
		Use:   "caption IMAGE_FILE",
		Short: "Caption an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			printUploadSize(cmd, args[0])
			resp, err := gatewayClient.Caption(args[0], model)
			if err != nil {
				return err
			}
			cmd.Println(resp.Caption)
			return nil
		},
	}
	c.Flags().StringVar(&model, "model", "", "Captioning model to use")
	return c
}
