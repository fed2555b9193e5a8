package commands

import (
	"github.com/spf13/cobra"
)

func newVQACmd() *cobra.Command {
	var model string

	c := &cobra.Command{
		Use:   "vqa IMAGE_FILE QUESTION",
		Short: "Answer a question about an image",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			printUploadSize(cmd, args[0])
			resp, err := gatewayClient.VQA(args[0], args[1], model)
			if err != nil {
				return err
			}
			cmd.Println(resp.Answer)
			return nil
		},
	}
	c.Flags().StringVar(&model, "model", "", "Question-answering model to use")
	return c
}
