package commands

import (
	"github.com/spf13/cobra"
)

func newChatCmd() *cobra.Command {
	var model string
	var maxNewTokens int

	c := &cobra.Command{
		Use:   "chat PROMPT",
		Short: "Generate text from a prompt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := gatewayClient.Chat(args[0], model, maxNewTokens)
			if err != nil {
				return err
			}
			cmd.Println(resp.Output)
			return nil
		},
	}
	c.Flags().StringVar(&model, "model", "", "Text-generation model to use")
	c.Flags().IntVar(&maxNewTokens, "max-new-tokens", 0, "Maximum number of generated tokens")
	return c
}
