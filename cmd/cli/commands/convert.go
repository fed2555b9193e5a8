package commands

import (
	"errors"

	"github.com/spf13/cobra"
)

func newConvertCmd() *cobra.Command {
	var text string
	var filePath string
	var question string
	var model string

	c := &cobra.Command{
		Use:   "convert INPUT_TYPE OUTPUT_TYPE",
		Short: "Run an any-to-any conversion",
		Long: `Run an any-to-any conversion between modalities.

Supported pairs: audio->text, image->caption, image->vqa and text->text.
The payload comes from --text or --file; image->vqa also needs --question.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if text == "" && filePath == "" {
				return errors.New("either --text or --file is required")
			}
			if filePath != "" {
				printUploadSize(cmd, filePath)
			}
			resp, err := gatewayClient.Convert(args[0], args[1], text, filePath, question, model)
			if err != nil {
				return err
			}
			cmd.Println(resp.Result)
			return nil
		},
	}
	c.Flags().StringVar(&text, "text", "", "Textual payload")
	c.Flags().StringVar(&filePath, "file", "", "Path to a media payload")
	c.Flags().StringVar(&question, "question", "", "Question for image->vqa conversions")
	c.Flags().StringVar(&model, "model", "", "Model override")
	return c
}
