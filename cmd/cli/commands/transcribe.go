package commands

import (
	"os"

	"github.com/docker/go-units"
	"github.com/spf13/cobra"
)

func newTranscribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "transcribe AUDIO_FILE",
		Short: "Transcribe an audio file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			printUploadSize(cmd, args[0])
			resp, err := gatewayClient.Transcribe(args[0])
			if err != nil {
				return err
			}
			cmd.Println(resp.Text)
			return nil
		},
	}
}

// printUploadSize reports the payload size before a potentially slow upload.
func printUploadSize(cmd *cobra.Command, path string) {
	info, err := os.Stat(path)
	if err != nil {
		return
	}
	cmd.PrintErrf("Uploading %s (%s)\n", path, units.HumanSize(float64(info.Size())))
}
