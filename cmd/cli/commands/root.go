package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/multimodal-labs/inference-gateway/cmd/cli/client"
)

// gatewayClient is shared by all subcommands and built from the root flags.
var gatewayClient *client.Client

func NewRootCmd() *cobra.Command {
	var baseURL string
	var apiKey string

	rootCmd := &cobra.Command{
		Use:   "gateway",
		Short: "Multimodal inference gateway client",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if apiKey == "" {
				apiKey = os.Getenv("API_KEY")
			}
			gatewayClient = client.New(baseURL, apiKey)
		},
	}
	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8900", "Gateway base URL")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "API key (defaults to the API_KEY environment variable)")
	rootCmd.AddCommand(
		newStatusCmd(),
		newChatCmd(),
		newTranscribeCmd(),
		newCaptionCmd(),
		newVQACmd(),
		newConvertCmd(),
		newDatasetCmd(),
		newDatasetsCmd(),
		newRequestsCmd(),
	)
	return rootCmd
}
