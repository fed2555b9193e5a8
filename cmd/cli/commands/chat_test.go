package commands

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/multimodal-labs/inference-gateway/cmd/cli/client"
	"github.com/multimodal-labs/inference-gateway/pkg/gateway"
)

func TestChatCmd(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(gateway.ChatResponse{
			Status: "success",
			Model:  "gpt2",
			Output: "Once upon a time",
		})
	}))
	defer server.Close()
	gatewayClient = client.New(server.URL, "")

	cmd := newChatCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetArgs([]string{"Once"})

	require.NoError(t, cmd.Execute())
	require.Equal(t, "Once upon a time\n", out.String())
}

func TestChatCmdPropagatesErrorDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(gateway.ErrorResponse{Detail: "HF_TOKEN not configured on server"})
	}))
	defer server.Close()
	gatewayClient = client.New(server.URL, "")

	cmd := newChatCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"Once"})

	err := cmd.Execute()
	require.Error(t, err)
	require.Contains(t, err.Error(), "HF_TOKEN")
}
