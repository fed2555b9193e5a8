package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/multimodal-labs/inference-gateway/pkg/gateway"
	"github.com/multimodal-labs/inference-gateway/pkg/middleware"
)

func TestChat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/chat", r.URL.Path)
		require.Equal(t, "secret", r.Header.Get(middleware.APIKeyHeader))

		var req gateway.ChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "Once", req.Prompt)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(gateway.ChatResponse{
			Status: "success",
			Model:  "gpt2",
			Output: "Once upon a time",
		})
	}))
	defer server.Close()

	c := New(server.URL, "secret")
	resp, err := c.Chat("Once", "", 0)
	require.NoError(t, err)
	require.Equal(t, "Once upon a time", resp.Output)
}

func TestReadyDegraded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(gateway.ErrorResponse{Detail: "service not ready: HF_TOKEN missing"})
	}))
	defer server.Close()

	err := New(server.URL, "").Ready()
	require.Error(t, err)
	require.Contains(t, err.Error(), "HF_TOKEN missing")
}

func TestTranscribe(t *testing.T) {
	audioPath := filepath.Join(t.TempDir(), "clip.wav")
	require.NoError(t, os.WriteFile(audioPath, []byte("RIFF"), 0o644))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/voice", r.URL.Path)
		file, _, err := r.FormFile("file")
		require.NoError(t, err)
		file.Close()

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(gateway.VoiceResponse{Status: "success", Text: "hello"})
	}))
	defer server.Close()

	resp, err := New(server.URL, "").Transcribe(audioPath)
	require.NoError(t, err)
	require.Equal(t, "hello", resp.Text)
}

func TestLoadDataset(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/dataset", r.URL.Path)
		require.NoError(t, r.ParseForm())
		require.Equal(t, "openai/gsm8k", r.FormValue("name"))
		require.Equal(t, "main", r.FormValue("subset"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"status":  "success",
			"dataset": map[string]any{"key": "openai/gsm8k::main"},
		})
	}))
	defer server.Close()

	resp, err := New(server.URL, "").LoadDataset("openai/gsm8k", "main", false)
	require.NoError(t, err)
	require.Equal(t, "openai/gsm8k::main", resp.Dataset.Key)
}

func TestErrorEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(gateway.ErrorResponse{Detail: "prompt is required"})
	}))
	defer server.Close()

	_, err := New(server.URL, "").Chat("", "", 0)
	require.Error(t, err)
	require.Contains(t, err.Error(), "prompt is required")
	require.Contains(t, err.Error(), "400")
}
