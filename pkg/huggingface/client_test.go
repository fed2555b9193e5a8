package huggingface

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Entry {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return logrus.NewEntry(log)
}

func TestTextGeneration(t *testing.T) {
	t.Parallel()

	var gotPath, gotAuth, gotContentType string
	var gotBody textGenerationRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"generated_text":"hello there"}]`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		BaseURL: server.URL,
		Token:   "hf_test",
		Logger:  testLogger(),
	})

	result, err := client.TextGeneration(context.Background(), "gpt2", "hello", 0)
	require.NoError(t, err)
	require.Equal(t, "hello there", result.GeneratedText())
	require.Equal(t, "/models/gpt2", gotPath)
	require.Equal(t, "Bearer hf_test", gotAuth)
	require.Equal(t, "application/json", gotContentType)
	require.Equal(t, "hello", gotBody.Inputs)
	require.Equal(t, DefaultMaxNewTokens, gotBody.Parameters.MaxNewTokens)
}

func TestAutomaticSpeechRecognition(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.Equal(t, []byte{0x01, 0x02}, body)
		require.Equal(t, "application/octet-stream", r.Header.Get("Content-Type"))
		_, _ = w.Write([]byte(`{"text":"hello"}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL, Logger: testLogger()})
	result, err := client.AutomaticSpeechRecognition(context.Background(), "openai/whisper-large-v2", []byte{0x01, 0x02})
	require.NoError(t, err)
	require.Equal(t, "hello", result.TranscriptText())
}

func TestVisualQuestionAnswering(t *testing.T) {
	t.Parallel()

	var gotBody vqaRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`[{"answer":"cat","score":0.9}]`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL, Logger: testLogger()})
	result, err := client.VisualQuestionAnswering(context.Background(), "dandelin/vilt-b32-finetuned-vqa", []byte{0xff}, "what animal?")
	require.NoError(t, err)
	require.Equal(t, "what animal?", gotBody.Inputs.Question)
	require.NotEmpty(t, gotBody.Inputs.Image)
	require.Equal(t, `[{"answer":"cat","score":0.9}]`, result.String())
}

func TestUpstreamErrorPassthrough(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"Model gpt2 is currently loading"}`, http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL, Logger: testLogger()})
	_, err := client.TextGeneration(context.Background(), "gpt2", "hello", 10)
	require.Error(t, err)
	require.Contains(t, err.Error(), "status 503")
	require.Contains(t, err.Error(), "currently loading")
}
