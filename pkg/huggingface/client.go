package huggingface

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/multimodal-labs/inference-gateway/pkg/logging"
)

const (
	// DefaultInferenceURL is the serverless inference API endpoint.
	DefaultInferenceURL = "https://api-inference.huggingface.co"
	// maximumResponseSize is the maximum inference response size that the
	// client will read. This should be large enough to encompass any
	// real-world response but also small enough to bound memory use.
	maximumResponseSize = 10 * 1024 * 1024
)

// Default models per capability.
const (
	DefaultTextModel    = "gpt2"
	DefaultASRModel     = "openai/whisper-large-v2"
	DefaultCaptionModel = "Salesforce/blip-image-captioning-large"
	DefaultVQAModel     = "dandelin/vilt-b32-finetuned-vqa"
	// DefaultMaxNewTokens is the generation length used when a request does
	// not specify one.
	DefaultMaxNewTokens = 200
)

// ClientConfig parametrizes a Client.
type ClientConfig struct {
	// BaseURL is the inference API endpoint. Empty selects
	// DefaultInferenceURL.
	BaseURL string
	// Token is the provider credential, sent as a bearer token.
	Token string
	// HTTPClient is the HTTP client to use for inference calls. Empty
	// selects http.DefaultClient.
	HTTPClient *http.Client
	// Logger is the associated logger.
	Logger logging.Logger
}

// Client calls the remote inference provider. It is read-only after
// construction and safe for concurrent use.
type Client struct {
	// log is the associated logger.
	log logging.Logger
	// baseURL is the inference API endpoint.
	baseURL string
	// token is the provider credential.
	token string
	// httpClient is the HTTP client used for inference calls.
	httpClient *http.Client
}

// NewClient creates a new inference client.
func NewClient(config ClientConfig) *Client {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = DefaultInferenceURL
	}
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		log:        config.Logger,
		baseURL:    baseURL,
		token:      config.Token,
		httpClient: httpClient,
	}
}

// textGenerationRequest is the JSON payload for text-generation tasks.
type textGenerationRequest struct {
	Inputs     string               `json:"inputs"`
	Parameters generationParameters `json:"parameters"`
}

type generationParameters struct {
	MaxNewTokens int `json:"max_new_tokens"`
}

// vqaRequest is the JSON payload for visual-question-answering tasks. The
// image travels base64-encoded inside the inputs object.
type vqaRequest struct {
	Inputs vqaInputs `json:"inputs"`
}

type vqaInputs struct {
	Image    string `json:"image"`
	Question string `json:"question"`
}

// TextGeneration runs a text-generation task against the given model.
func (c *Client) TextGeneration(ctx context.Context, model, prompt string, maxNewTokens int) (Result, error) {
	if maxNewTokens <= 0 {
		maxNewTokens = DefaultMaxNewTokens
	}
	c.log.Debugf("text generation: model=%s max_new_tokens=%d", model, maxNewTokens)
	payload, err := json.Marshal(textGenerationRequest{
		Inputs:     prompt,
		Parameters: generationParameters{MaxNewTokens: maxNewTokens},
	})
	if err != nil {
		return Result{}, fmt.Errorf("unable to encode generation request: %w", err)
	}
	return c.post(ctx, model, "application/json", payload)
}

// AutomaticSpeechRecognition runs a transcription task against the given
// model. The audio bytes are sent verbatim.
func (c *Client) AutomaticSpeechRecognition(ctx context.Context, model string, audio []byte) (Result, error) {
	c.log.Debugf("speech recognition: model=%s bytes=%d", model, len(audio))
	return c.post(ctx, model, "application/octet-stream", audio)
}

// ImageToText runs a captioning task against the given model. The image bytes
// are sent verbatim.
func (c *Client) ImageToText(ctx context.Context, model string, image []byte) (Result, error) {
	c.log.Debugf("image to text: model=%s bytes=%d", model, len(image))
	return c.post(ctx, model, "application/octet-stream", image)
}

// VisualQuestionAnswering runs a VQA task against the given model.
func (c *Client) VisualQuestionAnswering(ctx context.Context, model string, image []byte, question string) (Result, error) {
	c.log.Debugf("visual question answering: model=%s bytes=%d", model, len(image))
	payload, err := json.Marshal(vqaRequest{
		Inputs: vqaInputs{
			Image:    base64.StdEncoding.EncodeToString(image),
			Question: question,
		},
	})
	if err != nil {
		return Result{}, fmt.Errorf("unable to encode VQA request: %w", err)
	}
	return c.post(ctx, model, "application/json", payload)
}

// post issues a model inference request and decodes the response into a
// tagged result. Non-2xx responses surface as errors carrying the provider's
// message verbatim.
func (c *Client) post(ctx context.Context, model, contentType string, payload []byte) (Result, error) {
	url := c.baseURL + "/models/" + model
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return Result{}, fmt.Errorf("unable to create inference request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("inference request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maximumResponseSize))
	if err != nil {
		return Result{}, fmt.Errorf("unable to read inference response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Result{}, fmt.Errorf("inference request for model %s failed with status %d: %s",
			model, resp.StatusCode, bytes.TrimSpace(body))
	}

	return DecodeResult(body), nil
}
