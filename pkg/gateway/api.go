package gateway

import (
	"github.com/multimodal-labs/inference-gateway/pkg/datasets"
)

// statusSuccess is the envelope status for successful capability responses.
const statusSuccess = "success"

// ChatRequest is the JSON body for POST /chat.
type ChatRequest struct {
	// Prompt is the generation prompt. Required.
	Prompt string `json:"prompt"`
	// Model overrides the default text-generation model.
	Model string `json:"model,omitempty"`
	// MaxNewTokens overrides the default generation length.
	MaxNewTokens int `json:"max_new_tokens,omitempty"`
}

// ErrorResponse is the error envelope shared by all routes.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// DatasetResponse is the success envelope for POST /dataset.
type DatasetResponse struct {
	Status  string            `json:"status"`
	Dataset *datasets.Summary `json:"dataset"`
}

// ChatResponse is the success envelope for POST /chat.
type ChatResponse struct {
	Status string `json:"status"`
	Model  string `json:"model"`
	Output string `json:"output"`
}

// VoiceResponse is the success envelope for POST /voice.
type VoiceResponse struct {
	Status string `json:"status"`
	Text   string `json:"text"`
}

// ImageResponse is the success envelope for POST /image.
type ImageResponse struct {
	Status  string `json:"status"`
	Model   string `json:"model"`
	Caption string `json:"caption"`
}

// VQAResponse is the success envelope for POST /vqa.
type VQAResponse struct {
	Status string `json:"status"`
	Model  string `json:"model"`
	Answer string `json:"answer"`
}

// AnyToAnyResponse is the success envelope for POST /any-to-any.
type AnyToAnyResponse struct {
	Status string `json:"status"`
	Result string `json:"result"`
}

// HealthResponse is the body for GET /health and GET /ready.
type HealthResponse struct {
	Status string `json:"status"`
}

// SupportedDatasetsResponse is the body for GET /datasets.
type SupportedDatasetsResponse struct {
	Status    string              `json:"status"`
	Supported map[string][]string `json:"supported"`
}
