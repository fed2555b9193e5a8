// Package client implements the HTTP client used by the gateway CLI.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"strconv"

	"github.com/multimodal-labs/inference-gateway/pkg/gateway"
	"github.com/multimodal-labs/inference-gateway/pkg/metrics"
	"github.com/multimodal-labs/inference-gateway/pkg/middleware"
)

// Client talks to a running inference gateway.
type Client struct {
	// baseURL is the gateway base URL, without a trailing slash.
	baseURL string
	// apiKey is sent in the x-api-key header when non-empty.
	apiKey string
	// httpClient performs the requests.
	httpClient *http.Client
}

// New creates a new gateway client.
func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: http.DefaultClient,
	}
}

// Health checks the liveness probe.
func (c *Client) Health() error {
	return c.get("/health", &gateway.HealthResponse{})
}

// Ready checks the readiness probe. A degraded gateway yields an error
// carrying the probe's detail message.
func (c *Client) Ready() error {
	return c.get("/ready", &gateway.HealthResponse{})
}

// Chat runs text generation.
func (c *Client) Chat(prompt, model string, maxNewTokens int) (*gateway.ChatResponse, error) {
	body, err := json.Marshal(gateway.ChatRequest{
		Prompt:       prompt,
		Model:        model,
		MaxNewTokens: maxNewTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("error marshaling request: %w", err)
	}
	var resp gateway.ChatResponse
	if err := c.post("/chat", "application/json", bytes.NewReader(body), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Transcribe uploads an audio file for speech recognition.
func (c *Client) Transcribe(path string) (*gateway.VoiceResponse, error) {
	var resp gateway.VoiceResponse
	if err := c.postFile("/voice", path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Caption uploads an image for captioning.
func (c *Client) Caption(path, model string) (*gateway.ImageResponse, error) {
	fields := map[string]string{}
	if model != "" {
		fields["model"] = model
	}
	var resp gateway.ImageResponse
	if err := c.postFile("/image", path, fields, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// VQA uploads an image and a question for visual question answering.
func (c *Client) VQA(path, question, model string) (*gateway.VQAResponse, error) {
	fields := map[string]string{"question": question}
	if model != "" {
		fields["model"] = model
	}
	var resp gateway.VQAResponse
	if err := c.postFile("/vqa", path, fields, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Convert runs an any-to-any conversion. Either text or filePath carries the
// payload.
func (c *Client) Convert(inputType, outputType, text, filePath, question, model string) (*gateway.AnyToAnyResponse, error) {
	fields := map[string]string{
		"input_type":  inputType,
		"output_type": outputType,
	}
	if text != "" {
		fields["text"] = text
	}
	if question != "" {
		fields["question"] = question
	}
	if model != "" {
		fields["model"] = model
	}

	var resp gateway.AnyToAnyResponse
	if filePath != "" {
		if err := c.postFile("/any-to-any", filePath, fields, &resp); err != nil {
			return nil, err
		}
		return &resp, nil
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("error building form: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("error building form: %w", err)
	}
	if err := c.post("/any-to-any", writer.FormDataContentType(), &buf, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// LoadDataset asks the gateway to load (or return the cached summary of) a
// dataset.
func (c *Client) LoadDataset(name, subset string, streaming bool) (*gateway.DatasetResponse, error) {
	form := url.Values{}
	form.Set("name", name)
	if subset != "" {
		form.Set("subset", subset)
	}
	if streaming {
		form.Set("streaming", strconv.FormatBool(streaming))
	}
	var resp gateway.DatasetResponse
	if err := c.post("/dataset", "application/x-www-form-urlencoded", bytes.NewReader([]byte(form.Encode())), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SupportedDatasets returns the gateway's supported dataset table.
func (c *Client) SupportedDatasets() (*gateway.SupportedDatasetsResponse, error) {
	var resp gateway.SupportedDatasetsResponse
	if err := c.get("/datasets", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Requests returns the gateway's recent request records grouped by
// capability.
func (c *Client) Requests() (map[string][]*metrics.Record, error) {
	records := make(map[string][]*metrics.Record)
	if err := c.get("/requests", &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (c *Client) get(path string, out any) error {
	return c.do(http.MethodGet, path, "", nil, out)
}

func (c *Client) post(path, contentType string, body io.Reader, out any) error {
	return c.do(http.MethodPost, path, contentType, body, out)
}

// postFile uploads the named file as the "file" part of a multipart form,
// along with any additional fields.
func (c *Client) postFile(path, filePath string, fields map[string]string, out any) error {
	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("error opening %s: %w", filePath, err)
	}
	defer file.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", file.Name())
	if err != nil {
		return fmt.Errorf("error building form: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("error reading %s: %w", filePath, err)
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return fmt.Errorf("error building form: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("error building form: %w", err)
	}

	return c.post(path, writer.FormDataContentType(), &buf, out)
}

func (c *Client) do(method, path, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequest(method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.apiKey != "" {
		req.Header.Set(middleware.APIKeyHeader, c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error querying %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		var errResp gateway.ErrorResponse
		raw, _ := io.ReadAll(resp.Body)
		if err := json.Unmarshal(raw, &errResp); err == nil && errResp.Detail != "" {
			return fmt.Errorf("%s failed with status %d: %s", path, resp.StatusCode, errResp.Detail)
		}
		return fmt.Errorf("%s failed with status %d: %s", path, resp.StatusCode, string(raw))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("error decoding response from %s: %w", path, err)
	}
	return nil
}
