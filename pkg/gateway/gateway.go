package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/multimodal-labs/inference-gateway/pkg/capabilities"
	"github.com/multimodal-labs/inference-gateway/pkg/datasets"
	"github.com/multimodal-labs/inference-gateway/pkg/huggingface"
	"github.com/multimodal-labs/inference-gateway/pkg/logging"
	"github.com/multimodal-labs/inference-gateway/pkg/metrics"
	"github.com/multimodal-labs/inference-gateway/pkg/scheduling"
)

// maximumUploadSize bounds multipart uploads (audio and image payloads).
const maximumUploadSize = 32 * 1024 * 1024

// errNotConfiguredDetail is returned by every capability route while the
// gateway runs without an upstream token.
const errNotConfiguredDetail = "HF_TOKEN not configured on server"

// errNotReadyDetail is returned by GET /ready while the gateway runs without
// an upstream token.
const errNotReadyDetail = "service not ready: HF_TOKEN missing"

// Gateway routes HTTP requests to capability handlers. A nil service puts the
// gateway in degraded mode: probes still answer but every capability route
// fails with a configuration error.
type Gateway struct {
	// log is the associated logger.
	log logging.Logger
	// service executes capability requests against the upstream API.
	service *capabilities.Service
	// pool bounds concurrent upstream work.
	pool *scheduling.Pool
	// metrics aggregates request counters. May be nil.
	metrics *metrics.Metrics
	// recorder retains recent requests for inspection. May be nil.
	recorder *metrics.Recorder
	// router is the HTTP request router.
	router *http.ServeMux
}

// New creates a new gateway.
func New(log logging.Logger, service *capabilities.Service, pool *scheduling.Pool, m *metrics.Metrics, recorder *metrics.Recorder) *Gateway {
	g := &Gateway{
		log:      log,
		service:  service,
		pool:     pool,
		metrics:  m,
		recorder: recorder,
		router:   http.NewServeMux(),
	}

	g.router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})
	g.router.HandleFunc("GET /health", g.handleHealth)
	g.router.HandleFunc("GET /ready", g.handleReady)
	g.router.HandleFunc("GET /datasets", g.handleSupportedDatasets)
	g.router.HandleFunc("POST /dataset", g.handleDataset)
	g.router.HandleFunc("POST /chat", g.handleChat)
	g.router.HandleFunc("POST /voice", g.handleVoice)
	g.router.HandleFunc("POST /image", g.handleImage)
	g.router.HandleFunc("POST /vqa", g.handleVQA)
	g.router.HandleFunc("POST /any-to-any", g.handleAnyToAny)

	return g
}

// GetRoutes returns the routes managed by the gateway.
func (g *Gateway) GetRoutes() []string {
	return []string{
		"GET /health",
		"GET /ready",
		"GET /datasets",
		"POST /dataset",
		"POST /chat",
		"POST /voice",
		"POST /image",
		"POST /vqa",
		"POST /any-to-any",
		"/",
	}
}

// ServeHTTP routes gateway HTTP requests.
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	g.router.ServeHTTP(w, r)
}

func (g *Gateway) handleHealth(w http.ResponseWriter, r *http.Request) {
	g.writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func (g *Gateway) handleReady(w http.ResponseWriter, r *http.Request) {
	if g.service == nil {
		g.writeError(w, http.StatusServiceUnavailable, errNotReadyDetail)
		return
	}
	g.writeJSON(w, http.StatusOK, HealthResponse{Status: "ready"})
}

func (g *Gateway) handleSupportedDatasets(w http.ResponseWriter, r *http.Request) {
	g.writeJSON(w, http.StatusOK, SupportedDatasetsResponse{
		Status:    statusSuccess,
		Supported: datasets.Supported(),
	})
}

func (g *Gateway) handleDataset(w http.ResponseWriter, r *http.Request) {
	if g.service == nil {
		g.writeNotConfigured(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		g.writeError(w, http.StatusBadRequest, "failed to parse form: "+err.Error())
		return
	}
	name := r.FormValue("name")
	if name == "" {
		g.writeError(w, http.StatusBadRequest, "dataset name is required")
		return
	}
	subset := r.FormValue("subset")
	streaming, _ := strconv.ParseBool(r.FormValue("streaming"))

	value, err := g.invoke(r, "dataset", name, func(ctx context.Context) (any, error) {
		return g.service.LoadDataset(ctx, name, subset, streaming)
	})
	if err != nil {
		g.writeCapabilityError(w, "dataset", err)
		return
	}
	g.writeJSON(w, http.StatusOK, DatasetResponse{
		Status:  statusSuccess,
		Dataset: value.(*datasets.Summary),
	})
}

func (g *Gateway) handleChat(w http.ResponseWriter, r *http.Request) {
	if g.service == nil {
		g.writeNotConfigured(w)
		return
	}
	var req ChatRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maximumUploadSize)).Decode(&req); err != nil {
		g.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Prompt == "" {
		g.writeError(w, http.StatusBadRequest, "prompt is required")
		return
	}
	model := req.Model
	if model == "" {
		model = huggingface.DefaultTextModel
	}

	value, err := g.invoke(r, "chat", model, func(ctx context.Context) (any, error) {
		return g.service.GenerateText(ctx, req.Prompt, model, req.MaxNewTokens)
	})
	if err != nil {
		g.writeCapabilityError(w, "chat", err)
		return
	}
	g.writeJSON(w, http.StatusOK, ChatResponse{
		Status: statusSuccess,
		Model:  model,
		Output: value.(string),
	})
}

func (g *Gateway) handleVoice(w http.ResponseWriter, r *http.Request) {
	if g.service == nil {
		g.writeNotConfigured(w)
		return
	}
	audio, ok := g.readUpload(w, r, "audio file is required")
	if !ok {
		return
	}

	value, err := g.invoke(r, "voice", huggingface.DefaultASRModel, func(ctx context.Context) (any, error) {
		return g.service.TranscribeAudio(ctx, audio, "")
	})
	if err != nil {
		g.writeCapabilityError(w, "voice", err)
		return
	}
	g.writeJSON(w, http.StatusOK, VoiceResponse{
		Status: statusSuccess,
		Text:   value.(string),
	})
}

func (g *Gateway) handleImage(w http.ResponseWriter, r *http.Request) {
	if g.service == nil {
		g.writeNotConfigured(w)
		return
	}
	image, ok := g.readUpload(w, r, "image file is required")
	if !ok {
		return
	}
	model := r.FormValue("model")
	if model == "" {
		model = huggingface.DefaultCaptionModel
	}

	value, err := g.invoke(r, "image", model, func(ctx context.Context) (any, error) {
		return g.service.AnalyzeImage(ctx, image, model)
	})
	if err != nil {
		g.writeCapabilityError(w, "image", err)
		return
	}
	g.writeJSON(w, http.StatusOK, ImageResponse{
		Status:  statusSuccess,
		Model:   model,
		Caption: value.(string),
	})
}

func (g *Gateway) handleVQA(w http.ResponseWriter, r *http.Request) {
	if g.service == nil {
		g.writeNotConfigured(w)
		return
	}
	image, ok := g.readUpload(w, r, "image file is required")
	if !ok {
		return
	}
	question := r.FormValue("question")
	if question == "" {
		g.writeError(w, http.StatusBadRequest, "question is required")
		return
	}
	model := r.FormValue("model")
	if model == "" {
		model = huggingface.DefaultVQAModel
	}

	value, err := g.invoke(r, "vqa", model, func(ctx context.Context) (any, error) {
		return g.service.AnswerQuestion(ctx, image, question, model)
	})
	if err != nil {
		g.writeCapabilityError(w, "vqa", err)
		return
	}
	g.writeJSON(w, http.StatusOK, VQAResponse{
		Status: statusSuccess,
		Model:  model,
		Answer: value.(string),
	})
}

func (g *Gateway) handleAnyToAny(w http.ResponseWriter, r *http.Request) {
	if g.service == nil {
		g.writeNotConfigured(w)
		return
	}
	if err := r.ParseMultipartForm(maximumUploadSize); err != nil {
		g.writeError(w, http.StatusBadRequest, "failed to parse multipart form: "+err.Error())
		return
	}
	inputType := r.FormValue("input_type")
	outputType := r.FormValue("output_type")
	if inputType == "" || outputType == "" {
		g.writeError(w, http.StatusBadRequest, "input_type and output_type are required")
		return
	}

	payload := capabilities.Payload{Question: r.FormValue("question")}
	if file, _, err := r.FormFile("file"); err == nil {
		media, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			g.writeError(w, http.StatusBadRequest, "failed to read uploaded file: "+err.Error())
			return
		}
		payload.Media = media
	} else if values, ok := r.MultipartForm.Value["text"]; ok && len(values) > 0 {
		payload.Text = values[0]
	} else {
		g.writeError(w, http.StatusBadRequest, "No valid payload provided")
		return
	}
	model := r.FormValue("model")

	value, err := g.invoke(r, "any-to-any", model, func(ctx context.Context) (any, error) {
		return g.service.AnyToAny(ctx, inputType, outputType, payload, model)
	})
	if err != nil {
		g.writeCapabilityError(w, "any-to-any", err)
		return
	}
	g.writeJSON(w, http.StatusOK, AnyToAnyResponse{
		Status: statusSuccess,
		Result: value.(string),
	})
}

// readUpload pulls the "file" part out of a multipart request. A missing part
// is reported to the client with the given detail.
func (g *Gateway) readUpload(w http.ResponseWriter, r *http.Request, missingDetail string) ([]byte, bool) {
	if err := r.ParseMultipartForm(maximumUploadSize); err != nil {
		g.writeError(w, http.StatusBadRequest, "failed to parse multipart form: "+err.Error())
		return nil, false
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		g.writeError(w, http.StatusBadRequest, missingDetail)
		return nil, false
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		g.writeError(w, http.StatusBadRequest, "failed to read uploaded file: "+err.Error())
		return nil, false
	}
	return data, true
}

// invoke runs a capability task on the worker pool and records its outcome.
func (g *Gateway) invoke(r *http.Request, capability, model string, task scheduling.Task) (any, error) {
	start := time.Now()
	if g.metrics != nil {
		g.metrics.RequestStarted()
	}
	value, err := g.pool.Submit(r.Context(), task)

	outcome := "success"
	statusCode := http.StatusOK
	detail := ""
	if err != nil {
		outcome = "error"
		statusCode = statusForError(err)
		detail = err.Error()
	}
	elapsed := time.Since(start)
	if g.metrics != nil {
		g.metrics.RequestFinished(capability, outcome, elapsed)
	}
	if g.recorder != nil {
		g.recorder.Record(&metrics.Record{
			Capability: capability,
			Model:      model,
			Method:     r.Method,
			URL:        r.URL.Path,
			StatusCode: statusCode,
			Detail:     detail,
			Duration:   elapsed,
		})
	}
	return value, err
}

// statusForError maps capability errors to HTTP statuses. Only validation
// errors surface as 400; everything else, upstream failures included, is a
// plain 500 with the error text as detail.
func statusForError(err error) int {
	if errors.Is(err, capabilities.ErrMissingQuestion) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (g *Gateway) writeCapabilityError(w http.ResponseWriter, capability string, err error) {
	status := statusForError(err)
	if status >= http.StatusInternalServerError {
		g.log.Errorf("%s request failed: %v", capability, err)
	}
	g.writeError(w, status, err.Error())
}

func (g *Gateway) writeNotConfigured(w http.ResponseWriter) {
	g.log.Error(errNotConfiguredDetail)
	g.writeError(w, http.StatusInternalServerError, errNotConfiguredDetail)
}

func (g *Gateway) writeError(w http.ResponseWriter, status int, detail string) {
	g.writeJSON(w, status, ErrorResponse{Detail: detail})
}

func (g *Gateway) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		g.log.Warnf("Error while encoding response: %v", err)
	}
}
