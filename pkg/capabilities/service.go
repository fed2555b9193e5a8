package capabilities

import (
	"context"

	"github.com/multimodal-labs/inference-gateway/pkg/datasets"
	"github.com/multimodal-labs/inference-gateway/pkg/huggingface"
	"github.com/multimodal-labs/inference-gateway/pkg/logging"
)

// Conversion kinds accepted by AnyToAny.
const (
	KindText    = "text"
	KindAudio   = "audio"
	KindImage   = "image"
	KindCaption = "caption"
	KindVQA     = "vqa"
)

// Inferencer is the provider-side inference surface consumed by the service.
// It is implemented by huggingface.Client.
type Inferencer interface {
	TextGeneration(ctx context.Context, model, prompt string, maxNewTokens int) (huggingface.Result, error)
	AutomaticSpeechRecognition(ctx context.Context, model string, audio []byte) (huggingface.Result, error)
	ImageToText(ctx context.Context, model string, image []byte) (huggingface.Result, error)
	VisualQuestionAnswering(ctx context.Context, model string, image []byte, question string) (huggingface.Result, error)
}

// DatasetLoader is the dataset-side surface consumed by the service. It is
// implemented by datasets.Loader.
type DatasetLoader interface {
	Load(ctx context.Context, name, subset string, streaming bool) (*datasets.Summary, error)
}

// Service mediates between the HTTP gateway and the provider clients: one
// operation per capability, plus the closed any-to-any conversion table.
type Service struct {
	// log is the associated logger.
	log logging.Logger
	// client is the inference client.
	client Inferencer
	// loader is the dataset loader.
	loader DatasetLoader
}

// NewService creates a new capabilities service.
func NewService(log logging.Logger, client Inferencer, loader DatasetLoader) *Service {
	return &Service{
		log:    log,
		client: client,
		loader: loader,
	}
}

// LoadDataset loads (or returns the memoized summary of) the given dataset.
func (s *Service) LoadDataset(ctx context.Context, name, subset string, streaming bool) (*datasets.Summary, error) {
	return s.loader.Load(ctx, name, subset, streaming)
}

// GenerateText runs text generation. An empty model selects the default, a
// non-positive token count the default generation length.
func (s *Service) GenerateText(ctx context.Context, prompt, model string, maxNewTokens int) (string, error) {
	if model == "" {
		model = huggingface.DefaultTextModel
	}
	result, err := s.client.TextGeneration(ctx, model, prompt, maxNewTokens)
	if err != nil {
		return "", err
	}
	return result.GeneratedText(), nil
}

// TranscribeAudio runs speech recognition on the given audio bytes.
func (s *Service) TranscribeAudio(ctx context.Context, audio []byte, model string) (string, error) {
	if model == "" {
		model = huggingface.DefaultASRModel
	}
	result, err := s.client.AutomaticSpeechRecognition(ctx, model, audio)
	if err != nil {
		return "", err
	}
	return result.TranscriptText(), nil
}

// AnalyzeImage runs captioning on the given image bytes. The provider
// response is returned in its textual form without field extraction.
func (s *Service) AnalyzeImage(ctx context.Context, image []byte, model string) (string, error) {
	if model == "" {
		model = huggingface.DefaultCaptionModel
	}
	result, err := s.client.ImageToText(ctx, model, image)
	if err != nil {
		return "", err
	}
	return result.String(), nil
}

// AnswerQuestion runs visual question answering on the given image bytes. The
// provider response is returned in its textual form without field extraction.
func (s *Service) AnswerQuestion(ctx context.Context, image []byte, question, model string) (string, error) {
	if model == "" {
		model = huggingface.DefaultVQAModel
	}
	result, err := s.client.VisualQuestionAnswering(ctx, model, image, question)
	if err != nil {
		return "", err
	}
	return result.String(), nil
}

// Payload carries the input for an any-to-any conversion: a media blob, a
// text prompt, or a blob plus a question for VQA.
type Payload struct {
	// Media is the uploaded binary payload, if any.
	Media []byte
	// Text is the textual payload, if any.
	Text string
	// Question accompanies Media for image-to-vqa conversions.
	Question string
}

// AnyToAny dispatches a conversion by (input, output) kind pair. The table is
// closed: audio->text, image->caption, image->vqa, and text->text are the
// only supported pairs, each with its capability's default model when none is
// given. Any other pair fails with an error naming both kinds.
func (s *Service) AnyToAny(ctx context.Context, inputKind, outputKind string, payload Payload, model string) (string, error) {
	s.log.Debugf("any-to-any %s->%s model=%q", inputKind, outputKind, model)
	switch {
	case inputKind == KindAudio && outputKind == KindText:
		return s.TranscribeAudio(ctx, payload.Media, model)
	case inputKind == KindImage && outputKind == KindCaption:
		return s.AnalyzeImage(ctx, payload.Media, model)
	case inputKind == KindImage && outputKind == KindVQA:
		if payload.Question == "" {
			return "", ErrMissingQuestion
		}
		return s.AnswerQuestion(ctx, payload.Media, payload.Question, model)
	case inputKind == KindText && outputKind == KindText:
		return s.GenerateText(ctx, payload.Text, model, 0)
	default:
		return "", &UnsupportedConversionError{Input: inputKind, Output: outputKind}
	}
}
