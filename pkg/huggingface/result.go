package huggingface

import (
	"encoding/json"
	"strings"
)

// ResultKind identifies the decoded shape of a provider response.
type ResultKind int

const (
	// ResultRaw is the fallback variant: the response body retained in its
	// textual form, either a decoded JSON string or the raw payload.
	ResultRaw ResultKind = iota
	// ResultRecords is a JSON array of objects, the shape returned by text
	// generation and captioning tasks.
	ResultRecords
	// ResultObject is a single JSON object, the shape returned by speech
	// recognition.
	ResultObject
)

// Result is a tagged decoding of an inference response. Exactly one of
// Records, Object, or Raw is meaningful, selected by Kind.
type Result struct {
	Kind    ResultKind
	Records []map[string]any
	Object  map[string]any
	Raw     string
}

// DecodeResult classifies a response body into one of the named variants.
// Anything that is not a JSON array of objects, a JSON object, or a JSON
// string decodes to the raw variant carrying the body verbatim.
func DecodeResult(body []byte) Result {
	var records []map[string]any
	if err := json.Unmarshal(body, &records); err == nil {
		return Result{Kind: ResultRecords, Records: records}
	}

	var object map[string]any
	if err := json.Unmarshal(body, &object); err == nil {
		return Result{Kind: ResultObject, Object: object}
	}

	var text string
	if err := json.Unmarshal(body, &text); err == nil {
		return Result{Kind: ResultRaw, Raw: text}
	}

	return Result{Kind: ResultRaw, Raw: strings.TrimSpace(string(body))}
}

// String renders the canonical textual form of the result: the raw text for
// the fallback variant, compact JSON otherwise.
func (r Result) String() string {
	switch r.Kind {
	case ResultRecords:
		return marshalCompact(r.Records)
	case ResultObject:
		return marshalCompact(r.Object)
	default:
		return r.Raw
	}
}

// GeneratedText extracts the generated text from a text-generation response:
// the first record's generated_text field when present, the stringified first
// record otherwise, or the result's textual form when the response is not a
// non-empty record sequence.
func (r Result) GeneratedText() string {
	if r.Kind == ResultRecords && len(r.Records) > 0 {
		first := r.Records[0]
		if text, ok := first["generated_text"].(string); ok {
			return text
		}
		return marshalCompact(first)
	}
	return r.String()
}

// TranscriptText extracts the transcript from a speech-recognition response:
// the object's text field when present, the result's textual form otherwise.
func (r Result) TranscriptText() string {
	if r.Kind == ResultObject {
		if text, ok := r.Object["text"].(string); ok {
			return text
		}
	}
	return r.String()
}

func marshalCompact(v any) string {
	encoded, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(encoded)
}
