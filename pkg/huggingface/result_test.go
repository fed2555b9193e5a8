package huggingface

import (
	"testing"
)

func TestDecodeResult(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		body     string
		wantKind ResultKind
	}{
		{name: "RecordArray", body: `[{"generated_text":"X"}]`, wantKind: ResultRecords},
		{name: "EmptyArray", body: `[]`, wantKind: ResultRecords},
		{name: "Object", body: `{"text":"hello"}`, wantKind: ResultObject},
		{name: "JSONString", body: `"plain"`, wantKind: ResultRaw},
		{name: "RawText", body: "not json at all", wantKind: ResultRaw},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result := DecodeResult([]byte(tt.body))
			if result.Kind != tt.wantKind {
				t.Errorf("expected kind %d, got %d", tt.wantKind, result.Kind)
			}
		})
	}
}

func TestGeneratedText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "GeneratedTextField",
			body: `[{"generated_text":"X"}]`,
			want: "X",
		},
		{
			name: "RecordWithoutField",
			body: `[{"foo":1}]`,
			want: `{"foo":1}`,
		},
		{
			name: "PlainString",
			body: `"X"`,
			want: "X",
		},
		{
			name: "EmptyArray",
			body: `[]`,
			want: `[]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := DecodeResult([]byte(tt.body)).GeneratedText(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestTranscriptText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "TextField",
			body: `{"text":"hello"}`,
			want: "hello",
		},
		{
			name: "ObjectWithoutField",
			body: `{"other":1}`,
			want: `{"other":1}`,
		},
		{
			name: "PlainString",
			body: `"hello"`,
			want: "hello",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := DecodeResult([]byte(tt.body)).TranscriptText(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
