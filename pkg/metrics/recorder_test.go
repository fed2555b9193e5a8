package metrics

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Entry {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return logrus.NewEntry(log)
}

func TestRecorderAssignsIDs(t *testing.T) {
	t.Parallel()
	recorder := NewRecorder(testLogger())
	recorder.Record(&Record{Capability: "chat", Method: "POST", URL: "/chat", StatusCode: 200})

	records := recorder.Records("chat")
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].ID == "" {
		t.Error("expected an assigned ID")
	}
	if records[0].Timestamp.IsZero() {
		t.Error("expected an assigned timestamp")
	}
}

func TestRecorderBoundsRing(t *testing.T) {
	t.Parallel()
	recorder := NewRecorder(testLogger())
	for i := 0; i < maximumRecordsPerCapability+5; i++ {
		recorder.Record(&Record{
			Capability: "chat",
			ID:         fmt.Sprintf("record-%d", i),
		})
	}

	records := recorder.Records("chat")
	if len(records) != maximumRecordsPerCapability {
		t.Fatalf("expected %d records, got %d", maximumRecordsPerCapability, len(records))
	}
	if records[0].ID != "record-5" {
		t.Errorf("expected the oldest records to be evicted, first is %s", records[0].ID)
	}
}

func TestRecorderServeHTTP(t *testing.T) {
	t.Parallel()
	recorder := NewRecorder(testLogger())
	recorder.Record(&Record{Capability: "voice", Method: "POST", URL: "/voice", StatusCode: 200})

	rec := httptest.NewRecorder()
	recorder.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/requests", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var decoded map[string][]*Record
	if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	if len(decoded["voice"]) != 1 {
		t.Errorf("expected one voice record, got %+v", decoded)
	}

	rec = httptest.NewRecorder()
	recorder.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/requests", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405 for POST, got %d", rec.Code)
	}
}
