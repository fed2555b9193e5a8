package metrics

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/multimodal-labs/inference-gateway/pkg/logging"
)

// maximumRecordsPerCapability bounds the in-memory record ring per capability.
const maximumRecordsPerCapability = 10

// Record captures one capability request for debugging.
type Record struct {
	ID         string        `json:"id"`
	Capability string        `json:"capability"`
	Model      string        `json:"model,omitempty"`
	Method     string        `json:"method"`
	URL        string        `json:"url"`
	StatusCode int           `json:"status_code"`
	Detail     string        `json:"detail,omitempty"`
	Timestamp  time.Time     `json:"timestamp"`
	Duration   time.Duration `json:"duration_ns"`
}

// Recorder keeps the most recent capability requests per capability and
// serves them over HTTP.
type Recorder struct {
	// log is the associated logger.
	log logging.Logger
	// m guards records.
	m sync.RWMutex
	// records maps capability names to their most recent records.
	records map[string][]*Record
}

// NewRecorder creates a new request recorder.
func NewRecorder(log logging.Logger) *Recorder {
	return &Recorder{
		log:     log,
		records: make(map[string][]*Record),
	}
}

// Record stores a completed request, assigning it an ID and evicting the
// oldest record once the per-capability ring is full.
func (r *Recorder) Record(record *Record) {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now()
	}

	r.m.Lock()
	defer r.m.Unlock()

	records := append(r.records[record.Capability], record)
	if len(records) > maximumRecordsPerCapability {
		records = records[1:]
	}
	r.records[record.Capability] = records
}

// Records returns a copy of the stored records for a capability, oldest
// first.
func (r *Recorder) Records(capability string) []*Record {
	r.m.RLock()
	defer r.m.RUnlock()
	records := r.records[capability]
	out := make([]*Record, len(records))
	copy(out, records)
	return out
}

// ServeHTTP serves the full record map as JSON.
func (r *Recorder) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	r.m.RLock()
	defer r.m.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(r.records); err != nil {
		r.log.Warnln("Error while encoding request records:", err)
	}
}
