package datasets

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"golang.org/x/sync/singleflight"

	"github.com/multimodal-labs/inference-gateway/pkg/logging"
)

const (
	// DefaultDatasetsURL is the datasets-server API endpoint.
	DefaultDatasetsURL = "https://datasets-server.huggingface.co"
	// maximumResponseSize bounds the datasets-server responses the loader
	// will read.
	maximumResponseSize = 10 * 1024 * 1024
)

// Summary is the lightweight record derived from a loaded dataset. Either the
// split listing or the flat length is populated, never both.
type Summary struct {
	// Key is the cache key the summary is stored under.
	Key string `json:"key"`
	// Name is the dataset identifier.
	Name string `json:"name"`
	// Subset is the requested subset, empty when absent.
	Subset string `json:"subset,omitempty"`
	// Streaming records the requested streaming flag. It does not change how
	// the summary is derived.
	Streaming bool `json:"streaming,omitempty"`
	// Splits lists the dataset's split names when it exposes more than one.
	Splits []string `json:"splits,omitempty"`
	// SizePerSplit maps split names to row counts.
	SizePerSplit map[string]int64 `json:"size_per_split,omitempty"`
	// Length is the row count when the dataset exposes a single split.
	Length int64 `json:"length,omitempty"`
	// Features is the dataset's feature schema, when it could be derived.
	Features map[string]any `json:"features,omitempty"`
}

// LoaderConfig parametrizes a Loader.
type LoaderConfig struct {
	// BaseURL is the datasets-server endpoint. Empty selects
	// DefaultDatasetsURL.
	BaseURL string
	// Token is the provider credential, sent as a bearer token.
	Token string
	// HTTPClient is the HTTP client to use. Empty selects
	// http.DefaultClient.
	HTTPClient *http.Client
	// CacheCapacity bounds the summary cache. Zero leaves it unbounded.
	CacheCapacity int
	// Logger is the associated logger.
	Logger logging.Logger
}

// Loader loads dataset summaries from the datasets-server API and memoizes
// them. Concurrent loads of the same uncached key are collapsed into a single
// upstream load.
type Loader struct {
	// log is the associated logger.
	log logging.Logger
	// baseURL is the datasets-server endpoint.
	baseURL string
	// token is the provider credential.
	token string
	// httpClient is the HTTP client used for loads.
	httpClient *http.Client
	// cache memoizes summaries by load key.
	cache *Cache
	// group collapses concurrent loads of the same key.
	group singleflight.Group
}

// NewLoader creates a new dataset loader.
func NewLoader(config LoaderConfig) *Loader {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = DefaultDatasetsURL
	}
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Loader{
		log:        config.Logger,
		baseURL:    baseURL,
		token:      config.Token,
		httpClient: httpClient,
		cache:      NewCache(config.CacheCapacity),
	}
}

// Load returns the summary for (name, subset), serving repeated loads of the
// same key from the cache without touching the provider.
func (l *Loader) Load(ctx context.Context, name, subset string, streaming bool) (*Summary, error) {
	key := Key(name, subset)
	if summary, ok := l.cache.Get(key); ok {
		l.log.Infof("Dataset cached: %s", key)
		return summary, nil
	}

	value, err, _ := l.group.Do(key, func() (any, error) {
		// A concurrent load may have populated the cache while this call
		// waited on the group.
		if summary, ok := l.cache.Get(key); ok {
			return summary, nil
		}
		l.log.Infof("Loading dataset %s subset=%q streaming=%t", name, subset, streaming)
		summary, err := l.load(ctx, name, subset, streaming)
		if err != nil {
			return nil, err
		}
		l.cache.Put(key, summary)
		return summary, nil
	})
	if err != nil {
		return nil, err
	}
	return value.(*Summary), nil
}

// CacheLen returns the number of memoized summaries.
func (l *Loader) CacheLen() int {
	return l.cache.Len()
}

// splitsResponse mirrors the datasets-server /splits payload.
type splitsResponse struct {
	Splits []splitRecord `json:"splits"`
}

type splitRecord struct {
	Dataset string `json:"dataset"`
	Config  string `json:"config"`
	Split   string `json:"split"`
}

// sizeResponse mirrors the datasets-server /size payload.
type sizeResponse struct {
	Size struct {
		Splits []struct {
			Config  string `json:"config"`
			Split   string `json:"split"`
			NumRows int64  `json:"num_rows"`
		} `json:"splits"`
	} `json:"size"`
}

// infoResponse mirrors the datasets-server /info payload.
type infoResponse struct {
	DatasetInfo struct {
		Features map[string]any `json:"features"`
	} `json:"dataset_info"`
}

// load queries the provider and derives the summary. The split listing is the
// core object: its failure fails the load. Row counts and the feature schema
// are optional fields whose failures are swallowed and logged.
func (l *Loader) load(ctx context.Context, name, subset string, streaming bool) (*Summary, error) {
	var splits splitsResponse
	if err := l.get(ctx, "/splits", name, subset, &splits); err != nil {
		return nil, fmt.Errorf("unable to load dataset %s: %w", name, err)
	}

	summary := &Summary{
		Key:       Key(name, subset),
		Name:      name,
		Subset:    subset,
		Streaming: streaming,
	}
	var splitNames []string
	for _, s := range splits.Splits {
		if subset != "" && s.Config != subset {
			continue
		}
		splitNames = append(splitNames, s.Split)
	}

	var size sizeResponse
	if err := l.get(ctx, "/size", name, subset, &size); err != nil {
		l.log.Warnf("Failed to summarize dataset sizes for %s: %v", summary.Key, err)
	} else {
		rows := make(map[string]int64, len(size.Size.Splits))
		for _, s := range size.Size.Splits {
			if subset != "" && s.Config != subset {
				continue
			}
			rows[s.Split] += s.NumRows
		}
		if len(splitNames) > 1 {
			summary.SizePerSplit = rows
		} else if len(splitNames) == 1 {
			summary.Length = rows[splitNames[0]]
		}
	}
	if len(splitNames) > 1 {
		summary.Splits = splitNames
	}

	var info infoResponse
	if err := l.get(ctx, "/info", name, subset, &info); err != nil {
		l.log.Warnf("Failed to summarize dataset features for %s: %v", summary.Key, err)
	} else {
		summary.Features = info.DatasetInfo.Features
	}

	return summary, nil
}

// get issues a datasets-server query for the given endpoint and decodes the
// response. The subset travels as the config parameter only when present; its
// absence selects the whole dataset.
func (l *Loader) get(ctx context.Context, endpoint, name, subset string, out any) error {
	query := url.Values{"dataset": {name}}
	if subset != "" {
		query.Set("config", subset)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		l.baseURL+endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("unable to create request: %w", err)
	}
	if l.token != "" {
		req.Header.Set("Authorization", "Bearer "+l.token)
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maximumResponseSize))
	if err != nil {
		return fmt.Errorf("unable to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s query failed with status %d: %s", endpoint, resp.StatusCode, body)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("unable to decode %s response: %w", endpoint, err)
	}
	return nil
}
