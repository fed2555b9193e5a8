package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/multimodal-labs/inference-gateway/pkg/capabilities"
	"github.com/multimodal-labs/inference-gateway/pkg/datasets"
	"github.com/multimodal-labs/inference-gateway/pkg/gateway"
	"github.com/multimodal-labs/inference-gateway/pkg/huggingface"
	"github.com/multimodal-labs/inference-gateway/pkg/metrics"
	"github.com/multimodal-labs/inference-gateway/pkg/middleware"
	"github.com/multimodal-labs/inference-gateway/pkg/routing"
	"github.com/multimodal-labs/inference-gateway/pkg/scheduling"
)

var log = logrus.New()

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	service := createServiceFromEnv()

	pool := scheduling.NewPool(log, scheduling.Config{
		Workers:     envInt("GATEWAY_WORKERS", scheduling.DefaultWorkers),
		TaskTimeout: time.Duration(envInt("GATEWAY_REQUEST_TIMEOUT", 0)) * time.Second,
	})
	log.Infof("Worker pool size: %d", pool.Workers())

	var gatewayMetrics *metrics.Metrics
	var recorder *metrics.Recorder
	metricsEnabled := os.Getenv("DISABLE_METRICS") != "1"
	if metricsEnabled {
		gatewayMetrics = metrics.New()
		recorder = metrics.NewRecorder(log.WithField("component", "recorder"))
	}

	gw := gateway.New(
		log.WithField("component", "gateway"),
		service,
		pool,
		gatewayMetrics,
		recorder,
	)

	router := routing.NewNormalizedServeMux()
	for _, route := range gw.GetRoutes() {
		router.Handle(route, gw)
	}

	if metricsEnabled {
		router.Handle("GET /metrics", gatewayMetrics.Handler())
		router.Handle("GET /requests", recorder)
		log.Info("Metrics endpoint enabled at /metrics")
	} else {
		log.Info("Metrics endpoint disabled")
	}

	logSupportedDatasets()

	apiKey := os.Getenv("API_KEY")
	handler := middleware.CorsMiddleware(nil, middleware.AuthMiddleware(
		log,
		apiKey,
		[]string{"/health", "/metrics"},
		router,
	))

	server := &http.Server{Handler: handler}
	serverErrors := make(chan error, 1)

	// A socket path takes precedence over the TCP port.
	if sockName := os.Getenv("GATEWAY_SOCK"); sockName != "" {
		if err := os.Remove(sockName); err != nil {
			if !os.IsNotExist(err) {
				log.Fatalf("Failed to remove existing socket: %v", err)
			}
		}
		ln, err := net.ListenUnix("unix", &net.UnixAddr{Name: sockName, Net: "unix"})
		if err != nil {
			log.Fatalf("Failed to listen on socket: %v", err)
		}
		log.Infof("Listening on Unix socket %s", sockName)
		go func() {
			serverErrors <- server.Serve(ln)
		}()
	} else {
		tcpPort := os.Getenv("GATEWAY_PORT")
		if tcpPort == "" {
			tcpPort = "8900"
		}
		server.Addr = ":" + tcpPort
		log.Infof("Listening on TCP port %s", tcpPort)
		go func() {
			serverErrors <- server.ListenAndServe()
		}()
	}

	poolErrors := make(chan error, 1)
	go func() {
		poolErrors <- pool.Run(ctx)
	}()

	select {
	case err := <-serverErrors:
		if err != nil {
			log.Errorf("Server error: %v", err)
		}
	case <-ctx.Done():
		log.Infoln("Shutdown signal received")
		log.Infoln("Shutting down the server")
		if err := server.Close(); err != nil {
			log.Errorf("Server shutdown error: %v", err)
		}
		log.Infoln("Waiting for the worker pool to stop")
		if err := <-poolErrors; err != nil {
			log.Errorf("Worker pool error: %v", err)
		}
	}
	log.Infoln("Inference gateway stopped")
}

// createServiceFromEnv builds the capabilities service from environment
// variables. A missing HF_TOKEN yields a nil service and the gateway starts
// in degraded mode, answering probes but failing capability requests.
func createServiceFromEnv() *capabilities.Service {
	token := os.Getenv("HF_TOKEN")
	if token == "" {
		log.Warn("HF_TOKEN not set, starting in degraded mode")
		return nil
	}

	client := huggingface.NewClient(huggingface.ClientConfig{
		BaseURL: os.Getenv("HF_INFERENCE_URL"),
		Token:   token,
		Logger:  log.WithField("component", "huggingface"),
	})
	loader := datasets.NewLoader(datasets.LoaderConfig{
		BaseURL: os.Getenv("HF_DATASETS_URL"),
		Token:   token,
		Logger:  log.WithField("component", "datasets"),
	})

	return capabilities.NewService(
		log.WithField("component", "capabilities"),
		client,
		loader,
	)
}

func logSupportedDatasets() {
	supported := datasets.Supported()
	names := make([]string, 0, len(supported))
	for name := range supported {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		log.Infof("Supported dataset: %s subsets=%v", name, supported[name])
	}
}

// envInt reads an integer environment variable, falling back on absent or
// unparseable values.
func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		log.Warnf("Invalid %s value %q, using %d", name, raw, fallback)
		return fallback
	}
	return value
}
