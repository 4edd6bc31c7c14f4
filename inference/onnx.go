package inference

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/brensch/snakeworld/convert"
	ort "github.com/yalue/onnxruntime_go"
)

const (
	InputSize  = convert.FloatSize
	PolicySize = 4
)

const (
	DefaultBatchSize    = 64
	DefaultBatchTimeout = 1 * time.Millisecond
)

type OnnxClientConfig struct {
	BatchSize    int
	BatchTimeout time.Duration
	Logger       *slog.Logger
}

type inferenceRequest struct {
	input    []float32
	respChan chan inferenceResponse
}

type inferenceResponse struct {
	policy []float32
	err    error
}

// RuntimeStats summarises batching behaviour.
type RuntimeStats struct {
	TotalBatches  int64
	TotalItems    int64
	TotalRunNanos int64
	LastBatchSize int64
	QueueLen      int
	AvgBatchSize  float64
	AvgRunMs      float64
}

// OnnxClient runs the policy network with ONNX Runtime, batching concurrent
// Predict calls into a single session run.
type OnnxClient struct {
	session      *ort.DynamicAdvancedSession
	requestsChan chan inferenceRequest
	done         chan struct{}
	closeOnce    sync.Once
	cfg          OnnxClientConfig

	batches  atomic.Int64
	items    atomic.Int64
	runNanos atomic.Int64
	last     atomic.Int64
}

var ortInitOnce sync.Once
var ortInitErr error

// SharedLibraryPath resolves the ONNX Runtime library: ORT_SHARED_LIBRARY_PATH
// first, then a libonnxruntime next to the working directory. Empty means
// let the runtime search its defaults.
func SharedLibraryPath() string {
	if p := os.Getenv("ORT_SHARED_LIBRARY_PATH"); p != "" {
		return p
	}
	if runtime.GOOS != "linux" {
		return ""
	}
	cwd, _ := os.Getwd()
	for _, name := range []string{"libonnxruntime.so", "libonnxruntime.so.1"} {
		abs := filepath.Join(cwd, name)
		if _, err := os.Stat(abs); err == nil {
			return abs
		}
	}
	return ""
}

func initRuntime() error {
	ortInitOnce.Do(func() {
		if p := SharedLibraryPath(); p != "" {
			ort.SetSharedLibraryPath(p)
		}
		ortInitErr = ort.InitializeEnvironment()
	})
	return ortInitErr
}

func NewOnnxClient(modelPath string) (*OnnxClient, error) {
	return NewOnnxClientWithConfig(modelPath, OnnxClientConfig{BatchSize: DefaultBatchSize, BatchTimeout: DefaultBatchTimeout})
}

func NewOnnxClientWithConfig(modelPath string, cfg OnnxClientConfig) (*OnnxClient, error) {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.BatchTimeout <= 0 {
		cfg.BatchTimeout = DefaultBatchTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	if err := initRuntime(); err != nil {
		return nil, fmt.Errorf("failed to init ort: %w", err)
	}

	options, err := ort.NewSessionOptions()
	if err != nil {
		return nil, err
	}
	defer options.Destroy()

	// Many self-play workers share the machine.
	options.SetIntraOpNumThreads(1)
	options.SetInterOpNumThreads(1)

	session, err := ort.NewDynamicAdvancedSession(modelPath, []string{"input"}, []string{"policy"}, options)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	client := &OnnxClient{
		session:      session,
		cfg:          cfg,
		requestsChan: make(chan inferenceRequest, cfg.BatchSize*2),
		done:         make(chan struct{}),
	}
	go client.batchLoop()

	cfg.Logger.Info("onnx session ready", "model", modelPath, "batch", cfg.BatchSize)
	return client, nil
}

func (c *OnnxClient) Close() error {
	c.closeOnce.Do(func() { close(c.done) })
	return c.session.Destroy()
}

// Predict scores the four directions for one encoded window. The input must
// have InputSize values laid out as convert produces them.
func (c *OnnxClient) Predict(input []float32) ([]float32, error) {
	if len(input) != InputSize {
		return nil, fmt.Errorf("input has %d values, want %d", len(input), InputSize)
	}
	floats := make([]float32, InputSize)
	copy(floats, input)

	respChan := make(chan inferenceResponse, 1)
	select {
	case c.requestsChan <- inferenceRequest{input: floats, respChan: respChan}:
	case <-c.done:
		return nil, fmt.Errorf("onnx client closed")
	}

	select {
	case resp := <-respChan:
		return resp.policy, resp.err
	case <-c.done:
		return nil, fmt.Errorf("onnx client closed")
	}
}

func (c *OnnxClient) Stats() RuntimeStats {
	st := RuntimeStats{
		TotalBatches:  c.batches.Load(),
		TotalItems:    c.items.Load(),
		TotalRunNanos: c.runNanos.Load(),
		LastBatchSize: c.last.Load(),
		QueueLen:      len(c.requestsChan),
	}
	if st.TotalBatches > 0 {
		st.AvgBatchSize = float64(st.TotalItems) / float64(st.TotalBatches)
		st.AvgRunMs = (float64(st.TotalRunNanos) / 1e6) / float64(st.TotalBatches)
	}
	return st
}

func (c *OnnxClient) batchLoop() {
	batchInput := make([]float32, 0, c.cfg.BatchSize*InputSize)
	requests := make([]inferenceRequest, 0, c.cfg.BatchSize)

	ticker := time.NewTicker(c.cfg.BatchTimeout)
	defer ticker.Stop()

	flush := func() {
		c.runBatch(requests, batchInput)
		requests = requests[:0]
		batchInput = batchInput[:0]
	}

	for {
		select {
		case <-c.done:
			return
		case req := <-c.requestsChan:
			requests = append(requests, req)
			batchInput = append(batchInput, req.input...)
			if len(requests) >= c.cfg.BatchSize {
				flush()
			}
		case <-ticker.C:
			if len(requests) > 0 {
				flush()
			}
		}
	}
}

func (c *OnnxClient) runBatch(requests []inferenceRequest, batchInput []float32) {
	n := int64(len(requests))
	start := time.Now()

	inputShape := ort.NewShape(n, convert.Channels, convert.Height, convert.Width)
	inputTensor, err := ort.NewTensor(inputShape, batchInput)
	if err != nil {
		c.failBatch(requests, err)
		return
	}
	defer inputTensor.Destroy()

	policyTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(n, PolicySize))
	if err != nil {
		c.failBatch(requests, err)
		return
	}
	defer policyTensor.Destroy()

	if err := c.session.Run([]ort.Value{inputTensor}, []ort.Value{policyTensor}); err != nil {
		c.failBatch(requests, err)
		return
	}

	c.batches.Add(1)
	c.items.Add(n)
	c.runNanos.Add(time.Since(start).Nanoseconds())
	c.last.Store(n)

	policyData := policyTensor.GetData()
	for i, req := range requests {
		policy := make([]float32, PolicySize)
		copy(policy, policyData[i*PolicySize:(i+1)*PolicySize])
		req.respChan <- inferenceResponse{policy: policy}
	}
}

func (c *OnnxClient) failBatch(requests []inferenceRequest, err error) {
	c.cfg.Logger.Warn("onnx batch failed", "size", len(requests), "error", err)
	for _, req := range requests {
		req.respChan <- inferenceResponse{err: err}
	}
}
