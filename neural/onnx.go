package neural

import (
	"fmt"
	"math"
	"os"
	"runtime"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

var (
	ortInitOnce sync.Once
	ortInitErr  error
)

// OnnxClient runs an exported policy/value model through ONNX Runtime. The
// model takes an input tensor of shape [1, 19, 8] and returns a policy head
// of 19 logits and a scalar value head.
type OnnxClient struct {
	mu      sync.Mutex
	session *ort.DynamicAdvancedSession
}

// NewOnnxClient loads the model at the given path and prepares a session.
func NewOnnxClient(modelPath string) (*OnnxClient, error) {
	if runtime.GOOS == "linux" {
		if p := os.Getenv("ORT_SHARED_LIBRARY_PATH"); p != "" {
			ort.SetSharedLibraryPath(p)
		}
	}

	ortInitOnce.Do(func() {
		ortInitErr = ort.InitializeEnvironment()
	})
	if ortInitErr != nil {
		return nil, fmt.Errorf("failed to init onnxruntime: %w", ortInitErr)
	}

	options, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("failed to create session options: %w", err)
	}
	defer options.Destroy()

	// Single-threaded ops: the search already parallelizes at the root.
	options.SetIntraOpNumThreads(1)
	options.SetInterOpNumThreads(1)

	session, err := ort.NewDynamicAdvancedSession(
		modelPath, []string{"input"}, []string{"policy", "value"}, options)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &OnnxClient{session: session}, nil
}

// Close releases the underlying session.
func (c *OnnxClient) Close() error {
	return c.session.Destroy()
}

// Infer runs one forward pass and returns the softmaxed policy and the value.
func (c *OnnxClient) Infer(input []float32) (Prediction, error) {
	if len(input) != InputSize {
		return Prediction{}, fmt.Errorf("expected input of length %d, got %d", InputSize, len(input))
	}

	inputTensor, err := ort.NewTensor(ort.NewShape(1, 19, FeaturesPerPosition), input)
	if err != nil {
		return Prediction{}, fmt.Errorf("failed to create input tensor: %w", err)
	}
	defer inputTensor.Destroy()

	policyTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(1, PolicySize))
	if err != nil {
		return Prediction{}, fmt.Errorf("failed to create policy tensor: %w", err)
	}
	defer policyTensor.Destroy()

	valueTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(1, 1))
	if err != nil {
		return Prediction{}, fmt.Errorf("failed to create value tensor: %w", err)
	}
	defer valueTensor.Destroy()

	c.mu.Lock()
	err = c.session.Run([]ort.Value{inputTensor}, []ort.Value{policyTensor, valueTensor})
	c.mu.Unlock()
	if err != nil {
		return Prediction{}, fmt.Errorf("inference failed: %w", err)
	}

	policy := softmax(policyTensor.GetData())
	value := float64(valueTensor.GetData()[0])

	return Prediction{Value: value, Policy: policy}, nil
}

func softmax(logits []float32) []float64 {
	maxLogit := float64(math.Inf(-1))
	for _, l := range logits {
		if float64(l) > maxLogit {
			maxLogit = float64(l)
		}
	}

	probs := make([]float64, len(logits))
	sum := 0.0
	for i, l := range logits {
		probs[i] = math.Exp(float64(l) - maxLogit)
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}
