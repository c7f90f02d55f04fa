package serialization

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/born-ml/nnlab/internal/nn"
	"github.com/born-ml/nnlab/internal/optim"
)

// MaxDataSize bounds the data section a reader will allocate.
const MaxDataSize = 1 << 30

// ReaderOptions configures checkpoint reading.
type ReaderOptions struct {
	SkipChecksumValidation bool            // Skip checksum validation (faster but less safe)
	ValidationLevel        ValidationLevel // Validation strictness level (default: strict)
}

// Checkpoint is a parsed .nnlb file held in memory.
type Checkpoint struct {
	header   Header
	version  uint32
	flags    uint32
	checksum [ChecksumSize]byte
	data     []byte
}

// Load reads and validates the checkpoint at path.
func Load(path string, opts ReaderOptions) (*Checkpoint, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for model loading
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	ckpt, err := ReadFrom(file, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ckpt, nil
}

// ReadFrom reads and validates a checkpoint from r. Bytes after the data
// section are not consumed.
func ReadFrom(r io.Reader, opts ReaderOptions) (*Checkpoint, error) {
	fixed := make([]byte, FixedHeaderSize)
	if _, err := io.ReadFull(r, fixed); err != nil {
		return nil, fmt.Errorf("failed to read fixed header: %w", err)
	}
	if string(fixed[0:4]) != MagicBytes {
		return nil, fmt.Errorf("%w: got %q, expected %q", ErrInvalidMagic, fixed[0:4], MagicBytes)
	}

	c := &Checkpoint{
		version: binary.LittleEndian.Uint32(fixed[4:8]),
		flags:   binary.LittleEndian.Uint32(fixed[8:12]),
	}
	if c.version != FormatVersion {
		return nil, fmt.Errorf("%w: got %d, expected %d", ErrUnsupportedVersion, c.version, FormatVersion)
	}
	headerSize := binary.LittleEndian.Uint64(fixed[16:24])
	dataSize := binary.LittleEndian.Uint64(fixed[24:32])
	copy(c.checksum[:], fixed[ChecksumOffset:ChecksumOffset+ChecksumSize])

	if headerSize > MaxHeaderSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrHeaderTooLarge, headerSize)
	}
	if dataSize > MaxDataSize || dataSize%Float64Size != 0 {
		return nil, &ValidationError{
			Type:    "out_of_bounds",
			Details: fmt.Sprintf("data section size %d is not a float64 array within %d bytes", dataSize, MaxDataSize),
		}
	}

	headerBytes := make([]byte, headerSize)
	if _, err := io.ReadFull(r, headerBytes); err != nil {
		return nil, fmt.Errorf("failed to read header JSON: %w", err)
	}
	if err := json.Unmarshal(headerBytes, &c.header); err != nil {
		return nil, fmt.Errorf("failed to parse header JSON: %w", err)
	}

	//nolint:gosec // G115: headerSize is bounded by MaxHeaderSize
	if pad := padding(FixedHeaderSize + int64(headerSize)); pad > 0 {
		if _, err := io.CopyN(io.Discard, r, pad); err != nil {
			return nil, fmt.Errorf("failed to read padding: %w", err)
		}
	}

	c.data = make([]byte, dataSize)
	if _, err := io.ReadFull(r, c.data); err != nil {
		return nil, fmt.Errorf("failed to read tensor data: %w", err)
	}

	if !opts.SkipChecksumValidation {
		computed, err := ComputeChecksumReader(bytes.NewReader(c.data))
		if err != nil {
			return nil, err
		}
		if err := ValidateChecksum(computed, c.checksum); err != nil {
			return nil, err
		}
	}

	//nolint:gosec // G115: dataSize is bounded by MaxDataSize
	if err := ValidateHeader(&c.header, int64(dataSize), opts.ValidationLevel); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return c, nil
}

// Header returns the file header.
func (c *Checkpoint) Header() Header {
	return c.header
}

// Flags returns the flag bits from the fixed header.
func (c *Checkpoint) Flags() uint32 {
	return c.flags
}

// Metadata returns the metadata map from the header.
func (c *Checkpoint) Metadata() map[string]string {
	return c.header.Metadata
}

// TensorNames returns the names of all tensors in file order.
func (c *Checkpoint) TensorNames() []string {
	names := make([]string, len(c.header.Tensors))
	for i, meta := range c.header.Tensors {
		names[i] = meta.Name
	}
	return names
}

// TensorInfo returns information about a specific tensor.
func (c *Checkpoint) TensorInfo(name string) (*TensorMeta, error) {
	for _, meta := range c.header.Tensors {
		if meta.Name == name {
			return &meta, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrTensorNotFound, name)
}

// Tensor decodes the named tensor into a new slice.
func (c *Checkpoint) Tensor(name string) ([]float64, error) {
	meta, err := c.TensorInfo(name)
	if err != nil {
		return nil, err
	}
	// Bounds are checked here too so that ValidationNone cannot cause a panic.
	if meta.Offset < 0 || meta.Size < 0 || meta.Size%Float64Size != 0 || meta.Size > int64(len(c.data))-meta.Offset {
		return nil, &ValidationError{
			Type:    "out_of_bounds",
			Tensor:  name,
			Details: fmt.Sprintf("offset %d + size %d exceeds data_size %d", meta.Offset, meta.Size, len(c.data)),
		}
	}

	raw := c.data[meta.Offset : meta.Offset+meta.Size]
	out := make([]float64, len(raw)/Float64Size)
	for i := range out {
		out[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[i*Float64Size:]))
	}
	return out, nil
}

// StateDict decodes every parameter tensor.
func (c *Checkpoint) StateDict() (map[string][]float64, error) {
	metas := parameterMetas(c.header.Tensors)
	state := make(map[string][]float64, len(metas))
	for _, meta := range metas {
		data, err := c.Tensor(meta.Name)
		if err != nil {
			return nil, err
		}
		state[meta.Name] = data
	}
	return state, nil
}

// OptimizerState decodes the saved optimizer buffers, keyed as the
// optimizer's own StateDict. It is empty when none were saved.
func (c *Checkpoint) OptimizerState() (map[string][]float64, error) {
	state := make(map[string][]float64)
	for _, meta := range c.header.Tensors {
		key, ok := strings.CutPrefix(meta.Name, OptimizerPrefix)
		if !ok {
			continue
		}
		data, err := c.Tensor(meta.Name)
		if err != nil {
			return nil, err
		}
		state[key] = data
	}
	return state, nil
}

// Network rebuilds the saved network: architecture, weights, biases and
// training progress. The rebuilt network gets a fresh clock-seeded random
// source.
func (c *Checkpoint) Network() (*nn.Network, error) {
	if err := ValidateArchitecture(&c.header, int64(len(c.data))); err != nil {
		return nil, err
	}

	net, err := nn.NewWithConfig(nn.Config{
		LayerSizes: c.header.LayerSizes,
		Hidden:     c.header.Activation,
		Output:     c.header.OutputMode,
	})
	if err != nil {
		return nil, err
	}

	state, err := c.StateDict()
	if err != nil {
		return nil, err
	}
	if err := net.LoadStateDict(state); err != nil {
		return nil, err
	}
	if err := net.RestoreProgress(c.header.Epoch, c.header.TotalLoss); err != nil {
		return nil, err
	}
	return net, nil
}

// Optimizer recreates the saved optimizer over params (normally the
// Parameters of the network returned by Network) and restores its state.
// It returns nil, nil when the checkpoint carries no optimizer.
func (c *Checkpoint) Optimizer(params []*nn.Parameter) (optim.Optimizer, error) {
	meta := c.header.Optimizer
	if meta == nil {
		return nil, nil
	}

	var opt optim.Optimizer
	switch meta.Type {
	case "sgd":
		opt = optim.NewSGD(params, optim.SGDConfig{LR: meta.LR, Momentum: meta.Momentum})
	case "adam":
		opt = optim.NewAdam(params, optim.AdamConfig{LR: meta.LR})
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownOptimizer, meta.Type)
	}

	state, err := c.OptimizerState()
	if err != nil {
		return nil, err
	}
	if err := opt.LoadStateDict(state); err != nil {
		return nil, fmt.Errorf("restore optimizer: %w", err)
	}
	return opt, nil
}
