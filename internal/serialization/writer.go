package serialization

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"math"
	"os"
	"slices"
	"time"

	"github.com/born-ml/nnlab/internal/nn"
	"github.com/born-ml/nnlab/internal/optim"
)

// Version is the nnlab version recorded in written headers.
const Version = "0.3.0"

// WriteOptions controls what a checkpoint carries besides the network.
type WriteOptions struct {
	Metadata  map[string]string // Custom key/value metadata
	Optimizer optim.Optimizer   // Optimizer whose state is saved (optional)
}

// Writer writes networks in .nnlb format.
type Writer struct {
	file   *os.File
	closed bool
}

// NewWriter creates a new .nnlb file writer.
func NewWriter(path string) (*Writer, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for model saving
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	return &Writer{file: file}, nil
}

// WriteNetwork writes net and the optional state in opts to the file.
func (w *Writer) WriteNetwork(net *nn.Network, opts WriteOptions) error {
	if w.closed {
		return fmt.Errorf("writer is closed")
	}
	return WriteTo(w.file, net, opts)
}

// Close closes the writer and the underlying file.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	return w.file.Close()
}

// Save writes net to path in .nnlb format.
func Save(path string, net *nn.Network, opts WriteOptions) error {
	w, err := NewWriter(path)
	if err != nil {
		return err
	}
	if err := w.WriteNetwork(net, opts); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

// namedTensor is a tensor queued for writing.
type namedTensor struct {
	name  string
	shape []int
	data  []float64
}

// optimizerMeta describes opt, or fails for optimizer types the format
// cannot restore.
func optimizerMeta(opt optim.Optimizer) (*OptimizerMeta, error) {
	switch o := opt.(type) {
	case *optim.SGD:
		return &OptimizerMeta{Type: "sgd", LR: o.GetLR(), Momentum: o.Momentum()}, nil
	case *optim.Adam:
		return &OptimizerMeta{Type: "adam", LR: o.GetLR()}, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownOptimizer, opt)
	}
}

// collectTensors lists the parameters in Parameters() order, followed by
// the optimizer state in sorted key order.
func collectTensors(net *nn.Network, opt optim.Optimizer) []namedTensor {
	params := net.Parameters()
	tensors := make([]namedTensor, 0, len(params))
	for _, p := range params {
		tensors = append(tensors, namedTensor{name: p.Name(), shape: p.Shape(), data: p.Data()})
	}
	if opt == nil {
		return tensors
	}
	state := opt.StateDict()
	for _, key := range slices.Sorted(maps.Keys(state)) {
		buf := state[key]
		if len(buf) == 0 {
			continue
		}
		tensors = append(tensors, namedTensor{name: OptimizerPrefix + key, shape: []int{len(buf)}, data: buf})
	}
	return tensors
}

// WriteTo writes net in .nnlb format to dst.
func WriteTo(dst io.Writer, net *nn.Network, opts WriteOptions) error {
	header := Header{
		FormatVersion: FormatVersion,
		NNLabVersion:  Version,
		CreatedAt:     time.Now().UTC(),
		LayerSizes:    net.LayerSizes(),
		Activation:    net.Activation(),
		OutputMode:    net.OutputMode(),
		Epoch:         net.Epoch(),
		TotalLoss:     net.TotalLoss(),
		Metadata:      opts.Metadata,
	}
	if header.Metadata == nil {
		header.Metadata = make(map[string]string)
	}

	flags := uint32(0)
	if len(header.Metadata) > 0 {
		flags |= FlagHasMetadata
	}
	if opts.Optimizer != nil {
		meta, err := optimizerMeta(opts.Optimizer)
		if err != nil {
			return err
		}
		header.Optimizer = meta
		flags |= FlagHasOptimizer
	}

	tensors := collectTensors(net, opts.Optimizer)

	// Lay out the data section and encode it for the checksum.
	var offset int64
	var data []byte
	header.Tensors = make([]TensorMeta, 0, len(tensors))
	for _, t := range tensors {
		size := int64(len(t.data)) * Float64Size
		header.Tensors = append(header.Tensors, TensorMeta{
			Name:   t.name,
			DType:  DTypeFloat64,
			Shape:  t.shape,
			Offset: offset,
			Size:   size,
		})
		offset += size
		for _, v := range t.data {
			data = binary.LittleEndian.AppendUint64(data, math.Float64bits(v))
		}
	}
	checksum := ComputeChecksum(data)

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("failed to marshal header: %w", err)
	}

	fixed := make([]byte, FixedHeaderSize)
	copy(fixed[0:4], MagicBytes)
	binary.LittleEndian.PutUint32(fixed[4:8], FormatVersion)
	binary.LittleEndian.PutUint32(fixed[8:12], flags)
	// 0x0C-0x0F reserved
	binary.LittleEndian.PutUint64(fixed[16:24], uint64(len(headerJSON)))
	binary.LittleEndian.PutUint64(fixed[24:32], uint64(len(data)))
	copy(fixed[ChecksumOffset:ChecksumOffset+ChecksumSize], checksum[:])

	if _, err := dst.Write(fixed); err != nil {
		return fmt.Errorf("failed to write fixed header: %w", err)
	}
	if _, err := dst.Write(headerJSON); err != nil {
		return fmt.Errorf("failed to write header JSON: %w", err)
	}
	if pad := padding(FixedHeaderSize + int64(len(headerJSON))); pad > 0 {
		if _, err := dst.Write(make([]byte, pad)); err != nil {
			return fmt.Errorf("failed to write padding: %w", err)
		}
	}
	if _, err := dst.Write(data); err != nil {
		return fmt.Errorf("failed to write tensor data: %w", err)
	}

	return nil
}
