package serialization

import (
	"time"

	"github.com/born-ml/nnlab/internal/nn"
)

// Format constants.
const (
	MagicBytes      = "NNLB"
	FormatVersion   = 1
	HeaderAlignment = 64   // Tensor data starts on a 64-byte boundary
	FixedHeaderSize = 64   // Fixed binary header (0x40 bytes)
	ChecksumSize    = 32   // SHA-256 checksum size
	ChecksumOffset  = 0x20 // Checksum offset in the fixed header
	Float64Size     = 8    // Bytes per stored element
)

// DTypeFloat64 is the only element type a checkpoint stores.
const DTypeFloat64 = "float64"

// OptimizerPrefix prefixes the names of optimizer state tensors.
const OptimizerPrefix = "optim."

// Flags for the .nnlb format.
const (
	FlagHasOptimizer uint32 = 1 << 0 // bit 0: optimizer state included
	FlagHasMetadata  uint32 = 1 << 1 // bit 1: custom metadata included
)

// Header represents the JSON header in a .nnlb file.
type Header struct {
	FormatVersion int               `json:"format_version"`      // Version of the .nnlb format
	NNLabVersion  string            `json:"nnlab_version"`       // Version of nnlab that wrote the file
	CreatedAt     time.Time         `json:"created_at"`          // When the file was written
	LayerSizes    []int             `json:"layer_sizes"`         // Neurons per layer, input first
	Activation    nn.Activation     `json:"activation"`          // Hidden-layer activation
	OutputMode    nn.OutputMode     `json:"output_mode"`         // Output-layer mode
	Epoch         int               `json:"epoch"`               // Completed training epochs
	TotalLoss     float64           `json:"total_loss"`          // Running loss of the last epoch
	Tensors       []TensorMeta      `json:"tensors"`             // Tensor metadata, in data order
	Metadata      map[string]string `json:"metadata"`            // Custom metadata
	Optimizer     *OptimizerMeta    `json:"optimizer,omitempty"` // Optimizer description (optional)
}

// OptimizerMeta describes the optimizer whose state follows the parameters.
type OptimizerMeta struct {
	Type     string  `json:"type"`     // "sgd" or "adam"
	LR       float64 `json:"lr"`       // Learning rate at save time
	Momentum float64 `json:"momentum"` // SGD momentum (0 for adam)
}

// TensorMeta describes a tensor in the .nnlb file.
type TensorMeta struct {
	Name   string `json:"name"`   // Tensor name (e.g., "layer.0.weight")
	DType  string `json:"dtype"`  // Always "float64"
	Shape  []int  `json:"shape"`  // Tensor shape
	Offset int64  `json:"offset"` // Offset in the data section
	Size   int64  `json:"size"`   // Size in bytes
}

// NumElements returns the product of the shape.
func (m TensorMeta) NumElements() int64 {
	n := int64(1)
	for _, d := range m.Shape {
		n *= int64(d)
	}
	return n
}

// padding returns the zero bytes needed after pos to reach the alignment.
func padding(pos int64) int64 {
	return (HeaderAlignment - pos%HeaderAlignment) % HeaderAlignment
}
