package serialization

import (
	"time"

	"github.com/ab-obi/tf-models/internal/tensor"
)

// Format constants.
const (
	MagicBytes      = "TFMD"
	FormatVersion   = 1
	HeaderAlignment = 64 // tensor data is aligned to 64 bytes
	ChecksumSize    = 32 // SHA-256
	maxHeaderSize   = 100 * 1024 * 1024

	// fixedPrefixSize is magic + version + flags + header size + checksum.
	fixedPrefixSize = 4 + 4 + 4 + 8 + ChecksumSize
)

// Data type string constants for serialization.
const (
	DTypeFloat32 = "float32"
	DTypeInt32   = "int32"
)

// Flags for the .tfm format.
const (
	FlagHasCheckpoint uint32 = 1 << 0 // training state included
	FlagHasMetadata   uint32 = 1 << 1 // custom metadata included
)

// Header is the JSON header in a .tfm file.
type Header struct {
	FormatVersion  int               `json:"format_version"`
	ModelType      string            `json:"model_type"`
	CreatedAt      time.Time         `json:"created_at"`
	Tensors        []TensorMeta      `json:"tensors"`
	Metadata       map[string]string `json:"metadata"`
	CheckpointMeta *CheckpointMeta   `json:"checkpoint,omitempty"`
}

// CheckpointMeta carries training state for checkpoint files. The tuner
// writes one per epoch so a trial can be resumed or its best weights
// restored after the search.
type CheckpointMeta struct {
	TrialID         string             `json:"trial_id,omitempty"`
	Epoch           int                `json:"epoch"`
	Score           float64            `json:"score"`
	OptimizerType   string             `json:"optimizer_type,omitempty"`
	OptimizerConfig map[string]float64 `json:"optimizer_config,omitempty"`
	Hyperparameters map[string]any     `json:"hyperparameters,omitempty"`
}

// TensorMeta describes a tensor in the data section.
type TensorMeta struct {
	Name   string `json:"name"`
	DType  string `json:"dtype"`
	Shape  []int  `json:"shape"`
	Offset int64  `json:"offset"` // bytes from start of data section
	Size   int64  `json:"size"`
}

func dtypeToString(dt tensor.DataType) string {
	switch dt {
	case tensor.Float32:
		return DTypeFloat32
	case tensor.Int32:
		return DTypeInt32
	default:
		return "unknown"
	}
}

func stringToDtype(s string) (tensor.DataType, bool) {
	switch s {
	case DTypeFloat32:
		return tensor.Float32, true
	case DTypeInt32:
		return tensor.Int32, true
	default:
		return 0, false
	}
}

func alignmentPadding(pos int64) int64 {
	return (HeaderAlignment - (pos % HeaderAlignment)) % HeaderAlignment
}
