package serialization

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/ab-obi/tf-models/internal/tensor"
)

// Writer writes state dictionaries in .tfm format.
type Writer struct {
	file   *os.File
	closed bool
}

// NewWriter creates a .tfm file writer, truncating any existing file.
func NewWriter(path string) (*Writer, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	return &Writer{file: file}, nil
}

// WriteStateDict writes a state dictionary with a default header.
func (w *Writer) WriteStateDict(stateDict map[string]*tensor.RawTensor, modelType string, metadata map[string]string) error {
	return w.WriteStateDictWithHeader(stateDict, Header{
		ModelType: modelType,
		Metadata:  metadata,
	})
}

// WriteStateDictWithHeader writes a state dictionary with a custom header,
// allowing CheckpointMeta and other fields to be set. Tensor metadata,
// format version and creation time are filled in by the writer.
func (w *Writer) WriteStateDictWithHeader(stateDict map[string]*tensor.RawTensor, header Header) error {
	if w.closed {
		return ErrWriterClosed
	}
	return writeTo(w.file, stateDict, header)
}

// Close closes the writer and the underlying file.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	return w.file.Close()
}

// WriteTo writes a state dictionary to an io.Writer. Useful for buffers
// and network connections.
func WriteTo(writer io.Writer, stateDict map[string]*tensor.RawTensor, modelType string, metadata map[string]string) error {
	return writeTo(writer, stateDict, Header{
		ModelType: modelType,
		Metadata:  metadata,
	})
}

func writeTo(writer io.Writer, stateDict map[string]*tensor.RawTensor, header Header) error {
	header.FormatVersion = FormatVersion
	header.CreatedAt = time.Now().UTC()
	if header.Metadata == nil {
		header.Metadata = make(map[string]string)
	}

	// Sorted order keeps the byte layout deterministic for a given dict.
	tensorOrder := make([]string, 0, len(stateDict))
	for name := range stateDict {
		tensorOrder = append(tensorOrder, name)
	}
	sort.Strings(tensorOrder)

	var currentOffset int64
	header.Tensors = make([]TensorMeta, 0, len(stateDict))
	for _, name := range tensorOrder {
		raw := stateDict[name]
		size := int64(raw.ByteSize())
		header.Tensors = append(header.Tensors, TensorMeta{
			Name:   name,
			DType:  dtypeToString(raw.DType()),
			Shape:  []int(raw.Shape()),
			Offset: currentOffset,
			Size:   size,
		})
		currentOffset += size
	}

	tensorData := make([]byte, 0, currentOffset)
	for _, name := range tensorOrder {
		tensorData = append(tensorData, stateDict[name].Data()...)
	}
	checksum := ComputeChecksum(tensorData)

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("failed to marshal header: %w", err)
	}

	if _, err := writer.Write([]byte(MagicBytes)); err != nil {
		return fmt.Errorf("failed to write magic bytes: %w", err)
	}
	if err := binary.Write(writer, binary.LittleEndian, uint32(FormatVersion)); err != nil {
		return fmt.Errorf("failed to write version: %w", err)
	}

	flags := uint32(0)
	if len(header.Metadata) > 0 {
		flags |= FlagHasMetadata
	}
	if header.CheckpointMeta != nil {
		flags |= FlagHasCheckpoint
	}
	if err := binary.Write(writer, binary.LittleEndian, flags); err != nil {
		return fmt.Errorf("failed to write flags: %w", err)
	}

	headerSize := uint64(len(headerJSON))
	if err := binary.Write(writer, binary.LittleEndian, headerSize); err != nil {
		return fmt.Errorf("failed to write header size: %w", err)
	}
	if _, err := writer.Write(checksum[:]); err != nil {
		return fmt.Errorf("failed to write checksum: %w", err)
	}
	if _, err := writer.Write(headerJSON); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	padding := alignmentPadding(int64(fixedPrefixSize) + int64(headerSize))
	if padding > 0 {
		if _, err := writer.Write(make([]byte, padding)); err != nil {
			return fmt.Errorf("failed to write padding: %w", err)
		}
	}

	if _, err := writer.Write(tensorData); err != nil {
		return fmt.Errorf("failed to write tensor data: %w", err)
	}
	return nil
}
