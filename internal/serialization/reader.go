package serialization

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ab-obi/tf-models/internal/tensor"
)

// Reader reads state dictionaries from .tfm files.
type Reader struct {
	file       *os.File
	header     Header
	flags      uint32
	dataOffset int64
	checksum   [32]byte
	closed     bool
}

// ReaderOptions configures Reader behavior.
type ReaderOptions struct {
	// SkipChecksumValidation disables the SHA-256 check over the data
	// section. Faster, but corruption goes undetected.
	SkipChecksumValidation bool
}

// NewReader opens a .tfm file with checksum validation enabled.
func NewReader(path string) (*Reader, error) {
	return NewReaderWithOptions(path, ReaderOptions{})
}

// NewReaderWithOptions opens a .tfm file with custom options.
func NewReaderWithOptions(path string, opts ReaderOptions) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	r := &Reader{file: file}
	if err := r.parseHeader(); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to parse header: %w", err)
	}

	if !opts.SkipChecksumValidation {
		if err := r.validateChecksum(); err != nil {
			_ = file.Close()
			return nil, err
		}
	}
	return r, nil
}

func (r *Reader) parseHeader() error {
	// Check the magic before reading the rest of the prefix so that a
	// truncated or foreign file reports ErrInvalidMagic, not EOF.
	magic := make([]byte, len(MagicBytes))
	if _, err := io.ReadFull(r.file, magic); err != nil {
		return fmt.Errorf("failed to read magic bytes: %w", err)
	}
	if string(magic) != MagicBytes {
		return ErrInvalidMagic
	}

	prefix := make([]byte, fixedPrefixSize-len(MagicBytes))
	if _, err := io.ReadFull(r.file, prefix); err != nil {
		return fmt.Errorf("failed to read fixed prefix: %w", err)
	}

	version := binary.LittleEndian.Uint32(prefix[0:4])
	if version != FormatVersion {
		return fmt.Errorf("%w: got %d, expected %d", ErrUnsupportedVersion, version, FormatVersion)
	}
	r.flags = binary.LittleEndian.Uint32(prefix[4:8])

	headerSize := binary.LittleEndian.Uint64(prefix[8:16])
	if headerSize > maxHeaderSize {
		return ErrHeaderTooLarge
	}
	copy(r.checksum[:], prefix[16:16+ChecksumSize])

	headerBytes := make([]byte, headerSize)
	if _, err := io.ReadFull(r.file, headerBytes); err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}
	if err := json.Unmarshal(headerBytes, &r.header); err != nil {
		return fmt.Errorf("failed to parse header JSON: %w", err)
	}

	currentPos := int64(fixedPrefixSize) + int64(headerSize)
	r.dataOffset = currentPos + alignmentPadding(currentPos)
	return nil
}

func (r *Reader) validateChecksum() error {
	var dataSize int64
	for _, meta := range r.header.Tensors {
		dataSize += meta.Size
	}

	tensorData := make([]byte, dataSize)
	if _, err := r.file.Seek(r.dataOffset, io.SeekStart); err != nil {
		return fmt.Errorf("failed to seek to tensor data: %w", err)
	}
	if _, err := io.ReadFull(r.file, tensorData); err != nil {
		return fmt.Errorf("failed to read tensor data for checksum: %w", err)
	}
	return ValidateChecksum(ComputeChecksum(tensorData), r.checksum)
}

// Header returns the parsed file header.
func (r *Reader) Header() Header {
	return r.header
}

// Metadata returns the metadata map from the header.
func (r *Reader) Metadata() map[string]string {
	return r.header.Metadata
}

// TensorNames lists all tensor names in the file.
func (r *Reader) TensorNames() []string {
	names := make([]string, len(r.header.Tensors))
	for i, meta := range r.header.Tensors {
		names[i] = meta.Name
	}
	return names
}

// TensorInfo returns metadata for a named tensor.
func (r *Reader) TensorInfo(name string) (*TensorMeta, error) {
	for _, meta := range r.header.Tensors {
		if meta.Name == name {
			return &meta, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrTensorNotFound, name)
}

// LoadTensor loads a single named tensor.
func (r *Reader) LoadTensor(name string, device tensor.Device) (*tensor.RawTensor, error) {
	if r.closed {
		return nil, ErrReaderClosed
	}

	meta, err := r.TensorInfo(name)
	if err != nil {
		return nil, err
	}

	dtype, ok := stringToDtype(meta.DType)
	if !ok {
		return nil, fmt.Errorf("unsupported dtype: %s", meta.DType)
	}

	shape := tensor.Shape(meta.Shape)
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape for tensor %s: %w", name, err)
	}

	if _, err := r.file.Seek(r.dataOffset+meta.Offset, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to seek to tensor data: %w", err)
	}
	data := make([]byte, meta.Size)
	if _, err := io.ReadFull(r.file, data); err != nil {
		return nil, fmt.Errorf("failed to read tensor data: %w", err)
	}

	raw, err := tensor.NewRaw(shape, dtype, device)
	if err != nil {
		return nil, fmt.Errorf("failed to create tensor: %w", err)
	}
	copy(raw.Data(), data)
	return raw, nil
}

// ReadStateDict loads all tensors into a state dictionary.
func (r *Reader) ReadStateDict(device tensor.Device) (map[string]*tensor.RawTensor, error) {
	if r.closed {
		return nil, ErrReaderClosed
	}

	stateDict := make(map[string]*tensor.RawTensor, len(r.header.Tensors))
	for _, meta := range r.header.Tensors {
		raw, err := r.LoadTensor(meta.Name, device)
		if err != nil {
			return nil, fmt.Errorf("failed to load tensor %s: %w", meta.Name, err)
		}
		stateDict[meta.Name] = raw
	}
	return stateDict, nil
}

// Close closes the reader and the underlying file.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	return r.file.Close()
}

// ReadFrom reads a state dictionary from an io.Reader.
func ReadFrom(reader io.Reader, device tensor.Device) (map[string]*tensor.RawTensor, Header, error) {
	magic := make([]byte, len(MagicBytes))
	if _, err := io.ReadFull(reader, magic); err != nil {
		return nil, Header{}, fmt.Errorf("failed to read magic bytes: %w", err)
	}
	if string(magic) != MagicBytes {
		return nil, Header{}, ErrInvalidMagic
	}

	prefix := make([]byte, fixedPrefixSize-len(MagicBytes))
	if _, err := io.ReadFull(reader, prefix); err != nil {
		return nil, Header{}, fmt.Errorf("failed to read fixed prefix: %w", err)
	}
	version := binary.LittleEndian.Uint32(prefix[0:4])
	if version != FormatVersion {
		return nil, Header{}, fmt.Errorf("%w: got %d, expected %d", ErrUnsupportedVersion, version, FormatVersion)
	}

	headerSize := binary.LittleEndian.Uint64(prefix[8:16])
	if headerSize > maxHeaderSize {
		return nil, Header{}, ErrHeaderTooLarge
	}
	var stored [32]byte
	copy(stored[:], prefix[16:16+ChecksumSize])

	headerBytes := make([]byte, headerSize)
	if _, err := io.ReadFull(reader, headerBytes); err != nil {
		return nil, Header{}, fmt.Errorf("failed to read header: %w", err)
	}
	var header Header
	if err := json.Unmarshal(headerBytes, &header); err != nil {
		return nil, Header{}, fmt.Errorf("failed to parse header JSON: %w", err)
	}

	currentPos := int64(fixedPrefixSize) + int64(headerSize)
	if padding := alignmentPadding(currentPos); padding > 0 {
		if _, err := io.CopyN(io.Discard, reader, padding); err != nil {
			return nil, Header{}, fmt.Errorf("failed to skip padding: %w", err)
		}
	}

	var dataSize int64
	for _, meta := range header.Tensors {
		dataSize += meta.Size
	}
	tensorData := make([]byte, dataSize)
	if _, err := io.ReadFull(reader, tensorData); err != nil {
		return nil, Header{}, fmt.Errorf("failed to read tensor data: %w", err)
	}
	if err := ValidateChecksum(ComputeChecksum(tensorData), stored); err != nil {
		return nil, Header{}, err
	}

	stateDict := make(map[string]*tensor.RawTensor, len(header.Tensors))
	for _, meta := range header.Tensors {
		dtype, ok := stringToDtype(meta.DType)
		if !ok {
			return nil, Header{}, fmt.Errorf("unsupported dtype: %s", meta.DType)
		}
		shape := tensor.Shape(meta.Shape)
		if err := shape.Validate(); err != nil {
			return nil, Header{}, fmt.Errorf("invalid shape for tensor %s: %w", meta.Name, err)
		}

		raw, err := tensor.NewRaw(shape, dtype, device)
		if err != nil {
			return nil, Header{}, fmt.Errorf("failed to create tensor: %w", err)
		}
		copy(raw.Data(), tensorData[meta.Offset:meta.Offset+meta.Size])
		stateDict[meta.Name] = raw
	}
	return stateDict, header, nil
}
