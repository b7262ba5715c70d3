package dump

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/Daltonhensley19/refcollect/internal/conv"
)

// Compression selects the block compression of a snapshot.
type Compression uint8

const (
	// CompressionNone stores the encoded snapshot as is.
	CompressionNone Compression = 0
	// CompressionLZ4 uses LZ4 block compression.
	CompressionLZ4 Compression = 1
	// CompressionZSTD uses zstd, which compresses better but slower.
	CompressionZSTD Compression = 2
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("compression(%d)", uint8(c))
	}
}

// ParseCompression maps a name as printed by String back to a Compression.
func ParseCompression(name string) (Compression, error) {
	for _, c := range []Compression{CompressionNone, CompressionLZ4, CompressionZSTD} {
		if c.String() == name {
			return c, nil
		}
	}
	return 0, fmt.Errorf("dump: unknown compression %q", name)
}

// maxExpansion bounds the declared decompressed size of a block relative to
// its stored size, so a corrupt header cannot force a huge allocation.
const maxExpansion = 1 << 16

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	return dec
}

// Block layout: [UncompressedSize uint32][StoredSize uint32][Data...]
// StoredSize 0 means Data is stored uncompressed.
const blockHeaderSize = 8

var errShortBlock = errors.New("dump: block truncated")

// compressBlock frames data, compressed when that actually saves space.
func compressBlock(data []byte, c Compression) ([]byte, error) {
	size, err := conv.IntToUint32(len(data))
	if err != nil {
		return nil, fmt.Errorf("dump: snapshot too large: %w", err)
	}

	var compressed []byte
	switch c {
	case CompressionNone:
	case CompressionLZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, buf, nil)
		if err != nil {
			return nil, err
		}
		compressed = buf[:n]
	case CompressionZSTD:
		enc := getZstdEncoder()
		compressed = enc.EncodeAll(data, nil)
		zstdEncoderPool.Put(enc)
	default:
		return nil, fmt.Errorf("dump: unknown compression %d", c)
	}

	stored := compressed
	if len(compressed) == 0 || len(compressed) >= len(data) {
		stored = data
		compressed = nil
	}

	out := make([]byte, blockHeaderSize+len(stored))
	binary.LittleEndian.PutUint32(out[0:], size)
	binary.LittleEndian.PutUint32(out[4:], uint32(len(compressed))) //nolint:gosec // not larger than data
	copy(out[blockHeaderSize:], stored)
	return out, nil
}

func decompressBlock(block []byte, c Compression) ([]byte, error) {
	if len(block) < blockHeaderSize {
		return nil, errShortBlock
	}
	size := binary.LittleEndian.Uint32(block[0:])
	stored := binary.LittleEndian.Uint32(block[4:])
	data := block[blockHeaderSize:]

	if stored == 0 {
		if uint32(len(data)) < size {
			return nil, errShortBlock
		}
		return data[:size], nil
	}
	if uint32(len(data)) < stored {
		return nil, errShortBlock
	}
	data = data[:stored]
	if uint64(size) > uint64(stored)*maxExpansion {
		return nil, fmt.Errorf("dump: declared size %d too large for %d stored bytes", size, stored)
	}

	switch c {
	case CompressionLZ4:
		out := make([]byte, size)
		n, err := lz4.UncompressBlock(data, out)
		if err != nil {
			return nil, fmt.Errorf("dump: lz4: %w", err)
		}
		if uint32(n) != size {
			return nil, fmt.Errorf("dump: lz4: got %d bytes, want %d", n, size)
		}
		return out, nil
	case CompressionZSTD:
		dec := getZstdDecoder()
		defer zstdDecoderPool.Put(dec)
		out, err := dec.DecodeAll(data, make([]byte, 0, size))
		if err != nil {
			return nil, fmt.Errorf("dump: zstd: %w", err)
		}
		if uint32(len(out)) != size {
			return nil, fmt.Errorf("dump: zstd: got %d bytes, want %d", len(out), size)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("dump: unknown compression %d", c)
	}
}
