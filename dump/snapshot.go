package dump

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/Daltonhensley19/refcollect"
	"github.com/Daltonhensley19/refcollect/codec"
	"github.com/Daltonhensley19/refcollect/internal/fs"
	"github.com/Daltonhensley19/refcollect/internal/resource"
)

const (
	magic   = "RCSN"
	version = 1
)

// ErrInvalidSnapshot is returned by ReadSnapshot for malformed input.
var ErrInvalidSnapshot = errors.New("dump: invalid snapshot")

// SnapshotNode is one object of a chain.
type SnapshotNode struct {
	Address string  `json:"address"`
	Data1   int32   `json:"data1"`
	Data2   float32 `json:"data2"`
	Marked  bool    `json:"marked,omitempty"`
}

// SnapshotRoot is one root and its chain, empty if the root was collected.
type SnapshotRoot struct {
	Index int            `json:"index"`
	Chain []SnapshotNode `json:"chain"`
}

// Snapshot captures every root of an arena.
type Snapshot struct {
	TakenAt time.Time      `json:"taken_at"`
	Roots   []SnapshotRoot `json:"roots"`
}

// Objects returns the number of objects across all chains.
func (s Snapshot) Objects() int {
	n := 0
	for _, r := range s.Roots {
		n += len(r.Chain)
	}
	return n
}

// TakeSnapshot copies the current state of every root.
func TakeSnapshot(v refcollect.View) (Snapshot, error) {
	snap := Snapshot{
		TakenAt: time.Now().UTC(),
		Roots:   make([]SnapshotRoot, 0, v.Len()),
	}
	for root := range v.Len() {
		trail, err := v.Trail(root)
		if err != nil {
			return Snapshot{}, err
		}
		r := SnapshotRoot{Index: root, Chain: []SnapshotNode{}}
		for _, n := range trail {
			r.Chain = append(r.Chain, SnapshotNode{
				Address: n.Handle.String(),
				Data1:   n.Payload.Data1,
				Data2:   n.Payload.Data2,
				Marked:  n.Marked,
			})
		}
		snap.Roots = append(snap.Roots, r)
	}
	return snap, nil
}

type snapshotOptions struct {
	codec       codec.Codec
	compression Compression
	rateLimit   int64
	fs          fs.FileSystem
}

// SnapshotOption configures WriteSnapshot.
type SnapshotOption func(*snapshotOptions)

// WithCodec sets the codec used to encode the snapshot. Defaults to codec.Default.
func WithCodec(c codec.Codec) SnapshotOption {
	return func(o *snapshotOptions) {
		if c != nil {
			o.codec = c
		}
	}
}

// WithCompression sets the block compression. Defaults to CompressionNone.
func WithCompression(c Compression) SnapshotOption {
	return func(o *snapshotOptions) {
		o.compression = c
	}
}

// WithRateLimit caps the write throughput in bytes per second. 0 means unlimited.
func WithRateLimit(bytesPerSec int64) SnapshotOption {
	return func(o *snapshotOptions) {
		o.rateLimit = bytesPerSec
	}
}

func withFileSystem(fsys fs.FileSystem) SnapshotOption {
	return func(o *snapshotOptions) {
		o.fs = fsys
	}
}

func applySnapshotOptions(opts []SnapshotOption) snapshotOptions {
	o := snapshotOptions{codec: codec.Default, fs: fs.Default}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// WriteSnapshot encodes snap and writes it to w.
// With a rate limit set, writing waits for the limiter and stops when ctx is
// done.
func WriteSnapshot(ctx context.Context, w io.Writer, snap Snapshot, opts ...SnapshotOption) error {
	o := applySnapshotOptions(opts)

	name := o.codec.Name()
	if len(name) > 255 {
		return fmt.Errorf("dump: codec name %q too long", name)
	}

	body, err := o.codec.Marshal(snap)
	if err != nil {
		return fmt.Errorf("dump: encode snapshot: %w", err)
	}
	block, err := compressBlock(body, o.compression)
	if err != nil {
		return fmt.Errorf("dump: compress snapshot: %w", err)
	}

	var buf bytes.Buffer
	buf.Grow(len(magic) + 3 + len(name) + len(block))
	buf.WriteString(magic)
	buf.WriteByte(version)
	buf.WriteByte(byte(o.compression))
	buf.WriteByte(byte(len(name)))
	buf.WriteString(name)
	buf.Write(block)

	var rc *resource.Controller
	if o.rateLimit > 0 {
		rc = resource.NewController(resource.Config{IOLimitBytesPerSec: o.rateLimit})
	}
	_, err = buf.WriteTo(resource.NewRateLimitedWriter(ctx, w, rc))
	return err
}

// ReadSnapshot decodes a snapshot written by WriteSnapshot. The codec is
// chosen by the name recorded in the header.
func ReadSnapshot(r io.Reader) (Snapshot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Snapshot{}, err
	}

	const fixed = len(magic) + 3
	if len(data) < fixed || string(data[:len(magic)]) != magic {
		return Snapshot{}, fmt.Errorf("%w: bad magic", ErrInvalidSnapshot)
	}
	if v := data[len(magic)]; v != version {
		return Snapshot{}, fmt.Errorf("%w: unsupported version %d", ErrInvalidSnapshot, v)
	}
	compression := Compression(data[len(magic)+1])
	nameLen := int(data[len(magic)+2])
	if len(data) < fixed+nameLen {
		return Snapshot{}, fmt.Errorf("%w: truncated header", ErrInvalidSnapshot)
	}
	name := string(data[fixed : fixed+nameLen])

	c, ok := codec.ByName(name)
	if !ok {
		return Snapshot{}, fmt.Errorf("%w: unknown codec %q", ErrInvalidSnapshot, name)
	}

	body, err := decompressBlock(data[fixed+nameLen:], compression)
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}

	var snap Snapshot
	if err := c.Unmarshal(body, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("%w: decode: %v", ErrInvalidSnapshot, err)
	}
	return snap, nil
}
