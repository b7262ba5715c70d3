package dump

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Daltonhensley19/refcollect"
	"github.com/Daltonhensley19/refcollect/codec"
)

func TestTakeSnapshot(t *testing.T) {
	a := newArena(t)
	require.NoError(t, a.MarkUnreachable(0, 1))
	require.NoError(t, a.MarkUnreachable(1, 0))
	_, err := a.Sweep()
	require.NoError(t, err)

	snap, err := TakeSnapshot(a.View())
	require.NoError(t, err)

	require.Len(t, snap.Roots, 2)
	assert.Equal(t, []SnapshotNode{{Address: "#0.1", Data1: 1, Data2: 0.1}}, snap.Roots[0].Chain)
	assert.Equal(t, 1, snap.Roots[1].Index)
	assert.Empty(t, snap.Roots[1].Chain)
	assert.Equal(t, 1, snap.Objects())
	assert.False(t, snap.TakenAt.IsZero())
}

func TestTakeSnapshot_Closed(t *testing.T) {
	a, err := refcollect.New(refcollect.WithInitialRoots(1))
	require.NoError(t, err)
	require.NoError(t, a.Close())

	_, err = TakeSnapshot(a.View())
	assert.ErrorIs(t, err, refcollect.ErrClosed)
}

func TestSnapshotRoundTrip(t *testing.T) {
	a := newArena(t)
	require.NoError(t, a.MarkUnreachable(0, 2))
	snap, err := TakeSnapshot(a.View())
	require.NoError(t, err)

	tests := []struct {
		name        string
		codec       codec.Codec
		compression Compression
	}{
		{"go-json/none", codec.GoJSON{}, CompressionNone},
		{"go-json/lz4", codec.GoJSON{}, CompressionLZ4},
		{"json/zstd", codec.JSON{}, CompressionZSTD},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := WriteSnapshot(context.Background(), &buf, snap,
				WithCodec(tt.codec),
				WithCompression(tt.compression),
				WithRateLimit(1<<20),
			)
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(buf.String(), magic))

			got, err := ReadSnapshot(&buf)
			require.NoError(t, err)
			assert.True(t, snap.TakenAt.Equal(got.TakenAt))
			got.TakenAt = snap.TakenAt
			assert.Equal(t, snap, got)
		})
	}
}

func TestWriteSnapshot_CompressesLargeSnapshots(t *testing.T) {
	snap := Snapshot{Roots: []SnapshotRoot{{Index: 0}}}
	for range 500 {
		snap.Roots[0].Chain = append(snap.Roots[0].Chain, SnapshotNode{Address: "#1.1", Data1: 7, Data2: 7})
	}

	var plain, packed bytes.Buffer
	require.NoError(t, WriteSnapshot(context.Background(), &plain, snap))
	require.NoError(t, WriteSnapshot(context.Background(), &packed, snap, WithCompression(CompressionZSTD)))
	assert.Less(t, packed.Len(), plain.Len()/4)

	got, err := ReadSnapshot(&packed)
	require.NoError(t, err)
	assert.Equal(t, 500, got.Objects())
}

func TestWriteSnapshot_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	err := WriteSnapshot(ctx, &buf, Snapshot{}, WithRateLimit(1))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReadSnapshot_Invalid(t *testing.T) {
	var valid bytes.Buffer
	require.NoError(t, WriteSnapshot(context.Background(), &valid, Snapshot{}))
	data := valid.Bytes()

	tests := []struct {
		name  string
		input []byte
	}{
		{"empty", nil},
		{"bad magic", append([]byte("NOPE"), data[4:]...)},
		{"bad version", append(append([]byte(magic), 9), data[5:]...)},
		{"unknown codec", []byte(magic + "\x01\x00\x03xml")},
		{"truncated header", []byte(magic + "\x01\x00\x09go")},
		{"truncated block", data[:len(data)-3]},
		{"oversized lz4 block", []byte(magic + "\x01\x01\x07go-json" + "\xff\xff\xff\xff\x04\x00\x00\x00" + "abcd")},
		{"oversized zstd block", []byte(magic + "\x01\x02\x07go-json" + "\xff\xff\xff\xff\x04\x00\x00\x00" + "abcd")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadSnapshot(bytes.NewReader(tt.input))
			assert.ErrorIs(t, err, ErrInvalidSnapshot)
		})
	}
}

func TestParseCompression(t *testing.T) {
	for _, c := range []Compression{CompressionNone, CompressionLZ4, CompressionZSTD} {
		got, err := ParseCompression(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}

	_, err := ParseCompression("brotli")
	assert.Error(t, err)
	assert.Equal(t, "compression(9)", Compression(9).String())
}
