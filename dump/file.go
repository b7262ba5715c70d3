package dump

import (
	"context"
	"io"
	"os"

	"github.com/Daltonhensley19/refcollect/internal/fs"
)

// SaveSnapshot writes snap to path. The file is replaced atomically, so
// readers see either the previous snapshot or the new one.
func SaveSnapshot(ctx context.Context, path string, snap Snapshot, opts ...SnapshotOption) error {
	o := applySnapshotOptions(opts)
	return fs.WriteFileAtomic(o.fs, path, 0o644, func(w io.Writer) error {
		return WriteSnapshot(ctx, w, snap, opts...)
	})
}

// LoadSnapshot reads a snapshot file written by SaveSnapshot.
func LoadSnapshot(path string, opts ...SnapshotOption) (Snapshot, error) {
	o := applySnapshotOptions(opts)
	f, err := o.fs.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return Snapshot{}, err
	}
	defer f.Close()
	return ReadSnapshot(f)
}
