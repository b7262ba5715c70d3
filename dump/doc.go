// Package dump renders arena chains for humans and writes diagnostic
// snapshots.
//
// Everything here works on a refcollect.View and never changes the arena.
//
// # Trails
//
// WriteAddresses and WriteValues print one line per root:
//
//	Root 0 path (#1.1): #3.1 -> #4.1 -> NULL
//	Root 0 path ({data1: 12, data2: 3.50, marked: false}): ... -> NULL
//
// # Snapshots
//
// A snapshot captures every root and chain at one point in time. The stream
// format is a small header (magic "RCSN", version, compression, codec name)
// followed by a block holding the encoded snapshot:
//
//	snap, _ := dump.TakeSnapshot(a.View())
//	err := dump.WriteSnapshot(ctx, f, snap,
//		dump.WithCompression(dump.CompressionZSTD),
//		dump.WithRateLimit(1<<20),
//	)
//
// SaveSnapshot and LoadSnapshot do the same for files, replacing the target
// atomically.
//
// Snapshots are diagnostic output. An arena cannot be restored from one.
package dump
