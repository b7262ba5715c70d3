// Package fs abstracts the few file operations snapshot files need, so tests
// can inject failures.
//
// Production code uses Default, which is LocalFS. Tests wrap it:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule(".tmp", fs.Fault{FailAfterBytes: 16})
package fs
