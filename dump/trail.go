package dump

import (
	"bufio"
	"fmt"
	"io"

	"github.com/Daltonhensley19/refcollect"
)

// WriteAddresses writes the root's chain as a line of object addresses.
func WriteAddresses(w io.Writer, v refcollect.View, root int) error {
	return writeTrail(w, v, root, func(n refcollect.Node) string {
		return n.Handle.String()
	})
}

// WriteValues writes the root's chain as a line of object values.
func WriteValues(w io.Writer, v refcollect.View, root int) error {
	return writeTrail(w, v, root, formatValue)
}

// WriteAll writes the address trail of every root.
func WriteAll(w io.Writer, v refcollect.View) error {
	for root := range v.Len() {
		if err := WriteAddresses(w, v, root); err != nil {
			return err
		}
	}
	return nil
}

func formatValue(n refcollect.Node) string {
	return fmt.Sprintf("{data1: %d, data2: %.2f, marked: %t}", n.Payload.Data1, n.Payload.Data2, n.Marked)
}

func writeTrail(w io.Writer, v refcollect.View, root int, format func(refcollect.Node) string) error {
	trail, err := v.Trail(root)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	empty := true
	for depth, n := range trail {
		if depth == 0 {
			fmt.Fprintf(bw, "Root %d path (%s): ", root, format(n))
			empty = false
			continue
		}
		fmt.Fprintf(bw, "%s -> ", format(n))
	}

	if empty {
		fmt.Fprintf(bw, "[ALERT]: Root object was empty at index %d, so nothing to print!\n", root)
	} else {
		fmt.Fprintln(bw, "NULL")
	}
	return bw.Flush()
}
