// Package padding implements the fast check that a file is entirely 0x00 or
// entirely 0xFF.
package padding

import (
	"bufio"
	"io"
	"os"
)

// IsPadding reports whether path is a non-empty file consisting entirely of
// a single byte value, 0x00 or 0xFF. Callers must reject zero-length files
// as unscannable before calling this.
func IsPadding(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	r := bufio.NewReader(f)

	first, err := r.ReadByte()
	if err != nil {
		if err == io.EOF {
			return false, nil
		}
		return false, err
	}
	if first != 0x00 && first != 0xFF {
		return false, nil
	}

	for {
		b, err := r.ReadByte()
		if err == io.EOF {
			return true, nil
		}
		if err != nil {
			return false, err
		}
		if b != first {
			return false, nil
		}
	}
}
