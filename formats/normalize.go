package formats

import (
	"bytes"
	"fmt"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Normalize returns data as UTF-8 without a byte order mark. UTF-16 input
// (with a BOM, or little endian without one as some Windows tools save it)
// is transcoded.
func Normalize(data []byte) ([]byte, error) {
	switch {
	case bytes.HasPrefix(data, []byte{0xFF, 0xFE}), bytes.HasPrefix(data, []byte{0xFE, 0xFF}), bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}):
		out, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), data)
		if err != nil {
			return nil, fmt.Errorf("decode text: %w", err)
		}
		return out, nil

	case looksUTF16LE(data):
		out, _, err := transform.Bytes(unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder(), data)
		if err != nil {
			return nil, fmt.Errorf("decode utf-16: %w", err)
		}
		return out, nil
	}

	return data, nil
}

// looksUTF16LE spots BOM-less UTF-16LE ASCII text: every odd byte of the
// first few characters is zero.
func looksUTF16LE(data []byte) bool {
	if len(data) < 4 || len(data)%2 != 0 {
		return false
	}
	n := min(len(data), 16)
	for i := 0; i < n; i += 2 {
		if data[i] == 0 || data[i+1] != 0 {
			return false
		}
	}
	return true
}
