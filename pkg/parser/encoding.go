package parser

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

var bomUTF8 = []byte{0xEF, 0xBB, 0xBF}

// DecodeText returns the file contents as UTF-8 along with the name of the
// encoding that was applied. UTF-8 input passes through (a leading BOM is
// stripped); anything that fails UTF-8 validation is decoded as ISO 8859-1,
// the legacy single-byte encoding the SIS still uses on some exports.
func DecodeText(data []byte) ([]byte, string, error) {
	if bytes.HasPrefix(data, bomUTF8) {
		data = data[len(bomUTF8):]
		if !utf8.Valid(data) {
			return nil, "", fmt.Errorf("UTF-8 BOM present but content is not valid UTF-8")
		}
		return data, "utf-8-bom", nil
	}

	if utf8.Valid(data) {
		return data, "utf-8", nil
	}

	decoded, _, err := transform.Bytes(charmap.ISO8859_1.NewDecoder(), data)
	if err != nil {
		return nil, "", fmt.Errorf("latin-1 fallback decode failed: %w", err)
	}
	return decoded, "latin-1", nil
}
