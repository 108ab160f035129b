package fs

import (
	"bytes"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

const (
	textDetectionSampleSize      = 4096
	nonPrintableThresholdPercent = 30
)

type unicodeEncoding int

const (
	encodingUnknown unicodeEncoding = iota
	encodingUTF8BOM
	encodingUTF16LE
	encodingUTF16BE
)

// Extensions that are never Markdown, checked before sniffing.
var binaryExtensions = map[string]struct{}{
	".7z":   {},
	".bmp":  {},
	".exe":  {},
	".gif":  {},
	".gz":   {},
	".ico":  {},
	".jpeg": {},
	".jpg":  {},
	".pdf":  {},
	".png":  {},
	".tar":  {},
	".webp": {},
	".zip":  {},
}

// IsText reports whether content looks like text. name, when set, rules
// out obvious binary formats by extension.
func IsText(name string, content []byte) bool {
	if looksBinaryByExtension(name) {
		return false
	}
	if len(content) == 0 {
		return true
	}

	sample := content
	if len(sample) > textDetectionSampleSize {
		sample = sample[:textDetectionSampleSize]
	}
	if detectUnicodeEncoding(sample) != encodingUnknown {
		return true
	}
	if bytes.IndexByte(sample, 0x00) != -1 {
		return false
	}
	if utf8.Valid(sample) {
		return true
	}

	nonPrintable := 0
	for _, b := range sample {
		if !isCommonTextByte(b) {
			nonPrintable++
		}
	}
	return nonPrintable*100/len(sample) < nonPrintableThresholdPercent
}

func looksBinaryByExtension(name string) bool {
	if name == "" {
		return false
	}
	_, ok := binaryExtensions[strings.ToLower(filepath.Ext(name))]
	return ok
}

func isCommonTextByte(b byte) bool {
	switch {
	case b == '\t' || b == '\n' || b == '\r':
		return true
	case b >= 0x20 && b <= 0x7E:
		return true
	default:
		return b >= 0x80
	}
}

func detectUnicodeEncoding(sample []byte) unicodeEncoding {
	if len(sample) >= 3 && sample[0] == 0xEF && sample[1] == 0xBB && sample[2] == 0xBF {
		return encodingUTF8BOM
	}
	if len(sample) >= 2 {
		switch {
		case sample[0] == 0xFF && sample[1] == 0xFE:
			return encodingUTF16LE
		case sample[0] == 0xFE && sample[1] == 0xFF:
			return encodingUTF16BE
		}
	}
	return encodingUnknown
}

// DecodeText converts BOM-marked UTF-8 and UTF-16 content to plain UTF-8
// and normalizes line endings to "\n".
func DecodeText(content []byte) []byte {
	var out []byte
	switch detectUnicodeEncoding(content) {
	case encodingUTF8BOM:
		out = content[3:]
	case encodingUTF16LE:
		out = decodeUTF16(content, unicode.LittleEndian)
	case encodingUTF16BE:
		out = decodeUTF16(content, unicode.BigEndian)
	default:
		out = content
	}
	if bytes.IndexByte(out, '\r') == -1 {
		return out
	}
	out = bytes.ReplaceAll(out, []byte("\r\n"), []byte("\n"))
	return bytes.ReplaceAll(out, []byte("\r"), []byte("\n"))
}

func decodeUTF16(content []byte, endian unicode.Endianness) []byte {
	decoder := unicode.UTF16(endian, unicode.ExpectBOM).NewDecoder()
	out, err := decoder.Bytes(content)
	if err != nil {
		return content
	}
	return out
}
