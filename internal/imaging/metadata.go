package imaging

import (
	"bytes"
	"encoding/binary"
	"strings"
)

var suspiciousSoftware = []string{"photoshop", "gimp", "paint.net"}

// checkMetadata scans the raw file for metadata anomalies: missing metadata
// entirely, editing-software tags, and multi-save comments.
func checkMetadata(data []byte) []string {
	var software, comment string
	var hasMetadata bool

	switch {
	case isJPEG(data):
		software, comment, hasMetadata = scanJPEGMetadata(data)
	case isPNG(data):
		software, comment, hasMetadata = scanPNGMetadata(data)
	default:
		return nil
	}

	var anomalies []string
	if !hasMetadata {
		anomalies = append(anomalies, "No metadata found")
	}
	if software != "" {
		lower := strings.ToLower(software)
		for _, s := range suspiciousSoftware {
			if strings.Contains(lower, s) {
				anomalies = append(anomalies, "Suspicious editing software detected: "+lower)
				break
			}
		}
	}
	if comment != "" && strings.Contains(strings.ToLower(comment), "saved") {
		anomalies = append(anomalies, "Image appears to have been saved multiple times")
	}

	return anomalies
}

func isJPEG(data []byte) bool {
	return len(data) > 2 && data[0] == 0xFF && data[1] == 0xD8
}

func isPNG(data []byte) bool {
	return len(data) > 8 && bytes.Equal(data[:8], []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n'})
}

// scanJPEGMetadata walks the JPEG segment chain collecting APPn and COM
// segments. Software tags surface inside EXIF/APP1 payloads as plain text.
func scanJPEGMetadata(data []byte) (software, comment string, hasMetadata bool) {
	i := 2
	for i+4 <= len(data) {
		if data[i] != 0xFF {
			break
		}
		marker := data[i+1]
		// Start of scan: entropy-coded data follows, no more segments
		if marker == 0xDA {
			break
		}
		if i+4 > len(data) {
			break
		}
		segLen := int(binary.BigEndian.Uint16(data[i+2 : i+4]))
		if segLen < 2 || i+2+segLen > len(data) {
			break
		}
		payload := data[i+4 : i+2+segLen]

		switch {
		case marker >= 0xE0 && marker <= 0xEF: // APPn
			hasMetadata = true
			if s := extractTextTag(payload, "photoshop", "gimp", "paint.net"); s != "" {
				software = s
			}
		case marker == 0xFE: // COM
			hasMetadata = true
			comment = string(bytes.Trim(payload, "\x00"))
		}

		i += 2 + segLen
	}
	return software, comment, hasMetadata
}

// scanPNGMetadata walks PNG chunks collecting tEXt keyword/value pairs
func scanPNGMetadata(data []byte) (software, comment string, hasMetadata bool) {
	i := 8
	for i+8 <= len(data) {
		length := int(binary.BigEndian.Uint32(data[i : i+4]))
		chunkType := string(data[i+4 : i+8])
		if i+8+length > len(data) {
			break
		}
		payload := data[i+8 : i+8+length]

		if chunkType == "tEXt" || chunkType == "iTXt" {
			hasMetadata = true
			if sep := bytes.IndexByte(payload, 0); sep > 0 {
				keyword := strings.ToLower(string(payload[:sep]))
				value := string(bytes.Trim(payload[sep+1:], "\x00"))
				switch keyword {
				case "software":
					software = value
				case "comment":
					comment = value
				}
			}
		}

		i += 12 + length // length + type + payload + CRC
	}
	return software, comment, hasMetadata
}

// extractTextTag returns the surrounding printable run if any of the given
// markers appears in the payload.
func extractTextTag(payload []byte, markers ...string) string {
	lower := strings.ToLower(string(payload))
	for _, m := range markers {
		if idx := strings.Index(lower, m); idx >= 0 {
			end := idx + len(m)
			for end < len(lower) && isPrintable(lower[end]) {
				end++
			}
			start := idx
			for start > 0 && isPrintable(lower[start-1]) {
				start--
			}
			return strings.TrimSpace(lower[start:end])
		}
	}
	return ""
}

func isPrintable(b byte) bool {
	return b >= 0x20 && b < 0x7F
}
