package mapper

import (
	"errors"
	"strconv"
	"strings"
)

// decodeJSONPointer splits an RFC 6901 pointer into unescaped segments.
// "" and "/" address the document root.
func decodeJSONPointer(ptr string) ([]string, error) {
	if ptr == "" || ptr == "/" {
		return []string{}, nil
	}
	if !strings.HasPrefix(ptr, "/") {
		return nil, errors.New("invalid json pointer: must start with '/'")
	}
	parts := strings.Split(ptr[1:], "/")
	for i, p := range parts {
		p = strings.ReplaceAll(p, "~1", "/")
		parts[i] = strings.ReplaceAll(p, "~0", "~")
	}
	return parts, nil
}

// EncodeJSONPointer joins segments into an RFC 6901 pointer
func EncodeJSONPointer(segments []string) string {
	var b strings.Builder
	for _, s := range segments {
		s = strings.ReplaceAll(s, "~", "~0")
		b.WriteString("/")
		b.WriteString(strings.ReplaceAll(s, "/", "~1"))
	}
	return b.String()
}

// parseIndex returns the array index a segment denotes, or -1
func parseIndex(segment string) int {
	if segment == "" || segment[0] == '-' || segment[0] == '+' {
		return -1
	}
	i, err := strconv.Atoi(segment)
	if err != nil {
		return -1
	}
	return i
}
