// Package reader loads TTP instances from the supported file formats:
// the TTP benchmark format, the compact whitespace format and JSON.
package reader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"ttp-solver-service/internal/domain"
)

// ErrMalformed marks input that does not follow the expected layout.
var ErrMalformed = errors.New("malformed instance file")

// Format names a supported instance encoding.
type Format string

const (
	FormatTTP     Format = "ttp"
	FormatCompact Format = "compact"
	FormatJSON    Format = "json"
)

// Upper bounds on the city and item counts an instance may declare. A full
// distance matrix at MaxDimension cities takes 2 GiB.
const (
	MaxDimension = 1 << 14
	MaxItems     = 1 << 20
)

// ReadFile loads the instance at path. The format is taken from the extension
// when it is .json or .ttp and sniffed from the content otherwise. The file
// base name is used when the content carries no name.
func ReadFile(path string) (*domain.Instance, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read instance %q: %w", path, err)
	}

	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))

	format := formatFromExt(path)
	if format == "" {
		format = Detect(data)
	}

	inst, err := Decode(bytes.NewReader(data), format, name)
	if err != nil {
		return nil, fmt.Errorf("read instance %q: %w", path, err)
	}
	return inst, nil
}

// Decode parses r in the given format. defaultName is used when the input
// has no name of its own.
func Decode(r io.Reader, format Format, defaultName string) (*domain.Instance, error) {
	switch format {
	case FormatTTP:
		return DecodeTTP(r, defaultName)
	case FormatCompact:
		return DecodeCompact(r, defaultName)
	case FormatJSON:
		return DecodeJSON(r, defaultName)
	default:
		return nil, fmt.Errorf("decode instance: unknown format %q", format)
	}
}

// Detect guesses the format of data from its first meaningful bytes.
func Detect(data []byte) Format {
	trimmed := bytes.TrimSpace(data)
	switch {
	case len(trimmed) > 0 && trimmed[0] == '{':
		return FormatJSON
	case bytes.Contains(bytes.ToUpper(trimmed), []byte("DIMENSION")):
		return FormatTTP
	default:
		return FormatCompact
	}
}

func formatFromExt(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".ttp":
		return FormatTTP
	default:
		return ""
	}
}
