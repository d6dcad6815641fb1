// File: internal/scenario/decode.go
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"

	"github.com/xkilldash9x/boxflow/api/schemas"
)

// Format is a scenario document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

var (
	// ErrUnknownFormat is returned for files whose extension names no known encoding.
	ErrUnknownFormat = errors.New("unknown scenario format")
	// ErrNoScenarios is returned for documents that hold no scenario.
	ErrNoScenarios = errors.New("no scenarios in document")
)

// strictJSON rejects unknown keys so typos in style names surface as errors.
var strictJSON = jsoniter.Config{
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
	DisallowUnknownFields:  true,
}.Froze()

// DetectFormat picks the encoding from a file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, path)
}

// Decode reads every scenario in r. A JSON document is one scenario object or
// an array of them; a YAML stream may hold several documents.
func Decode(r io.Reader, format Format) ([]schemas.Scenario, error) {
	var (
		out []schemas.Scenario
		err error
	)
	switch format {
	case FormatJSON:
		out, err = decodeJSON(r)
	case FormatYAML:
		out, err = decodeYAML(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrNoScenarios
	}
	return out, nil
}

func decodeJSON(r io.Reader) ([]schemas.Scenario, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}
	if data[0] == '[' {
		var list []schemas.Scenario
		if err := strictJSON.Unmarshal(data, &list); err != nil {
			return nil, fmt.Errorf("decode json scenarios: %w", err)
		}
		return list, nil
	}
	var one schemas.Scenario
	if err := strictJSON.Unmarshal(data, &one); err != nil {
		return nil, fmt.Errorf("decode json scenario: %w", err)
	}
	return []schemas.Scenario{one}, nil
}

func decodeYAML(r io.Reader) ([]schemas.Scenario, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var out []schemas.Scenario
	for i := 0; ; i++ {
		var sc schemas.Scenario
		err := dec.Decode(&sc)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("decode yaml document %d: %w", i, err)
		}
		out = append(out, sc)
	}
}

// LoadFile decodes the scenarios in path. Unnamed scenarios are named after
// the file and their position in it.
func LoadFile(path string) ([]schemas.Scenario, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scenario: %w", err)
	}
	defer f.Close()

	list, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	for i := range list {
		if list[i].Name == "" {
			list[i].Name = fmt.Sprintf("%s#%d", base, i)
		}
	}
	return list, nil
}

// EncodeResults writes results as indented JSON.
func EncodeResults(w io.Writer, results []*schemas.Result) error {
	data, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("encode results: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
