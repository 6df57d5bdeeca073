package storefront

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is the serialization of a scene document on disk.
type Format int

const (
	FormatYAML Format = iota
	FormatTOML
	FormatJSON
)

// ErrUnknownFormat is returned for a file extension that is not .yaml, .yml, .toml or .json.
var ErrUnknownFormat = errors.New("unknown scene document format")

func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatJSON:
		return "json"
	default:
		return "yaml"
	}
}

// FormatFromPath picks the format by file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}

// Parse decodes and validates a scene document.
//
// Parameters:
//   - data: the encoded document
//   - format: its serialization
//
// Returns:
//   - *SceneDocument: the document
//   - error: error if data cannot be decoded or the document is invalid
func Parse(data []byte, format Format) (*SceneDocument, error) {
	var doc SceneDocument
	var err error
	switch format {
	case FormatTOML:
		err = toml.Unmarshal(data, &doc)
	case FormatJSON:
		err = json.Unmarshal(data, &doc)
	default:
		err = yaml.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s scene document: %w", format, err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Marshal encodes a scene document.
func Marshal(doc *SceneDocument, format Format) ([]byte, error) {
	switch format {
	case FormatTOML:
		return toml.Marshal(doc)
	case FormatJSON:
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	default:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
}

// Load reads a scene document from disk, picking the format by extension.
func Load(path string) (*SceneDocument, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene document: %w", err)
	}
	return Parse(data, format)
}

// Save writes a scene document next to path and renames it into place, so watchers never see a partial file.
//
// Returns:
//   - []byte: the bytes written
//   - error: error if encoding or writing fails
func Save(path string, doc *SceneDocument) ([]byte, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := Marshal(doc, format)
	if err != nil {
		return nil, fmt.Errorf("failed to encode scene document: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return nil, fmt.Errorf("failed to save scene document: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return nil, fmt.Errorf("failed to save scene document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("failed to save scene document: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return nil, fmt.Errorf("failed to save scene document: %w", err)
	}
	return data, nil
}
