package io

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/classgraph/pkg/errors"
	"github.com/matzehuels/classgraph/pkg/model"
)

// Document encodings.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// FormatFromPath returns FormatYAML for .yaml/.yml files and FormatJSON
// otherwise.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Read decodes a document. Unknown JSON fields are rejected.
func Read(r io.Reader, format string) (*Document, error) {
	var d Document
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&d); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode json")
		}
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&d); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode yaml")
		}
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unknown document format %q", format)
	}
	return &d, nil
}

// Write encodes d with two-space indentation.
func Write(w io.Writer, d *Document, format string) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(d)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(d); err != nil {
			return err
		}
		return enc.Close()
	default:
		return errors.New(errors.ErrCodeUnsupported, "unknown document format %q", format)
	}
}

// Parse decodes data and builds the graph in one step.
func Parse(data []byte, format string) (*Document, *model.Graph, error) {
	d, err := Read(bytes.NewReader(data), format)
	if err != nil {
		return nil, nil, err
	}
	g, err := d.Graph()
	if err != nil {
		return nil, nil, err
	}
	return d, g, nil
}

// ImportFile reads a document from path, choosing the codec by extension.
func ImportFile(path string) (*Document, *model.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeNotFound, err, "read %s", path)
	}
	d, g, err := Parse(data, FormatFromPath(path))
	if err != nil {
		code := errors.GetCode(err)
		if code == "" {
			code = errors.ErrCodeInvalidInput
		}
		return nil, nil, errors.Wrap(code, err, "%s", path)
	}
	if d.Name == "" {
		d.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return d, g, nil
}

// ExportFile writes d to path, choosing the codec by extension.
func ExportFile(path string, d *Document) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, d, FormatFromPath(path)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
