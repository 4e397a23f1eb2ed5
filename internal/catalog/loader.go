// Sessionfeed - DJ Session Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionfeed

package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/tomtom215/sessionfeed/internal/recommend"
	"github.com/tomtom215/sessionfeed/internal/validation"
)

// Format is a catalog file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ErrUnsupportedFormat is returned for files that are neither JSON nor YAML.
var ErrUnsupportedFormat = errors.New("catalog: unsupported file format")

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Fingerprint returns the version string for raw catalog bytes.
func Fingerprint(data []byte) string {
	return strconv.FormatUint(xxhash.Sum64(data), 16)
}

// LoadFile reads, decodes and validates a catalog file.
func LoadFile(path string) (*recommend.Catalog, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	return Parse(data, format)
}

// Parse decodes and validates catalog bytes. The returned catalog's
// Version is the fingerprint of data, whatever the file declared.
func Parse(data []byte, format Format) (*recommend.Catalog, error) {
	c := &recommend.Catalog{}

	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(c); err != nil {
			return nil, fmt.Errorf("catalog: decode json: %w", err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(c); err != nil {
			return nil, fmt.Errorf("catalog: decode yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	if verr := validation.ValidateStruct(c); verr != nil {
		return nil, &ValidationError{Err: verr}
	}

	c.Version = Fingerprint(data)
	return c, nil
}

// ValidationError wraps record-level validation failures.
type ValidationError struct {
	Err *validation.RequestValidationError
}

func (e *ValidationError) Error() string {
	return "catalog: invalid records: " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Issues are non-fatal problems found in a catalog that still loads.
type Issues struct {
	DuplicateSessions []string
	DuplicateDJs      []string
	// UnknownDJs lists DJ IDs referenced by sessions but missing from the DJ list.
	UnknownDJs []string
}

// Empty reports whether no issues were found.
func (i Issues) Empty() bool {
	return len(i.DuplicateSessions) == 0 && len(i.DuplicateDJs) == 0 && len(i.UnknownDJs) == 0
}

// Inspect reports duplicates and dangling DJ references. The engine
// tolerates both: the first record with an ID wins and a session whose DJ
// is missing is still scored.
func Inspect(c *recommend.Catalog) Issues {
	var issues Issues

	sessionSeen := make(map[string]bool, len(c.Sessions))
	for i := range c.Sessions {
		id := c.Sessions[i].ID
		if sessionSeen[id] {
			issues.DuplicateSessions = append(issues.DuplicateSessions, id)
		}
		sessionSeen[id] = true
	}

	djSeen := make(map[string]bool, len(c.DJs))
	for i := range c.DJs {
		id := c.DJs[i].ID
		if djSeen[id] {
			issues.DuplicateDJs = append(issues.DuplicateDJs, id)
		}
		djSeen[id] = true
	}

	unknown := make(map[string]bool)
	for i := range c.Sessions {
		dj := c.Sessions[i].DJID
		if !djSeen[dj] && !unknown[dj] {
			unknown[dj] = true
			issues.UnknownDJs = append(issues.UnknownDJs, dj)
		}
	}
	return issues
}
