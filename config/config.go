// Package config loads voxelization settings from JSON.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/drethage/ClassyVoxelizer/gridexport"
	"github.com/drethage/ClassyVoxelizer/meshload"
	"github.com/drethage/ClassyVoxelizer/voxel"
)

const maxFileSize = 1 << 20

// Config holds the settings of a voxelization run.
//
// Every field is optional. The Get* methods fall back to
// defaults for fields which were not set.
type Config struct {
	CellSize        *float64 `json:"cell_size,omitempty"`
	Mode            *string  `json:"mode,omitempty"`
	Dense           *bool    `json:"dense,omitempty"`
	ASCII           *bool    `json:"ascii,omitempty"`
	MinTriangleArea *float64 `json:"min_triangle_area,omitempty"`

	// Format is the output extension used when converting a
	// directory, such as "ply" or "npz".
	Format *string `json:"format,omitempty"`
}

// Load reads a Config from a JSON file and validates it.
func Load(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, errors.Errorf("load config: expected .json extension, got %q", ext)
	}
	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	if info.Size() > maxFileSize {
		return nil, errors.Errorf("load config: file too large: %d bytes", info.Size())
	}
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	return cfg, nil
}

// Validate checks the fields which are set.
func (c *Config) Validate() error {
	if c.CellSize != nil && !(*c.CellSize > 0) {
		return errors.Errorf("cell_size must be positive, got %v", *c.CellSize)
	}
	if c.MinTriangleArea != nil && !(*c.MinTriangleArea > 0) {
		return errors.Errorf("min_triangle_area must be positive, got %v", *c.MinTriangleArea)
	}
	if c.Mode != nil {
		if _, err := meshload.ParseMode(*c.Mode); err != nil {
			return err
		}
	}
	if c.Format != nil {
		if _, err := gridexport.ParseFormat(*c.Format); err != nil {
			return err
		}
	}
	return nil
}

// GetCellSize returns the cell size, or 0 if it was not
// set.
func (c *Config) GetCellSize() float64 {
	if c.CellSize == nil {
		return 0
	}
	return *c.CellSize
}

// GetMode returns the attribute mode, defaulting to
// color classes.
func (c *Config) GetMode() meshload.Mode {
	if c.Mode == nil {
		return meshload.ModeColorClass
	}
	m, err := meshload.ParseMode(*c.Mode)
	if err != nil {
		return meshload.ModeColorClass
	}
	return m
}

// GetDense reports whether empty cells are exported.
func (c *Config) GetDense() bool {
	return c.Dense != nil && *c.Dense
}

// GetASCII reports whether PLY output uses the ascii
// encoding.
func (c *Config) GetASCII() bool {
	return c.ASCII != nil && *c.ASCII
}

// GetMinTriangleArea returns the area below which faces
// are not subdivided.
func (c *Config) GetMinTriangleArea() float64 {
	if c.MinTriangleArea == nil {
		return voxel.DefaultMinTriangleArea
	}
	return *c.MinTriangleArea
}

// GetFormat returns the output format for directory
// conversions, defaulting to PLY.
func (c *Config) GetFormat() gridexport.Format {
	if c.Format == nil {
		return gridexport.FormatPLY
	}
	f, err := gridexport.ParseFormat(*c.Format)
	if err != nil {
		return gridexport.FormatPLY
	}
	return f
}

// ExportOptions gets the exporter settings.
func (c *Config) ExportOptions() gridexport.Options {
	return gridexport.Options{Dense: c.GetDense(), ASCII: c.GetASCII()}
}

// Float64 creates a pointer for an optional field.
func Float64(v float64) *float64 { return &v }

// Bool creates a pointer for an optional field.
func Bool(v bool) *bool { return &v }

// String creates a pointer for an optional field.
func String(v string) *string { return &v }
