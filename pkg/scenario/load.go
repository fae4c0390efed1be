package scenario

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/cvpchart/pkg/errors"
)

// Format is a scenario file encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat,
		"unsupported scenario file %q (use .toml, .yaml, .yml or .json)", filepath.Base(path))
}

// Load reads and decodes the scenario at path.
func Load(path string) (Scenario, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return Scenario{}, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Scenario{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "scenario file %s", path)
	}
	if err != nil {
		return Scenario{}, errors.Wrap(errors.ErrCodeInternal, err, "read %s", path)
	}
	s, err := Parse(data, format)
	if err != nil {
		return Scenario{}, errors.Wrap(errors.ErrCodeInvalidScenario, err, "parse %s", path)
	}
	return s, nil
}

// Parse decodes a scenario from data.
func Parse(data []byte, format Format) (Scenario, error) {
	var s Scenario
	switch format {
	case FormatTOML:
		md, err := toml.Decode(string(data), &s)
		if err != nil {
			return Scenario{}, errors.Wrap(errors.ErrCodeInvalidScenario, err, "decode toml")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return Scenario{}, errors.New(errors.ErrCodeInvalidScenario, "unknown key %q", undecoded[0].String())
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&s); err != nil {
			return Scenario{}, errors.Wrap(errors.ErrCodeInvalidScenario, err, "decode yaml")
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&s); err != nil {
			return Scenario{}, errors.Wrap(errors.ErrCodeInvalidScenario, err, "decode json")
		}
	default:
		return Scenario{}, errors.New(errors.ErrCodeInvalidFormat, "unsupported scenario format %q", format)
	}
	s.fillTotals()
	return s, nil
}
