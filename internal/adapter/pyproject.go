package adapter

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	m "pyrig.dev/pkg/pyrig/internal/model"
)

// PyprojectReader loads the parts of pyproject.toml that influence how the
// dependency checker is invoked.
type PyprojectReader interface {
	// ReadPyproject decodes path. A missing file is not an error; the
	// result has Found set to false.
	ReadPyproject(path m.Path) (m.Pyproject, error)
}

type pyprojectFile struct {
	Project struct {
		Name string `toml:"name"`
	} `toml:"project"`
	Tool struct {
		Poetry struct {
			Name string `toml:"name"`
		} `toml:"poetry"`
		Deptry struct {
			PackageModuleNameMap map[string]any `toml:"package_module_name_map"`
		} `toml:"deptry"`
	} `toml:"tool"`
}

// TOMLPyprojectReader implements PyprojectReader with BurntSushi/toml.
type TOMLPyprojectReader struct{}

// NewTOMLPyprojectReader constructs a TOMLPyprojectReader.
func NewTOMLPyprojectReader() *TOMLPyprojectReader {
	return &TOMLPyprojectReader{}
}

// ReadPyproject decodes the project name and the deptry package map.
func (r *TOMLPyprojectReader) ReadPyproject(path m.Path) (m.Pyproject, error) {
	out := m.Pyproject{Path: path, PackageModuleNameMap: m.Mapping{}}

	var raw pyprojectFile

	meta, err := toml.DecodeFile(string(path), &raw)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return out, nil
		}

		return m.Pyproject{}, fmt.Errorf("load pyproject %s: %w", path, err)
	}

	out.Found = true

	switch {
	case meta.IsDefined("project", "name"):
		out.Name = strings.TrimSpace(raw.Project.Name)
	case meta.IsDefined("tool", "poetry", "name"):
		out.Name = strings.TrimSpace(raw.Tool.Poetry.Name)
	}

	if meta.IsDefined("tool", "deptry", "package_module_name_map") {
		mapping, err := normalizeModuleMap(raw.Tool.Deptry.PackageModuleNameMap)
		if err != nil {
			return m.Pyproject{}, fmt.Errorf("parse [tool.deptry] package_module_name_map in %s: %w", path, err)
		}

		out.PackageModuleNameMap = mapping
	}

	return out, nil
}

// normalizeModuleMap accepts both `pkg = "mod"` and `pkg = ["a", "b"]`.
func normalizeModuleMap(raw map[string]any) (m.Mapping, error) {
	out := m.Mapping{}

	keys := make([]string, 0, len(raw))
	for key := range raw {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	for _, key := range keys {
		switch v := raw[key].(type) {
		case string:
			out[key] = []string{v}
		case []any:
			modules := make([]string, 0, len(v))

			for _, item := range v {
				s, ok := item.(string)
				if !ok {
					return nil, fmt.Errorf("%w: %s has non-string module %v", m.ErrInvalidMapping, key, item)
				}

				modules = append(modules, s)
			}

			out[key] = modules
		default:
			return nil, fmt.Errorf("%w: %s has unsupported value %v", m.ErrInvalidMapping, key, v)
		}
	}

	return out, nil
}
