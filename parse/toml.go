package parse

import (
	"github.com/dzjyyds666/tq/parse/toml"
	"github.com/dzjyyds666/tq/pkg"
)

// TomlFile parses the TOML file at path and returns the root table.
func TomlFile(path string) (*toml.Table, error) {
	data, err := pkg.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return toml.ParseBytes(data)
}

// TomlFileInto parses the TOML file at path into the value pointed to
// by v, using the package's reflection decoder.
func TomlFileInto(path string, v any) error {
	data, err := pkg.ReadFile(path)
	if err != nil {
		return err
	}
	return toml.Unmarshal(data, v)
}
