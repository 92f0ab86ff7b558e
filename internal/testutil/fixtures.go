package testutil

import (
	"embed"

	"github.com/firefly-engineering/bountybridge/internal/config"
)

//go:embed fixtures/*.yaml fixtures/*.toml
var fixturesFS embed.FS

// LoadFixture loads a fixture file by name.
func LoadFixture(name string) ([]byte, error) {
	return fixturesFS.ReadFile("fixtures/" + name)
}

// LoadDocumentFixture decodes a document fixture, picking the format from
// its extension.
func LoadDocumentFixture(name string) (*config.Document, error) {
	data, err := LoadFixture(name)
	if err != nil {
		return nil, err
	}
	return config.Decode(data, config.FormatOf(name))
}

// ValidDocument returns the valid YAML document fixture.
func ValidDocument() (*config.Document, error) {
	return LoadDocumentFixture("valid.yaml")
}

// ValidTOMLDocument returns the valid TOML document fixture.
func ValidTOMLDocument() (*config.Document, error) {
	return LoadDocumentFixture("valid.toml")
}

// DanglingDocument returns a document with a program referencing a missing
// tracker.
func DanglingDocument() (*config.Document, error) {
	return LoadDocumentFixture("dangling.yaml")
}

// InvalidDocument returns a document whose tracker has no type.
func InvalidDocument() (*config.Document, error) {
	return LoadDocumentFixture("invalid.yaml")
}
