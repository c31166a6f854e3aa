package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
)

//go:embed data/items.json
var embeddedItems []byte

// LoadEmbedded builds an index from the catalog compiled into the binary.
func LoadEmbedded() (*Index, error) {
	return decode(embeddedItems)
}

// LoadFile builds an index from a JSON item list on disk.
func LoadFile(path string) (*Index, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return decode(raw)
}

func decode(raw []byte) (*Index, error) {
	var items []Item
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	return NewIndex(items), nil
}
