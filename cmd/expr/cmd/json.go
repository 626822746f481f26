package cmd

import (
	"fmt"
	"os"

	"github.com/cwbudde/go-expr/internal/stdplugins/jsonhost"
)

// loadJSONDocument reads path's contents into a *jsonhost.Document, the
// host data shape internal/stdplugins/jsonhost's Json/JsonSet expect.
func loadJSONDocument(path string) (*jsonhost.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return &jsonhost.Document{Text: string(data)}, nil
}
