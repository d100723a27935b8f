// Package arc abstracts where raw asset bytes come from. The decoders
// only ever ask "give me the bytes for this name"; how a container
// lays the data out on disk is the provider's business.
package arc

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Provider resolves an asset name to its raw bytes. Implementations
// return the full region; decoders never seek inside a provider.
type Provider interface {
	ReadFile(name string) ([]byte, error)
}

// DirProvider serves loose files from a directory, the layout an
// installed copy of the game (or an already unpacked container)
// leaves behind. Lookup is case-insensitive because the original data
// files shipped with inconsistent casing.
type DirProvider struct {
	Root string
}

func NewDirProvider(root string) *DirProvider {
	return &DirProvider{Root: root}
}

func (p *DirProvider) ReadFile(name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(p.Root, name))
	if err == nil {
		return data, nil
	}
	if !os.IsNotExist(err) {
		return nil, err
	}

	entries, dirErr := os.ReadDir(p.Root)
	if dirErr != nil {
		return nil, fmt.Errorf("arc: %q not found in %s: %w", name, p.Root, err)
	}
	for _, entry := range entries {
		if !entry.IsDir() && strings.EqualFold(entry.Name(), name) {
			return os.ReadFile(filepath.Join(p.Root, entry.Name()))
		}
	}
	return nil, fmt.Errorf("arc: %q not found in %s: %w", name, p.Root, err)
}
