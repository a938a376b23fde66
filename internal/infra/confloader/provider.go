package confloader

import (
	"errors"
	"strings"
)

// errNoBytes is returned by mapProvider.ReadBytes; koanf uses Read when
// no parser is given.
var errNoBytes = errors.New("confloader: map provider has no byte form")

// mapProvider is a koanf provider over dotted keys such as the defaults
// and the flags the user set, {"locks.threads": []int{1}}.
type mapProvider struct {
	tree map[string]any
}

func newMapProvider(flat map[string]any) *mapProvider {
	return &mapProvider{tree: unflatten(flat)}
}

func (p *mapProvider) ReadBytes() ([]byte, error) {
	return nil, errNoBytes
}

func (p *mapProvider) Read() (map[string]any, error) {
	return p.tree, nil
}

// unflatten turns {"a.b": 1} into {"a": {"b": 1}} so dotted keys merge
// with nested file keys.
func unflatten(flat map[string]any) map[string]any {
	tree := make(map[string]any, len(flat))
	for key, value := range flat {
		parts := strings.Split(key, ".")
		node := tree
		for _, p := range parts[:len(parts)-1] {
			child, ok := node[p].(map[string]any)
			if !ok {
				child = make(map[string]any)
				node[p] = child
			}
			node = child
		}
		node[parts[len(parts)-1]] = value
	}
	return tree
}
