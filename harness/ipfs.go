package harness

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tinderbox-go/tinderbox/logging"
	"github.com/tinderbox-go/tinderbox/subgraph/value"
)

// MapCallback handles one element of a mapped JSON document during
// ipfs.map. It runs against the forked context, never the parent.
type MapCallback func(ctx *Context, data json.RawMessage, userData value.Value) error

// MockIpfsFile registers a content hash to local file mapping. No I/O
// happens until the hash is resolved.
func (c *Context) MockIpfsFile(hash, path string) {
	c.ipfs[hash] = path
}

// RegisterCallback names a callback ipfs.map can resolve, the
// host-side analog of looking up a guest export.
func (c *Context) RegisterCallback(name string, cb MapCallback) {
	c.callbacks[name] = cb
}

// IpfsCat handles ipfs.cat. An unmapped hash or unreadable file means
// the test environment is misconfigured, which is fatal.
func (c *Context) IpfsCat(hash string) []byte {
	path, ok := c.ipfs[hash]
	if !ok {
		logging.Critical("IPFS file '%s' not found", hash)
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		logging.Critical("Failed to read file '%s': %v", path, err)
		return nil
	}
	return data
}

// IpfsMap handles ipfs.map: it resolves the mapped file, parses it as
// a JSON array and invokes the named callback once per element inside
// a second, isolated context. State is copied into the child before
// each call and copied back after it, so only one of the two contexts
// runs at any point and no state is shared. Flags are accepted for
// interface compatibility and ignored.
func (c *Context) IpfsMap(link, callback string, userData value.Value, flags []string) error {
	path, ok := c.ipfs[link]
	if !ok {
		logging.Critical("IPFS file '%s' not found", link)
		return nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		logging.Critical("Failed to read file '%s': %v", path, err)
		return nil
	}
	var elements []json.RawMessage
	if err := json.Unmarshal(raw, &elements); err != nil {
		logging.Critical("File '%s' is not a JSON array: %v", path, err)
		return nil
	}

	cb, ok := c.callbacks[callback]
	if !ok {
		return fmt.Errorf("function %s not found", callback)
	}

	child := New(c.schema)
	for _, element := range elements {
		child.adopt(c)
		if err := cb(child, element, userData); err != nil {
			return fmt.Errorf("failed to handle callback '%s': %w", callback, err)
		}
		c.adopt(child)
	}
	return nil
}
