// Package harness wires the entity store, schema index and mock
// registries into the host-call surface a mapping handler under test
// runs against. One Context stands in for one execution context; state
// only crosses contexts through the explicit ipfs.map handoff.
package harness

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/tinderbox-go/tinderbox/config"
	"github.com/tinderbox-go/tinderbox/ethereum"
	"github.com/tinderbox-go/tinderbox/logging"
	"github.com/tinderbox-go/tinderbox/subgraph/schema"
	"github.com/tinderbox-go/tinderbox/subgraph/store"
	"github.com/tinderbox-go/tinderbox/subgraph/value"
)

// Context owns the mutable state of one harness instance.
type Context struct {
	schema     *schema.Schema
	store      *store.Store
	calls      *ethereum.Registry
	dataSource dataSourceMock
	ipfs       map[string]string
	callbacks  map[string]MapCallback
	meta       []MetaTest
}

// New builds a fresh context over an already-loaded schema index.
func New(s *schema.Schema) *Context {
	return &Context{
		schema:    s,
		store:     store.New(s),
		calls:     ethereum.NewRegistry(),
		ipfs:      make(map[string]string),
		callbacks: make(map[string]MapCallback),
	}
}

// NewFromConfig builds a context from tinderbox.yaml settings. The
// schema is a configuration precondition: a missing or unparsable
// schema is fatal.
func NewFromConfig(cfg config.Config) *Context {
	c := New(schema.MustLoadFile(cfg.Schema))
	for hash, path := range cfg.IpfsFiles {
		c.MockIpfsFile(hash, path)
	}
	return c
}

// Store exposes the underlying entity store, mainly for test helpers
// that want to assert on it directly.
func (c *Context) Store() *store.Store {
	return c.store
}

// StoreSet handles store.set.
func (c *Context) StoreSet(entityType, id string, fields store.Record) error {
	return c.store.Set(entityType, id, fields)
}

// StoreGet handles store.get. Absence is reported, not an error.
func (c *Context) StoreGet(entityType, id string) (store.Record, bool) {
	return c.store.Get(entityType, id)
}

// StoreRemove handles store.remove.
func (c *Context) StoreRemove(entityType, id string) error {
	return c.store.Remove(entityType, id)
}

// CountEntities handles countEntities.
func (c *Context) CountEntities(entityType string) int {
	return c.store.Count(entityType)
}

// ClearStore empties the store between independent test cases.
func (c *Context) ClearStore() {
	c.store.Clear()
}

// LogStore dumps the whole store at debug level.
func (c *Context) LogStore() {
	logging.Debug("%s", c.store.Dump())
}

// Log handles the guest log call. Level 0 is fatal.
func (c *Context) Log(level uint32, msg string) {
	logging.Log(level, msg)
}

// AssertFieldEquals handles assert.fieldEquals.
func (c *Context) AssertFieldEquals(entityType, id, field, expected string) bool {
	return c.store.FieldEquals(entityType, id, field, expected)
}

// AssertNotInStore handles assert.notInStore.
func (c *Context) AssertNotInStore(entityType, id string) bool {
	return c.store.NotInStore(entityType, id)
}

// AssertEquals handles assert.equals: structural equality after
// value-kind normalization (Int and BigInt compare numerically).
func (c *Context) AssertEquals(expected, actual value.Value) bool {
	c.store.Reconcile()
	if !expected.Equal(actual) {
		logging.Error("(assert.equals) Expected value was '%s' but actual value was '%s'", expected, actual)
		return false
	}
	return true
}

// MockFunction handles createMockedFunction.
func (c *Context) MockFunction(address common.Address, name, signature string, args, returns []value.Value, reverts bool) error {
	return c.calls.Register(address, name, signature, args, returns, reverts)
}

// EthereumCall handles ethereum.call against the registered mocks.
func (c *Context) EthereumCall(address common.Address, name, signature string, args []value.Value) ([]value.Value, bool, error) {
	return c.calls.Invoke(address, name, signature, args)
}

// adopt copies the mutable harness state out of o. The schema index
// and callback table are immutable after setup and shared; the ipfs
// registry stays with the context that owns the files.
func (c *Context) adopt(o *Context) {
	c.store = o.store.Clone()
	c.calls = o.calls.Clone()
	c.dataSource = o.dataSource.clone()
}
