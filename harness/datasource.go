package harness

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/tinderbox-go/tinderbox/subgraph/store"
)

// Defaults reported for a data source that was never mocked.
const defaultNetwork = "mainnet"

type dataSourceMock struct {
	address *string
	network *string
	context store.Record
}

func (m dataSourceMock) clone() dataSourceMock {
	out := dataSourceMock{}
	if m.address != nil {
		addr := *m.address
		out.address = &addr
	}
	if m.network != nil {
		network := *m.network
		out.network = &network
	}
	if m.context != nil {
		out.context = m.context.Copy()
	}
	return out
}

// SetDataSourceReturnValues stores the triple the dataSource getters
// report from then on.
func (c *Context) SetDataSourceReturnValues(address, network string, context store.Record) {
	c.dataSource = dataSourceMock{
		address: &address,
		network: &network,
		context: context.Copy(),
	}
}

// DataSourceAddress handles dataSource.address; the default is the
// zero address.
func (c *Context) DataSourceAddress() common.Address {
	if c.dataSource.address != nil {
		return common.HexToAddress(*c.dataSource.address)
	}
	return common.Address{}
}

// DataSourceNetwork handles dataSource.network.
func (c *Context) DataSourceNetwork() string {
	if c.dataSource.network != nil {
		return *c.dataSource.network
	}
	return defaultNetwork
}

// DataSourceContext handles dataSource.context; the default is an
// empty record.
func (c *Context) DataSourceContext() store.Record {
	if c.dataSource.context != nil {
		return c.dataSource.context.Copy()
	}
	return store.Record{}
}

// DataSourceCreate handles dataSource.create. Template instantiation
// has no observable effect inside the harness; the call is accepted so
// handlers that create templates run unchanged.
func (c *Context) DataSourceCreate(name string, params []string) {}

// DataSourceCreateWithContext handles dataSource.createWithContext.
func (c *Context) DataSourceCreateWithContext(name string, params []string, context store.Record) {}
