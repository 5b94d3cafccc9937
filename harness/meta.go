package harness

// Roles a ledger entry can carry. Tests and describes are registered
// through their own calls; hooks pass the role explicitly.
const (
	RoleTest       = "test"
	RoleDescribe   = "describe"
	RoleBeforeAll  = "beforeAll"
	RoleAfterAll   = "afterAll"
	RoleBeforeEach = "beforeEach"
	RoleAfterEach  = "afterEach"
)

// Handler is one registered test body, describe body or hook.
type Handler func(ctx *Context) error

// MetaTest is one entry of the ordered registration ledger the
// surrounding test runner consumes.
type MetaTest struct {
	Name       string
	ShouldFail bool
	Handler    Handler
	Role       string
}

// RegisterTest appends a test to the ledger. ShouldFail marks tests
// that are expected to fail.
func (c *Context) RegisterTest(name string, shouldFail bool, h Handler) {
	c.meta = append(c.meta, MetaTest{Name: name, ShouldFail: shouldFail, Handler: h, Role: RoleTest})
}

// RegisterDescribe appends a grouping entry whose handler may register
// further ledger entries when run.
func (c *Context) RegisterDescribe(name string, h Handler) {
	c.meta = append(c.meta, MetaTest{Name: name, Handler: h, Role: RoleDescribe})
}

// RegisterHook appends a hook with the given role.
func (c *Context) RegisterHook(h Handler, role string) {
	c.meta = append(c.meta, MetaTest{Handler: h, Role: role})
}

// MetaTests returns a snapshot of the registration ledger.
func (c *Context) MetaTests() []MetaTest {
	return append([]MetaTest(nil), c.meta...)
}
