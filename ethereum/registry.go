// Package ethereum implements the mocked contract-call registry. A
// mock is keyed by a deterministic fingerprint of the full call
// (address, function name, signature, rendered argument values); two
// calls are the same mocked call iff their fingerprints are identical.
package ethereum

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/tinderbox-go/tinderbox/subgraph/value"
)

type mockedCall struct {
	reverts bool
	returns []value.Value
}

// Registry maps call fingerprints to either a reverts marker or a
// canned ordered list of return values.
type Registry struct {
	mocks map[string]mockedCall
}

func NewRegistry() *Registry {
	return &Registry{mocks: make(map[string]mockedCall)}
}

func fingerprint(address common.Address, name, signature string, args []value.Value) string {
	var b strings.Builder
	b.WriteString(strings.ToLower(address.Hex()))
	b.WriteString(name)
	b.WriteString(signature)
	for _, a := range args {
		b.WriteString(a.String())
	}
	return b.String()
}

// Register stores a mock for the fingerprinted call, overwriting any
// prior registration with the same fingerprint. The declared signature
// must embed the function name, and every argument must structurally
// match the declared type at its position.
func (r *Registry) Register(address common.Address, name, signature string, args, returns []value.Value, reverts bool) error {
	params, err := parseSignature(name, signature)
	if err != nil {
		return err
	}
	if len(params) != len(args) {
		return fmt.Errorf("%s expected %d arguments, but received %d", name, len(params), len(args))
	}
	for i, p := range params {
		if !p.check(args[i]) {
			return fmt.Errorf("createMockedFunction '%s' parameters mismatch at position %d: expected %s, received %s",
				name, i+1, p.token, args[i].Kind())
		}
	}

	key := fingerprint(address, name, signature, args)
	if reverts {
		r.mocks[key] = mockedCall{reverts: true}
	} else {
		r.mocks[key] = mockedCall{returns: append([]value.Value(nil), returns...)}
	}
	return nil
}

// Invoke resolves a call against the registered mocks. A mocked revert
// is reported through the reverted flag, distinguishable from a normal
// empty result; a call nobody mocked is an error naming all call
// parameters, since forgetting the mock is the dominant failure mode.
func (r *Registry) Invoke(address common.Address, name, signature string, args []value.Value) (returns []value.Value, reverted bool, err error) {
	key := fingerprint(address, name, signature, args)
	m, ok := r.mocks[key]
	if !ok {
		rendered := make([]string, len(args))
		for i, a := range args {
			rendered[i] = a.String()
		}
		return nil, false, fmt.Errorf("could not find a mocked function with the following parameters, address: %s, name: %s, signature: %s, params: [%s]",
			strings.ToLower(address.Hex()), name, signature, strings.Join(rendered, ", "))
	}
	if m.reverts {
		return nil, true, nil
	}
	return append([]value.Value(nil), m.returns...), false, nil
}

// Clone copies the registry for the ipfs.map context handoff. Stored
// entries are treated as read-only, so the return slices are shared.
func (r *Registry) Clone() *Registry {
	c := NewRegistry()
	for k, v := range r.mocks {
		c.mocks[k] = v
	}
	return c
}
