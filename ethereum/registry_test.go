package ethereum

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinderbox-go/tinderbox/subgraph/value"
)

var (
	contractAddr = common.HexToAddress("0x89205A3A3b2A69De6Dbf7f01ED13B2108B2c43e7")
	holderAddr   = common.HexToAddress("0x90cBa2Bbb19ecc291A12066Fd8329D65FA1f1947")
)

func TestRegistry_Register(t *testing.T) {
	t.Run("name must match signature", func(t *testing.T) {
		r := NewRegistry()
		err := r.Register(contractAddr, "balanceOf", "totalSupply():(uint256)", nil, nil, false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "should match the name in the function signature")
	})

	t.Run("argument count must match signature", func(t *testing.T) {
		r := NewRegistry()
		err := r.Register(contractAddr, "balanceOf", "balanceOf(address):(uint256)", nil, nil, false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "balanceOf expected 1 arguments, but received 0")
	})

	t.Run("argument kinds must match declared types", func(t *testing.T) {
		r := NewRegistry()
		err := r.Register(contractAddr, "balanceOf", "balanceOf(address):(uint256)",
			[]value.Value{value.NewString("not-an-address")}, nil, false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "position 1")
		assert.Contains(t, err.Error(), "expected address")
		assert.Contains(t, err.Error(), "received String")
	})
}

func TestRegistry_Invoke(t *testing.T) {
	holder := value.NewBytes(holderAddr.Bytes())
	balance := value.NewBigInt(big.NewInt(42))

	t.Run("returns registered values", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, r.Register(contractAddr, "balanceOf", "balanceOf(address):(uint256)",
			[]value.Value{holder}, []value.Value{balance}, false))

		returns, reverted, err := r.Invoke(contractAddr, "balanceOf", "balanceOf(address):(uint256)",
			[]value.Value{holder})
		require.NoError(t, err)
		assert.False(t, reverted)
		require.Len(t, returns, 1)
		assert.Equal(t, "42", returns[0].String())
	})

	t.Run("different address is a different fingerprint", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, r.Register(contractAddr, "balanceOf", "balanceOf(address):(uint256)",
			[]value.Value{holder}, []value.Value{balance}, false))

		_, _, err := r.Invoke(holderAddr, "balanceOf", "balanceOf(address):(uint256)",
			[]value.Value{holder})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "could not find a mocked function")
		assert.Contains(t, err.Error(), "balanceOf")
	})

	t.Run("different argument value is a different fingerprint", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, r.Register(contractAddr, "balanceOf", "balanceOf(address):(uint256)",
			[]value.Value{holder}, []value.Value{balance}, false))

		other := value.NewBytes(contractAddr.Bytes())
		_, _, err := r.Invoke(contractAddr, "balanceOf", "balanceOf(address):(uint256)",
			[]value.Value{other})
		require.Error(t, err)
	})

	t.Run("re-registration overwrites", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, r.Register(contractAddr, "balanceOf", "balanceOf(address):(uint256)",
			[]value.Value{holder}, []value.Value{balance}, false))
		require.NoError(t, r.Register(contractAddr, "balanceOf", "balanceOf(address):(uint256)",
			[]value.Value{holder}, []value.Value{value.NewBigInt(big.NewInt(7))}, false))

		returns, _, err := r.Invoke(contractAddr, "balanceOf", "balanceOf(address):(uint256)",
			[]value.Value{holder})
		require.NoError(t, err)
		require.Len(t, returns, 1)
		assert.Equal(t, "7", returns[0].String())
	})

	t.Run("reverts is distinguishable from empty returns", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, r.Register(contractAddr, "transfer", "transfer(address,uint256):(bool)",
			[]value.Value{holder, balance}, nil, true))

		returns, reverted, err := r.Invoke(contractAddr, "transfer", "transfer(address,uint256):(bool)",
			[]value.Value{holder, balance})
		require.NoError(t, err)
		assert.True(t, reverted)
		assert.Empty(t, returns)
	})
}

func TestRegistry_Clone(t *testing.T) {
	holder := value.NewBytes(holderAddr.Bytes())
	r := NewRegistry()
	require.NoError(t, r.Register(contractAddr, "balanceOf", "balanceOf(address):(uint256)",
		[]value.Value{holder}, []value.Value{value.NewInt(1)}, false))

	c := r.Clone()
	require.NoError(t, c.Register(contractAddr, "balanceOf", "balanceOf(address):(uint256)",
		[]value.Value{holder}, []value.Value{value.NewInt(2)}, false))

	returns, _, err := r.Invoke(contractAddr, "balanceOf", "balanceOf(address):(uint256)", []value.Value{holder})
	require.NoError(t, err)
	assert.Equal(t, "1", returns[0].String())

	returns, _, err = c.Invoke(contractAddr, "balanceOf", "balanceOf(address):(uint256)", []value.Value{holder})
	require.NoError(t, err)
	assert.Equal(t, "2", returns[0].String())
}
