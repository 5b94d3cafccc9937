package value

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_String(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"null", NullValue, "null"},
		{"zero value is null", Value{}, "null"},
		{"string", NewString("Alice"), "Alice"},
		{"int", NewInt(-7), "-7"},
		{"bigint", NewBigInt(big.NewInt(42)), "42"},
		{"nil bigint renders as zero", NewBigInt(nil), "0"},
		{"bigdecimal", NewBigDecimal(decimal.RequireFromString("1.50")), "1.5"},
		{"bool", NewBool(true), "true"},
		{"bytes", NewBytes([]byte{0x01, 0xff}), "0x01ff"},
		{"empty bytes", NewBytes(nil), "0x"},
		{"empty list", NewList(), "[]"},
		{"list", NewList(NewString("tx1"), NewString("tx2")), "[tx1, tx2]"},
		{"nested list", NewList(NewList(NewInt(1), NewInt(2)), NewBool(false)), "[[1, 2], false]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.v.String())
		})
	}
}

func TestValue_Equal(t *testing.T) {
	t.Run("same kind", func(t *testing.T) {
		assert.True(t, NewString("a").Equal(NewString("a")))
		assert.False(t, NewString("a").Equal(NewString("b")))
		assert.True(t, NullValue.Equal(NullValue))
		assert.True(t, NewBytes([]byte{1, 2}).Equal(NewBytes([]byte{1, 2})))
		assert.False(t, NewBytes([]byte{1, 2}).Equal(NewBytes([]byte{1})))
	})

	t.Run("int and bigint normalize", func(t *testing.T) {
		assert.True(t, NewInt(42).Equal(NewBigInt(big.NewInt(42))))
		assert.True(t, NewBigInt(big.NewInt(42)).Equal(NewInt(42)))
		assert.False(t, NewInt(42).Equal(NewBigInt(big.NewInt(43))))
	})

	t.Run("kind mismatch", func(t *testing.T) {
		assert.False(t, NewString("42").Equal(NewInt(42)))
		assert.False(t, NewBool(false).Equal(NullValue))
	})

	t.Run("lists are order-sensitive", func(t *testing.T) {
		a := NewList(NewString("x"), NewString("y"))
		b := NewList(NewString("y"), NewString("x"))
		assert.True(t, a.Equal(NewList(NewString("x"), NewString("y"))))
		assert.False(t, a.Equal(b))
	})

	t.Run("bigdecimal equality ignores representation", func(t *testing.T) {
		a := NewBigDecimal(decimal.RequireFromString("1.50"))
		b := NewBigDecimal(decimal.RequireFromString("1.5"))
		assert.True(t, a.Equal(b))
	})
}

func TestValue_ConstructorsCopyInputs(t *testing.T) {
	t.Run("bytes", func(t *testing.T) {
		raw := []byte{1, 2, 3}
		v := NewBytes(raw)
		raw[0] = 9
		got, ok := v.BytesValue()
		require.True(t, ok)
		assert.Equal(t, []byte{1, 2, 3}, got)
	})

	t.Run("bigint", func(t *testing.T) {
		i := big.NewInt(10)
		v := NewBigInt(i)
		i.SetInt64(99)
		got, ok := v.BigIntValue()
		require.True(t, ok)
		assert.Equal(t, int64(10), got.Int64())
	})

	t.Run("list accessor returns a copy", func(t *testing.T) {
		v := NewList(NewString("a"))
		list, ok := v.ListValue()
		require.True(t, ok)
		list[0] = NewString("b")
		assert.Equal(t, "[a]", v.String())
	})
}

func TestValue_Accessors(t *testing.T) {
	_, ok := NewString("a").IntValue()
	assert.False(t, ok)

	s, ok := NewString("a").StringValue()
	require.True(t, ok)
	assert.Equal(t, "a", s)

	_, ok = NullValue.ListValue()
	assert.False(t, ok)
	assert.True(t, NullValue.IsNull())
	assert.False(t, NewInt(0).IsNull())
}
