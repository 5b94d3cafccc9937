// Package value implements the tagged value model shared by the entity
// store and the contract-call registry. A Value is immutable once
// constructed: every constructor copies its input, so records holding
// Values can be copied shallowly and handed across context boundaries
// without aliasing.
package value

import (
	"bytes"
	"math/big"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/shopspring/decimal"
)

// Kind discriminates the variants of Value.
type Kind uint8

const (
	Null Kind = iota
	String
	Int
	BigInt
	BigDecimal
	Bool
	Bytes
	List
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "Null"
	case String:
		return "String"
	case Int:
		return "Int"
	case BigInt:
		return "BigInt"
	case BigDecimal:
		return "BigDecimal"
	case Bool:
		return "Bool"
	case Bytes:
		return "Bytes"
	case List:
		return "List"
	default:
		return "Unknown"
	}
}

// Value is one storable value. The zero Value is Null.
type Value struct {
	kind Kind
	str  string
	i32  int32
	b    bool
	big  *big.Int
	dec  decimal.Decimal
	data []byte
	list []Value
}

// NullValue is the Null variant.
var NullValue = Value{}

func NewString(s string) Value {
	return Value{kind: String, str: s}
}

func NewInt(i int32) Value {
	return Value{kind: Int, i32: i}
}

func NewBigInt(i *big.Int) Value {
	v := Value{kind: BigInt, big: new(big.Int)}
	if i != nil {
		v.big.Set(i)
	}
	return v
}

func NewBigDecimal(d decimal.Decimal) Value {
	return Value{kind: BigDecimal, dec: d}
}

func NewBool(b bool) Value {
	return Value{kind: Bool, b: b}
}

func NewBytes(b []byte) Value {
	return Value{kind: Bytes, data: append([]byte(nil), b...)}
}

func NewList(elems ...Value) Value {
	return Value{kind: List, list: append([]Value(nil), elems...)}
}

func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) IsNull() bool {
	return v.kind == Null
}

// StringValue returns the underlying string of a String variant.
func (v Value) StringValue() (string, bool) {
	return v.str, v.kind == String
}

func (v Value) IntValue() (int32, bool) {
	return v.i32, v.kind == Int
}

// BigIntValue returns a copy of the underlying integer of a BigInt
// variant.
func (v Value) BigIntValue() (*big.Int, bool) {
	if v.kind != BigInt {
		return nil, false
	}
	return new(big.Int).Set(v.big), true
}

func (v Value) BigDecimalValue() (decimal.Decimal, bool) {
	return v.dec, v.kind == BigDecimal
}

func (v Value) BoolValue() (bool, bool) {
	return v.b, v.kind == Bool
}

// BytesValue returns a copy of the underlying bytes of a Bytes variant.
func (v Value) BytesValue() ([]byte, bool) {
	if v.kind != Bytes {
		return nil, false
	}
	return append([]byte(nil), v.data...), true
}

// ListValue returns a copy of the underlying elements of a List
// variant.
func (v Value) ListValue() ([]Value, bool) {
	if v.kind != List {
		return nil, false
	}
	return append([]Value(nil), v.list...), true
}

// String is the canonical rendering used for assertions and for call
// fingerprints. It is total over all variants; list rendering is
// order-sensitive.
func (v Value) String() string {
	switch v.kind {
	case Null:
		return "null"
	case String:
		return v.str
	case Int:
		return strconv.FormatInt(int64(v.i32), 10)
	case BigInt:
		return v.big.String()
	case BigDecimal:
		return v.dec.String()
	case Bool:
		return strconv.FormatBool(v.b)
	case Bytes:
		return hexutil.Encode(v.data)
	case List:
		var b strings.Builder
		b.WriteByte('[')
		for i, el := range v.list {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(el.String())
		}
		b.WriteByte(']')
		return b.String()
	default:
		return "null"
	}
}

// Equal reports structural equality. Int and BigInt compare
// numerically across kinds; every other variant only equals its own
// kind.
func (v Value) Equal(o Value) bool {
	if v.isInteger() && o.isInteger() {
		return v.integer().Cmp(o.integer()) == 0
	}
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case Null:
		return true
	case String:
		return v.str == o.str
	case BigDecimal:
		return v.dec.Equal(o.dec)
	case Bool:
		return v.b == o.b
	case Bytes:
		return bytes.Equal(v.data, o.data)
	case List:
		if len(v.list) != len(o.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(o.list[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func (v Value) isInteger() bool {
	return v.kind == Int || v.kind == BigInt
}

func (v Value) integer() *big.Int {
	if v.kind == Int {
		return big.NewInt(int64(v.i32))
	}
	return v.big
}
