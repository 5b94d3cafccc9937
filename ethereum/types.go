package ethereum

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/tinderbox-go/tinderbox/subgraph/value"
)

// paramKind covers the solidity ABI type families the registry can
// structurally check against a runtime Value.
type paramKind uint8

const (
	kindAddress paramKind = iota
	kindBool
	kindString
	kindBytes      // dynamic byte string
	kindFixedBytes // bytesN
	kindInteger    // intN / uintN
	kindArray      // T[] / T[N]
	kindTuple      // (T1,T2,...)
)

type paramType struct {
	kind       paramKind
	token      string // signature token as declared, used in diagnostics
	size       int    // bytesN width or fixed array length, -1 when dynamic
	elem       *paramType
	components []paramType
}

// parseSignature validates that the declared function name matches the
// one embedded in the signature and returns the parsed argument types.
// Signatures use the "name(argTypes):(returnTypes)" form, e.g.
// "balanceOf(address):(uint256)".
func parseSignature(name, signature string) ([]paramType, error) {
	if !strings.HasPrefix(signature, name+"(") {
		return nil, fmt.Errorf("createMockedFunction: function name '%s' should match the name in the function signature '%s'", name, signature)
	}
	argsPart := strings.TrimPrefix(signature, name+"(")
	if i := strings.Index(argsPart, "):"); i >= 0 {
		argsPart = argsPart[:i]
	} else {
		argsPart = strings.TrimSuffix(argsPart, ")")
	}

	tokens := splitTopLevel(argsPart)
	params := make([]paramType, 0, len(tokens))
	for _, tok := range tokens {
		p, err := parseParamType(tok)
		if err != nil {
			return nil, err
		}
		params = append(params, p)
	}
	return params, nil
}

// splitTopLevel splits a comma-separated type list, ignoring commas
// nested inside tuple parentheses or array brackets.
func splitTopLevel(s string) []string {
	var (
		out   []string
		depth int
		start int
	)
	for i, r := range s {
		switch r {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, s[start:i])
				start = i + 1
			}
		}
	}
	out = append(out, s[start:])

	trimmed := out[:0]
	for _, tok := range out {
		if tok = strings.TrimSpace(tok); tok != "" {
			trimmed = append(trimmed, tok)
		}
	}
	return trimmed
}

func parseParamType(tok string) (paramType, error) {
	tok = strings.TrimSpace(tok)

	// Arrays, fixed or dynamic: T[N] / T[].
	if strings.HasSuffix(tok, "]") {
		open := strings.LastIndex(tok, "[")
		if open < 0 {
			return paramType{}, fmt.Errorf("malformed parameter type '%s'", tok)
		}
		elem, err := parseParamType(tok[:open])
		if err != nil {
			return paramType{}, err
		}
		size := -1
		if lenStr := tok[open+1 : len(tok)-1]; lenStr != "" {
			size, err = strconv.Atoi(lenStr)
			if err != nil {
				return paramType{}, fmt.Errorf("malformed array length in parameter type '%s'", tok)
			}
		}
		return paramType{kind: kindArray, token: tok, size: size, elem: &elem}, nil
	}

	// Tuples: (T1,T2,...).
	if strings.HasPrefix(tok, "(") && strings.HasSuffix(tok, ")") {
		var components []paramType
		for _, inner := range splitTopLevel(tok[1 : len(tok)-1]) {
			c, err := parseParamType(inner)
			if err != nil {
				return paramType{}, err
			}
			components = append(components, c)
		}
		return paramType{kind: kindTuple, token: tok, components: components}, nil
	}

	switch {
	case tok == "address":
		return paramType{kind: kindAddress, token: tok}, nil
	case tok == "bool":
		return paramType{kind: kindBool, token: tok}, nil
	case tok == "string":
		return paramType{kind: kindString, token: tok}, nil
	case tok == "bytes":
		return paramType{kind: kindBytes, token: tok}, nil
	case tok == "tuple":
		// Unparenthesized tuple token: shape is unknown, any list is
		// accepted.
		return paramType{kind: kindTuple, token: tok}, nil
	case strings.HasPrefix(tok, "bytes"):
		n, err := strconv.Atoi(tok[len("bytes"):])
		if err != nil || n < 1 || n > 32 {
			return paramType{}, fmt.Errorf("malformed parameter type '%s'", tok)
		}
		return paramType{kind: kindFixedBytes, token: tok, size: n}, nil
	case strings.HasPrefix(tok, "uint"), strings.HasPrefix(tok, "int"):
		bits := strings.TrimPrefix(strings.TrimPrefix(tok, "u"), "int")
		if bits != "" {
			n, err := strconv.Atoi(bits)
			if err != nil || n < 8 || n > 256 || n%8 != 0 {
				return paramType{}, fmt.Errorf("malformed parameter type '%s'", tok)
			}
		}
		return paramType{kind: kindInteger, token: tok}, nil
	default:
		return paramType{}, fmt.Errorf("unsupported parameter type '%s'", tok)
	}
}

// check reports whether the runtime value structurally matches the
// declared type: an address is a 20-byte value, bytesN has exactly N
// bytes, arrays and tuples are lists of matching shape.
func (p paramType) check(v value.Value) bool {
	switch p.kind {
	case kindAddress:
		b, ok := v.BytesValue()
		return ok && len(b) == common.AddressLength
	case kindBool:
		return v.Kind() == value.Bool
	case kindString:
		return v.Kind() == value.String
	case kindBytes:
		return v.Kind() == value.Bytes
	case kindFixedBytes:
		b, ok := v.BytesValue()
		return ok && len(b) == p.size
	case kindInteger:
		return v.Kind() == value.Int || v.Kind() == value.BigInt
	case kindArray:
		list, ok := v.ListValue()
		if !ok {
			return false
		}
		if p.size >= 0 && len(list) != p.size {
			return false
		}
		for _, el := range list {
			if !p.elem.check(el) {
				return false
			}
		}
		return true
	case kindTuple:
		list, ok := v.ListValue()
		if !ok {
			return false
		}
		if p.components == nil {
			return true
		}
		if len(list) != len(p.components) {
			return false
		}
		for i, el := range list {
			if !p.components[i].check(el) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
