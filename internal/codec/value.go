// Package codec bridges binary/hex-string column representations and
// renders decoded dynamic values to their canonical string form, per
// glaciers' §4.2 codec utilities.
package codec

import (
	"fmt"
	"math/big"
	"reflect"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Kind tags the shape of a decoded dynamic value, mirroring the Value
// variant sketched in spec.md §9 ("Per-row dynamic values").
type Kind int

const (
	KindBool Kind = iota
	KindInt
	KindUint
	KindBytesFixed
	KindBytesVar
	KindAddress
	KindFunction
	KindString
	KindArray
	KindTuple
	KindNull
)

// Value is a tagged decoded dynamic value, total over every Solidity ABI
// type this module decodes.
type Value struct {
	Kind  Kind
	Bool  bool
	Int   *big.Int
	Bytes []byte
	Str   string
	Elems []Value
}

// Null is the canonical null-equivalent value.
var Null = Value{Kind: KindNull}

// FromABI converts a value returned by go-ethereum's abi.Arguments.Unpack
// (an interface{} holding one of its concrete Go representations) into the
// tagged Value variant, using the argument's declared Solidity type to
// disambiguate signed vs. unsigned integers and fixed vs. dynamic bytes.
func FromABI(v interface{}, t abi.Type) Value {
	if v == nil {
		return Null
	}
	switch t.T {
	case abi.BoolTy:
		b, _ := v.(bool)
		return Value{Kind: KindBool, Bool: b}
	case abi.IntTy:
		bi := toBigInt(v)
		return Value{Kind: KindInt, Int: bi}
	case abi.UintTy:
		bi := toBigInt(v)
		return Value{Kind: KindUint, Int: bi}
	case abi.AddressTy:
		if a, ok := v.(common.Address); ok {
			return Value{Kind: KindAddress, Bytes: a.Bytes()}
		}
		return Null
	case abi.FunctionTy:
		if b, ok := v.([24]byte); ok {
			return Value{Kind: KindFunction, Bytes: b[:]}
		}
		return Null
	case abi.FixedBytesTy:
		b := reflectBytes(v)
		return Value{Kind: KindBytesFixed, Bytes: b}
	case abi.BytesTy:
		b, _ := v.([]byte)
		return Value{Kind: KindBytesVar, Bytes: b}
	case abi.StringTy:
		s, _ := v.(string)
		return Value{Kind: KindString, Str: s}
	case abi.SliceTy, abi.ArrayTy:
		elemT := *t.Elem
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			return Null
		}
		elems := make([]Value, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			elems[i] = FromABI(rv.Index(i).Interface(), elemT)
		}
		return Value{Kind: KindArray, Elems: elems}
	case abi.TupleTy:
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Struct {
			return Null
		}
		elems := make([]Value, len(t.TupleElems))
		for i, et := range t.TupleElems {
			fv := rv.Field(i)
			elems[i] = FromABI(fv.Interface(), *et)
		}
		return Value{Kind: KindTuple, Elems: elems}
	default:
		return Null
	}
}

func toBigInt(v interface{}) *big.Int {
	switch n := v.(type) {
	case *big.Int:
		return n
	case int64:
		return big.NewInt(n)
	case uint64:
		return new(big.Int).SetUint64(n)
	default:
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return big.NewInt(rv.Int())
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return new(big.Int).SetUint64(rv.Uint())
		}
		return big.NewInt(0)
	}
}

func reflectBytes(v interface{}) []byte {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice {
		b, _ := v.([]byte)
		return b
	}
	if rv.Kind() == reflect.Array {
		out := make([]byte, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = byte(rv.Index(i).Uint())
		}
		return out
	}
	return nil
}

// Stringify renders a decoded dynamic value to its canonical string form,
// per spec.md §4.2. Total over Value.
func Stringify(v Value) string {
	switch v.Kind {
	case KindNull:
		return "None"
	case KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case KindInt, KindUint:
		if v.Int == nil {
			return "0"
		}
		return v.Int.String()
	case KindBytesFixed, KindBytesVar, KindFunction:
		return "0x" + fmt.Sprintf("%x", v.Bytes)
	case KindAddress:
		return common.BytesToAddress(v.Bytes).Hex()
	case KindString:
		return v.Str
	case KindArray:
		parts := make([]string, len(v.Elems))
		for i, e := range v.Elems {
			parts[i] = Stringify(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindTuple:
		parts := make([]string, len(v.Elems))
		for i, e := range v.Elems {
			parts[i] = Stringify(e)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	default:
		return "None"
	}
}
