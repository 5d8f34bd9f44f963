// Package ron reads and writes the Rusty Object Notation documents used by the
// game's asset files: structs, tuples, enum variants, lists, maps and scalars.
package ron

import (
	"strconv"
	"strings"
)

// Kind identifies the shape of a Value
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindBool
	// KindIdent is a bare identifier such as a unit variant (Nothing, None)
	KindIdent
	// KindTuple is an anonymous or named tuple, e.g. (1.0, x) or Item("a")
	KindTuple
	// KindStruct is an anonymous or named struct, e.g. (loot: [...])
	KindStruct
	KindList
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindIdent:
		return "identifier"
	case KindTuple:
		return "tuple"
	case KindStruct:
		return "struct"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}

// Field is one named member of a struct
type Field struct {
	Name  string
	Value Value
}

// MapEntry is one key/value pair of a map
type MapEntry struct {
	Key   Value
	Value Value
}

// Value is a parsed document node. Which members are set depends on Kind.
type Value struct {
	Kind Kind
	// Name is the identifier of a named tuple/struct or a bare identifier
	Name    string
	Str     string
	Num     float64
	NumText string
	Bool    bool
	Elems   []Value
	Fields  []Field
	Entries []MapEntry
}

// String builds a string value
func String(s string) Value {
	return Value{Kind: KindString, Str: s}
}

// Float builds a number value that always renders with a fractional part,
// e.g. 1 -> "1.0".
func Float(f float64) Value {
	text := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(text, ".eEnN") {
		text += ".0"
	}
	return Value{Kind: KindNumber, Num: f, NumText: text}
}

// Uint builds an integer number value
func Uint(u uint64) Value {
	return Value{Kind: KindNumber, Num: float64(u), NumText: strconv.FormatUint(u, 10)}
}

// Ident builds a bare identifier
func Ident(name string) Value {
	return Value{Kind: KindIdent, Name: name}
}

// Tuple builds a tuple; an empty name makes it anonymous
func Tuple(name string, elems ...Value) Value {
	return Value{Kind: KindTuple, Name: name, Elems: elems}
}

// Struct builds a struct; an empty name makes it anonymous
func Struct(name string, fields ...Field) Value {
	return Value{Kind: KindStruct, Name: name, Fields: fields}
}

// List builds a list
func List(elems ...Value) Value {
	return Value{Kind: KindList, Elems: elems}
}

// Field returns the struct member with the given name
func (v Value) Field(name string) (Value, bool) {
	for _, f := range v.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return Value{}, false
}

// Int returns the number as an integer when it has no fractional part
func (v Value) Int() (int64, bool) {
	if v.Kind != KindNumber {
		return 0, false
	}
	i := int64(v.Num)
	if float64(i) != v.Num {
		return 0, false
	}
	return i, true
}
