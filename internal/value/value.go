// Package value defines Aspic's runtime value representation: a tagged
// union covering numbers, booleans, null, native and user functions,
// interned strings, arrays, and in-band error values.
package value

import (
	"fmt"
	"strconv"
	"strings"

	"aspic/internal/intern"
)

// Type tags a Value's active variant.
type Type int

const (
	Number Type = iota
	Bool
	Null
	CFunc
	Error
	Object
)

func (t Type) String() string {
	switch t {
	case Number:
		return "number"
	case Bool:
		return "bool"
	case Null:
		return "null"
	case CFunc:
		return "cfunc"
	case Error:
		return "error"
	case Object:
		return "object"
	default:
		return "unknown"
	}
}

// ObjType tags the concrete kind of heap object an Object-typed Value
// points at.
type ObjType int

const (
	ObjString ObjType = iota
	ObjFunction
	ObjArray
)

// Obj is the common interface satisfied by every heap object variant.
// Concrete types are *StringObj, *Function, *Array.
type Obj interface {
	ObjType() ObjType
	// Next and SetNext thread the object into the VM's intrusive
	// allocation list, freed in one bulk pass at shutdown.
	Next() Obj
	SetNext(Obj)
}

type objHeader struct {
	next Obj
}

func (h *objHeader) Next() Obj     { return h.next }
func (h *objHeader) SetNext(o Obj) { h.next = o }

// StringObj wraps an interned string so it can live in the Object variant
// of Value alongside Function and Array.
type StringObj struct {
	objHeader
	Str *intern.Str
}

func (*StringObj) ObjType() ObjType { return ObjString }

func (s *StringObj) Chars() string { return s.Str.Chars }

// Function's Chunk field is an interface{} to avoid a cyclic import
// between value (whose Function needs a chunk) and chunk (which needs
// value.Value for its constant pool).
type Function struct {
	objHeader
	Name  *intern.Str // nil for the top-level/anonymous function
	Arity int
	Chunk interface{}
}

func (*Function) ObjType() ObjType { return ObjFunction }

// Array is a growable vector of values.
type Array struct {
	objHeader
	Elements []Value
}

func (*Array) ObjType() ObjType { return ObjArray }

// NativeFn is the signature every built-in function implements. ctx gives
// built-ins access to VM-owned state (the object list, interner, stdout)
// without a global singleton.
type NativeFn func(ctx Context, args []Value) Value

// Context is the explicit handle built-ins and the runtime receive instead
// of reaching into global VM state, per the rewrite's context-passing
// design.
type Context interface {
	Intern(chars string) *StringObj
	NewArray(elements []Value) *Array
	Register(o Obj)
}

// Native wraps a NativeFn with a display name, for repr/type reporting.
type Native struct {
	Name string
	Fn   NativeFn
}

// Value is Aspic's tagged runtime value. Exactly one field group is valid,
// selected by Type.
type Value struct {
	Type Type

	Num float64
	Bln bool
	Err string
	Nat *Native
	Obj Obj
}

func NewNumber(n float64) Value { return Value{Type: Number, Num: n} }
func NewBool(b bool) Value      { return Value{Type: Bool, Bln: b} }
func NewNull() Value            { return Value{Type: Null} }
func NewError(msg string) Value { return Value{Type: Error, Err: msg} }

func NewErrorf(format string, args ...interface{}) Value {
	return Value{Type: Error, Err: fmt.Sprintf(format, args...)}
}

func NewCFunc(name string, fn NativeFn) Value {
	return Value{Type: CFunc, Nat: &Native{Name: name, Fn: fn}}
}
func NewString(s *StringObj) Value  { return Value{Type: Object, Obj: s} }
func NewFunction(f *Function) Value { return Value{Type: Object, Obj: f} }
func NewArray(a *Array) Value       { return Value{Type: Object, Obj: a} }

func (v Value) IsError() bool { return v.Type == Error }

// Truthy implements spec's truthiness rule: only Null and Bool(false) are
// falsy, everything else is truthy.
func (v Value) Truthy() bool {
	return !(v.Type == Null || (v.Type == Bool && !v.Bln))
}

// AsString returns the underlying *StringObj and true if v holds a string.
func (v Value) AsString() (*StringObj, bool) {
	if v.Type == Object {
		if s, ok := v.Obj.(*StringObj); ok {
			return s, true
		}
	}
	return nil, false
}

// AsArray returns the underlying *Array and true if v holds an array.
func (v Value) AsArray() (*Array, bool) {
	if v.Type == Object {
		if a, ok := v.Obj.(*Array); ok {
			return a, true
		}
	}
	return nil, false
}

// AsFunction returns the underlying *Function and true if v holds one.
func (v Value) AsFunction() (*Function, bool) {
	if v.Type == Object {
		if f, ok := v.Obj.(*Function); ok {
			return f, true
		}
	}
	return nil, false
}

// TypeName reports the value's dynamic type name, as surfaced by the
// type() builtin and in error messages.
func (v Value) TypeName() string {
	switch v.Type {
	case Number:
		return "number"
	case Bool:
		return "bool"
	case Null:
		return "null"
	case CFunc:
		return "cfunc"
	case Error:
		return "error"
	case Object:
		switch v.Obj.ObjType() {
		case ObjString:
			return "string"
		case ObjFunction:
			return "function"
		case ObjArray:
			return "array"
		}
	}
	return "unknown"
}

// Repr renders v's canonical representation, as printed by the REPL and by
// str() for values other than strings and null.
func (v Value) Repr() string {
	switch v.Type {
	case Bool:
		if v.Bln {
			return "true"
		}
		return "false"
	case CFunc:
		return fmt.Sprintf("<cfunc %s>", v.Nat.Name)
	case Number:
		return strconv.FormatFloat(v.Num, 'g', -1, 64)
	case Null:
		return "null"
	case Error:
		return "[RuntimeError] " + v.Err
	case Object:
		switch o := v.Obj.(type) {
		case *Function:
			if o.Name != nil {
				return fmt.Sprintf("<function %s>", o.Name.Chars)
			}
			return "__main__"
		case *StringObj:
			return fmt.Sprintf("%q", o.Chars())
		case *Array:
			parts := make([]string, len(o.Elements))
			for i, e := range o.Elements {
				parts[i] = e.Repr()
			}
			return "[" + strings.Join(parts, ", ") + "]"
		}
	}
	return "?"
}

// Print renders v the way print() writes it: strings unquoted, everything
// else as its canonical repr.
func (v Value) Print() string {
	if s, ok := v.AsString(); ok {
		return s.Chars()
	}
	return v.Repr()
}

// Equal implements spec's value-equality rule: type must match, then
// compare by variant. String equality is pointer equality on the interned
// backing Str (which interning guarantees is also content equality);
// arrays and functions compare by identity.
func Equal(a, b Value) bool {
	if a.Type != b.Type {
		return false
	}
	switch a.Type {
	case Bool:
		return a.Bln == b.Bln
	case Null:
		return true
	case Number:
		return a.Num == b.Num
	case Object:
		if as, ok := a.Obj.(*StringObj); ok {
			if bs, ok := b.Obj.(*StringObj); ok {
				return as.Str == bs.Str
			}
			return false
		}
		return a.Obj == b.Obj
	case CFunc:
		return a.Nat == b.Nat
	default:
		return false
	}
}
