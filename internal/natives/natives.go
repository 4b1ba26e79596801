// Package natives implements Aspic's built-in functions: the fixed set of
// native callables every VM registers at startup (assert, clock, input,
// int, len, print, push, pop, str, type), grounded on cfunc.c's
// documented ABI and signatures.
package natives

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"aspic/internal/value"
)

// Env is the subset of *vm.VM the natives package needs: object
// allocation/interning (so natives never bypass the VM's registry) and
// the VM's configured stdio streams. Defined here rather than imported
// from the vm package to avoid a cyclic import (vm depends on natives to
// populate its globals table).
type Env interface {
	value.Context
	Stdout() io.Writer
	Stdin() io.Reader
	DefineNative(name string, fn value.NativeFn)
}

var startTime = time.Now()

// RegisterAll installs every native function in env's globals table.
func RegisterAll(env Env) {
	env.DefineNative("assert", assertFn)
	env.DefineNative("clock", clockFn)
	env.DefineNative("input", inputFn)
	env.DefineNative("int", intFn)
	env.DefineNative("len", lenFn)
	env.DefineNative("print", printFn)
	env.DefineNative("push", pushFn)
	env.DefineNative("pop", popFn)
	env.DefineNative("str", strFn)
	env.DefineNative("type", typeFn)
}

func arityError(name string, want string, got int) value.Value {
	return value.NewErrorf("%s() expects %s argument, got %d", name, want, got)
}

// assertFn returns an error if its single argument is falsy, otherwise
// the argument's truthiness as a bool. Mirrors aspic_assert in cfunc.c.
func assertFn(ctx value.Context, args []value.Value) value.Value {
	if len(args) != 1 {
		return arityError("assert", "1", len(args))
	}
	if !args[0].Truthy() {
		return value.NewError("Assertion failed")
	}
	return value.NewBool(true)
}

// clockFn returns the number of wall-clock seconds elapsed since this
// package was initialized (program start), in
// place of the original's CPU-time approximation (Go has no portable
// process-CPU-seconds call as cheap as C's clock()).
func clockFn(ctx value.Context, args []value.Value) value.Value {
	return value.NewNumber(time.Since(startTime).Seconds())
}

// inputFn prints an optional prompt, then reads one line from the VM's
// configured stdin. Mirrors aspic_input in cfunc.c.
func inputFn(ctx value.Context, args []value.Value) value.Value {
	if len(args) > 1 {
		return value.NewErrorf("input() expects 1 argument at most, got %d", len(args))
	}
	env, ok := ctx.(Env)
	if !ok {
		return value.NewError("input() is unavailable in this context")
	}
	if len(args) == 1 {
		fmt.Fprint(env.Stdout(), args[0].Print())
	}
	reader := bufio.NewReader(env.Stdin())
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return value.NewNull()
	}
	line = strings.TrimRight(line, "\r\n")
	return value.NewString(ctx.Intern(line))
}

// intFn converts a string or number to a number holding its integer
// value, accepting an optional base (2-36) for string conversion, per
// cfunc.h's documented signature.
func intFn(ctx value.Context, args []value.Value) value.Value {
	if len(args) < 1 || len(args) > 2 {
		return value.NewErrorf("int() expects 1 or 2 arguments, got %d", len(args))
	}

	base := 10
	if len(args) == 2 {
		if args[1].Type != value.Number {
			return value.NewError("int() base argument must be a number")
		}
		base = int(args[1].Num)
		if base < 2 || base > 36 {
			return value.NewErrorf("int() base must be between 2 and 36, got %d", base)
		}
	}

	switch {
	case args[0].Type == value.Number:
		return value.NewNumber(float64(int64(args[0].Num)))
	default:
		s, ok := args[0].AsString()
		if !ok {
			return value.NewErrorf("Cannot convert type '%s' to int", args[0].TypeName())
		}
		n, err := strconv.ParseInt(strings.TrimSpace(s.Chars()), base, 64)
		if err != nil {
			return value.NewErrorf("Cannot convert '%s' to int with base %d", s.Chars(), base)
		}
		return value.NewNumber(float64(n))
	}
}

// lenFn returns the length of a string or array, per cfunc.h.
func lenFn(ctx value.Context, args []value.Value) value.Value {
	if len(args) != 1 {
		return arityError("len", "1", len(args))
	}
	if s, ok := args[0].AsString(); ok {
		return value.NewNumber(float64(len(s.Chars())))
	}
	if a, ok := args[0].AsArray(); ok {
		return value.NewNumber(float64(len(a.Elements)))
	}
	return value.NewErrorf("Cannot get length for type '%s'", args[0].TypeName())
}

// printFn writes every argument separated by a space, followed by a
// newline, to the VM's configured stdout. Mirrors aspic_print in cfunc.c.
func printFn(ctx value.Context, args []value.Value) value.Value {
	env, ok := ctx.(Env)
	if !ok {
		return value.NewNull()
	}
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.Print()
	}
	fmt.Fprintln(env.Stdout(), strings.Join(parts, " "))
	return value.NewNull()
}

// pushFn appends value to array, returning the array itself — the
// signature documented in cfunc.h, resolved against the Array type the
// original snapshot predates (spec.md §9's third Open Question).
func pushFn(ctx value.Context, args []value.Value) value.Value {
	if len(args) != 2 {
		return value.NewErrorf("push() expects 2 arguments, got %d", len(args))
	}
	a, ok := args[0].AsArray()
	if !ok {
		return value.NewErrorf("push() expects an array, got '%s'", args[0].TypeName())
	}
	a.Elements = append(a.Elements, args[1])
	return args[0]
}

// popFn removes and returns the last element of array.
func popFn(ctx value.Context, args []value.Value) value.Value {
	if len(args) != 1 {
		return arityError("pop", "1", len(args))
	}
	a, ok := args[0].AsArray()
	if !ok {
		return value.NewErrorf("pop() expects an array, got '%s'", args[0].TypeName())
	}
	if len(a.Elements) == 0 {
		return value.NewError("pop() from an empty array")
	}
	last := a.Elements[len(a.Elements)-1]
	a.Elements = a.Elements[:len(a.Elements)-1]
	return last
}

// strFn converts x to a string: a string is returned unchanged, null
// becomes the empty string, and any other value renders as its canonical
// representation (Repr). Mirrors aspic_str.
func strFn(ctx value.Context, args []value.Value) value.Value {
	if len(args) != 1 {
		return arityError("str", "1", len(args))
	}
	if s, ok := args[0].AsString(); ok {
		return value.NewString(s)
	}
	if args[0].Type == value.Null {
		return value.NewString(ctx.Intern(""))
	}
	return value.NewString(ctx.Intern(args[0].Repr()))
}

// typeFn returns x's dynamic type name. Mirrors aspic_type.
func typeFn(ctx value.Context, args []value.Value) value.Value {
	if len(args) != 1 {
		return arityError("type", "1", len(args))
	}
	return value.NewString(ctx.Intern(args[0].TypeName()))
}
