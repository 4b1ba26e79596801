package natives

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aspic/internal/intern"
	"aspic/internal/value"
)

// fakeEnv implements value.Context only — enough for the natives that
// don't touch stdio (assert, int, len, push, pop, str, type). inputFn
// and printFn type-assert ctx.(Env) for stdio access and are exercised
// instead through the vm package's integration tests.
type fakeEnv struct {
	interner *intern.Set
	objects  value.Obj
}

func newFakeEnv() *fakeEnv {
	return &fakeEnv{interner: &intern.Set{}}
}

func (e *fakeEnv) Intern(chars string) *value.StringObj {
	obj := &value.StringObj{Str: e.interner.Intern(chars)}
	e.Register(obj)
	return obj
}

func (e *fakeEnv) NewArray(elements []value.Value) *value.Array {
	arr := &value.Array{Elements: elements}
	e.Register(arr)
	return arr
}

func (e *fakeEnv) Register(o value.Obj) {
	o.SetNext(e.objects)
	e.objects = o
}

func TestAssertFn(t *testing.T) {
	env := newFakeEnv()

	result := assertFn(env, []value.Value{value.NewBool(true)})
	assert.False(t, result.IsError())

	result = assertFn(env, []value.Value{value.NewBool(false)})
	require.True(t, result.IsError())
	assert.Equal(t, "Assertion failed", result.Err)

	result = assertFn(env, []value.Value{})
	assert.True(t, result.IsError())
}

func TestIntFn(t *testing.T) {
	env := newFakeEnv()

	result := intFn(env, []value.Value{value.NewNumber(3.7)})
	assert.Equal(t, float64(3), result.Num)

	s := env.Intern("ff")
	result = intFn(env, []value.Value{value.NewString(s), value.NewNumber(16)})
	require.False(t, result.IsError())
	assert.Equal(t, float64(255), result.Num)

	bad := env.Intern("not-a-number")
	result = intFn(env, []value.Value{value.NewString(bad)})
	assert.True(t, result.IsError())
}

func TestLenFn(t *testing.T) {
	env := newFakeEnv()

	s := env.Intern("hello")
	result := lenFn(env, []value.Value{value.NewString(s)})
	assert.Equal(t, float64(5), result.Num)

	arr := env.NewArray([]value.Value{value.NewNumber(1), value.NewNumber(2)})
	result = lenFn(env, []value.Value{value.NewArray(arr)})
	assert.Equal(t, float64(2), result.Num)

	result = lenFn(env, []value.Value{value.NewNumber(1)})
	assert.True(t, result.IsError())
}

func TestPushAndPopFn(t *testing.T) {
	env := newFakeEnv()

	arr := env.NewArray([]value.Value{value.NewNumber(1)})
	arrVal := value.NewArray(arr)

	pushed := pushFn(env, []value.Value{arrVal, value.NewNumber(2)})
	require.False(t, pushed.IsError())
	assert.Equal(t, 2, len(arr.Elements))

	popped := popFn(env, []value.Value{arrVal})
	assert.Equal(t, float64(2), popped.Num)
	assert.Equal(t, 1, len(arr.Elements))

	popFn(env, []value.Value{arrVal})
	result := popFn(env, []value.Value{arrVal})
	assert.True(t, result.IsError())
}

func TestTypeFn(t *testing.T) {
	env := newFakeEnv()
	result := typeFn(env, []value.Value{value.NewNumber(1)})
	require.False(t, result.IsError())
	s, ok := result.AsString()
	require.True(t, ok)
	assert.Equal(t, "number", s.Chars())
}

func TestStrFn(t *testing.T) {
	env := newFakeEnv()
	result := strFn(env, []value.Value{value.NewNumber(42)})
	s, ok := result.AsString()
	require.True(t, ok)
	assert.Equal(t, "42", s.Chars())
}
