// Package chunk implements the bytecode buffer a compiled function owns:
// the instruction stream, its deduplicated constant pool, and a
// run-length-encoded line table for diagnostics.
package chunk

import (
	"fmt"
	"strings"

	"aspic/internal/value"
)

type OpCode byte

const (
	OpReturn OpCode = iota
	OpPop

	// Jumps — 2-byte big-endian operand.
	OpJump
	OpJumpIfTrue
	OpJumpIfFalse
	OpJumpBack

	// Global variables — 1-byte constant-index operand.
	OpDeclGlobal
	OpDeclGlobalConst
	OpGetGlobal
	OpSetGlobal

	// Global variables — 2-byte constant-index operand.
	OpDeclGlobal16
	OpDeclGlobalConst16
	OpGetGlobal16
	OpSetGlobal16

	// Local variables — 1-byte stack-slot operand.
	OpGetLocal
	OpSetLocal

	// Literals.
	OpConstant
	OpConstant16

	OpZero
	OpOne
	OpTrue
	OpFalse
	OpNull

	// Unary operators.
	OpNot
	OpPositive
	OpNegative

	// Binary operators.
	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
	OpModulo

	// Comparators.
	OpEqual
	OpNotEqual
	OpGreater
	OpGreaterEqual
	OpLess
	OpLessEqual

	// Subscripting.
	OpSubscriptGet
	OpSubscriptSet

	// Calls.
	OpCall

	// Array literal — 1-byte element-count operand.
	OpArray
)

var names = map[OpCode]string{
	OpReturn:            "RETURN",
	OpPop:               "POP",
	OpJump:              "JUMP",
	OpJumpIfTrue:        "JUMP_IF_TRUE",
	OpJumpIfFalse:       "JUMP_IF_FALSE",
	OpJumpBack:          "JUMP_BACK",
	OpDeclGlobal:        "DECL_GLOBAL",
	OpDeclGlobalConst:   "DECL_GLOBAL_CONST",
	OpGetGlobal:         "GET_GLOBAL",
	OpSetGlobal:         "SET_GLOBAL",
	OpDeclGlobal16:      "DECL_GLOBAL_16",
	OpDeclGlobalConst16: "DECL_GLOBAL_CONST_16",
	OpGetGlobal16:       "GET_GLOBAL_16",
	OpSetGlobal16:       "SET_GLOBAL_16",
	OpGetLocal:          "GET_LOCAL",
	OpSetLocal:          "SET_LOCAL",
	OpConstant:          "CONSTANT",
	OpConstant16:        "CONSTANT_16",
	OpZero:              "ZERO",
	OpOne:               "ONE",
	OpTrue:              "TRUE",
	OpFalse:             "FALSE",
	OpNull:              "NULL",
	OpNot:               "NOT",
	OpPositive:          "POSITIVE",
	OpNegative:          "NEGATIVE",
	OpAdd:               "ADD",
	OpSubtract:          "SUBTRACT",
	OpMultiply:          "MULTIPLY",
	OpDivide:            "DIVIDE",
	OpModulo:            "MODULO",
	OpEqual:             "EQUAL",
	OpNotEqual:          "NOT_EQUAL",
	OpGreater:           "GREATER",
	OpGreaterEqual:      "GREATER_EQUAL",
	OpLess:              "LESS",
	OpLessEqual:         "LESS_EQUAL",
	OpSubscriptGet:      "SUBSCRIPT_GET",
	OpSubscriptSet:      "SUBSCRIPT_SET",
	OpCall:              "CALL",
	OpArray:             "ARRAY",
}

func (op OpCode) String() string {
	if name, ok := names[op]; ok {
		return name
	}
	return fmt.Sprintf("OP_%d", byte(op))
}

const maxConstants16 = 0xffff

// Chunk is a compiled function's bytecode: the instruction stream, its
// constant pool (deduplicated, so equal values share one slot), a
// run-length-encoded line table, and a borrowed reference to the full
// source text for diagnostic line printing.
type Chunk struct {
	Code      []byte
	Constants []value.Value

	// lines stores (runLength, lineNumber) pairs: consecutive
	// instructions on the same source line collapse into one pair with
	// an incremented run length.
	lines []int

	Source string
}

func New(source string) *Chunk {
	return &Chunk{Source: source}
}

// Write appends byte to the instruction stream, recording line against the
// run-length-encoded line table.
func (c *Chunk) Write(b byte, line int) {
	c.Code = append(c.Code, b)

	n := len(c.lines)
	if n > 0 && c.lines[n-1] == line {
		c.lines[n-2]++
	} else {
		c.lines = append(c.lines, 1, line)
	}
}

// WriteConstant emits the load-constant instruction for index, choosing the
// 1-byte opcode when index fits in a byte and the _16 variant otherwise.
// Reports false if index cannot fit in two bytes (a compile error).
func (c *Chunk) WriteConstant(index int, line int) bool {
	if index <= 0xff {
		c.Write(byte(OpConstant), line)
		c.Write(byte(index), line)
		return true
	}
	if index <= maxConstants16 {
		c.Write(byte(OpConstant16), line)
		c.Write(byte(index>>8), line)
		c.Write(byte(index), line)
		return true
	}
	return false
}

// AddConstant registers value in the constant pool, returning its existing
// index if an equal value was already registered (linear-scan dedup).
func (c *Chunk) AddConstant(v value.Value) int {
	for i, existing := range c.Constants {
		if value.Equal(existing, v) {
			return i
		}
	}
	c.Constants = append(c.Constants, v)
	return len(c.Constants) - 1
}

// GetLine returns the source line that produced the instruction at offset,
// by walking the run-length-encoded line table.
func (c *Chunk) GetLine(offset int) int {
	current := 0
	for i := 0; i+1 < len(c.lines); i += 2 {
		current += c.lines[i]
		if current > offset {
			return c.lines[i+1]
		}
	}
	return 0
}

// PrintLine extracts the single line of source text at the given 1-based
// line number, for diagnostic output.
func (c *Chunk) PrintLine(line int) string {
	rest := c.Source
	for i := 1; i < line; i++ {
		idx := strings.IndexByte(rest, '\n')
		if idx < 0 {
			return ""
		}
		rest = rest[idx+1:]
	}
	if idx := strings.IndexByte(rest, '\n'); idx >= 0 {
		return rest[:idx]
	}
	return rest
}
