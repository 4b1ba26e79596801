package chunk

import "fmt"

// Disassemble writes a human-readable dump of every instruction in c to
// stdout, used by the CLI's -disassemble flag (through DisassembleAll).
func (c *Chunk) Disassemble(name string) {
	fmt.Printf("== %s ==\n", name)
	for offset := 0; offset < len(c.Code); {
		offset = c.disassembleInstruction(offset)
	}
}

// DisassembleAll disassembles c and then every nested function chunk found
// in its constant pool.
func (c *Chunk) DisassembleAll(name string) {
	c.Disassemble(name)

	for _, constant := range c.Constants {
		fn, ok := constant.AsFunction()
		if !ok {
			continue
		}
		fnChunk, ok := fn.Chunk.(*Chunk)
		if !ok {
			continue
		}
		fmt.Println()
		fnName := "__main__"
		if fn.Name != nil {
			fnName = fn.Name.Chars
		}
		fnChunk.DisassembleAll(fnName)
	}
}

func (c *Chunk) disassembleInstruction(offset int) int {
	fmt.Printf("%04d ", offset)
	if offset > 0 && c.GetLine(offset) == c.GetLine(offset-1) {
		fmt.Printf("   | ")
	} else {
		fmt.Printf("%4d ", c.GetLine(offset))
	}

	op := OpCode(c.Code[offset])
	switch op {
	case OpConstant:
		return c.constantInstruction(op, offset)
	case OpConstant16:
		return c.constant16Instruction(op, offset)
	case OpDeclGlobal, OpDeclGlobalConst, OpGetGlobal, OpSetGlobal:
		return c.constantInstruction(op, offset)
	case OpDeclGlobal16, OpDeclGlobalConst16, OpGetGlobal16, OpSetGlobal16:
		return c.constant16Instruction(op, offset)
	case OpGetLocal, OpSetLocal, OpCall, OpArray:
		return c.byteInstruction(op, offset)
	case OpJump, OpJumpIfTrue, OpJumpIfFalse, OpJumpBack:
		return c.shortInstruction(op, offset)
	default:
		return c.simpleInstruction(op, offset)
	}
}

func (c *Chunk) simpleInstruction(op OpCode, offset int) int {
	fmt.Println(op)
	return offset + 1
}

func (c *Chunk) byteInstruction(op OpCode, offset int) int {
	operand := c.Code[offset+1]
	fmt.Printf("%-18s %4d\n", op, operand)
	return offset + 2
}

func (c *Chunk) shortInstruction(op OpCode, offset int) int {
	operand := int(c.Code[offset+1])<<8 | int(c.Code[offset+2])
	fmt.Printf("%-18s %4d\n", op, operand)
	return offset + 3
}

func (c *Chunk) constantInstruction(op OpCode, offset int) int {
	index := c.Code[offset+1]
	fmt.Printf("%-18s %4d '%s'\n", op, index, c.Constants[index].Repr())
	return offset + 2
}

func (c *Chunk) constant16Instruction(op OpCode, offset int) int {
	index := int(c.Code[offset+1])<<8 | int(c.Code[offset+2])
	fmt.Printf("%-18s %4d '%s'\n", op, index, c.Constants[index].Repr())
	return offset + 3
}
