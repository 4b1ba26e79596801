package compiler

import (
	"testing"

	"aspic/internal/chunk"
	"aspic/internal/intern"
)

func compileOK(t *testing.T, source string) *chunk.Chunk {
	t.Helper()
	fn, ok := Compile(source, &intern.Set{})
	if !ok {
		t.Fatalf("compile failed for %q", source)
	}
	c, ok := fn.Chunk.(*chunk.Chunk)
	if !ok {
		t.Fatalf("function chunk has unexpected type %T", fn.Chunk)
	}
	return c
}

func opcodesOf(c *chunk.Chunk) []chunk.OpCode {
	var ops []chunk.OpCode
	for i := 0; i < len(c.Code); {
		op := chunk.OpCode(c.Code[i])
		ops = append(ops, op)
		switch op {
		case chunk.OpConstant, chunk.OpGetLocal, chunk.OpSetLocal,
			chunk.OpDeclGlobal, chunk.OpDeclGlobalConst, chunk.OpGetGlobal, chunk.OpSetGlobal,
			chunk.OpCall, chunk.OpArray:
			i += 2
		case chunk.OpConstant16, chunk.OpDeclGlobal16, chunk.OpDeclGlobalConst16,
			chunk.OpGetGlobal16, chunk.OpSetGlobal16,
			chunk.OpJump, chunk.OpJumpIfTrue, chunk.OpJumpIfFalse, chunk.OpJumpBack:
			i += 3
		default:
			i++
		}
	}
	return ops
}

func containsOp(ops []chunk.OpCode, want chunk.OpCode) bool {
	for _, op := range ops {
		if op == want {
			return true
		}
	}
	return false
}

func TestCompileArithmeticPrecedence(t *testing.T) {
	c := compileOK(t, "print(1 + 2 * 3);")
	ops := opcodesOf(c)
	if !containsOp(ops, chunk.OpAdd) || !containsOp(ops, chunk.OpMultiply) {
		t.Fatalf("expected ADD and MULTIPLY in %v", ops)
	}
	// Multiply must appear before add (it binds tighter and is emitted
	// first on the way back up the Pratt recursion).
	var addIdx, mulIdx int = -1, -1
	for i, op := range ops {
		if op == chunk.OpMultiply {
			mulIdx = i
		}
		if op == chunk.OpAdd {
			addIdx = i
		}
	}
	if !(mulIdx < addIdx) {
		t.Errorf("expected MULTIPLY before ADD, got ops %v", ops)
	}
}

func TestCompileGlobalDeclarationAndAssignment(t *testing.T) {
	c := compileOK(t, `let x = 1; x = 2;`)
	ops := opcodesOf(c)
	if !containsOp(ops, chunk.OpDeclGlobal) {
		t.Fatalf("expected DECL_GLOBAL, got %v", ops)
	}
	if !containsOp(ops, chunk.OpSetGlobal) {
		t.Fatalf("expected SET_GLOBAL, got %v", ops)
	}
}

func TestCompileConstDeclarationUsesConstOpcode(t *testing.T) {
	c := compileOK(t, `const pi = 3;`)
	ops := opcodesOf(c)
	if !containsOp(ops, chunk.OpDeclGlobalConst) {
		t.Fatalf("expected DECL_GLOBAL_CONST, got %v", ops)
	}
}

func TestCompileLocalsUseSlotOpcodes(t *testing.T) {
	c := compileOK(t, `{ let x = 1; x = 2; }`)
	ops := opcodesOf(c)
	if !containsOp(ops, chunk.OpGetLocal) && !containsOp(ops, chunk.OpSetLocal) {
		t.Fatalf("expected local slot opcodes, got %v", ops)
	}
	if containsOp(ops, chunk.OpDeclGlobal) {
		t.Errorf("block-scoped let must not become a global, got %v", ops)
	}
}

func TestCompileIfEmitsJumps(t *testing.T) {
	c := compileOK(t, `if (true) { print(1); } else { print(2); }`)
	ops := opcodesOf(c)
	if !containsOp(ops, chunk.OpJumpIfFalse) || !containsOp(ops, chunk.OpJump) {
		t.Fatalf("expected JUMP_IF_FALSE and JUMP, got %v", ops)
	}
}

func TestCompileWhileEmitsBackwardJump(t *testing.T) {
	c := compileOK(t, `let i = 0; while (i < 3) { i = i + 1; }`)
	ops := opcodesOf(c)
	if !containsOp(ops, chunk.OpJumpBack) {
		t.Fatalf("expected JUMP_BACK, got %v", ops)
	}
}

func TestCompileFunctionDeclarationEmitsNestedConstant(t *testing.T) {
	c := compileOK(t, `def add(a, b) { return a + b; } print(add(1, 2));`)
	found := false
	for _, v := range c.Constants {
		if fn, ok := v.AsFunction(); ok {
			found = true
			if fn.Arity != 2 {
				t.Errorf("expected arity 2, got %d", fn.Arity)
			}
		}
	}
	if !found {
		t.Fatalf("expected a function constant in %v", c.Constants)
	}
}

func TestCompileArrayLiteralAndSubscript(t *testing.T) {
	c := compileOK(t, `let a = [1, 2, 3]; a[0] = 9;`)
	ops := opcodesOf(c)
	if !containsOp(ops, chunk.OpArray) {
		t.Fatalf("expected ARRAY, got %v", ops)
	}
	if !containsOp(ops, chunk.OpSubscriptSet) {
		t.Fatalf("expected SUBSCRIPT_SET, got %v", ops)
	}
}

func TestCompileInvalidLeftHandSide(t *testing.T) {
	_, ok := Compile(`1 + 1 = 2;`, &intern.Set{})
	if ok {
		t.Fatalf("expected compile error for invalid assignment target")
	}
}

func TestCompileRedeclaredLocalInSameScopeErrors(t *testing.T) {
	_, ok := Compile(`{ let x = 1; let x = 2; }`, &intern.Set{})
	if ok {
		t.Fatalf("expected compile error for redeclared local in same scope")
	}
}

func TestCompileShadowingAcrossScopesIsAllowed(t *testing.T) {
	_, ok := Compile(`{ let x = 1; { let x = 2; } }`, &intern.Set{})
	if !ok {
		t.Fatalf("expected shadowing across nested scopes to compile")
	}
}

func TestCompileConstantPoolDeduplicates(t *testing.T) {
	c := compileOK(t, `print("same"); print("same");`)
	count := 0
	for _, v := range c.Constants {
		if s, ok := v.AsString(); ok && s.Chars() == "same" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected the literal \"same\" to be deduplicated, found %d entries", count)
	}
}
