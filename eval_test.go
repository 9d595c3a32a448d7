package main

import "testing"

func evalOK(t *testing.T, asm *Assembler, expr string, mode EvalMode) Int256 {
	t.Helper()
	v, _, err := EvalExpression(expr, asm, mode, expr)
	if err != nil {
		t.Fatalf("EvalExpression(%q) error: %v", expr, err)
	}
	return v
}

func TestEvalArithmeticPrecedence(t *testing.T) {
	asm := NewAssembler()
	v := evalOK(t, asm, "2+3*4", AssemblyMode)
	if v.Int64() != 14 {
		t.Errorf("2+3*4 = %d, want 14", v.Int64())
	}
	v = evalOK(t, asm, "2**3**2", AssemblyMode)
	if v.Int64() != 512 {
		t.Errorf("2**3**2 = %d, want 512 (right-associative)", v.Int64())
	}
}

func TestEvalFloorDivAndMod(t *testing.T) {
	asm := NewAssembler()
	v := evalOK(t, asm, "-7//2", AssemblyMode)
	if v.Int64() != -4 {
		t.Errorf("-7//2 = %d, want -4", v.Int64())
	}
	v = evalOK(t, asm, "-7%2", AssemblyMode)
	if v.Int64() != 1 {
		t.Errorf("-7%%2 = %d, want 1", v.Int64())
	}
}

func TestEvalTernary(t *testing.T) {
	asm := NewAssembler()
	if v := evalOK(t, asm, "1?2:3", AssemblyMode); v.Int64() != 2 {
		t.Errorf("1?2:3 = %d, want 2", v.Int64())
	}
	if v := evalOK(t, asm, "0?2:3", AssemblyMode); v.Int64() != 3 {
		t.Errorf("0?2:3 = %d, want 3", v.Int64())
	}
}

func TestEvalSignExtend(t *testing.T) {
	asm := NewAssembler()
	v := evalOK(t, asm, "0x7F'7", AssemblyMode)
	if v.Int64() != -1 {
		t.Errorf("0x7F'7 = %d, want -1", v.Int64())
	}
}

func TestEvalShiftAndBitwise(t *testing.T) {
	asm := NewAssembler()
	if v := evalOK(t, asm, "1<<4", AssemblyMode); v.Int64() != 16 {
		t.Errorf("1<<4 = %d, want 16", v.Int64())
	}
	if v := evalOK(t, asm, "6&3", AssemblyMode); v.Int64() != 2 {
		t.Errorf("6&3 = %d, want 2", v.Int64())
	}
	if v := evalOK(t, asm, "6|1", AssemblyMode); v.Int64() != 7 {
		t.Errorf("6|1 = %d, want 7", v.Int64())
	}
	if v := evalOK(t, asm, "5^1", AssemblyMode); v.Int64() != 4 {
		t.Errorf("5^1 = %d, want 4", v.Int64())
	}
}

func TestEvalLogicalAndComparison(t *testing.T) {
	asm := NewAssembler()
	if v := evalOK(t, asm, "1&&0", AssemblyMode); !v.isZero() {
		t.Errorf("1&&0 should be false")
	}
	if v := evalOK(t, asm, "1||0", AssemblyMode); v.isZero() {
		t.Errorf("1||0 should be true")
	}
	if v := evalOK(t, asm, "3<=3", AssemblyMode); v.isZero() {
		t.Errorf("3<=3 should be true")
	}
	if v := evalOK(t, asm, "not(0)", AssemblyMode); v.isZero() {
		t.Errorf("not(0) should be true")
	}
}

func TestEvalPatternModeVariableAssignAndRead(t *testing.T) {
	asm := NewAssembler()
	evalOK(t, asm, "a:=7", PatternMode)
	if asm.Vars[0].Int64() != 7 {
		t.Fatalf("a:=7 should set Vars[0] to 7, got %d", asm.Vars[0].Int64())
	}
	if v := evalOK(t, asm, "a+1", PatternMode); v.Int64() != 8 {
		t.Errorf("a+1 = %d, want 8", v.Int64())
	}
}

func TestVcntCountsSubInstructionsOneIndexed(t *testing.T) {
	asm := NewAssembler()
	asm.Patterns.Add(ParsePatternRecord("NUM !!A :: a"))
	AssembleSourceLine(asm, "NUM 1", func(string) error { return nil })
	if asm.Vcnt != 1 {
		t.Errorf("Vcnt for a line with no !! separator = %d, want 1", asm.Vcnt)
	}
	AssembleSourceLine(asm, "NUM 1 !! NUM 2", func(string) error { return nil })
	if asm.Vcnt != 2 {
		t.Errorf("Vcnt for a line with one !! separator = %d, want 2", asm.Vcnt)
	}
	AssembleSourceLine(asm, "NUM 1 !! NUM 2 !! NUM 3", func(string) error { return nil })
	if asm.Vcnt != 3 {
		t.Errorf("Vcnt for a line with two !! separators = %d, want 3", asm.Vcnt)
	}
}

func TestEvalPatternModeBangCounters(t *testing.T) {
	asm := NewAssembler()
	asm.Vcnt = 2
	asm.VliwStop = 1
	if v := evalOK(t, asm, "!!!", PatternMode); v.Int64() != 2 {
		t.Errorf("!!! = %d, want Vcnt=2", v.Int64())
	}
	if v := evalOK(t, asm, "!!!!", PatternMode); v.Int64() != 1 {
		t.Errorf("!!!! = %d, want VliwStop=1", v.Int64())
	}
}

func TestEvalLabelWordReferenceAndUndef(t *testing.T) {
	asm := NewAssembler()
	asm.Labels.Define("foo", FromInt64(42), ".text", 1)
	if v := evalOK(t, asm, "foo", AssemblyMode); v.Int64() != 42 {
		t.Errorf("foo = %d, want 42", v.Int64())
	}
	asm.UndefLabelSeen = false
	evalOK(t, asm, "bar", AssemblyMode)
	if !asm.UndefLabelSeen {
		t.Errorf("referencing an undefined label should set UndefLabelSeen")
	}
}

func TestEvalCurrentPCToken(t *testing.T) {
	asm := NewAssembler()
	asm.PC = FromInt64(100)
	if v := evalOK(t, asm, "$$", AssemblyMode); v.Int64() != 100 {
		t.Errorf("$$ = %d, want 100", v.Int64())
	}
}

func TestApplyEscapeStopcharRespectsDepth(t *testing.T) {
	got := applyEscapeStopchar("f(1,2),3", ',')
	if got != "f(1,2)" {
		t.Errorf("applyEscapeStopchar = %q, want \"f(1,2)\"", got)
	}
}
