package main

import "testing"

func TestMatchLiteralAndUppercase(t *testing.T) {
	asm := NewAssembler()
	res := Match(asm, "MOV", "MOV")
	if !res.ok {
		t.Fatalf("expected literal match to succeed")
	}
	res = Match(asm, "mov", "MOV")
	if !res.ok {
		t.Fatalf("uppercase pattern letters should match case-insensitively")
	}
	res = Match(asm, "mvn", "MOV")
	if res.ok {
		t.Fatalf("mismatched literal should not match")
	}
}

func TestMatchSymbolLookup(t *testing.T) {
	asm := NewAssembler()
	asm.Symbols.Set("r0", FromInt64(5))
	res := Match(asm, "r0", "r")
	if !res.ok {
		t.Fatalf("lowercase pattern letter should read and look up a symbol word")
	}
	res = Match(asm, "zz", "r")
	if res.ok {
		t.Fatalf("undefined symbol word should fail the match")
	}
}

func TestMatchBangFactorCapture(t *testing.T) {
	asm := NewAssembler()
	res := Match(asm, "5", "!!A")
	if !res.ok {
		t.Fatalf("expected !!A factor capture to succeed")
	}
	if asm.Vars['A'-'A'].Int64() != 5 {
		t.Errorf("Vars[A] = %d, want 5", asm.Vars['A'-'A'].Int64())
	}
}

func TestMatchBangExpressionWithDelimiter(t *testing.T) {
	asm := NewAssembler()
	res := Match(asm, "1+2,", `!A\,`)
	if !res.ok {
		t.Fatalf("expected !A\\, expression capture to succeed")
	}
	if asm.Vars['A'-'A'].Int64() != 3 {
		t.Errorf("Vars[A] = %d, want 3", asm.Vars['A'-'A'].Int64())
	}
}

func TestMatchWithBracketsOptionalGroupPresent(t *testing.T) {
	asm := NewAssembler()
	res := MatchWithBrackets(asm, "ADD.W", `ADD[[.W]]`)
	if !res.ok {
		t.Fatalf("expected optional-group-present match to succeed")
	}
}

func TestMatchWithBracketsOptionalGroupAbsent(t *testing.T) {
	asm := NewAssembler()
	res := MatchWithBrackets(asm, "ADD", `ADD[[.W]]`)
	if !res.ok {
		t.Fatalf("expected optional group to be droppable when absent from source")
	}
}

func TestMatchWithBracketsNestedPairs(t *testing.T) {
	asm := NewAssembler()
	// Both groups present.
	if res := MatchWithBrackets(asm, "ADD.W.L", `ADD[[.W[[.L]]]]`); !res.ok {
		t.Fatalf("expected fully-present nested groups to match")
	}
	// Outer present, inner absent.
	if res := MatchWithBrackets(asm, "ADD.W", `ADD[[.W[[.L]]]]`); !res.ok {
		t.Fatalf("expected outer-only nested group to match")
	}
	// Neither present.
	if res := MatchWithBrackets(asm, "ADD", `ADD[[.W[[.L]]]]`); !res.ok {
		t.Fatalf("expected neither-present nested group to match")
	}
}

func TestMatchWithBracketsLiteralSingleBrackets(t *testing.T) {
	asm := NewAssembler()
	res := MatchWithBrackets(asm, "[5]", `[!!A]`)
	if !res.ok {
		t.Fatalf("expected literal single-bracket match to succeed")
	}
	if asm.Vars['A'-'A'].Int64() != 5 {
		t.Errorf("Vars[A] = %d, want 5", asm.Vars['A'-'A'].Int64())
	}
}
