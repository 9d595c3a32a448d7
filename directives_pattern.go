package main

import (
	"strconv"
	"strings"
)

// HandlePatternDirective applies one record whose f0 names one of the
// pattern-file directives of spec §4.7. LoadPatternFile calls it once
// per directive record, in file order, after all pattern files are
// read; the instruction pattern loop skips directive records and does
// not apply them again per source line.
func HandlePatternDirective(asm *Assembler, rec PatternRecord, line string) {
	tok := firstToken(rec.F[0])
	switch tok {
	case ".setsym":
		handleSetsym(asm, rec, line)
	case ".clearsym":
		name := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(rec.F[0]), ".clearsym"))
		HandleClearsym(asm, name)
	case ".bits":
		handleBits(asm, rec, line)
	case ".padding":
		handlePadding(asm, rec, line)
	case ".symbolc":
		handleSymbolc(asm, rec)
	case ".vliw":
		handleVliwDirective(asm, rec, line)
	case "epic":
		handleEpic(asm, rec, line)
	case ".include":
		// Resolved at pattern-file load time (patternfile.go); a
		// surviving record here is a no-op.
	}
}

// HandleClearsym implements `.clearsym [name]`: with a name, delete
// that one symbol; with none, restore the post-load snapshot. Also
// used by the driver's automatic no-arg call at the start of every
// source line (spec §4.8 step 5).
func HandleClearsym(asm *Assembler, name string) {
	if name == "" {
		asm.Symbols.ClearAll()
		return
	}
	asm.Symbols.ClearOne(name)
}

func handleSetsym(asm *Assembler, rec PatternRecord, line string) {
	name := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(rec.F[0]), ".setsym"))
	if name == "" || !rec.HasF[2] {
		asm.reportError(line, "malformed .setsym directive")
		return
	}
	v, _, err := EvalExpression(rec.F[2], asm, PatternMode, line)
	if err != nil {
		asm.reportError(line, "%s", err)
		return
	}
	if asm.Labels.Has(strings.ToUpper(name)) {
		asm.reportError(line, "pattern symbol %q collides with a label", name)
		return
	}
	asm.Symbols.Set(name, v)
}

func handleBits(asm *Assembler, rec PatternRecord, line string) {
	endianness := strings.Trim(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(rec.F[0]), ".bits")), `"`)
	asm.BigEndian = strings.EqualFold(endianness, "big")
	if rec.HasF[2] {
		v, _, err := EvalExpression(rec.F[2], asm, PatternMode, line)
		if err != nil {
			asm.reportError(line, "%s", err)
			return
		}
		asm.WordBits = int(v.Int64())
	} else {
		asm.WordBits = 8
	}
}

func handlePadding(asm *Assembler, rec PatternRecord, line string) {
	if !rec.HasF[2] {
		return
	}
	v, _, err := EvalExpression(rec.F[2], asm, PatternMode, line)
	if err != nil {
		asm.reportError(line, "%s", err)
		return
	}
	asm.Padding = byte(v.Low64())
}

func handleSymbolc(asm *Assembler, rec PatternRecord) {
	if !rec.HasF[2] {
		return
	}
	asm.Chars.AddSymbolChars(unquoteIfNeeded(rec.F[2]))
}

func unquoteIfNeeded(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

func handleVliwDirective(asm *Assembler, rec PatternRecord, line string) {
	if !rec.HasF[1] || !rec.HasF[2] || !rec.HasF[3] {
		asm.reportError(line, "malformed .vliw directive")
		return
	}
	vbits, _, err := EvalExpression(rec.F[1], asm, PatternMode, line)
	if err != nil {
		asm.reportError(line, "%s", err)
		return
	}
	ibits, _, err := EvalExpression(rec.F[2], asm, PatternMode, line)
	if err != nil {
		asm.reportError(line, "%s", err)
		return
	}
	tbits, _, err := EvalExpression(rec.F[3], asm, PatternMode, line)
	if err != nil {
		asm.reportError(line, "%s", err)
		return
	}
	asm.VliwEnabled = true
	asm.VliwBits = int(vbits.Int64())
	asm.InstBits = int(ibits.Int64())
	asm.TemplateBits = int(tbits.Int64())

	ibyte := (asm.InstBits + 7) / 8
	if rec.HasF[4] {
		nopv, _, err := EvalExpression(rec.F[4], asm, PatternMode, line)
		if err != nil {
			asm.reportError(line, "%s", err)
			return
		}
		asm.VliwNop = WordToBytes(nopv, ibyte, false)
	} else {
		asm.VliwNop = make([]byte, ibyte)
	}
}

func handleEpic(asm *Assembler, rec PatternRecord, line string) {
	if !rec.HasF[1] || !rec.HasF[2] {
		asm.reportError(line, "malformed EPIC directive")
		return
	}
	var indices []int
	for _, part := range splitTopLevelCommas(rec.F[1]) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if n, err := strconv.Atoi(part); err == nil {
			indices = append(indices, n)
			continue
		}
		v, _, err := EvalExpression(part, asm, PatternMode, line)
		if err != nil {
			asm.reportError(line, "%s", err)
			return
		}
		indices = append(indices, int(v.Int64()))
	}
	asm.VliwSets = append(asm.VliwSets, VliwSlotSet{Indices: indices, Template: rec.F[2]})
}
