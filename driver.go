package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// errorCodeTable holds the canonical messages looked up by a recipe's
// `.error` field (spec §4.10/§7): "table of 7 canonical strings".
var errorCodeTable = []string{
	"Value out of range.",
	"Register out of range.",
	"Invalid addressing mode.",
	"Immediate too large.",
	"Misaligned operand.",
	"Unsupported operand combination.",
	"Reserved encoding.",
}

// RunTwoPass implements spec §4.8's two-pass control: pass 1 resolves
// label addresses silently, pass 2 re-runs the same input and actually
// writes bytes.
func RunTwoPass(asm *Assembler, sourcePath string) error {
	asm.Pas = 1
	if err := AssembleFile(asm, sourcePath); err != nil {
		return err
	}
	asm.ResetForPass2()
	asm.Pas = 2
	return AssembleFile(asm, sourcePath)
}

// AssembleFile runs one pass over sourcePath, per the current asm.Pas.
func AssembleFile(asm *Assembler, path string) error {
	return assembleFileAt(asm, path, 0)
}

func assembleFileAt(asm *Assembler, path string, parentLine int) error {
	if err := asm.pushInclude(path, parentLine); err != nil {
		return err
	}
	defer asm.popInclude()

	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, " error - cannot open %q: %s\n", path, err)
		return nil
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1<<20)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		curLine := lineNo
		AssembleSourceLine(asm, scanner.Text(), func(incPath string) error {
			return assembleFileAt(asm, incPath, curLine)
		})
	}
	return scanner.Err()
}

// AssembleSourceLine runs spec §4.8's line pipeline and dispatches to
// either a directive handler or the instruction pattern loop.
func AssembleSourceLine(asm *Assembler, raw string, includeFn func(string) error) {
	line := preprocessLine(raw)
	if line == "" {
		return
	}

	rest := ProcessLabel(asm, line)
	HandleClearsym(asm, "")
	asm.Vcnt = countSubInstructions(rest)
	asm.VliwStop = 0

	rest = strings.TrimSpace(rest)
	if rest == "" {
		return
	}

	if IsAssemblyDirective(rest) {
		ProcessAssemblyDirective(asm, rest, includeFn)
		return
	}

	AssembleInstructionLine(asm, rest, line)
}

// preprocessLine implements line pipeline steps 1-3: tabs to spaces,
// strip trailing CR/LF, strip a `;` comment (respecting quoted
// strings), and collapse whitespace runs.
func preprocessLine(raw string) string {
	raw = strings.TrimRight(raw, "\r\n")
	raw = strings.ReplaceAll(raw, "\t", " ")
	raw = stripSemicolonComment(raw)
	return collapseSpaces(raw)
}

func stripSemicolonComment(s string) string {
	inQuote := false
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"':
			inQuote = !inQuote
		case ';':
			if !inQuote {
				return s[:i]
			}
		}
	}
	return s
}

func collapseSpaces(s string) string {
	var sb strings.Builder
	prevSpace := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == ' ' {
			if prevSpace {
				continue
			}
			prevSpace = true
		} else {
			prevSpace = false
		}
		sb.WriteByte(c)
	}
	return sb.String()
}

// countSubInstructions counts `!!`-separated sub-instructions into
// Vcnt, excluding the `!!!`/`!!!!` tokens (spec §4.8 step 6). A line
// with no `!!` separator is still one sub-instruction, so the count
// starts at 1.
func countSubInstructions(s string) int {
	cnt := 1
	i := 0
	for i < len(s) {
		switch {
		case strings.HasPrefix(s[i:], "!!!!"):
			i += 4
		case strings.HasPrefix(s[i:], "!!!"):
			i += 3
		case strings.HasPrefix(s[i:], "!!"):
			cnt++
			i += 2
		default:
			i++
		}
	}
	return cnt
}

// AssembleInstructionLine runs the pattern loop against rest (directive
// records are skipped — they were already applied once at pattern-file
// load time) and, on a match, builds and emits the recipe, entering the
// VLIW packager if a `!!` continuation follows and VLIW mode is on.
func AssembleInstructionLine(asm *Assembler, rest string, fullLine string) {
	for _, rec := range asm.Patterns.Records {
		if rec.IsPatternFileDirective() {
			continue
		}
		res := MatchWithBrackets(asm, rest, rec.F[0])
		if !res.ok {
			continue
		}
		emitMatchedInstruction(asm, rec, res, rest, fullLine)
		return
	}
	asm.reportError(fullLine, "Syntax error")
}

func emitMatchedInstruction(asm *Assembler, rec PatternRecord, res matchResult, rest string, fullLine string) {
	if rec.HasF[1] {
		runErrorField(asm, rec.F[1], fullLine)
	}

	words, err := BuildRecipe(asm, rec.F[2], fullLine)
	if err != nil {
		asm.reportError(fullLine, "%s", err)
		return
	}

	leftover := ""
	if res.srcRest < len(rest) {
		leftover = strings.TrimSpace(rest[res.srcRest:])
	}

	if asm.VliwEnabled && strings.HasPrefix(leftover, "!!") {
		emitVliwBundle(asm, rec, words, leftover, fullLine)
		return
	}

	var allBytes []byte
	for _, w := range words {
		allBytes = append(allBytes, WordToBytes(w, asm.bytesPerWord(), asm.BigEndian)...)
	}
	asm.writeBytesAtPC(allBytes)
}

func emitVliwBundle(asm *Assembler, rec PatternRecord, firstWords []Int256, leftover string, fullLine string) {
	slotIdx := 0
	if rec.HasF[3] {
		v, _, err := EvalExpression(rec.F[3], asm, PatternMode, fullLine)
		if err == nil {
			slotIdx = int(v.Int64())
		}
	}
	indices := []int{slotIdx}
	wordsPerSlot := [][]Int256{firstWords}

	pos := 0
	for {
		p := skipspc(leftover, pos)
		switch {
		case strings.HasPrefix(leftover[p:], "!!!!"):
			asm.VliwStop = 1
			pos = p + 4
			continue
		case strings.HasPrefix(leftover[p:], "!!"):
			start := p + 2
			next := findNextBang(leftover, start)
			subText := strings.TrimSpace(leftover[start:next])
			pos = next
			subWords, subIdx, err := assembleSubInstruction(asm, subText, fullLine)
			if err != nil {
				asm.reportError(fullLine, "%s", err)
			} else {
				indices = append(indices, subIdx)
				wordsPerSlot = append(wordsPerSlot, subWords)
			}
			continue
		default:
		}
		break
	}

	bundleBytes, _, err := PackVliw(asm, indices, wordsPerSlot, fullLine)
	if err != nil {
		asm.reportError(fullLine, "%s", err)
		return
	}
	asm.writeBytesAtPC(bundleBytes)
}

func findNextBang(s string, from int) int {
	idx := strings.Index(s[from:], "!!")
	if idx < 0 {
		return len(s)
	}
	return from + idx
}

// assembleSubInstruction runs the same pattern-loop path as the primary
// instruction, for one `!!`-introduced VLIW slot.
func assembleSubInstruction(asm *Assembler, text string, fullLine string) ([]Int256, int, error) {
	for _, rec := range asm.Patterns.Records {
		if rec.IsPatternFileDirective() {
			continue
		}
		res := MatchWithBrackets(asm, text, rec.F[0])
		if !res.ok {
			continue
		}
		if rec.HasF[1] {
			runErrorField(asm, rec.F[1], fullLine)
		}
		words, err := BuildRecipe(asm, rec.F[2], fullLine)
		if err != nil {
			return nil, 0, err
		}
		slotIdx := 0
		if rec.HasF[3] {
			v, _, e2 := EvalExpression(rec.F[3], asm, PatternMode, fullLine)
			if e2 == nil {
				slotIdx = int(v.Int64())
			}
		}
		return words, slotIdx, nil
	}
	return nil, 0, fmt.Errorf("Syntax error")
}

// runErrorField implements the `.error` recipe field f1: comma-separated
// `u;t` pairs, printing the canonical message for code t when u != 0.
func runErrorField(asm *Assembler, f1 string, fullLine string) {
	for _, pair := range splitTopLevelCommas(f1) {
		sep := strings.IndexByte(pair, ';')
		if sep < 0 {
			continue
		}
		uExpr := strings.TrimSpace(pair[:sep])
		tExpr := strings.TrimSpace(pair[sep+1:])
		uv, _, err := EvalExpression(uExpr, asm, PatternMode, fullLine)
		if err != nil || uv.isZero() {
			continue
		}
		tv, _, err := EvalExpression(tExpr, asm, PatternMode, fullLine)
		if err != nil {
			continue
		}
		code := int(tv.Int64())
		msg := "Error."
		if code >= 1 && code <= len(errorCodeTable) {
			msg = errorCodeTable[code-1]
		}
		asm.reportError(fullLine, "%s", msg)
	}
}
