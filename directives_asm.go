package main

import (
	"fmt"
	"os"
	"strings"
)

// ProcessLabel implements the label-processing half of spec §4.8 step 4:
// if the line begins `name:`, bind the label — to `.equ expr`'s value if
// that follows, otherwise to the current PC — and return the remainder
// of the line for further directive/pattern processing.
func ProcessLabel(asm *Assembler, line string) string {
	i := skipspc(line, 0)
	word, next, ok := asm.Chars.readLabelWord(line, i)
	if !ok || next <= i+len(word) || line[next-1] != ':' {
		return line
	}
	rest := line[next:]

	if _, exists := asm.Symbols.Lookup(word); exists {
		asm.reportError(line, "pattern symbol %q collides with label name", word)
		return rest
	}

	trimmedRest := strings.TrimSpace(rest)
	if hasPrefixCI(trimmedRest, 0, ".equ") {
		exprStart := skipspc(trimmedRest, 4)
		v, _, err := EvalExpression(trimmedRest[exprStart:], asm, AssemblyMode, line)
		if err != nil {
			asm.reportError(line, "%s", err)
			return ""
		}
		if err := asm.Labels.Define(word, v, asm.Sects.Current, asm.Pas); err != nil {
			asm.reportError(line, "%s", err)
		}
		return ""
	}

	if err := asm.Labels.Define(word, asm.PC, asm.Sects.Current, asm.Pas); err != nil {
		asm.reportError(line, "%s", err)
	}
	return rest
}

// directiveNames lists tokens ProcessAssemblyDirective claims, used by
// the driver to decide whether a line is a directive rather than an
// instruction to run through the pattern loop.
var directiveNames = map[string]bool{
	"section": true, "segment": true,
	"endsection": true, "endsegment": true,
	".zero": true, ".ascii": true, ".asciiz": true,
	".align": true, ".org": true, ".include": true,
	".labelc": true, ".symbolc": true, ".export": true,
	".echo": true, ".print": true,
}

// IsAssemblyDirective reports whether the first token of line names one
// of spec §4.6's directives (so the driver skips the pattern loop).
func IsAssemblyDirective(line string) bool {
	return directiveNames[strings.ToLower(firstWhitespaceToken(line))]
}

// ProcessAssemblyDirective implements spec §4.6's directive table
// (everything but label binding, handled separately by ProcessLabel).
// includeFn assembles a nested file for `.include` (spec §5's
// file-include stack).
func ProcessAssemblyDirective(asm *Assembler, line string, includeFn func(path string) error) {
	tok := strings.ToLower(firstWhitespaceToken(line))
	rest := strings.TrimSpace(line[len(firstWhitespaceToken(line)):])

	switch tok {
	case "section", "segment":
		asm.Sects.Switch(rest, asm.PC)

	case "endsection", "endsegment":
		asm.Sects.EndCurrent(asm.PC)

	case ".zero":
		v, _, err := EvalExpression(rest, asm, AssemblyMode, line)
		if err != nil {
			asm.reportError(line, "%s", err)
			return
		}
		n := int(v.Int64()) + 1
		if n < 0 {
			n = 0
		}
		asm.writeBytesAtPC(make([]byte, n))

	case ".ascii", ".asciiz":
		content, _, ok := readQuotedString(rest, 0)
		if !ok {
			asm.reportError(line, "malformed %s directive", tok)
			return
		}
		bs := unescapeAsciiDirective(content)
		if tok == ".asciiz" {
			bs = append(bs, 0)
		}
		asm.writeBytesAtPC(bs)

	case ".align":
		v, _, err := EvalExpression(rest, asm, AssemblyMode, line)
		if err != nil {
			asm.reportError(line, "%s", err)
			return
		}
		n := int(v.Int64())
		if n <= 0 {
			return
		}
		asm.Alignment = n
		cur := asm.PC.Int64()
		rem := cur % int64(n)
		if rem != 0 {
			pad := int64(n) - rem
			bpw := asm.bytesPerWord()
			fill := make([]byte, pad*int64(bpw))
			for i := range fill {
				fill[i] = asm.Padding
			}
			asm.writeBytesAtPC(fill)
		}

	case ".org":
		parts := splitTopLevelCommas(rest)
		nv, _, err := EvalExpression(strings.TrimSpace(parts[0]), asm, AssemblyMode, line)
		if err != nil {
			asm.reportError(line, "%s", err)
			return
		}
		target := nv.Int64()
		oldPC := asm.PC.Int64()
		if len(parts) > 1 {
			if target > oldPC {
				bpw := asm.bytesPerWord()
				fill := make([]byte, (target-oldPC)*int64(bpw))
				for i := range fill {
					fill[i] = asm.Padding
				}
				asm.writeBytesAtPC(fill)
			}
		}
		asm.PC = FromInt64(target)

	case ".include":
		path, _, ok := readQuotedString(rest, 0)
		if !ok {
			asm.reportError(line, "malformed .include directive")
			return
		}
		if err := includeFn(path); err != nil {
			asm.reportError(line, "%s", err)
		}

	case ".labelc":
		asm.Chars.AddLabelChars(unquoteIfNeeded(rest))

	case ".symbolc":
		asm.Chars.AddSymbolChars(unquoteIfNeeded(rest))

	case ".export":
		if asm.Pas == 1 {
			return
		}
		for _, part := range splitTopLevelCommas(rest) {
			name := strings.TrimSpace(part)
			if name != "" {
				asm.Exports = append(asm.Exports, name)
			}
		}

	case ".echo":
		if asm.Pas == 1 {
			return
		}
		fmt.Fprintln(os.Stdout, rest)

	case ".print":
		if asm.Pas == 1 {
			return
		}
		v, _, err := EvalExpression(rest, asm, AssemblyMode, line)
		if err != nil {
			asm.reportError(line, "%s", err)
			return
		}
		fmt.Fprintln(os.Stdout, v.String())
	}
}

// unescapeAsciiDirective processes `\0 \t \n` escapes inside a `.ascii`
// string literal (spec §4.6).
func unescapeAsciiDirective(s string) []byte {
	var out []byte
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			switch s[i+1] {
			case '0':
				out = append(out, 0)
				i++
				continue
			case 't':
				out = append(out, '\t')
				i++
				continue
			case 'n':
				out = append(out, '\n')
				i++
				continue
			}
		}
		out = append(out, s[i])
	}
	return out
}
