package main

import (
	"fmt"
	"strings"
)

// BuildRecipe implements spec §4.5's object builder: expand `@@[n,body]`
// and `rep[n,body]` repetition macros, substitute `%%`/`%0` counters,
// then evaluate the comma-separated sub-expressions (pattern mode) into
// an ordered word list, honoring `;`-prefixed conditional emission and
// alignment padding after each item (the last one included).
func BuildRecipe(asm *Assembler, recipe string, line string) ([]Int256, error) {
	expanded, err := expandRepeats(asm, recipe, line, "@@[")
	if err != nil {
		return nil, err
	}
	expanded, err = expandRepeats(asm, expanded, line, "rep[")
	if err != nil {
		return nil, err
	}
	expanded = substituteCounters(expanded)

	if strings.TrimSpace(expanded) == "" {
		return nil, nil
	}

	parts := splitTopLevelCommas(expanded)
	var words []Int256
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		conditional := false
		if part[0] == ';' {
			conditional = true
			part = strings.TrimSpace(part[1:])
		}
		v, consumed, err := EvalExpression(part, asm, PatternMode, line)
		if err != nil {
			return nil, err
		}
		if consumed < len(strings.TrimRight(part, " ")) {
			return nil, fmt.Errorf("trailing characters in recipe sub-expression %q", part)
		}
		if !conditional || !v.isZero() {
			words = append(words, v)
		}
		words = padToAlignment(asm, words)
	}
	return words, nil
}

// padToAlignment pads words (with the assembler's current padding byte,
// zero-extended to a word) until PC+len(words) is a multiple of the
// current alignment.
func padToAlignment(asm *Assembler, words []Int256) []Int256 {
	align := asm.Alignment
	if align <= 1 {
		return words
	}
	cur := asm.PC.Int64() + int64(len(words))
	rem := cur % int64(align)
	if rem == 0 {
		return words
	}
	pad := FromInt64(int64(asm.Padding))
	for i := int64(0); i < int64(align)-rem; i++ {
		words = append(words, pad)
	}
	return words
}

// expandRepeats repeatedly finds and expands the leftmost occurrence of
// the given macro opener ("@@[" or "rep[") until none remain, since
// expanding an outer occurrence can reveal further nested ones.
func expandRepeats(asm *Assembler, recipe string, line string, opener string) (string, error) {
	for {
		idx := strings.Index(recipe, opener)
		if idx < 0 {
			return recipe, nil
		}
		bodyStart := idx + len(opener)
		end, err := matchingBracket(recipe, bodyStart-1)
		if err != nil {
			return "", err
		}
		inner := recipe[bodyStart:end]
		commaPos := topLevelCommaIndex(inner)
		if commaPos < 0 {
			return "", fmt.Errorf("malformed %s...] macro: missing ','", opener)
		}
		nExpr := inner[:commaPos]
		body := inner[commaPos+1:]

		nv, consumed, err := EvalExpression(nExpr, asm, PatternMode, line)
		if err != nil {
			return "", err
		}
		_ = consumed
		n := nv.Int64()

		var replacement string
		if n > 0 {
			items := make([]string, n)
			for i := range items {
				items[i] = body
			}
			replacement = strings.Join(items, ",")
		}

		recipe = recipe[:idx] + replacement + recipe[end+1:]
	}
}

// matchingBracket returns the index of the `]` matching the `[` at
// openIdx, honoring nested `[`/`]` pairs.
func matchingBracket(s string, openIdx int) (int, error) {
	depth := 0
	for i := openIdx; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return 0, fmt.Errorf("unbalanced brackets in recipe %q", s)
}

// topLevelCommaIndex finds the first ',' at bracket/paren/brace depth
// zero within s.
func topLevelCommaIndex(s string) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// splitTopLevelCommas splits s on ',' at depth zero, keeping every
// segment (including empty ones between consecutive commas).
func splitTopLevelCommas(s string) []string {
	var out []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, s[start:i])
				start = i + 1
			}
		}
	}
	out = append(out, s[start:])
	return out
}

// substituteCounters replaces `%%` with a counter starting at 0 (one
// per occurrence, left to right) and consumes `%0` as a pure
// counter-reset token that emits nothing.
func substituteCounters(recipe string) string {
	var sb strings.Builder
	counter := 0
	i := 0
	for i < len(recipe) {
		if i+1 < len(recipe) && recipe[i] == '%' && recipe[i+1] == '%' {
			fmt.Fprintf(&sb, "%d", counter)
			counter++
			i += 2
			continue
		}
		if i+1 < len(recipe) && recipe[i] == '%' && recipe[i+1] == '0' {
			counter = 0
			i += 2
			continue
		}
		sb.WriteByte(recipe[i])
		i++
	}
	return sb.String()
}
