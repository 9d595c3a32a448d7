package main

import "strings"

// matchResult carries the extent of source consumed by a successful
// match, so VLIW continuation (`!!`) and other trailing content can
// be recovered by the caller.
type matchResult struct {
	ok        bool
	srcRest   int // index into source where the match stopped
	err       error
}

// matchInner implements spec §4.4's inner `match(source, pattern)`:
// consumes both strings left-to-right, skipping spaces on both sides
// before each comparison. Pattern exhaustion is success; any leftover
// source is returned to the caller (used by the VLIW `!!` continuation).
func matchInner(asm *Assembler, source string, pattern string) matchResult {
	si, pi := 0, 0
	for {
		si = skipspc(source, si)
		pi = skipspc(pattern, pi)

		if pi >= len(pattern) {
			return matchResult{ok: true, srcRest: si}
		}

		c := pattern[pi]
		switch {
		case c == '\\':
			if pi+1 >= len(pattern) {
				return matchResult{ok: false}
			}
			lit := pattern[pi+1]
			pi += 2
			if si >= len(source) || source[si] != lit {
				return matchResult{ok: false}
			}
			si++

		case c >= 'A' && c <= 'Z':
			if si >= len(source) {
				return matchResult{ok: false}
			}
			if toUpperByte(source[si]) != c {
				return matchResult{ok: false}
			}
			si++
			pi++

		case c == '[' || c == ']':
			if si >= len(source) || source[si] != c {
				return matchResult{ok: false}
			}
			si++
			pi++

		case c == '!':
			newSi, newPi, ok, err := matchBang(asm, source, si, pattern, pi)
			if err != nil {
				return matchResult{ok: false, err: err}
			}
			if !ok {
				return matchResult{ok: false}
			}
			si, pi = newSi, newPi

		case c >= 'a' && c <= 'z':
			word, next, ok := asm.Chars.readSymbolWord(source, si)
			if !ok {
				return matchResult{ok: false}
			}
			val, found := asm.Symbols.Lookup(word)
			if !found {
				return matchResult{ok: false}
			}
			asm.Vars[c-'a'] = val
			si = next
			pi++

		default:
			if si >= len(source) || source[si] != c {
				return matchResult{ok: false}
			}
			si++
			pi++
		}
	}
}

// matchBang handles the two `!` forms: `!!X` (factor capture) and
// `!X` with an optional `\d` delimiter (full-expression capture using
// the escape-stopchar variant).
func matchBang(asm *Assembler, source string, si int, pattern string, pi int) (newSi, newPi int, ok bool, err error) {
	pi++ // consume leading '!'
	if pi < len(pattern) && pattern[pi] == '!' {
		pi++ // consume second '!'
		if pi >= len(pattern) || !isPatternVarLetter(pattern[pi]) {
			return si, pi, false, nil
		}
		varLetter := pattern[pi]
		pi++
		si = skipspc(source, si)
		ev := NewEvaluator(source[si:], asm, PatternMode, source)
		v, ferr := ev.parseFactor()
		if ferr != nil {
			return si, pi, false, nil
		}
		asm.Vars[varLetter-'A'] = v
		si += ev.i
		return si, pi, true, nil
	}

	if pi >= len(pattern) || !isPatternVarLetter(pattern[pi]) {
		return si, pi, false, nil
	}
	varLetter := pattern[pi]
	pi++

	hasDelim := false
	var stop byte
	if pi < len(pattern) && pattern[pi] == '\\' && pi+1 < len(pattern) {
		hasDelim = true
		stop = pattern[pi+1]
		pi += 2
	}

	si = skipspc(source, si)
	sub := source[si:]
	if hasDelim {
		sub = applyEscapeStopchar(sub, stop)
	}
	v, consumed, ferr := EvalExpression(sub, asm, PatternMode, source)
	if ferr != nil {
		return si, pi, false, nil
	}
	asm.Vars[varLetter-'A'] = v
	si += consumed

	if hasDelim {
		si = skipspc(source, si)
		if si < len(source) && source[si] == stop {
			si++
		}
	}
	return si, pi, true, nil
}

func isPatternVarLetter(c byte) bool {
	return c >= 'A' && c <= 'Z'
}

func toUpperByte(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}

// Match is the entry point used by the driver: resets the pattern
// variables (spec §3: reset at the start of every match attempt) and
// runs matchInner.
func Match(asm *Assembler, source, pattern string) matchResult {
	asm.resetPatternVars()
	return matchInner(asm, source, pattern)
}

const (
	sentinelOB = '\x01'
	sentinelCB = '\x02'
)

// MatchWithBrackets implements spec §4.4's outer matcher: `[[`/`]]`
// optional groups are replaced by sentinel bytes, matched pairs are
// found via a stack (nesting gets distinct pair ids), and every subset
// of pairs is tried removed from the pattern until one matches.
func MatchWithBrackets(asm *Assembler, source, pattern string) matchResult {
	sentinelPattern := replaceDoubledBrackets(pattern)
	pairs := findBracketPairs(sentinelPattern)

	if len(pairs) == 0 {
		return Match(asm, source, stripSentinels(sentinelPattern, nil))
	}

	k := len(pairs)
	if k > 24 {
		k = 24 // practical cap; cnt<=64 per spec §9 design notes, but
		// real pattern files never carry this many optional groups.
	}
	for mask := 0; mask < (1 << uint(k)); mask++ {
		var removed []bracketPair
		for i := 0; i < k; i++ {
			if mask&(1<<uint(i)) != 0 {
				removed = append(removed, pairs[i])
			}
		}
		candidate := stripSentinels(sentinelPattern, removed)
		res := Match(asm, source, candidate)
		if res.ok {
			return res
		}
	}
	return matchResult{ok: false}
}

// replaceDoubledBrackets turns `[[` into sentinelOB and `]]` into
// sentinelCB, leaving lone `[`/`]` (the literal-match form) untouched.
func replaceDoubledBrackets(pattern string) string {
	var sb strings.Builder
	i := 0
	for i < len(pattern) {
		if i+1 < len(pattern) && pattern[i] == '[' && pattern[i+1] == '[' {
			sb.WriteByte(sentinelOB)
			i += 2
			continue
		}
		if i+1 < len(pattern) && pattern[i] == ']' && pattern[i+1] == ']' {
			sb.WriteByte(sentinelCB)
			i += 2
			continue
		}
		sb.WriteByte(pattern[i])
		i++
	}
	return sb.String()
}

type bracketPair struct {
	start, end int // indices of the sentinel bytes themselves
}

// findBracketPairs matches sentinelOB/CB via a stack, so nested pairs
// get distinct ids (innermost pairs close first).
func findBracketPairs(s string) []bracketPair {
	var stack []int
	var pairs []bracketPair
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case sentinelOB:
			stack = append(stack, i)
		case sentinelCB:
			if len(stack) == 0 {
				continue
			}
			start := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			pairs = append(pairs, bracketPair{start: start, end: i})
		}
	}
	return pairs
}

// stripSentinels builds the final literal pattern: bytes inside any
// removed pair's span (inclusive of its sentinels) are dropped
// entirely; remaining sentinel bytes are dropped but their content is
// kept.
func stripSentinels(s string, removed []bracketPair) string {
	inRemoved := make([]bool, len(s))
	for _, p := range removed {
		for i := p.start; i <= p.end && i < len(s); i++ {
			inRemoved[i] = true
		}
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if inRemoved[i] {
			continue
		}
		if s[i] == sentinelOB || s[i] == sentinelCB {
			continue
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}
