package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LoadPatternFile implements spec §6's pattern-file grammar: UTF-8
// text, `/* ... */` comments removed, tabs turned into spaces, one
// record per line split by `::`. `.include "file"` recursively loads
// another pattern file in place. After the top-level file (and all its
// includes) finish loading, every directive record (spec §4.7) is
// applied once, in file order, and the resulting symbol table is
// snapshotted so a no-arg `.clearsym` can restore it.
func LoadPatternFile(asm *Assembler, path string) error {
	if err := loadPatternFileRecursive(asm, path, 0); err != nil {
		return err
	}
	for _, rec := range asm.Patterns.Records {
		if rec.IsPatternFileDirective() {
			HandlePatternDirective(asm, rec, rec.RawLine)
		}
	}
	asm.Symbols.SnapshotPatSymbols()
	return nil
}

func loadPatternFileRecursive(asm *Assembler, path string, line int) error {
	if err := asm.pushInclude(path, line); err != nil {
		return err
	}
	defer asm.popInclude()

	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, " error - cannot open pattern file %q: %s\n", path, err)
		return nil
	}
	defer f.Close()

	inBlockComment := false
	lineNo := 0
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1<<20)
	for scanner.Scan() {
		lineNo++
		raw := strings.ReplaceAll(scanner.Text(), "\t", " ")
		text, stillIn := stripBlockComments(raw, inBlockComment)
		inBlockComment = stillIn
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		if strings.HasPrefix(strings.ToLower(text), ".include") {
			filename, _, ok := readQuotedString(text, skipspc(text, len(".include")))
			if !ok {
				fmt.Fprintf(os.Stderr, " error - malformed .include in %q line %d\n", path, lineNo)
				continue
			}
			if err := loadPatternFileRecursive(asm, filename, lineNo); err != nil {
				return err
			}
			continue
		}

		asm.Patterns.Add(ParsePatternRecord(text))
	}
	return scanner.Err()
}

// stripBlockComments removes `/* ... */` spans from a line, tracking
// whether a comment begun on an earlier line is still open.
func stripBlockComments(s string, inComment bool) (string, bool) {
	var sb strings.Builder
	i := 0
	for i < len(s) {
		if inComment {
			end := strings.Index(s[i:], "*/")
			if end < 0 {
				return sb.String(), true
			}
			i += end + 2
			inComment = false
			continue
		}
		start := strings.Index(s[i:], "/*")
		if start < 0 {
			sb.WriteString(s[i:])
			break
		}
		sb.WriteString(s[i : i+start])
		i += start + 2
		inComment = true
	}
	return sb.String(), inComment
}
