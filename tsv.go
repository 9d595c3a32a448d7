package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// WriteExportsTSV implements spec §6's exports TSV: one `name\t0xstart\t
// 0xsize\tflags` record per section, followed by one `name\t0xvalue`
// record per exported label. elf selects the `-E` variant, which fills
// in the AX/WA flags column by section name.
func WriteExportsTSV(path string, asm *Assembler, elf bool) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	defer w.Flush()

	for _, sec := range asm.Sects.All() {
		flags := ""
		if elf {
			switch sec.Name {
			case ".text":
				flags = "AX"
			case ".data":
				flags = "WA"
			}
		}
		fmt.Fprintf(w, "%s\t0x%s\t0x%s\t%s\n", sec.Name, hexOf(sec.Start), hexOf(sec.Size), flags)
	}

	for _, name := range dedupeStrings(asm.Exports) {
		v, ok := asm.Labels.Lookup(name)
		if !ok {
			continue
		}
		fmt.Fprintf(w, "%s\t0x%s\n", name, hexOf(v))
	}
	return nil
}

func hexOf(v Int256) string {
	// Exports deal only in non-negative addresses/sizes in practice;
	// render the low 64 bits, which covers every realistic image size.
	return fmt.Sprintf("%x", v.Low64())
}

func dedupeStrings(xs []string) []string {
	seen := make(map[string]bool, len(xs))
	var out []string
	for _, x := range xs {
		if seen[x] {
			continue
		}
		seen[x] = true
		out = append(out, x)
	}
	return out
}

// ApplyImportsTSV implements SPEC_FULL.md's `-i imports.tsv` supplement:
// each line is `section label value`, whitespace-separated, applied as
// pass-1-style label definitions before the real two-pass run begins.
func ApplyImportsTSV(asm *Assembler, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			fmt.Fprintf(os.Stderr, " error - malformed import line %d in %q\n", lineNo, path)
			continue
		}
		section := fields[0]
		label := fields[1]
		valueExpr := strings.Join(fields[2:], " ")
		v, _, err := EvalExpression(valueExpr, asm, AssemblyMode, line)
		if err != nil {
			fmt.Fprintf(os.Stderr, " error - bad import value on line %d: %s\n", lineNo, err)
			continue
		}
		if err := asm.Labels.Define(label, v, section, 1); err != nil {
			fmt.Fprintf(os.Stderr, " error - %s\n", err)
		}
	}
	return scanner.Err()
}
