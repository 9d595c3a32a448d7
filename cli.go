package main

import "fmt"

// cli.go - small CLI-support bits used by main.go.

// VerboseMode mirrors the teacher's global verbosity flag, set once in
// main() from -v/--verbose and read by the rest of the program.
var VerboseMode bool

func printUsage() {
	fmt.Println(`axx - a retargetable, table-driven two-pass assembler

USAGE:
    axx patternfile [sourcefile] [-o outfile] [-e exports.tsv] [-E exports_elf.tsv] [-i imports.tsv]

Without a source file, axx enters a REPL: each line is assembled as if
it were pass 2 of a one-line source file, with labels immediately
visible to later lines. Type ? to dump labels, ?s for sections, ?p for
pattern symbols, and an empty line or EOF to quit.`)
}
