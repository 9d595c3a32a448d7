package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/xyproto/env/v2"
)

// axx - a retargetable, table-driven two-pass assembler driven entirely
// by an external pattern file: the pattern file supplies every mnemonic,
// VLIW slot set, and directive; this binary only drives the two passes,
// the REPL, and the TSV import/export surface.

const versionString = "axx 1.0.0"

// defaultOutputFilename is the base used when -o is not given, settable
// via AXX_OUT.
var defaultOutputFilename = env.Str("AXX_OUT", "a.out")

func main() {
	var outFlag = flag.String("o", defaultOutputFilename, "output object filename")
	var exportsFlag = flag.String("e", "", "write a plain exports TSV to this path")
	var exportsElfFlag = flag.String("E", "", "write an exports TSV with ELF-style section flags to this path")
	var importsFlag = flag.String("i", "", "apply an imports TSV before assembling")
	var versionShort = flag.Bool("V", false, "print version information and exit")
	var version = flag.Bool("version", false, "print version information and exit")
	var verbose = flag.Bool("v", false, "verbose mode")
	var verboseLong = flag.Bool("verbose", false, "verbose mode")
	flag.Usage = func() {
		printUsage()
		flag.PrintDefaults()
	}
	flag.Parse()

	if *version || *versionShort {
		fmt.Println(versionString)
		os.Exit(0)
	}
	VerboseMode = *verbose || *verboseLong

	args := flag.Args()
	if len(args) == 0 {
		log.Fatalf("missing pattern file (usage: axx patternfile [sourcefile] ...)")
	}
	patternFile := args[0]

	if n := env.Int("AXX_MAX_INCLUDE_DEPTH", MaxIncludeDepth); n > 0 {
		MaxIncludeDepth = n
	}

	asm := NewAssembler()
	if VerboseMode {
		log.Printf("loading pattern file %s", patternFile)
	}
	if err := LoadPatternFile(asm, patternFile); err != nil {
		log.Fatalf("cannot load pattern file %q: %v", patternFile, err)
	}

	if *importsFlag != "" {
		if err := ApplyImportsTSV(asm, *importsFlag); err != nil {
			log.Fatalf("cannot apply imports %q: %v", *importsFlag, err)
		}
	}

	if len(args) < 2 {
		RunREPL(asm)
		return
	}
	sourceFile := args[1]

	if err := RunTwoPass(asm, sourceFile); err != nil {
		log.Fatalf("assembly of %q failed: %v", sourceFile, err)
	}

	outPath := *outFlag
	if err := os.WriteFile(outPath, asm.Buf.Dump(), 0644); err != nil {
		log.Fatalf("cannot write %q: %v", outPath, err)
	}
	if VerboseMode {
		fmt.Fprintf(os.Stderr, "-> wrote %s (%d bytes, %d error(s))\n", outPath, len(asm.Buf.Dump()), asm.ErrorCount)
	} else {
		fmt.Println(outPath)
	}

	if *exportsFlag != "" {
		if err := WriteExportsTSV(*exportsFlag, asm, false); err != nil {
			log.Fatalf("cannot write exports %q: %v", *exportsFlag, err)
		}
	}
	if *exportsElfFlag != "" {
		if err := WriteExportsTSV(*exportsElfFlag, asm, true); err != nil {
			log.Fatalf("cannot write exports %q: %v", *exportsElfFlag, err)
		}
	}
}
