package main

import (
	"fmt"
	"sort"
)

// PackVliw implements steps 2-7 of spec §4.9's VLIW packager. The
// driver has already run step 1 (parsing `!!`-separated sub-instructions
// and assembling each through the normal pattern-loop path); it passes
// the collected slot indices and per-slot word lists here.
//
// Returns the bundle bytes to write at PC, and the number of
// word-sized PC units to advance by.
func PackVliw(asm *Assembler, indices []int, wordsPerSlot [][]Int256, line string) ([]byte, int, error) {
	templatebits := asm.TemplateBits
	var templateExpr string

	if templatebits == 0 {
		// Force exactly one VLIW slot [0] with template "0".
		indices = []int{0}
		templateExpr = "0"
	} else {
		set, ok := findVliwSet(asm.VliwSets, indices)
		if !ok {
			return nil, 0, fmt.Errorf("No vliw instruction-set defined.")
		}
		templateExpr = set.Template
	}

	tv, _, err := EvalExpression(templateExpr, asm, PatternMode, line)
	if err != nil {
		return nil, 0, err
	}

	absVliwBits := absInt(asm.VliwBits)
	absTemplateBits := absInt(templatebits)
	bodyWidth := absVliwBits - absTemplateBits
	templateVal := maskToBits(tv, absTemplateBits)

	ibyte := (asm.InstBits + 7) / 8
	noi := 0
	if asm.InstBits > 0 {
		noi = bodyWidth / asm.InstBits
	}

	var payload []byte
	for _, words := range wordsPerSlot {
		for _, w := range words {
			payload = append(payload, WordToBytes(w, asm.bytesPerWord(), asm.BigEndian)...)
		}
	}

	target := ibyte * noi
	for len(payload) < target {
		payload = append(payload, asm.VliwNop...)
	}
	if len(payload) > target {
		asm.reportError(line, "vliw payload overflow, truncating to %d bytes", target)
		payload = payload[:target]
	}

	body := zero256()
	for i := 0; i < noi; i++ {
		chunk := payload[i*ibyte : i*ibyte+ibyte]
		iv := BytesToInt256BigEndian(chunk)
		iv = maskToBits(iv, asm.InstBits)
		body = body.Shl(asm.InstBits).Or(iv)
	}
	body = maskToBits(body, bodyWidth)

	var final Int256
	if templatebits < 0 {
		final = templateVal.Shl(bodyWidth).Or(body)
	} else {
		final = body.Shl(templatebits).Or(templateVal)
	}
	final = maskToBits(final, absVliwBits)

	nbytes := absVliwBits / 8
	bigEndian := asm.VliwBits > 0
	bundleBytes := WordToBytes(final, nbytes, bigEndian)

	bpw := asm.bytesPerWord()
	pcWords := nbytes
	if bpw > 0 {
		pcWords = (nbytes + bpw - 1) / bpw
	}
	return bundleBytes, pcWords, nil
}

// findVliwSet locates the registered EPIC set whose sorted index
// multiset equals indices exactly.
func findVliwSet(sets []VliwSlotSet, indices []int) (VliwSlotSet, bool) {
	want := append([]int(nil), indices...)
	sort.Ints(want)
	for _, s := range sets {
		got := append([]int(nil), s.Indices...)
		sort.Ints(got)
		if intSliceEqual(want, got) {
			return s, true
		}
	}
	return VliwSlotSet{}, false
}

func intSliceEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// maskToBits keeps only the low `bits` bits of v.
func maskToBits(v Int256, bits int) Int256 {
	if bits <= 0 {
		return zero256()
	}
	if bits >= 256 {
		return v
	}
	mask := FromInt64(1).Shl(bits).Sub(FromInt64(1))
	return v.And(mask)
}
