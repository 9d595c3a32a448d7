package main

import "strings"

// PatternRecord is one `::`-separated pattern-file line, fields
// assigned per the arity table in spec §6. Up to six fields:
//
//	F0  match pattern
//	F1  .error expression list
//	F2  object-code recipe
//	F3  VLIW slot-index expression
//	F4  fifth field; read only by `.vliw` (its nop word)
//	F5  (reserved)
type PatternRecord struct {
	F       [6]string
	HasF    [6]bool
	RawLine string
}

// ParsePatternRecord splits a pattern-file line on `::` and assigns the
// parts to fields per spec §6's arity table. This mapping is pinned by
// an Open Question in spec §9: 2-part records map to F0,F2 (not F0,F1).
func ParsePatternRecord(line string) PatternRecord {
	parts := splitFields(line, "::")
	var rec PatternRecord
	rec.RawLine = line
	switch len(parts) {
	case 1:
		rec.set(0, parts[0])
	case 2:
		rec.set(0, parts[0])
		rec.set(2, parts[1])
	case 3:
		rec.set(0, parts[0])
		rec.set(1, parts[1])
		rec.set(2, parts[2])
	case 4:
		rec.set(0, parts[0])
		rec.set(1, parts[1])
		rec.set(2, parts[2])
		rec.set(3, parts[3])
	case 5:
		rec.set(0, parts[0])
		rec.set(1, parts[1])
		rec.set(2, parts[2])
		rec.set(3, parts[3])
		rec.set(4, parts[4])
	default:
		for i := 0; i < 6 && i < len(parts); i++ {
			rec.set(i, parts[i])
		}
	}
	return rec
}

func (r *PatternRecord) set(i int, v string) {
	r.F[i] = strings.TrimSpace(v)
	r.HasF[i] = true
}

// splitFields splits s on sep without trimming empty trailing segments,
// since a trailing `::` is meaningful (an empty recipe field).
func splitFields(s, sep string) []string {
	return strings.Split(s, sep)
}

// IsPatternFileDirective reports whether F0 names one of the
// pattern-file directives handled before the match loop (spec §4.7).
func (r *PatternRecord) IsPatternFileDirective() bool {
	switch firstToken(r.F[0]) {
	case ".setsym", ".clearsym", ".bits", ".padding", ".symbolc", ".vliw", "epic", ".include":
		return true
	}
	return false
}

func firstToken(s string) string {
	s = strings.TrimSpace(s)
	i := strings.IndexAny(s, " \t")
	if i < 0 {
		return strings.ToLower(s)
	}
	return strings.ToLower(s[:i])
}

// PatternStore is the ordered list of pattern records consulted by the
// matching loop, in file order.
type PatternStore struct {
	Records []PatternRecord
}

func NewPatternStore() *PatternStore {
	return &PatternStore{}
}

func (p *PatternStore) Add(r PatternRecord) {
	p.Records = append(p.Records, r)
}
