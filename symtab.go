package main

import (
	"fmt"
	"sort"
	"strings"
)

// Label binds a name to a value and the section it was defined in.
type Label struct {
	Name    string
	Value   Int256
	Section string
	order   int
}

// LabelTable is the name->Label store with pass-dependent write policy
// described in spec §3: pass 1 and pass 0 (REPL) reject redefinition;
// pass 2 requires the label to already exist.
type LabelTable struct {
	byName map[string]*Label
	seq    int
}

func NewLabelTable() *LabelTable {
	return &LabelTable{byName: make(map[string]*Label)}
}

func (t *LabelTable) Reset() {
	t.byName = make(map[string]*Label)
	t.seq = 0
}

// Define binds name to value/section under the given pass number.
// pas==1 or pas==0: error if name is already defined.
// pas==2: error if name is not already defined (a pass-1 bug).
func (t *LabelTable) Define(name string, value Int256, section string, pas int) error {
	existing, ok := t.byName[name]
	switch pas {
	case 2:
		if !ok {
			return fmt.Errorf("label %q missing in pass 2", name)
		}
		existing.Value = value
		existing.Section = section
		return nil
	default: // 0 or 1
		if ok {
			return fmt.Errorf("label %q already defined", name)
		}
		t.seq++
		t.byName[name] = &Label{Name: name, Value: value, Section: section, order: t.seq}
		return nil
	}
}

// Lookup returns the label's value, or Undef with ok=false if missing.
func (t *LabelTable) Lookup(name string) (Int256, bool) {
	l, ok := t.byName[name]
	if !ok {
		return Undef, false
	}
	return l.Value, true
}

func (t *LabelTable) Has(name string) bool {
	_, ok := t.byName[name]
	return ok
}

// Names returns all defined label names sorted alphabetically (spec's
// REPL `?` dump, per SPEC_FULL.md §4). Map keys are unique names, so
// there are never ties to break by insertion order.
func (t *LabelTable) Names() []string {
	names := make([]string, 0, len(t.byName))
	for n := range t.byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Get returns the full Label record.
func (t *LabelTable) Get(name string) (*Label, bool) {
	l, ok := t.byName[name]
	return l, ok
}

// SymbolTable is the uppercased-name->Int256 store populated by
// pattern-file `.setsym` (spec §3). PatSymbols is the snapshot taken
// right after pattern loading, restored by a no-arg `.clearsym`.
type SymbolTable struct {
	Symbols    map[string]Int256
	PatSymbols map[string]Int256
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		Symbols:    make(map[string]Int256),
		PatSymbols: make(map[string]Int256),
	}
}

func (s *SymbolTable) Set(name string, v Int256) {
	s.Symbols[strings.ToUpper(name)] = v
}

func (s *SymbolTable) Lookup(name string) (Int256, bool) {
	v, ok := s.Symbols[strings.ToUpper(name)]
	return v, ok
}

// SnapshotPatSymbols copies the current Symbols into PatSymbols; called
// once after pattern-file loading completes.
func (s *SymbolTable) SnapshotPatSymbols() {
	s.PatSymbols = make(map[string]Int256, len(s.Symbols))
	for k, v := range s.Symbols {
		s.PatSymbols[k] = v
	}
}

// ClearAll restores Symbols to the PatSymbols snapshot (no-arg `.clearsym`).
func (s *SymbolTable) ClearAll() {
	s.Symbols = make(map[string]Int256, len(s.PatSymbols))
	for k, v := range s.PatSymbols {
		s.Symbols[k] = v
	}
}

// ClearOne deletes a single named symbol.
func (s *SymbolTable) ClearOne(name string) {
	delete(s.Symbols, strings.ToUpper(name))
}

// SectionRecord is one entry in the section table: spec §3.
type SectionRecord struct {
	Name  string
	Start Int256
	Size  Int256
}

// SectionTable is the ordered list of section records plus the
// currently-active section name.
type SectionTable struct {
	records []*SectionRecord
	byName  map[string]*SectionRecord
	Current string
}

func NewSectionTable() *SectionTable {
	return &SectionTable{byName: make(map[string]*SectionRecord)}
}

func (s *SectionTable) Reset() {
	s.records = nil
	s.byName = make(map[string]*SectionRecord)
	s.Current = ""
}

// Switch implements `SECTION n` / `SEGMENT n`: create-or-reset the
// record with start=pc and make it current.
func (s *SectionTable) Switch(name string, pc Int256) {
	rec, ok := s.byName[name]
	if !ok {
		rec = &SectionRecord{Name: name}
		s.byName[name] = rec
		s.records = append(s.records, rec)
	}
	rec.Start = pc
	s.Current = name
}

// EndCurrent implements `ENDSECTION`/`ENDSEGMENT`: size = pc - start.
func (s *SectionTable) EndCurrent(pc Int256) {
	rec, ok := s.byName[s.Current]
	if !ok {
		return
	}
	rec.Size = pc.Sub(rec.Start)
}

func (s *SectionTable) Get(name string) (*SectionRecord, bool) {
	r, ok := s.byName[name]
	return r, ok
}

func (s *SectionTable) All() []*SectionRecord {
	return s.records
}
