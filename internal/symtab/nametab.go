package symtab

// NameEntry is an interning record for an identifier or a literal's
// textual form. SymtabPtr is the name's current binding in the active
// scope, or nil if unbound.
type NameEntry struct {
	Text      string
	SymtabPtr *Symbol
}

// NameTable interns textual forms once per compilation, the way the
// original compiler's namtab package does: repeated lookups of the
// same text return the same entry.
type NameTable struct {
	entries map[string]*NameEntry
}

// NewNameTable returns an empty name table.
func NewNameTable() *NameTable {
	return &NameTable{entries: make(map[string]*NameEntry)}
}

// Intern returns the NameEntry for text, creating it on first use.
func (nt *NameTable) Intern(text string) *NameEntry {
	if e, ok := nt.entries[text]; ok {
		return e
	}
	e := &NameEntry{Text: text}
	nt.entries[text] = e
	return e
}

// Lookup returns the existing NameEntry for text, or nil if text has
// never been interned.
func (nt *NameTable) Lookup(text string) *NameEntry {
	return nt.entries[text]
}
