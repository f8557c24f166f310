package quads

import (
	"bytes"
	"io"
	"testing"

	"github.com/funvibe/quadgen/internal/symtab"
)

type writeCloserBuffer struct {
	*bytes.Buffer
}

func (writeCloserBuffer) Close() error { return nil }

// emitSample appends the same small, representative quadruple sequence
// to ec: an add, a tuple, a comparison branch, a label, and a go, exercising all
// three operand kinds (symbol, label, integer).
func emitSample(ec *EmitContext, a, b, t *symtab.Symbol) {
	ec.EmitSSS(OpAdd, Pos{Line: 1, Column: 1}, a, b, t)
	ec.EmitISS(OpTuple, Pos{Line: 2}, 3, nil, t)
	ec.EmitBranch(OpGoeq, Pos{Line: 3}, 42, a, b)
	ec.EmitLabel(Pos{Line: 4}, 42)
	ec.EmitGo(Pos{Line: 5}, 42)
}

// Testable property 9: a memory-mode run and a file-mode run of the
// identical emission sequence produce the same opcode/position/operand
// structure, modulo symbols being addressed by pointer in one and by a
// first-seen index in the other.
func TestModeEquivalenceMemoryVsFile(t *testing.T) {
	table := symtab.New("test")
	name := "a"
	a := table.EnterSymbol(&name, symtab.KindIdentifier)
	nameB := "b"
	b := table.EnterSymbol(&nameB, symtab.KindIdentifier)
	nameT := "t"
	tgt := table.EnterSymbol(&nameT, symtab.KindIdentifier)

	memSink := NewMemSink()
	memEC := OpenEmit(NewPool(), memSink)
	emitSample(memEC, a, b, tgt)
	if err := memEC.Close(); err != nil {
		t.Fatalf("mem close: %v", err)
	}

	var buf writeCloserBuffer
	buf.Buffer = &bytes.Buffer{}
	symbols := NewSymbolIndex()
	fileSink, err := OpenFileSink(buf, symbols)
	if err != nil {
		t.Fatalf("open file sink: %v", err)
	}
	fileEC := OpenEmit(NewPool(), fileSink)
	emitSample(fileEC, a, b, tgt)
	if err := fileEC.Close(); err != nil {
		t.Fatalf("file close: %v", err)
	}

	fr, err := OpenFileReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("open file reader: %v", err)
	}

	memQ := memSink.Head
	for {
		dq, err := fr.Next()
		if err == io.EOF {
			if memQ != nil {
				t.Fatalf("file stream ended early, memory stream still has %+v", memQ)
			}
			break
		}
		if err != nil {
			t.Fatalf("reading file stream: %v", err)
		}
		if memQ == nil {
			t.Fatalf("memory stream ended early, file stream still has %+v", dq)
		}
		if dq.Opcode != memQ.Opcode {
			t.Fatalf("opcode mismatch: mem %v file %v", memQ.Opcode, dq.Opcode)
		}
		if dq.FilePos != memQ.FilePos {
			t.Fatalf("position mismatch: mem %+v file %+v", memQ.FilePos, dq.FilePos)
		}
		for i := range dq.Operand {
			wantKind := memQ.Operand[i].Kind
			if dq.Operand[i].Kind != wantKind {
				t.Fatalf("operand %d kind mismatch: mem %v file %v", i, wantKind, dq.Operand[i].Kind)
			}
			switch wantKind {
			case OperandInteger:
				if dq.Operand[i].Int != memQ.Operand[i].Int {
					t.Fatalf("operand %d int mismatch: mem %d file %d", i, memQ.Operand[i].Int, dq.Operand[i].Int)
				}
			case OperandLabel:
				if dq.Operand[i].Label != memQ.Operand[i].Label {
					t.Fatalf("operand %d label mismatch: mem %d file %d", i, memQ.Operand[i].Label, dq.Operand[i].Label)
				}
			case OperandSymbol:
				wantID := symbols.IDFor(memQ.Operand[i].Sym)
				if dq.Operand[i].SymbolID != wantID {
					t.Fatalf("operand %d symbol id mismatch: want %d got %d", i, wantID, dq.Operand[i].SymbolID)
				}
			}
		}
		memQ = memQ.Next
	}
}

func TestFileSinkRoundTripsRunID(t *testing.T) {
	var buf writeCloserBuffer
	buf.Buffer = &bytes.Buffer{}
	fs, err := OpenFileSink(buf, NewSymbolIndex())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := fs.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	fr, err := OpenFileReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if fr.RunID != fs.RunID {
		t.Fatalf("run id mismatch: wrote %v read %v", fs.RunID, fr.RunID)
	}
	if _, err := fr.Next(); err != io.EOF {
		t.Fatalf("want immediate EOF for an empty stream, got %v", err)
	}
}
