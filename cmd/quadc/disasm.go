package main

import (
	"fmt"
	"io"
	"os"

	"github.com/funvibe/quadgen/internal/quads"
)

// dumpMemory disassembles a memory-mode quadruple list, the
// offset/line/opcode/operand layout mirroring a bytecode disassembler's
// instruction-dump loop.
func dumpMemory(sink *quads.MemSink) {
	fmt.Println("== quadruples (memory) ==")
	offset := 0
	for q := sink.Head; q != nil; q = q.Next {
		printQuad(offset, q.Opcode.String(), q.FilePos.Line, operandStrings(q))
		offset++
	}
}

// dumpFile reads back a file-mode stream and disassembles it, proving
// the serialised form round-trips to the same instruction sequence a
// memory-mode run would have produced.
func dumpFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	fr, err := quads.OpenFileReader(f)
	if err != nil {
		return err
	}
	fmt.Printf("== quadruples (file, run %s) ==\n", fr.RunID)
	offset := 0
	for {
		dq, err := fr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		printQuad(offset, dq.Opcode.String(), dq.FilePos.Line, decodedOperandStrings(dq))
		offset++
	}
	return nil
}

func printQuad(offset int, opName string, line int, operands [3]string) {
	fmt.Printf("%04d  line %-4d %-10s %s\n", offset, line, opName, joinOperands(operands))
}

func joinOperands(operands [3]string) string {
	out := ""
	for i, o := range operands {
		if o == "" {
			continue
		}
		if i > 0 && out != "" {
			out += ", "
		}
		out += o
	}
	return out
}

func operandStrings(q *quads.Quad) [3]string {
	var out [3]string
	for i, opnd := range q.Operand {
		switch opnd.Kind {
		case quads.OperandInteger:
			out[i] = fmt.Sprintf("#%d", opnd.Int)
		case quads.OperandLabel:
			out[i] = fmt.Sprintf("L%d", opnd.Label)
		case quads.OperandSymbol, quads.OperandSlot, quads.OperandClass, quads.OperandProcess:
			if opnd.Sym != nil {
				out[i] = opnd.Sym.Name
			}
		}
	}
	return out
}

func decodedOperandStrings(dq quads.DecodedQuad) [3]string {
	var out [3]string
	for i, opnd := range dq.Operand {
		switch opnd.Kind {
		case quads.OperandInteger:
			out[i] = fmt.Sprintf("#%d", opnd.Int)
		case quads.OperandLabel:
			out[i] = fmt.Sprintf("L%d", opnd.Label)
		case quads.OperandSymbol, quads.OperandSlot, quads.OperandClass, quads.OperandProcess:
			out[i] = fmt.Sprintf("sym#%d", opnd.SymbolID)
		}
	}
	return out
}
