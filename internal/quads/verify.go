package quads

import "fmt"

// Verify walks a memory-mode quadruple list and checks two structural
// invariants any generated procedure must satisfy regardless of which
// code generator component produced it (spec.md testable property 2):
// every q_label id appears exactly once as a label-defining quadruple,
// and every branch operand naming a label id names one that is
// actually defined somewhere in the list.
func Verify(head *Quad) error {
	defined := make(map[int]int)
	referenced := make(map[int]bool)

	for q := head; q != nil; q = q.Next {
		if q.Opcode == OpLabel {
			lbl := q.Operand[0].Label
			defined[lbl]++
			continue
		}
		kinds := OperandTypes(q.Opcode)
		for i, k := range kinds {
			if k == OperandLabel && q.Operand[i].Kind == OperandLabel {
				referenced[q.Operand[i].Label] = true
			}
		}
	}

	for lbl, n := range defined {
		if n > 1 {
			return fmt.Errorf("quads: label %d defined %d times", lbl, n)
		}
	}
	for lbl := range referenced {
		if defined[lbl] == 0 {
			return fmt.Errorf("quads: label %d referenced but never defined", lbl)
		}
	}
	return nil
}
