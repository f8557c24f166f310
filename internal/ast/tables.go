package ast

import "github.com/funvibe/quadgen/internal/quads"

// DefaultOpcode gives the quadruple opcode a node kind lowers to in
// the common (non-boolean-context) case, mirroring ast_default_opcode.
// TrueOpcode and FalseOpcode give the branch opcode used instead when
// the node appears in a boolean context and is being asked to jump
// straight to a true or false label (gen_boolean's comparison family);
// q_noop in either table means "this kind has no dedicated branch form,
// fall back to evaluating it and branching on the result."
//
// These three tables and FlipOperands below live in this package
// rather than quads because they are keyed by ast.Kind; quads itself
// has no notion of the AST.
var (
	DefaultOpcode [numKinds]quads.Opcode
	TrueOpcode    [numKinds]quads.Opcode
	FalseOpcode   [numKinds]quads.Opcode

	// FlipOperands marks node kinds whose two operands must be swapped
	// when lowered to a branch instruction, because the opcode set only
	// has a "less than" family and ">"/">="/"subset" are expressed as a
	// flipped "<"/"<="/"incs".
	FlipOperands [numKinds]bool
)

func init() {
	for i := range DefaultOpcode {
		DefaultOpcode[i] = quads.OpNoop
		TrueOpcode[i] = quads.OpNoop
		FalseOpcode[i] = quads.OpNoop
	}

	set := func(k Kind, def, tru, fls quads.Opcode) {
		DefaultOpcode[k] = def
		TrueOpcode[k] = tru
		FalseOpcode[k] = fls
	}

	set(Add, quads.OpAdd, quads.OpNoop, quads.OpNoop)
	set(Sub, quads.OpSub, quads.OpNoop, quads.OpNoop)
	set(Mult, quads.OpMult, quads.OpNoop, quads.OpNoop)
	set(Div, quads.OpDiv, quads.OpNoop, quads.OpNoop)
	set(Expon, quads.OpExp, quads.OpNoop, quads.OpNoop)
	set(Mod, quads.OpMod, quads.OpNoop, quads.OpNoop)
	set(Min, quads.OpMin, quads.OpNoop, quads.OpNoop)
	set(Max, quads.OpMax, quads.OpNoop, quads.OpNoop)
	set(With, quads.OpWith, quads.OpNoop, quads.OpNoop)
	set(Less, quads.OpLess, quads.OpNoop, quads.OpNoop)
	set(Lessf, quads.OpLessf, quads.OpNoop, quads.OpNoop)
	set(Npow, quads.OpNpow, quads.OpNoop, quads.OpNoop)
	set(Uminus, quads.OpUminus, quads.OpNoop, quads.OpNoop)
	set(Ufrom, quads.OpUfrom, quads.OpNoop, quads.OpNoop)
	set(Domain, quads.OpDomain, quads.OpNoop, quads.OpNoop)
	set(Range, quads.OpRange, quads.OpNoop, quads.OpNoop)
	set(Not, quads.OpNot, quads.OpNoop, quads.OpNoop)
	set(Arb, quads.OpArb, quads.OpNoop, quads.OpNoop)
	set(Pow, quads.OpPow, quads.OpNoop, quads.OpNoop)
	set(Nelt, quads.OpNelt, quads.OpNoop, quads.OpNoop)

	set(Of, quads.OpOf, quads.OpNoop, quads.OpNoop)
	set(Ofa, quads.OpOfa, quads.OpNoop, quads.OpNoop)
	set(Kof, quads.OpKof, quads.OpNoop, quads.OpNoop)
	set(Kofa, quads.OpKofa, quads.OpNoop, quads.OpNoop)
	set(Slice, quads.OpSlice, quads.OpNoop, quads.OpNoop)
	set(End, quads.OpEnd, quads.OpNoop, quads.OpNoop)
	set(Assign, quads.OpAssign, quads.OpNoop, quads.OpNoop)
	set(AssignOp, quads.OpAssign, quads.OpNoop, quads.OpNoop)
	set(Penviron, quads.OpPenviron, quads.OpNoop, quads.OpNoop)
	set(Cassign, quads.OpAssign, quads.OpNoop, quads.OpNoop)
	set(From, quads.OpFrom, quads.OpNoop, quads.OpNoop)
	set(Fromb, quads.OpFromb, quads.OpNoop, quads.OpNoop)
	set(Frome, quads.OpFrome, quads.OpNoop, quads.OpNoop)

	set(Eq, quads.OpEq, quads.OpGoeq, quads.OpGone)
	set(Ne, quads.OpNe, quads.OpGone, quads.OpGoeq)
	set(Lt, quads.OpLt, quads.OpGolt, quads.OpGonlt)
	set(Le, quads.OpLe, quads.OpGole, quads.OpGonle)
	set(Gt, quads.OpLt, quads.OpGolt, quads.OpGonlt)
	set(Ge, quads.OpLe, quads.OpGole, quads.OpGonle)
	set(In, quads.OpIn, quads.OpGoin, quads.OpGonotin)
	set(NotIn, quads.OpNotIn, quads.OpGonotin, quads.OpGoin)
	set(Incs, quads.OpIncs, quads.OpGoincs, quads.OpGonincs)
	set(Subset, quads.OpIncs, quads.OpGoincs, quads.OpGonincs)

	set(EnumSet, quads.OpSet, quads.OpNoop, quads.OpNoop)
	set(EnumTup, quads.OpTuple, quads.OpNoop, quads.OpNoop)
	set(GenSet, quads.OpSet, quads.OpNoop, quads.OpNoop)
	set(GenTup, quads.OpTuple, quads.OpNoop, quads.OpNoop)
	set(GenSetNoExp, quads.OpSet, quads.OpNoop, quads.OpNoop)
	set(GenTupNoExp, quads.OpTuple, quads.OpNoop, quads.OpNoop)
	set(ArithSet, quads.OpSet, quads.OpNoop, quads.OpNoop)
	set(ArithTup, quads.OpTuple, quads.OpNoop, quads.OpNoop)

	set(Call, quads.OpCall, quads.OpNoop, quads.OpNoop)
	set(Return, quads.OpReturn, quads.OpNoop, quads.OpNoop)

	set(InitObj, quads.OpInitobj, quads.OpNoop, quads.OpNoop)
	set(Slot, quads.OpSlot, quads.OpNoop, quads.OpNoop)
	set(SlotOf, quads.OpSlotof, quads.OpNoop, quads.OpNoop)
	set(SlotCall, quads.OpSlotof, quads.OpNoop, quads.OpNoop)
	set(Menviron, quads.OpMenviron, quads.OpNoop, quads.OpNoop)
	set(Self, quads.OpSelf, quads.OpNoop, quads.OpNoop)

	FlipOperands[Gt] = true
	FlipOperands[Ge] = true
	FlipOperands[Subset] = true
}
