// Package quads implements the quadruple store (C2): allocation,
// in-memory and intermediate-file emission sinks, and the fixed
// opcode/operand-type tables the generator and the (out of scope)
// assembler both key off of.
package quads

// Opcode is a quadruple's instruction tag. The full set and its
// grouping follows quads.h's q_* enumeration one-for-one.
type Opcode int

const (
	OpNoop Opcode = iota
	OpPush1
	OpPush2
	OpPush3
	OpPop1
	OpPop2
	OpPop3
	OpAdd
	OpSub
	OpMult
	OpDiv
	OpExp
	OpMod
	OpMin
	OpMax
	OpWith
	OpLess
	OpLessf
	OpFrom
	OpFromb
	OpFrome
	OpNpow
	OpUminus
	OpDomain
	OpRange
	OpPow
	OpArb
	OpNelt
	OpNot
	OpSmap
	OpTupof
	OpOf1
	OpOf
	OpOfa
	OpKof1
	OpKof
	OpKofa
	OpErase
	OpSlice
	OpEnd
	OpAssign
	OpPenviron
	OpSof
	OpSofa
	OpSslice
	OpSend
	OpEq
	OpNe
	OpLt
	OpNlt
	OpLe
	OpNle
	OpIn
	OpNotIn
	OpIncs
	OpAnd
	OpOr
	OpGo
	OpGoind
	OpGotrue
	OpGofalse
	OpGoeq
	OpGone
	OpGolt
	OpGonlt
	OpGole
	OpGonle
	OpGoin
	OpGonotin
	OpGoincs
	OpGonincs
	OpSet
	OpTuple
	OpIter
	OpInext
	OpLcall
	OpCall
	OpReturn
	OpStop
	OpStopall
	OpAssert
	OpIntcheck
	OpInitobj
	OpInitend
	OpSlot
	OpSslot
	OpSlotof
	OpMenviron
	OpSelf
	OpInitproc
	OpInitpend
	OpLabel
	OpUfrom

	numOpcodes
)

var opcodeNames = [numOpcodes]string{
	OpNoop: "noop", OpPush1: "push1", OpPush2: "push2", OpPush3: "push3",
	OpPop1: "pop1", OpPop2: "pop2", OpPop3: "pop3",
	OpAdd: "add", OpSub: "sub", OpMult: "mult", OpDiv: "div", OpExp: "exp",
	OpMod: "mod", OpMin: "min", OpMax: "max",
	OpWith: "with", OpLess: "less", OpLessf: "lessf",
	OpFrom: "from", OpFromb: "fromb", OpFrome: "frome", OpNpow: "npow",
	OpUminus: "uminus", OpDomain: "domain", OpRange: "range", OpPow: "pow",
	OpArb: "arb", OpNelt: "nelt", OpNot: "not", OpSmap: "smap",
	OpTupof: "tupof", OpOf1: "of1", OpOf: "of", OpOfa: "ofa",
	OpKof1: "kof1", OpKof: "kof", OpKofa: "kofa", OpErase: "erase",
	OpSlice: "slice", OpEnd: "end", OpAssign: "assign", OpPenviron: "penviron",
	OpSof: "sof", OpSofa: "sofa", OpSslice: "sslice", OpSend: "send",
	OpEq: "eq", OpNe: "ne", OpLt: "lt", OpNlt: "nlt", OpLe: "le", OpNle: "nle",
	OpIn: "in", OpNotIn: "notin", OpIncs: "incs", OpAnd: "and", OpOr: "or",
	OpGo: "go", OpGoind: "goind", OpGotrue: "gotrue", OpGofalse: "gofalse",
	OpGoeq: "goeq", OpGone: "gone", OpGolt: "golt", OpGonlt: "gonlt",
	OpGole: "gole", OpGonle: "gonle", OpGoin: "goin", OpGonotin: "gonotin",
	OpGoincs: "goincs", OpGonincs: "gonincs",
	OpSet: "set", OpTuple: "tuple", OpIter: "iter", OpInext: "inext",
	OpLcall: "lcall", OpCall: "call", OpReturn: "return", OpStop: "stop",
	OpStopall: "stopall", OpAssert: "assert", OpIntcheck: "intcheck",
	OpInitobj: "initobj", OpInitend: "initend", OpSlot: "slot", OpSslot: "sslot",
	OpSlotof: "slotof", OpMenviron: "menviron", OpSelf: "self",
	OpInitproc: "initproc", OpInitpend: "initpend", OpLabel: "label",
	OpUfrom: "ufrom",
}

func (op Opcode) String() string {
	if op < 0 || int(op) >= len(opcodeNames) || opcodeNames[op] == "" {
		return "op?"
	}
	return opcodeNames[op]
}

// OperandKind is the tri-modal typing of one quadruple operand slot.
type OperandKind int

const (
	OperandUnused OperandKind = iota
	OperandInteger
	OperandSymbol
	OperandLabel
	OperandSlot
	OperandClass
	OperandProcess
)

// operandTypes gives the legal operand kind per slot for every opcode,
// mirroring quads.h's quad_optype table. Branch opcodes type their
// first operand as a label; everything else not listed defaults to
// three symbol operands, which is the overwhelming common case, so the
// table only lists the exceptions.
var operandTypes = map[Opcode][3]OperandKind{
	OpGo:       {OperandLabel, OperandUnused, OperandUnused},
	OpGoind:    {OperandSymbol, OperandUnused, OperandUnused},
	OpGotrue:   {OperandLabel, OperandSymbol, OperandUnused},
	OpGofalse:  {OperandLabel, OperandSymbol, OperandUnused},
	OpGoeq:     {OperandLabel, OperandSymbol, OperandSymbol},
	OpGone:     {OperandLabel, OperandSymbol, OperandSymbol},
	OpGolt:     {OperandLabel, OperandSymbol, OperandSymbol},
	OpGonlt:    {OperandLabel, OperandSymbol, OperandSymbol},
	OpGole:     {OperandLabel, OperandSymbol, OperandSymbol},
	OpGonle:    {OperandLabel, OperandSymbol, OperandSymbol},
	OpGoin:     {OperandLabel, OperandSymbol, OperandSymbol},
	OpGonotin:  {OperandLabel, OperandSymbol, OperandSymbol},
	OpGoincs:   {OperandLabel, OperandSymbol, OperandSymbol},
	OpGonincs:  {OperandLabel, OperandSymbol, OperandSymbol},
	OpLabel:    {OperandLabel, OperandUnused, OperandUnused},
	OpInitobj:  {OperandSymbol, OperandClass, OperandUnused},
	OpInitproc: {OperandSymbol, OperandProcess, OperandUnused},
	OpSlot:     {OperandSymbol, OperandSymbol, OperandSlot},
	OpSslot:    {OperandSymbol, OperandSlot, OperandSymbol},
	OpSlotof:   {OperandLabel, OperandSymbol, OperandSlot},
	OpInext:    {OperandSymbol, OperandSymbol, OperandLabel},
}

// OperandTypes returns the per-slot operand kinds legal for op. Any
// opcode not present in the exception table takes three symbol
// operands. Verify uses it to find label operands; the Emit* helpers
// do not consult it.
func OperandTypes(op Opcode) [3]OperandKind {
	if t, ok := operandTypes[op]; ok {
		return t
	}
	return [3]OperandKind{OperandSymbol, OperandSymbol, OperandSymbol}
}
