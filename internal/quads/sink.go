package quads

import (
	"bufio"
	"fmt"
	"io"

	"github.com/google/uuid"
	"google.golang.org/protobuf/encoding/protowire"
)

// Sink is the emission-sink abstraction: a memory-mode linked list or
// a file-mode append-only stream (spec.md §3 "Emission sink", §6). All
// mode-agnostic emitters in EmitContext go through this single
// interface so the branch on which mode is active happens once per
// procedure rather than on every emit.
type Sink interface {
	// Append records one quadruple already built by EmitContext.
	Append(q *Quad)
	// Close finalises the sink: a nil tail pointer in memory mode, a
	// sentinel record in file mode.
	Close() error
}

// MemSink is the in-memory linked-list sink: quadruples accumulate on
// Head/Tail the way the procedure table entry being compiled keeps
// them in the original compiler.
type MemSink struct {
	Head, Tail *Quad
}

// NewMemSink returns an empty in-memory sink.
func NewMemSink() *MemSink { return &MemSink{} }

func (m *MemSink) Append(q *Quad) {
	if m.Tail == nil {
		m.Head = q
	} else {
		m.Tail.Next = q
	}
	m.Tail = q
}

func (m *MemSink) Close() error {
	if m.Tail != nil {
		m.Tail.Next = nil
	}
	return nil
}

// fileMagic identifies the on-disk quadruple stream format.
var fileMagic = [4]byte{'Q', 'U', 'A', 'D'}

const fileVersion = 1

// maxRecordLen bounds a single length-prefixed record: one quadruple
// is opcode + line + column + three (kind, value) operand pairs, all
// varints, so a legitimate record never approaches this; it exists to
// reject a corrupt or adversarial length prefix before it reaches
// make([]byte, n).
const maxRecordLen = 1 << 16

// sentinelOpcode marks end-of-stream in file mode, matching the
// original's q_opcode == -1 sentinel record.
const sentinelOpcode = Opcode(-1)

// SymbolIndex assigns stable small integer ids to symbols within one
// emitted stream, in first-seen order, so file-mode quadruples can
// reference operands without persisting full symbol-table entries
// (construction and serialisation of the symbol table itself is an
// external collaborator's job per spec.md §6). Mode-equivalence
// (testable property 9) is checked against ids assigned this way on
// both sides, not against symbol identity.
type SymbolIndex struct {
	bySym map[any]uint64
	order int
}

// NewSymbolIndex returns an empty, growable symbol index.
func NewSymbolIndex() *SymbolIndex {
	return &SymbolIndex{bySym: make(map[any]uint64)}
}

// IDFor returns sym's id, assigning the next id on first use.
func (si *SymbolIndex) IDFor(sym any) uint64 {
	if id, ok := si.bySym[sym]; ok {
		return id
	}
	id := uint64(si.order)
	si.bySym[sym] = id
	si.order++
	return id
}

// FileSink serialises quadruples to an append-only, length-prefixed,
// opcode-first stream of protobuf-wire-format records, per the design
// notes' preference for a self-describing format over the original's
// bit-exact struct dump. open_emit's captured append offset is simply
// the writer's position when the sink was created; store_quads writes
// a run header (magic, version, a run UUID) exactly once per stream.
// OpenFileReader refuses a stream whose magic, version or run-id
// length is wrong; it exposes the run UUID as FileReader.RunID but
// does not compare it with anything.
type FileSink struct {
	w       *bufio.Writer
	closer  io.Closer
	RunID   uuid.UUID
	symbols *SymbolIndex
	offset  int64
}

// OpenFileSink starts a fresh file-mode quadruple stream on w and
// writes its header.
func OpenFileSink(w io.WriteCloser, symbols *SymbolIndex) (*FileSink, error) {
	fs := &FileSink{
		w:       bufio.NewWriter(w),
		closer:  w,
		RunID:   uuid.New(),
		symbols: symbols,
	}
	if err := fs.writeHeader(); err != nil {
		return nil, err
	}
	return fs, nil
}

func (fs *FileSink) writeHeader() error {
	var hdr []byte
	hdr = append(hdr, fileMagic[:]...)
	hdr = protowire.AppendVarint(hdr, uint64(fileVersion))
	idBytes, _ := fs.RunID.MarshalBinary()
	hdr = protowire.AppendVarint(hdr, uint64(len(idBytes)))
	hdr = append(hdr, idBytes...)
	n, err := fs.w.Write(hdr)
	fs.offset += int64(n)
	return err
}

func (fs *FileSink) Append(q *Quad) {
	rec := encodeQuad(q, fs.symbols)
	var framed []byte
	framed = protowire.AppendVarint(framed, uint64(len(rec)))
	framed = append(framed, rec...)
	n, _ := fs.w.Write(framed)
	fs.offset += int64(n)
}

func (fs *FileSink) Close() error {
	sentinel := &Quad{Opcode: sentinelOpcode, FilePos: Pos{Line: -1, Column: -1}}
	fs.Append(sentinel)
	if err := fs.w.Flush(); err != nil {
		return err
	}
	return fs.closer.Close()
}

// Offset returns the current append position, the value open_emit
// captures into the caller's storage-location record.
func (fs *FileSink) Offset() int64 { return fs.offset }

// encodeQuad frames one quadruple as opcode, line, column, then three
// (kind, value) operand pairs.
func encodeQuad(q *Quad, symbols *SymbolIndex) []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(int64(q.Opcode)))
	b = protowire.AppendTag(b, 2, protowire.VarintType)
	b = protowire.AppendVarint(b, protowire.EncodeZigZag(int64(q.FilePos.Line)))
	b = protowire.AppendTag(b, 3, protowire.VarintType)
	b = protowire.AppendVarint(b, protowire.EncodeZigZag(int64(q.FilePos.Column)))

	for i, opnd := range q.Operand {
		kindTag := protowire.Number(10 + i*2)
		valTag := protowire.Number(11 + i*2)
		b = protowire.AppendTag(b, kindTag, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(opnd.Kind))
		b = protowire.AppendTag(b, valTag, protowire.VarintType)
		switch opnd.Kind {
		case OperandInteger:
			b = protowire.AppendVarint(b, protowire.EncodeZigZag(int64(opnd.Int)))
		case OperandLabel:
			b = protowire.AppendVarint(b, uint64(opnd.Label))
		case OperandSymbol, OperandSlot, OperandClass, OperandProcess:
			id := symbols.IDFor(opnd.Sym)
			b = protowire.AppendVarint(b, id)
		default:
			b = protowire.AppendVarint(b, 0)
		}
	}
	return b
}

// DecodedQuad mirrors Quad but carries raw symbol ids instead of
// *symtab.Symbol pointers, since reconstructing live symbol objects is
// the caller's job (it owns the SymbolIndex's inverse mapping).
type DecodedQuad struct {
	Opcode  Opcode
	FilePos Pos
	Operand [3]DecodedOperand
}

// DecodedOperand mirrors Operand with a symbol id in place of a
// pointer.
type DecodedOperand struct {
	Kind     OperandKind
	Int      int32
	Label    int
	SymbolID uint64
}

func decodeQuad(rec []byte) (DecodedQuad, error) {
	var dq DecodedQuad
	b := rec
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return dq, fmt.Errorf("quads: malformed tag")
		}
		b = b[n:]
		if typ != protowire.VarintType {
			return dq, fmt.Errorf("quads: unexpected wire type %d", typ)
		}
		v, n := protowire.ConsumeVarint(b)
		if n < 0 {
			return dq, fmt.Errorf("quads: malformed varint")
		}
		b = b[n:]
		switch {
		case num == 1:
			dq.Opcode = Opcode(int64(v))
		case num == 2:
			dq.FilePos.Line = int(protowire.DecodeZigZag(v))
		case num == 3:
			dq.FilePos.Column = int(protowire.DecodeZigZag(v))
		case num >= 10 && num < 16:
			i := (int(num) - 10) / 2
			if (int(num)-10)%2 == 0 {
				dq.Operand[i].Kind = OperandKind(v)
			} else {
				switch dq.Operand[i].Kind {
				case OperandInteger:
					dq.Operand[i].Int = int32(protowire.DecodeZigZag(v))
				case OperandLabel:
					dq.Operand[i].Label = int(v)
				case OperandSymbol, OperandSlot, OperandClass, OperandProcess:
					dq.Operand[i].SymbolID = v
				}
			}
		}
	}
	return dq, nil
}

// FileReader reads back a stream written by FileSink.
type FileReader struct {
	r     *bufio.Reader
	RunID uuid.UUID
}

// OpenFileReader reads and validates the stream header.
func OpenFileReader(r io.Reader) (*FileReader, error) {
	br := bufio.NewReader(r)
	var magic [4]byte
	if _, err := io.ReadFull(br, magic[:]); err != nil {
		return nil, fmt.Errorf("quads: reading magic: %w", err)
	}
	if magic != fileMagic {
		return nil, fmt.Errorf("quads: not a quadruple stream")
	}
	version, err := readVarint(br)
	if err != nil {
		return nil, err
	}
	if version != fileVersion {
		return nil, fmt.Errorf("quads: unsupported stream version %d", version)
	}
	idLen, err := readVarint(br)
	if err != nil {
		return nil, err
	}
	// A run id is always a marshalled UUID (16 bytes); reject anything
	// else outright rather than trusting an attacker/corruption-
	// controlled length into an allocation.
	if idLen != 16 {
		return nil, fmt.Errorf("quads: invalid run id length %d", idLen)
	}
	idBytes := make([]byte, idLen)
	if _, err := io.ReadFull(br, idBytes); err != nil {
		return nil, err
	}
	runID, err := uuid.FromBytes(idBytes)
	if err != nil {
		return nil, err
	}
	return &FileReader{r: br, RunID: runID}, nil
}

// Next returns the next decoded quadruple, or io.EOF once the
// sentinel record has been consumed.
func (fr *FileReader) Next() (DecodedQuad, error) {
	n, err := readVarint(fr.r)
	if err != nil {
		return DecodedQuad{}, err
	}
	if n > maxRecordLen {
		return DecodedQuad{}, fmt.Errorf("quads: record length %d exceeds maximum", n)
	}
	rec := make([]byte, n)
	if _, err := io.ReadFull(fr.r, rec); err != nil {
		return DecodedQuad{}, err
	}
	dq, err := decodeQuad(rec)
	if err != nil {
		return DecodedQuad{}, err
	}
	if dq.Opcode == sentinelOpcode {
		return dq, io.EOF
	}
	return dq, nil
}

func readVarint(r *bufio.Reader) (uint64, error) {
	var buf []byte
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		buf = append(buf, b)
		if b&0x80 == 0 {
			break
		}
	}
	v, n := protowire.ConsumeVarint(buf)
	if n < 0 {
		return 0, fmt.Errorf("quads: malformed varint header field")
	}
	return v, nil
}
