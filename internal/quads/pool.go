package quads

// Pool allocates and recycles Quad nodes the way quads.c's
// get_quad/free_quad pair does: a free list reused across a whole
// compilation rather than returning memory to the allocator between
// procedures.
type Pool struct {
	free []*Quad
}

// NewPool returns an empty quad pool.
func NewPool() *Pool {
	return &Pool{}
}

// Get returns a zeroed quad, reusing one from the free list when
// available.
func (p *Pool) Get() *Quad {
	if l := len(p.free); l > 0 {
		q := p.free[l-1]
		p.free = p.free[:l-1]
		*q = Quad{}
		return q
	}
	return &Quad{}
}

// Put returns discard to the free list for reissue.
func (p *Pool) Put(discard *Quad) {
	discard.Next = nil
	p.free = append(p.free, discard)
}

// KillList frees every quad reachable from head back to the pool, the
// complement to building up a list with repeated Get/append — used
// once a procedure's quadruples have been serialised or abandoned.
func (p *Pool) KillList(head *Quad) {
	for q := head; q != nil; {
		next := q.Next
		p.Put(q)
		q = next
	}
}
