package cfg

// Points assigns every instruction and terminator of a function a dense
// PointID in block order. All flow-sensitive state in the verifier is keyed
// by PointID, and diagnostics sort by it, so the numbering doubles as the
// deterministic "CFG point order" of the diagnostic contract.
type Points struct {
	blockStart []PointID
	blockLen   []int // instruction count per block (terminator excluded)
	total      int
}

// BuildPoints numbers all points of f.
func BuildPoints(f *Func) *Points {
	p := &Points{
		blockStart: make([]PointID, len(f.Blocks)),
		blockLen:   make([]int, len(f.Blocks)),
	}
	next := 0
	for i := range f.Blocks {
		p.blockStart[i] = PointID(next)
		p.blockLen[i] = len(f.Blocks[i].Instrs)
		next += len(f.Blocks[i].Instrs) + 1 // +1 for the terminator
	}
	p.total = next
	return p
}

// Total counts all points of the function.
func (p *Points) Total() int { return p.total }

// Instr returns the point of instruction idx in block b.
func (p *Points) Instr(b BlockID, idx int) PointID {
	return p.blockStart[b] + PointID(idx)
}

// Term returns the point of block b's terminator.
func (p *Points) Term(b BlockID) PointID {
	return p.blockStart[b] + PointID(p.blockLen[b])
}

// First returns the first point of block b.
func (p *Points) First(b BlockID) PointID {
	return p.blockStart[b]
}

// Loc resolves a point back to (block, instruction index). isTerm reports
// whether the point is the block's terminator.
func (p *Points) Loc(pt PointID) (b BlockID, idx int, isTerm bool) {
	// Blocks are numbered in order, so a linear scan from the back finds
	// the covering block; functions are small enough that this is fine.
	for i := len(p.blockStart) - 1; i >= 0; i-- {
		if pt >= p.blockStart[i] {
			off := int(pt - p.blockStart[i])
			return BlockID(i), off, off == p.blockLen[i]
		}
	}
	return NoBlockID, 0, false
}

// Preds computes the predecessor lists of every block.
func Preds(f *Func) [][]BlockID {
	preds := make([][]BlockID, len(f.Blocks))
	for i := range f.Blocks {
		for _, succ := range f.Blocks[i].Term.Successors(nil) {
			preds[succ] = append(preds[succ], BlockID(i))
		}
	}
	return preds
}

// ReversePostOrder returns the blocks reachable from entry in reverse
// post-order, the canonical visit order for forward dataflow.
func ReversePostOrder(f *Func) []BlockID {
	seen := make([]bool, len(f.Blocks))
	post := make([]BlockID, 0, len(f.Blocks))

	var visit func(b BlockID)
	visit = func(b BlockID) {
		if b == NoBlockID || int(b) >= len(f.Blocks) || seen[b] {
			return
		}
		seen[b] = true
		for _, succ := range f.Blocks[b].Term.Successors(nil) {
			visit(succ)
		}
		post = append(post, b)
	}
	visit(f.Entry)

	for i, j := 0, len(post)-1; i < j; i, j = i+1, j-1 {
		post[i], post[j] = post[j], post[i]
	}
	return post
}

// ReachableFrom marks every point reachable from start, start included.
// Used to restrict a borrow's region to points downstream of its creation.
func ReachableFrom(f *Func, p *Points, start PointID) []bool {
	out := make([]bool, p.Total())
	b, _, _ := p.Loc(start)
	if b == NoBlockID {
		return out
	}

	// Rest of the starting block.
	for pt := start; pt <= p.Term(b); pt++ {
		out[pt] = true
	}

	// Then every full block reachable through successors.
	work := f.Blocks[b].Term.Successors(nil)
	visited := make([]bool, len(f.Blocks))
	for len(work) > 0 {
		cur := work[len(work)-1]
		work = work[:len(work)-1]
		if cur == NoBlockID || visited[cur] {
			continue
		}
		visited[cur] = true
		for pt := p.First(cur); pt <= p.Term(cur); pt++ {
			out[pt] = true
		}
		work = append(work, f.Blocks[cur].Term.Successors(nil)...)
	}
	return out
}
