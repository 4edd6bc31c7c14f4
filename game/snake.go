package game

// noSegment terminates a chain.
const noSegment = -1

type segment struct {
	p    Point
	next int
}

// Snake is an ordered body chain, head first, plus a pending-growth flag.
//
// Segments live in an arena slice and are linked by index. Segments cut off by
// TruncateAfter go to a free list and are reused by later growth, so a long
// game does not keep allocating.
type Snake struct {
	segs    []segment
	free    []int
	head    int
	tail    int
	length  int
	stomach bool
}

// NewSnake returns a one-segment snake at p with an empty stomach.
func NewSnake(p Point) *Snake {
	return &Snake{
		segs:   []segment{{p: p, next: noSegment}},
		head:   0,
		tail:   0,
		length: 1,
	}
}

// Head returns the head cell.
func (s *Snake) Head() Point {
	return s.segs[s.head].p
}

// Tail returns the last cell of the chain. For a one-segment snake this is the head.
func (s *Snake) Tail() Point {
	return s.segs[s.tail].p
}

// Len is the number of segments, head included.
func (s *Snake) Len() int {
	return s.length
}

// Stomach reports whether the next move will grow the snake.
func (s *Snake) Stomach() bool {
	return s.stomach
}

// Body returns the chain in head-to-tail order. With includeHead false the
// head is omitted, which is empty for a one-segment snake.
func (s *Snake) Body(includeHead bool) []Point {
	out := make([]Point, 0, s.length)
	i := s.head
	if !includeHead {
		i = s.segs[i].next
	}
	for ; i != noSegment; i = s.segs[i].next {
		out = append(out, s.segs[i].p)
	}
	return out
}

// HasTail reports whether the snake has any segment besides its head.
func (s *Snake) HasTail() bool {
	return s.length > 1
}

// FillStomach arms growth for the next move. Calling it again before that
// move has no further effect.
func (s *Snake) FillStomach() {
	s.stomach = true
}

// NextHead is the cell the head would occupy after moving in d.
func (s *Snake) NextHead(d Direction) Point {
	return s.Head().Step(d)
}

// MoveTo advances the head one cell in d. Every segment takes its
// predecessor's old cell. If the stomach was armed, a new segment is appended
// at the old tail cell and the stomach is emptied; otherwise the old tail cell
// is dropped.
func (s *Snake) MoveTo(d Direction) {
	grow := s.stomach
	s.stomach = false

	carry := s.NextHead(d)
	for i := s.head; i != noSegment; i = s.segs[i].next {
		carry, s.segs[i].p = s.segs[i].p, carry
	}
	if grow {
		n := s.alloc(carry)
		s.segs[s.tail].next = n
		s.tail = n
		s.length++
	}
}

// TruncateAfter scans the chain starting at the segment after the head. The
// first segment whose cell satisfies match is cut off together with
// everything behind it, and the segment before it becomes the new tail. The
// head itself is never tested. It reports whether anything was removed.
func (s *Snake) TruncateAfter(match func(Point) bool) bool {
	prev := s.head
	for i := s.segs[prev].next; i != noSegment; prev, i = i, s.segs[i].next {
		if !match(s.segs[i].p) {
			continue
		}
		s.segs[prev].next = noSegment
		s.tail = prev
		for j := i; j != noSegment; {
			next := s.segs[j].next
			s.release(j)
			s.length--
			j = next
		}
		return true
	}
	return false
}

// Contains reports whether any segment, head included, occupies p.
func (s *Snake) Contains(p Point) bool {
	for i := s.head; i != noSegment; i = s.segs[i].next {
		if s.segs[i].p == p {
			return true
		}
	}
	return false
}

// Clone performs a deep copy of the chain.
func (s *Snake) Clone() *Snake {
	if s == nil {
		return nil
	}
	out := &Snake{stomach: s.stomach}
	body := s.Body(true)
	out.segs = make([]segment, len(body))
	for i, p := range body {
		out.segs[i] = segment{p: p, next: i + 1}
	}
	out.segs[len(body)-1].next = noSegment
	out.head = 0
	out.tail = len(body) - 1
	out.length = len(body)
	return out
}

func (s *Snake) alloc(p Point) int {
	if n := len(s.free); n > 0 {
		i := s.free[n-1]
		s.free = s.free[:n-1]
		s.segs[i] = segment{p: p, next: noSegment}
		return i
	}
	s.segs = append(s.segs, segment{p: p, next: noSegment})
	return len(s.segs) - 1
}

func (s *Snake) release(i int) {
	s.segs[i].next = noSegment
	s.free = append(s.free, i)
}
