package piece

// Source is the random source used to draw shapes. *rand.Rand from
// math/rand/v2 satisfies it.
type Source interface {
	IntN(n int) int
}

// Generator yields the shape that enters the queue next.
type Generator interface {
	Next() Shape
}

// Random returns a uniformly chosen catalog shape.
func Random(src Source) Shape {
	return Catalog[src.IntN(KindCount)]
}

// Uniform draws every shape independently with equal probability.
type Uniform struct {
	Source Source
}

// Next draws a shape from the source.
func (u *Uniform) Next() Shape {
	return Random(u.Source)
}

// Bag deals all seven shapes in shuffled order before reshuffling.
type Bag struct {
	Source Source
	queue  []Kind
}

// Next deals the next shape of the current bag, refilling when empty.
func (b *Bag) Next() Shape {
	if len(b.queue) == 0 {
		b.refill()
	}
	k := b.queue[0]
	b.queue = b.queue[1:]
	return Catalog[k]
}

func (b *Bag) refill() {
	bag := []Kind{I, J, L, O, S, T, Z}
	for i := len(bag) - 1; i > 0; i-- {
		j := b.Source.IntN(i + 1)
		bag[i], bag[j] = bag[j], bag[i]
	}
	b.queue = bag
}

// Sequence repeats a fixed list of kinds. Used for replays and tests.
type Sequence struct {
	kinds []Kind
	pos   int
}

// NewSequence returns a generator cycling through kinds.
func NewSequence(kinds ...Kind) *Sequence {
	if len(kinds) == 0 {
		panic("piece: empty sequence")
	}
	return &Sequence{kinds: kinds}
}

// Next returns the next kind in the cycle.
func (s *Sequence) Next() Shape {
	k := s.kinds[s.pos]
	s.pos = (s.pos + 1) % len(s.kinds)
	return Of(k)
}
