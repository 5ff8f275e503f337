package model

// Item is one scalar data name/value pair owned directly by a
// Container (spec 3: "a distinguished scalar loop per container holds
// all directly-named scalar items").
type Item struct {
	Name     string
	NormName string
	Value    Value
}

// Loop is an ordered list of column names plus an ordered list of
// packets, each a row with exactly the loop's column set as its
// domain (spec 3).
type Loop struct {
	Names     []string
	NormNames []string
	Packets   []Packet
}

// Packet is one row of a Loop, aligned positionally with Loop.Names.
type Packet struct {
	Values []Value
}

// Get returns the value of column normName in this packet, given the
// owning loop (for the name-to-index lookup).
func (p Packet) Get(l *Loop, normName string) (Value, bool) {
	for i, n := range l.NormNames {
		if n == normName {
			if i < len(p.Values) {
				return p.Values[i], true
			}
			return Value{}, false
		}
	}
	return Value{}, false
}

// IndexOf returns the column index of normName in l, or -1.
func (l *Loop) IndexOf(normName string) int {
	for i, n := range l.NormNames {
		if n == normName {
			return i
		}
	}
	return -1
}

// Container is either a data block or a save frame (spec 3). Blocks
// additionally own an insertion-ordered set of save frames; frames
// may themselves nest up to the configured depth.
type Container struct {
	Code     string
	NormCode string
	IsFrame  bool

	Items []Item
	Loops []*Loop
	// Frames holds save frames nested directly inside this container
	// (populated on blocks, and on frames when max_frame_depth > 1).
	Frames []*Container
}

// FindItem looks up a scalar item by its normalized data name.
func (c *Container) FindItem(normName string) (*Item, bool) {
	for i := range c.Items {
		if c.Items[i].NormName == normName {
			return &c.Items[i], true
		}
	}
	return nil, false
}

// FindFrame looks up a directly nested save frame by normalized code.
func (c *Container) FindFrame(normCode string) (*Container, bool) {
	for _, f := range c.Frames {
		if f.NormCode == normCode {
			return f, true
		}
	}
	return nil, false
}

// Document is an insertion-ordered set of data blocks keyed by
// normalized block code (spec 3).
type Document struct {
	Blocks []*Container
}

// FindBlock looks up a data block by normalized code.
func (d *Document) FindBlock(normCode string) (*Container, bool) {
	for _, b := range d.Blocks {
		if b.NormCode == normCode {
			return b, true
		}
	}
	return nil, false
}

// AddBlock appends a new, empty data block and returns it. The caller
// is responsible for enforcing code uniqueness (cif.DocumentBuilder
// does this by reopening the existing block on DUP_BLOCKCODE).
func (d *Document) AddBlock(code string) *Container {
	b := &Container{Code: code, NormCode: NormalizeCode(code)}
	d.Blocks = append(d.Blocks, b)
	return b
}
