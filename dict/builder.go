package dict

import (
	"bytes"
	"math/rand"
)

const builderMaxLevel = 32

// Builder stages an unordered sequence of Put calls and yields them back in
// ascending key order, the input shape BulkInsert and FromOrdDict both
// require. It is a skip list over fixed-width byte keys — the same
// forward-pointer, randomized-level mechanics as a classic in-memory
// ordered map, specialized here to bytes.Compare keys instead of a
// generic ordered constraint, since Dict keys are opaque fixed-width
// slices rather than a comparable Go type.
//
// Builder holds no Dict invariants of its own beyond width-checking; it is
// a convenience for assembling sorted input, not a second representation
// of Dict's data.
type Builder struct {
	keySize   int
	valueSize int
	head      *builderNode
	levels    int
	size      int
}

type builderNode struct {
	key     []byte
	value   []byte
	forward []*builderNode
}

func newBuilderNode(key, value []byte, levels int) *builderNode {
	return &builderNode{key: key, value: value, forward: make([]*builderNode, levels+1)}
}

// NewBuilder returns an empty Builder for keys/values of the given widths.
func NewBuilder(keySize, valueSize int) *Builder {
	return &Builder{
		keySize:   keySize,
		valueSize: valueSize,
		head:      newBuilderNode(nil, nil, 0),
		levels:    -1,
	}
}

func builderRandomLevel() int {
	level := 0
	for rand.Int31()&1 == 0 && level < builderMaxLevel {
		level++
	}
	return level
}

func (b *Builder) adjustLevels(level int) {
	prev := b.head.forward
	b.head = newBuilderNode(nil, nil, level)
	b.levels = level
	copy(b.head.forward, prev)
}

// Put stages (key, value), overwriting any value already staged for key.
// Keys and values must match the widths the Builder was created with.
func (b *Builder) Put(key, value []byte) error {
	if len(key) != b.keySize {
		return badArgf("dict: builder key length %d, want %d", len(key), b.keySize)
	}
	if len(value) != b.valueSize {
		return badArgf("dict: builder value length %d, want %d", len(value), b.valueSize)
	}

	newLevel := builderRandomLevel()
	if newLevel > b.levels {
		b.adjustLevels(newLevel)
	}

	update := make([]*builderNode, b.levels+1)
	x := b.head
	for level := b.levels; level >= 0; level-- {
		for x.forward[level] != nil && bytes.Compare(x.forward[level].key, key) < 0 {
			x = x.forward[level]
		}
		update[level] = x
	}

	if x.forward[0] != nil && bytes.Equal(x.forward[0].key, key) {
		x.forward[0].value = append([]byte(nil), value...)
		return nil
	}

	keyCopy := append([]byte(nil), key...)
	valueCopy := append([]byte(nil), value...)
	node := newBuilderNode(keyCopy, valueCopy, newLevel)
	for level := 0; level <= newLevel; level++ {
		node.forward[level] = update[level].forward[level]
		update[level].forward[level] = node
	}
	b.size++
	return nil
}

// Len returns the number of distinct keys staged so far.
func (b *Builder) Len() int { return b.size }

// Pairs returns every staged pair in ascending key order, ready to hand to
// dict.FromOrdDict or a Dict's BulkInsert.
func (b *Builder) Pairs() []Pair {
	out := make([]Pair, 0, b.size)
	for x := b.head.forward[0]; x != nil; x = x.forward[0] {
		out = append(out, Pair{Key: x.key, Value: x.value})
	}
	return out
}
