package dict

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// Deterministic randomness so the randomized-level skip list is
// repeatable across runs.
func init() {
	rand.Seed(1)
}

func TestBuilderOrdersRegardlessOfPutOrder(t *testing.T) {
	b := NewBuilder(8, 1)
	for _, k := range []uint64{5, 1, 9, 3, 7} {
		if err := b.Put(key8(k), val1(byte(k))); err != nil {
			t.Fatal(err)
		}
	}

	got := b.Pairs()
	want := []Pair{
		{key8(1), val1(1)},
		{key8(3), val1(3)},
		{key8(5), val1(5)},
		{key8(7), val1(7)},
		{key8(9), val1(9)},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Builder.Pairs() mismatch (-want +got):\n%s", diff)
	}
}

func TestBuilderPutOverwrites(t *testing.T) {
	b := NewBuilder(8, 1)
	if err := b.Put(key8(1), val1(1)); err != nil {
		t.Fatal(err)
	}
	if err := b.Put(key8(1), val1(2)); err != nil {
		t.Fatal(err)
	}
	if b.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", b.Len())
	}
	got := b.Pairs()
	if got[0].Value[0] != 2 {
		t.Fatalf("Pairs()[0].Value = %v, want [2]", got[0].Value)
	}
}

func TestBuilderRejectsWrongWidth(t *testing.T) {
	b := NewBuilder(8, 1)
	if err := b.Put([]byte{1, 2}, val1(1)); err == nil {
		t.Fatal("expected error for wrong-width key")
	}
	if err := b.Put(key8(1), []byte{1, 2}); err == nil {
		t.Fatal("expected error for wrong-width value")
	}
}

func TestBuilderFeedsFromOrdDict(t *testing.T) {
	b := NewBuilder(8, 1)
	for _, k := range []uint64{3, 1, 2} {
		if err := b.Put(key8(k), val1(byte(k))); err != nil {
			t.Fatal(err)
		}
	}
	d, err := FromOrdDict(8, 1, b.Pairs())
	if err != nil {
		t.Fatal(err)
	}
	if d.NumKeys() != 3 {
		t.Fatalf("NumKeys() = %d, want 3", d.NumKeys())
	}
	v, ok := d.Find(key8(2))
	if !ok || v[0] != 2 {
		t.Fatalf("Find(2) = %v, %v", v, ok)
	}
}
