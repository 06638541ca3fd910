package dict

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// Scenario 1 from the spec: overwrite.
func TestInsertOverwrite(t *testing.T) {
	d := mustNew(t, 8, 1)
	d, err := d.Insert(key8(2), val1(0x02))
	if err != nil {
		t.Fatal(err)
	}
	d, err = d.Insert(key8(2), val1(0x04))
	if err != nil {
		t.Fatal(err)
	}
	v, ok := d.Find(key8(2))
	if !ok || v[0] != 0x04 {
		t.Fatalf("Find(2) = %v, %v; want 0x04, true", v, ok)
	}
	if d.NumKeys() != 1 {
		t.Fatalf("NumKeys() = %d, want 1", d.NumKeys())
	}
}

// Scenario 2 from the spec: ordered build via repeated Insert into an empty Dict.
func TestInsertBuildsAscendingOrder(t *testing.T) {
	d := mustNew(t, 8, 1)
	for _, kv := range []struct {
		k uint64
		v byte
	}{{2, 2}, {4, 4}, {1, 1}, {3, 3}} {
		var err error
		d, err = d.Insert(key8(kv.k), val1(kv.v))
		if err != nil {
			t.Fatal(err)
		}
	}

	want := ToBuf(
		Pair{key8(1), val1(1)},
		Pair{key8(2), val1(2)},
		Pair{key8(3), val1(3)},
		Pair{key8(4), val1(4)},
	)
	if !bytes.Equal(d.buf, want) {
		t.Fatalf("buffer mismatch:\ngot  % x\nwant % x", d.buf, want)
	}
}

// ToBuf concatenates pairs into a packed buffer, for building expected output in tests.
func ToBuf(pairs ...Pair) []byte {
	var out []byte
	for _, p := range pairs {
		out = append(out, p.Key...)
		out = append(out, p.Value...)
	}
	return out
}

func TestFindMissingKey(t *testing.T) {
	d := mustNew(t, 8, 1)
	d, _ = d.Insert(key8(5), val1(5))
	if _, ok := d.Find(key8(6)); ok {
		t.Fatal("expected Find to report absence")
	}
}

func TestFindRejectsWrongWidthKey(t *testing.T) {
	d := mustNew(t, 8, 1)
	if _, ok := d.Find([]byte{1, 2, 3}); ok {
		t.Fatal("expected Find to report absence for malformed key")
	}
}

func TestFindMany(t *testing.T) {
	d := mustNew(t, 8, 1)
	d, _ = d.Insert(key8(1), val1(10))
	d, _ = d.Insert(key8(2), val1(20))

	got := d.FindMany([][]byte{key8(2), key8(3), key8(1)})
	want := []Result{
		{Value: val1(20), OK: true},
		{Value: nil, OK: false},
		{Value: val1(10), OK: true},
	}
	for i := range want {
		if got[i].OK != want[i].OK || !bytes.Equal(got[i].Value, want[i].Value) {
			t.Fatalf("FindMany()[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestUpdateIdentityFastPathSharesBuffer(t *testing.T) {
	d := mustNew(t, 8, 1)
	d, _ = d.Insert(key8(1), val1(9))

	same, err := d.Update(key8(1), val1(0), func(old []byte) []byte { return old })
	if err != nil {
		t.Fatal(err)
	}
	if &same.buf[0] != &d.buf[0] {
		t.Fatal("Update with an identity function should not allocate")
	}
}

func TestUpdateInsertsWhenAbsent(t *testing.T) {
	d := mustNew(t, 8, 1)
	d, err := d.Update(key8(1), val1(7), func(old []byte) []byte { return old })
	if err != nil {
		t.Fatal(err)
	}
	v, ok := d.Find(key8(1))
	if !ok || v[0] != 7 {
		t.Fatalf("Update on absent key: got %v, %v", v, ok)
	}
}

func TestUpdateRejectsWrongWidthResult(t *testing.T) {
	d := mustNew(t, 8, 1)
	d, _ = d.Insert(key8(1), val1(1))
	_, err := d.Update(key8(1), val1(0), func(old []byte) []byte { return []byte{1, 2} })
	if err == nil {
		t.Fatal("expected error for wrong-width update result")
	}
}

func TestDeletePresentAndAbsent(t *testing.T) {
	d := mustNew(t, 8, 1)
	d, _ = d.Insert(key8(1), val1(1))
	d, _ = d.Insert(key8(2), val1(2))

	d2, err := d.Delete(key8(1))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := d2.Find(key8(1)); ok {
		t.Fatal("key 1 should be gone after Delete")
	}
	if _, ok := d2.Find(key8(2)); !ok {
		t.Fatal("key 2 should survive Delete")
	}

	if _, err := d.Delete(key8(99)); err == nil {
		t.Fatal("expected error deleting an absent key")
	}
}

func TestDeleteInverseOfInsertWhenAbsent(t *testing.T) {
	d := mustNew(t, 8, 1)
	d, _ = d.Insert(key8(1), val1(1))

	inserted, _ := d.Insert(key8(2), val1(2))
	roundTrip, err := inserted.Delete(key8(2))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(d.ToOrdDict(), roundTrip.ToOrdDict()); diff != "" {
		t.Fatalf("delete(insert(d,k,v),k) != d (-want +got):\n%s", diff)
	}
}

func TestCAS(t *testing.T) {
	d := mustNew(t, 8, 1)

	d2, err := d.CAS(key8(1), nil, false, val1(1))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := d2.CAS(key8(1), val1(9), true, val1(2)); err == nil {
		t.Fatal("expected CAS to fail on stale expected value")
	}

	d3, err := d2.CAS(key8(1), val1(1), true, val1(2))
	if err != nil {
		t.Fatal(err)
	}
	v, _ := d3.Find(key8(1))
	if v[0] != 2 {
		t.Fatalf("CAS did not apply: got %v", v)
	}
}

func TestAppendRejectsNonIncreasingKey(t *testing.T) {
	d := mustNew(t, 8, 1)
	d, err := d.Append(key8(5), val1(5))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := d.Append(key8(5), val1(6)); err == nil {
		t.Fatal("expected error appending equal key")
	}
	if _, err := d.Append(key8(3), val1(6)); err == nil {
		t.Fatal("expected error appending smaller key")
	}
	d, err = d.Append(key8(6), val1(6))
	if err != nil {
		t.Fatal(err)
	}
	if d.NumKeys() != 2 {
		t.Fatalf("NumKeys() = %d, want 2", d.NumKeys())
	}
}

func TestFirstLastEmpty(t *testing.T) {
	d := mustNew(t, 8, 1)
	if _, _, ok := d.First(); ok {
		t.Fatal("First on empty dict should report absence")
	}
	if _, _, ok := d.Last(); ok {
		t.Fatal("Last on empty dict should report absence")
	}
}

func TestFirstLast(t *testing.T) {
	d := mustNew(t, 8, 1)
	d, _ = d.Insert(key8(5), val1(5))
	d, _ = d.Insert(key8(1), val1(1))
	d, _ = d.Insert(key8(9), val1(9))

	k, v, ok := d.First()
	if !ok || !bytes.Equal(k, key8(1)) || v[0] != 1 {
		t.Fatalf("First() = %v %v %v", k, v, ok)
	}
	k, v, ok = d.Last()
	if !ok || !bytes.Equal(k, key8(9)) || v[0] != 9 {
		t.Fatalf("Last() = %v %v %v", k, v, ok)
	}
}

// Scenario 3 from the spec: Next with keys {2,3}.
func TestNext(t *testing.T) {
	d := mustNew(t, 8, 1)
	d, _ = d.Insert(key8(2), val1(2))
	d, _ = d.Insert(key8(3), val1(3))

	cases := []struct {
		query   uint64
		wantKey uint64
		wantOK  bool
	}{
		{0, 2, true},
		{1, 2, true},
		{2, 3, true},
		{3, 0, false},
	}
	for _, tc := range cases {
		k, _, ok := d.Next(key8(tc.query))
		if ok != tc.wantOK {
			t.Fatalf("Next(%d) ok = %v, want %v", tc.query, ok, tc.wantOK)
		}
		if ok && !bytes.Equal(k, key8(tc.wantKey)) {
			t.Fatalf("Next(%d) key = %x, want %d", tc.query, k, tc.wantKey)
		}
	}
}

// Scenario 4 from the spec: NextNth with keys {2,3}.
func TestNextNth(t *testing.T) {
	d := mustNew(t, 8, 1)
	d, _ = d.Insert(key8(2), val1(2))
	d, _ = d.Insert(key8(3), val1(3))

	cases := []struct {
		query   uint64
		n       int
		wantKey uint64
		wantOK  bool
	}{
		{0, 1, 2, true},
		{0, 2, 3, true},
		{2, 1, 3, true},
		{2, 2, 0, false},
	}
	for _, tc := range cases {
		k, _, ok := d.NextNth(key8(tc.query), tc.n)
		if ok != tc.wantOK {
			t.Fatalf("NextNth(%d,%d) ok = %v, want %v", tc.query, tc.n, ok, tc.wantOK)
		}
		if ok && !bytes.Equal(k, key8(tc.wantKey)) {
			t.Fatalf("NextNth(%d,%d) key = %x, want %d", tc.query, tc.n, k, tc.wantKey)
		}
	}
}

func TestIncrementKeyCarries(t *testing.T) {
	in := []byte{0x00, 0xff, 0xff}
	got := incrementKey(in)
	want := []byte{0x01, 0x00, 0x00}
	if !bytes.Equal(got, want) {
		t.Fatalf("incrementKey(% x) = % x, want % x", in, got, want)
	}
	if !bytes.Equal(in, []byte{0x00, 0xff, 0xff}) {
		t.Fatal("incrementKey must not mutate its input")
	}
}
