package dict

import "testing"

func TestSketchNoFalseNegatives(t *testing.T) {
	d := mustNew(t, 8, 1)
	var keys []uint64
	for _, k := range []uint64{1, 17, 42, 99, 1000} {
		var err error
		d, err = d.Insert(key8(k), val1(byte(k)))
		if err != nil {
			t.Fatal(err)
		}
		keys = append(keys, k)
	}

	sk := NewSketchFromDict(d, 0.01)
	for _, k := range keys {
		if !sk.MayContain(key8(k)) {
			t.Fatalf("MayContain(%d) = false, want true (false negative)", k)
		}
	}
}

func TestSketchFromEmptyDict(t *testing.T) {
	d := mustNew(t, 8, 1)
	sk := NewSketchFromDict(d, 0.01)
	// No assertion on MayContain for arbitrary keys (false positives are
	// allowed by construction); this only checks building from empty does
	// not panic.
	_ = sk.MayContain(key8(1))
}
