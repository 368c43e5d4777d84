package ecs

import "testing"

type position struct{ x, y float32 }
type velocity struct{ dx float32 }
type tag struct{}

func TestAddGetRemove(t *testing.T) {
	w := NewWorld()
	e := w.Spawn()

	if !Add(w, e, position{1, 2}) {
		t.Fatal("Add on live entity returned false")
	}
	p, ok := Get[position](w, e)
	if !ok || *p != (position{1, 2}) {
		t.Fatalf("Get returned %v, %v", p, ok)
	}

	p.x = 5
	if p2, _ := Get[position](w, e); p2.x != 5 {
		t.Error("Get should return a pointer into the store")
	}

	Add(w, e, position{7, 8})
	if Count[position](w) != 1 {
		t.Errorf("replacing a component should not duplicate it, count %d", Count[position](w))
	}

	if !Remove[position](w, e) {
		t.Error("Remove returned false for present component")
	}
	if Has[position](w, e) {
		t.Error("component still present after Remove")
	}
	if Remove[position](w, e) {
		t.Error("second Remove should return false")
	}
}

func TestDestroyInvalidatesEntity(t *testing.T) {
	w := NewWorld()
	e := w.Spawn()
	Add(w, e, position{1, 1})
	Add(w, e, velocity{2})

	if !w.Destroy(e) {
		t.Fatal("Destroy returned false")
	}
	if w.Alive(e) {
		t.Error("destroyed entity still alive")
	}
	if Count[position](w) != 0 || Count[velocity](w) != 0 {
		t.Error("components survived Destroy")
	}
	if Add(w, e, position{}) {
		t.Error("Add on destroyed entity should fail")
	}

	// The recycled slot must not resurrect the stale id.
	e2 := w.Spawn()
	Add(w, e2, position{3, 3})
	if Has[position](w, e) {
		t.Error("stale entity matched recycled slot")
	}
}

func TestQuery2MatchesOnlyBoth(t *testing.T) {
	w := NewWorld()
	a := w.Spawn()
	Add(w, a, position{1, 0})

	b := w.Spawn()
	Add(w, b, position{2, 0})
	Add(w, b, velocity{1})

	c := w.Spawn()
	Add(w, c, position{3, 0})
	Add(w, c, velocity{2})
	Add(w, c, tag{})

	d := w.Spawn()
	Add(w, d, velocity{3})

	var got []Entity
	Query2(w, func(e Entity, p *position, v *velocity) bool {
		got = append(got, e)
		return true
	})

	want := []Entity{b, c}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("result %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestQuery3AndEarlyStop(t *testing.T) {
	w := NewWorld()
	for i := 0; i < 5; i++ {
		e := w.Spawn()
		Add(w, e, position{float32(i), 0})
		Add(w, e, velocity{float32(i)})
		if i%2 == 0 {
			Add(w, e, tag{})
		}
	}

	n := 0
	Query3(w, func(e Entity, p *position, v *velocity, _ *tag) bool {
		n++
		return true
	})
	if n != 3 {
		t.Errorf("expected 3 matches, got %d", n)
	}

	n = 0
	Query1(w, func(e Entity, p *position) bool {
		n++
		return n < 2
	})
	if n != 2 {
		t.Errorf("expected iteration to stop after 2, got %d", n)
	}
}

func TestSwapRemoveKeepsIndexConsistent(t *testing.T) {
	w := NewWorld()
	es := make([]Entity, 4)
	for i := range es {
		es[i] = w.Spawn()
		Add(w, es[i], position{float32(i), 0})
	}

	Remove[position](w, es[0])

	for i := 1; i < 4; i++ {
		p, ok := Get[position](w, es[i])
		if !ok || p.x != float32(i) {
			t.Errorf("entity %d: got %v, %v", i, p, ok)
		}
	}
}

func TestQueryOnEmptyWorld(t *testing.T) {
	w := NewWorld()
	Query2(w, func(Entity, *position, *velocity) bool {
		t.Error("callback on empty world")
		return true
	})
}
