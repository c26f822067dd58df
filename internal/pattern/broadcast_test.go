package pattern

import "testing"

func fromDims(t *testing.T, dims []int) Pattern {
	t.Helper()
	p, err := FromShape(dims)
	if err != nil {
		t.Fatalf("FromShape(%v): %v", dims, err)
	}
	return p
}

func TestBroadcastable(t *testing.T) {
	tests := []struct {
		name         string
		a, b         []int
		bNonReducing bool
		want         bool
	}{
		{"equal dims", []int{2, 3}, []int{2, 3}, false, true},
		{"pad shorter", []int{2, 8, 3}, []int{8, 1}, false, true},
		{"pad shorter non-reducing", []int{2, 8, 3}, []int{8, 1}, true, false},
		{"one vs many", []int{3, 1}, []int{1, 4}, false, true},
		{"mismatch", []int{5}, []int{3}, false, false},
		{"scalar vs anything", nil, []int{7, 2, 9}, false, true},
		{"non-reducing ok", []int{1, 4}, []int{3, 4}, true, true},
		{"non-reducing reduced", []int{3, 4}, []int{1, 4}, true, false},
	}
	for _, tt := range tests {
		a, b := fromDims(t, tt.a), fromDims(t, tt.b)
		if got := Broadcastable(a, b, tt.bNonReducing); got != tt.want {
			t.Errorf("%s: Broadcastable(%v, %v, %v) = %v, want %v",
				tt.name, tt.a, tt.b, tt.bNonReducing, got, tt.want)
		}
	}
}

func TestBroadcastableSymmetric(t *testing.T) {
	shapes := [][]int{nil, {1}, {3}, {3, 1}, {1, 4}, {2, 8, 3}, {8, 1}, {5}}
	for _, da := range shapes {
		for _, db := range shapes {
			a, b := fromDims(t, da), fromDims(t, db)
			if Broadcastable(a, b, false) != Broadcastable(b, a, false) {
				t.Errorf("Broadcastable not symmetric for %v, %v", da, db)
			}
		}
	}
}

func TestBroadcastable3(t *testing.T) {
	a := fromDims(t, []int{3, 1})
	b := fromDims(t, []int{1, 4})
	c := fromDims(t, []int{3, 4})
	if !Broadcastable3(a, b, c, true) {
		t.Error("[3,1], [1,4] -> [3,4] should be broadcastable with c non-reducing")
	}

	small := fromDims(t, []int{1, 1})
	if Broadcastable3(a, b, small, true) {
		t.Error("non-reducing c with dim 1 under peers > 1 must fail")
	}
	if !Broadcastable3(a, b, small, false) {
		t.Error("same dims without non-reducing must pass")
	}

	bad := fromDims(t, []int{5})
	if Broadcastable3(a, b, bad, false) {
		t.Error("[5] is not broadcastable against [1,4]")
	}
}

func TestSameDim(t *testing.T) {
	tests := []struct {
		a, b []int
		want bool
	}{
		{[]int{2, 3}, []int{2, 3}, true},
		{[]int{2, 3}, []int{1, 2, 3}, true}, // equal after left padding
		{[]int{3, 1}, []int{1, 4}, false},
		{[]int{2, 8, 3}, []int{8, 1}, false},
		{nil, []int{1, 1}, true},
	}
	for _, tt := range tests {
		a, b := fromDims(t, tt.a), fromDims(t, tt.b)
		if got := SameDim(a, b); got != tt.want {
			t.Errorf("SameDim(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestSameDimImpliesBroadcastable(t *testing.T) {
	shapes := [][]int{nil, {1}, {3}, {3, 1}, {1, 3}, {2, 8, 3}, {1, 2, 8, 3}}
	for _, da := range shapes {
		for _, db := range shapes {
			a, b := fromDims(t, da), fromDims(t, db)
			if SameDim(a, b) && !Broadcastable(a, b, false) {
				t.Errorf("SameDim(%v, %v) but not Broadcastable", da, db)
			}
		}
	}
}

func TestBroadcastShape(t *testing.T) {
	got, err := BroadcastShape([]int{3, 1}, []int{1, 4})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != 3 || got[1] != 4 {
		t.Errorf("BroadcastShape([3,1], [1,4]) = %v, want [3 4]", got)
	}

	got, err = BroadcastShape([]int{2, 8, 3}, []int{8, 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 || got[0] != 2 || got[1] != 8 || got[2] != 3 {
		t.Errorf("BroadcastShape([2,8,3], [8,1]) = %v, want [2 8 3]", got)
	}

	if _, err = BroadcastShape([]int{5}, []int{3}); err == nil {
		t.Error("BroadcastShape([5], [3]) should fail")
	}
}
