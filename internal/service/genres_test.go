package service

import "testing"

func TestGenresFromIDs(t *testing.T) {
	cases := []struct {
		ids  []int
		want string
	}{
		{[]int{28, 99999, 12}, "Ação, Aventura"},
		{[]int{878}, "Ficção Científica"},
		{nil, ""},
		{[]int{1, 2}, ""},
	}
	for _, c := range cases {
		if got := GenresFromIDs(c.ids); got != c.want {
			t.Fatalf("GenresFromIDs(%v) = %q, want %q", c.ids, got, c.want)
		}
	}
}

func TestGenreNameUnknown(t *testing.T) {
	if got := GenreName(-1); got != "" {
		t.Fatalf("GenreName(-1) = %q, want empty", got)
	}
	if got := GenreName(37); got != "Faroeste" {
		t.Fatalf("GenreName(37) = %q", got)
	}
}
