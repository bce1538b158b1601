package pagination

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   Params
		want Params
	}{
		{"zero values", Params{}, Params{Page: 1, PerPage: DefaultPerPage}},
		{"negative page", Params{Page: -3, PerPage: 10}, Params{Page: 1, PerPage: 10}},
		{"over max", Params{Page: 2, PerPage: 500}, Params{Page: 2, PerPage: MaxPerPage}},
		{"in range", Params{Page: 4, PerPage: 50}, Params{Page: 4, PerPage: 50}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.in.Normalize(); got != tc.want {
				t.Fatalf("got %+v want %+v", got, tc.want)
			}
		})
	}
}

func TestOffset(t *testing.T) {
	if got := (Params{Page: 1, PerPage: 25}).Offset(); got != 0 {
		t.Fatalf("first page offset %d", got)
	}
	if got := (Params{Page: 3, PerPage: 10}).Offset(); got != 20 {
		t.Fatalf("third page offset %d", got)
	}
	if got := (Params{}).Offset(); got != 0 {
		t.Fatalf("zero params offset %d", got)
	}
}

func TestNewMeta(t *testing.T) {
	meta := NewMeta(Params{Page: 2, PerPage: 10}, 35)
	if meta.CurrentPage != 2 || meta.PerPage != 10 || meta.Total != 35 || meta.LastPage != 4 {
		t.Fatalf("unexpected meta %+v", meta)
	}

	empty := NewMeta(Params{}, 0)
	if empty.LastPage != 1 {
		t.Fatalf("empty result should report one page, got %d", empty.LastPage)
	}
}
