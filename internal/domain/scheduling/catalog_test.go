package scheduling

import (
	"reflect"
	"testing"

	"github.com/shopspring/decimal"
)

func TestMinutesToSlots(t *testing.T) {
	cases := []struct {
		minutes, interval, want int
	}{
		{0, 30, 1},
		{-10, 30, 1},
		{30, 30, 1},
		{31, 30, 2},
		{60, 30, 2},
		{61, 30, 3},
		{50, 30, 2},
		{80, 30, 3},
		{15, 15, 1},
		{40, 0, 1},
	}
	for _, tc := range cases {
		if got := MinutesToSlots(tc.minutes, tc.interval); got != tc.want {
			t.Errorf("MinutesToSlots(%d, %d) = %d, want %d", tc.minutes, tc.interval, got, tc.want)
		}
	}
}

func TestCalculateSkipsUnknownKeys(t *testing.T) {
	cat := DefaultCatalog()

	sel := Calculate([]string{"corte", "nao_existe", "barba"}, cat)

	if !reflect.DeepEqual(sel.Keys, []string{"corte", "barba"}) {
		t.Fatalf("keys = %v", sel.Keys)
	}
	if sel.TotalMinutes != 80 {
		t.Fatalf("total minutes = %d", sel.TotalMinutes)
	}
	if !sel.TotalPrice.Equal(decimal.NewFromInt(70)) {
		t.Fatalf("total price = %s", sel.TotalPrice)
	}
	if !reflect.DeepEqual(sel.Labels, []string{"Corte", "Barba"}) {
		t.Fatalf("labels = %v", sel.Labels)
	}
}

func TestCalculateEmpty(t *testing.T) {
	sel := Calculate(nil, DefaultCatalog())
	if !sel.Empty() || sel.TotalMinutes != 0 || !sel.TotalPrice.IsZero() {
		t.Fatalf("expected empty selection, got %+v", sel)
	}
}

func TestNormalizeServices(t *testing.T) {
	cat := DefaultCatalog()

	got := NormalizeServices([]string{" barba", "corte", "", "barba", "xpto", "corte "}, cat)
	want := []string{"barba", "corte"}

	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestResolveCatalogPrecedence(t *testing.T) {
	fallback := DefaultCatalog()

	cat, src := ResolveCatalog(nil, fallback)
	if src != CatalogFromDefault || len(cat) != len(fallback) {
		t.Fatalf("empty tenant should fall back, got %s (%d)", src, len(cat))
	}

	tenant := []Service{
		{Key: "degrade", Label: "Degradê", Price: decimal.NewFromInt(50), DurationMin: 45},
		{Key: "invalido", Label: "Sem duração", DurationMin: 0},
	}
	cat, src = ResolveCatalog(tenant, fallback)
	if src != CatalogFromTenant {
		t.Fatalf("expected tenant catalog, got %s", src)
	}
	if _, ok := cat.Lookup("corte"); ok {
		t.Fatalf("tenant catalog must not be merged with the default one")
	}
	if _, ok := cat.Lookup("invalido"); ok {
		t.Fatalf("services without duration must be dropped")
	}
	if s, ok := cat.Lookup("degrade"); !ok || s.DurationMin != 45 {
		t.Fatalf("lookup degrade = %+v,%v", s, ok)
	}
}
