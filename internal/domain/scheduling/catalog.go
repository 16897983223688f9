package scheduling

import (
	"strings"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// ===============================
// Service Catalog
// ===============================

type Service struct {
	Key         string          `json:"key"`
	Label       string          `json:"label"`
	Price       decimal.Decimal `json:"price"`
	DurationMin int             `json:"duration_min"`
}

// Catalog indexa serviços pela chave. Chave ausente significa "filtrado",
// nunca erro.
type Catalog map[string]Service

func NewCatalog(services ...Service) Catalog {
	c := make(Catalog, len(services))
	for _, s := range services {
		key := strings.TrimSpace(s.Key)
		if key == "" || s.DurationMin <= 0 {
			continue
		}
		s.Key = key
		c[key] = s
	}
	return c
}

func (c Catalog) Lookup(key string) (Service, bool) {
	s, ok := c[key]
	return s, ok
}

// CatalogSource indica de onde veio o catálogo resolvido.
type CatalogSource string

const (
	CatalogFromTenant  CatalogSource = "tenant"
	CatalogFromDefault CatalogSource = "default"
)

// DefaultCatalog é usado quando a empresa ainda não cadastrou serviços.
func DefaultCatalog() Catalog {
	return NewCatalog(
		Service{Key: "corte", Label: "Corte", Price: decimal.NewFromInt(40), DurationMin: 50},
		Service{Key: "barba", Label: "Barba", Price: decimal.NewFromInt(30), DurationMin: 30},
		Service{Key: "corte_barba", Label: "Corte + Barba", Price: decimal.NewFromInt(65), DurationMin: 80},
		Service{Key: "sobrancelha", Label: "Sobrancelha", Price: decimal.NewFromInt(15), DurationMin: 15},
		Service{Key: "pigmentacao", Label: "Pigmentação", Price: decimal.NewFromInt(35), DurationMin: 30},
	)
}

// ResolveCatalog aplica a precedência: serviços ativos da empresa primeiro,
// catálogo padrão quando a empresa não tem nenhum.
func ResolveCatalog(tenant []Service, fallback Catalog) (Catalog, CatalogSource) {
	own := NewCatalog(tenant...)
	if len(own) > 0 {
		return own, CatalogFromTenant
	}
	return fallback, CatalogFromDefault
}

// ===============================
// Duration Aggregator
// ===============================

type Selection struct {
	Keys         []string        `json:"keys"`
	Labels       []string        `json:"labels"`
	TotalPrice   decimal.Decimal `json:"total_price"`
	TotalMinutes int             `json:"total_minutes"`
}

func (s Selection) Empty() bool {
	return len(s.Keys) == 0
}

// Calculate soma preço e duração das chaves conhecidas; desconhecidas são ignoradas.
func Calculate(keys []string, catalog Catalog) Selection {
	sel := Selection{
		Keys:       []string{},
		Labels:     []string{},
		TotalPrice: decimal.Zero,
	}

	for _, k := range keys {
		svc, ok := catalog.Lookup(k)
		if !ok {
			continue
		}
		sel.Keys = append(sel.Keys, svc.Key)
		sel.Labels = append(sel.Labels, svc.Label)
		sel.TotalPrice = sel.TotalPrice.Add(svc.Price)
		sel.TotalMinutes += svc.DurationMin
	}

	return sel
}

// NormalizeServices reduz a entrada bruta a chaves válidas, sem repetição,
// na ordem em que apareceram.
func NormalizeServices(raw []string, catalog Catalog) []string {
	trimmed := lo.FilterMap(raw, func(k string, _ int) (string, bool) {
		k = strings.TrimSpace(k)
		if k == "" {
			return "", false
		}
		_, ok := catalog.Lookup(k)
		return k, ok
	})
	return lo.Uniq(trimmed)
}

// SplitKeys aceita "corte,barba" vindo de query string.
func SplitKeys(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	return strings.Split(csv, ",")
}

// MinutesToSlots arredonda para cima, com piso de 1 slot.
func MinutesToSlots(minutes, interval int) int {
	if interval <= 0 || minutes <= 0 {
		return 1
	}
	n := (minutes + interval - 1) / interval
	if n < 1 {
		return 1
	}
	return n
}
