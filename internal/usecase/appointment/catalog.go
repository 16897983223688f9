package appointment

import (
	"context"
	"log/slog"
	"sort"

	"github.com/shopspring/decimal"

	domain "github.com/BruksfildServices01/barber-agenda/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-agenda/internal/domain/scheduling"
)

type CatalogItem struct {
	Key         string          `json:"key"`
	Label       string          `json:"label"`
	Price       decimal.Decimal `json:"price"`
	DurationMin int             `json:"duration_min"`
}

type CatalogView struct {
	Source   scheduling.CatalogSource `json:"source"`
	Services []CatalogItem            `json:"services"`
}

type GetCatalog struct {
	repo domain.Repository
	log  *slog.Logger
}

func NewGetCatalog(repo domain.Repository, log *slog.Logger) *GetCatalog {
	if log == nil {
		log = slog.Default()
	}
	return &GetCatalog{repo: repo, log: log}
}

// Execute devolve os serviços que a página pública pode oferecer,
// ordenados por duração e depois pela chave.
func (uc *GetCatalog) Execute(
	ctx context.Context,
	companyID uint,
	slug string,
) (*CatalogView, error) {

	company, err := findCompany(ctx, uc.repo, companyID, slug)
	if err != nil {
		return nil, err
	}

	catalog, source := loadCatalog(ctx, uc.repo, uc.log, company.ID)

	items := make([]CatalogItem, 0, len(catalog))
	for _, s := range catalog {
		items = append(items, CatalogItem{
			Key:         s.Key,
			Label:       s.Label,
			Price:       s.Price,
			DurationMin: s.DurationMin,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].DurationMin != items[j].DurationMin {
			return items[i].DurationMin < items[j].DurationMin
		}
		return items[i].Key < items[j].Key
	})

	return &CatalogView{Source: source, Services: items}, nil
}
