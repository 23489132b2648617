package seed

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/dmitrijs2005/vamazon/internal/dbx"
	"github.com/dmitrijs2005/vamazon/internal/logging"
	"github.com/dmitrijs2005/vamazon/internal/server/models"
	"github.com/dmitrijs2005/vamazon/internal/server/repositories/repomanager"
)

type priceRange struct{ min, max int }

// priceRanges are selling price bounds in rupees per dataset category.
var priceRanges = map[string]priceRange{
	"laptop_computer":            {35000, 85000},
	"tablets":                    {15000, 45000},
	"smartwatches":               {3000, 25000},
	"smart_home_products":        {1500, 8000},
	"computer_monitor_stands":    {800, 3500},
	"computer_accessories":       {500, 5000},
	"computer_data_storage":      {2000, 15000},
	"office_and_school_supplies": {200, 2000},
	"office_electronics":         {1000, 10000},
	"projector_mounts":           {500, 3000},
}

var defaultRange = priceRange{500, 5000}

type Seeder struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	rnd         *rand.Rand
	logger      logging.Logger
}

// NewSeeder builds a seeder. A nil rnd draws from a randomly seeded source.
func NewSeeder(db *sql.DB, m repomanager.RepositoryManager, rnd *rand.Rand, l logging.Logger) *Seeder {
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Seeder{db: db, repomanager: m, rnd: rnd, logger: l.With("module", "seed")}
}

// Run inserts the records in one transaction and returns how many products
// were added. A catalog that already has products is left untouched.
func (s *Seeder) Run(ctx context.Context, records []Record) (int, error) {
	added := 0
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		products := s.repomanager.Products(tx)

		n, err := products.Count(ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			s.logger.Info(ctx, "catalog already seeded", "products", n)
			return nil
		}

		categories := map[string]int64{}
		for _, rec := range records {
			if _, ok := categories[rec.Category]; ok {
				continue
			}
			c, err := s.repomanager.Categories(tx).Upsert(ctx, CategoryName(rec.Category), rec.Category)
			if err != nil {
				return fmt.Errorf("category %s: %w", rec.Category, err)
			}
			categories[rec.Category] = c.ID
		}

		for _, rec := range records {
			p, err := products.Create(ctx, s.product(rec, categories[rec.Category]))
			if err != nil {
				return fmt.Errorf("product %s: %w", rec.ASIN, err)
			}
			if rec.ImageURL != "" {
				img := &models.ProductImage{ProductID: p.ID, ImageURL: rec.ImageURL, IsPrimary: true}
				if _, err := products.AddImage(ctx, img); err != nil {
					return fmt.Errorf("product %s image: %w", rec.ASIN, err)
				}
			}
			added++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("seed error: %w", err)
	}

	if added > 0 {
		s.logger.Info(ctx, "catalog seeded", "products", added)
	}
	return added, nil
}

func (s *Seeder) product(rec Record, categoryID int64) *models.Product {
	price, mrp := s.price(rec.Category)
	rating, reviews := s.rating()

	description := rec.Labels
	if description == "" {
		description = rec.TechProcess
	}

	return &models.Product{
		ASIN:           rec.ASIN,
		Name:           rec.Title,
		Description:    description,
		Price:          price,
		MRP:            &mrp,
		Rating:         rating,
		ReviewCount:    reviews,
		Stock:          10 + s.rnd.IntN(191),
		ImageURL:       rec.ImageURL,
		Features:       features(rec.FeatureBullets),
		Specifications: rec.TechProcess,
		CategoryID:     &categoryID,
	}
}

// price picks a selling price in the category range, nudged to look like a
// shelf price (1299 rather than 1300), and an MRP 15 to 40 percent above it.
func (s *Seeder) price(category string) (price, mrp float64) {
	r, ok := priceRanges[category]
	if !ok {
		r = defaultRange
	}

	base := r.min + s.rnd.IntN(r.max-r.min+1)
	if base > 1000 {
		base = base - []int{1, 1, 1, 0}[s.rnd.IntN(4)] + []int{0, 99, 49, 0}[s.rnd.IntN(4)]
	}

	markup := 1.15 + s.rnd.Float64()*0.25
	return float64(base), math.Floor(float64(base) * markup)
}

// rating returns a 3.5 to 5.0 star rating. Better rated products get more
// reviews.
func (s *Seeder) rating() (float64, int) {
	rating := math.Round((3.5+s.rnd.Float64()*1.5)*10) / 10

	switch {
	case rating >= 4.5:
		return rating, 500 + s.rnd.IntN(4501)
	case rating >= 4.0:
		return rating, 100 + s.rnd.IntN(1901)
	default:
		return rating, 20 + s.rnd.IntN(481)
	}
}
