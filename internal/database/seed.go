// internal/database/seed.go
package database

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/javajoker/geomarket/internal/models"
	"github.com/javajoker/geomarket/internal/utils"
)

//go:embed seeds/demo.yaml
var demoSeed []byte

// SeedFile is the YAML layout accepted by Seed.
type SeedFile struct {
	Products  []SeedProduct  `yaml:"products"`
	Merchants []SeedMerchant `yaml:"merchants"`
}

type SeedProduct struct {
	EAN      int64   `yaml:"ean"`
	Name     string  `yaml:"name"`
	Category string  `yaml:"category"`
	Weight   float64 `yaml:"weight"`
}

type SeedMerchant struct {
	Name     string      `yaml:"name"`
	Email    string      `yaml:"email"`
	Password string      `yaml:"password"`
	Stocks   []SeedStock `yaml:"stocks"`
}

type SeedStock struct {
	Address string          `yaml:"address"`
	Lat     float64         `yaml:"lat"`
	Long    float64         `yaml:"long"`
	Lines   []SeedStockLine `yaml:"lines"`
}

type SeedStockLine struct {
	EAN    int64   `yaml:"ean"`
	Price  float64 `yaml:"price"`
	Amount int     `yaml:"amount"`
}

// SeedStats reports how many rows a seed run created.
type SeedStats struct {
	Products  int
	Merchants int
	Stocks    int
	Lines     int
}

// DemoSeed returns a reader over the embedded demo fixture.
func DemoSeed() io.Reader {
	return bytes.NewReader(demoSeed)
}

// ParseSeed decodes and sanity-checks a seed file.
func ParseSeed(r io.Reader) (*SeedFile, error) {
	var seed SeedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&seed); err != nil {
		return nil, fmt.Errorf("failed to decode seed file: %w", err)
	}

	known := make(map[int64]bool, len(seed.Products))
	for _, p := range seed.Products {
		if p.EAN < 1 || p.EAN > utils.MaxEAN {
			return nil, fmt.Errorf("product %q: ean %d does not fit 13 digits", p.Name, p.EAN)
		}
		known[p.EAN] = true
	}
	for _, m := range seed.Merchants {
		if m.Email == "" {
			return nil, fmt.Errorf("merchant %q: email is required", m.Name)
		}
		for _, s := range m.Stocks {
			for _, line := range s.Lines {
				if !known[line.EAN] {
					return nil, fmt.Errorf("merchant %q stock %q: unknown ean %d", m.Name, s.Address, line.EAN)
				}
				if line.Price < 0 || line.Amount < 0 {
					return nil, fmt.Errorf("merchant %q stock %q: negative price or amount for ean %d", m.Name, s.Address, line.EAN)
				}
			}
		}
	}

	return &seed, nil
}

// Seed loads catalog data from r. Rows that already exist are left alone,
// so running it twice is harmless.
func Seed(db *gorm.DB, r io.Reader) (SeedStats, error) {
	seed, err := ParseSeed(r)
	if err != nil {
		return SeedStats{}, err
	}

	var stats SeedStats
	err = WithTransaction(db, func(tx *gorm.DB) error {
		for _, p := range seed.Products {
			product := models.Product{EAN: p.EAN, Name: p.Name, Category: p.Category, Weight: p.Weight}
			res := tx.Where(models.Product{EAN: p.EAN}).FirstOrCreate(&product)
			if res.Error != nil {
				return fmt.Errorf("failed to seed product %d: %w", p.EAN, res.Error)
			}
			stats.Products += int(res.RowsAffected)
		}

		for _, m := range seed.Merchants {
			var merchant models.Merchant
			err := tx.Where("email = ?", m.Email).First(&merchant).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				merchant = models.Merchant{Name: m.Name, Email: m.Email}
				if err := merchant.SetPassword(m.Password); err != nil {
					return fmt.Errorf("failed to hash password for %s: %w", m.Email, err)
				}
				if err := tx.Create(&merchant).Error; err != nil {
					return fmt.Errorf("failed to seed merchant %s: %w", m.Email, err)
				}
				stats.Merchants++
			case err != nil:
				return fmt.Errorf("failed to look up merchant %s: %w", m.Email, err)
			}

			for _, s := range m.Stocks {
				stock := models.Stock{Address: s.Address, Lat: s.Lat, Long: s.Long, MerchantID: merchant.ID}
				res := tx.Where(models.Stock{Address: s.Address, MerchantID: merchant.ID}).FirstOrCreate(&stock)
				if res.Error != nil {
					return fmt.Errorf("failed to seed stock %q: %w", s.Address, res.Error)
				}
				stats.Stocks += int(res.RowsAffected)

				for _, line := range s.Lines {
					ps := models.ProductStock{ProductEAN: line.EAN, StockID: stock.ID, Price: line.Price, Amount: line.Amount}
					res := tx.Where(models.ProductStock{ProductEAN: line.EAN, StockID: stock.ID}).FirstOrCreate(&ps)
					if res.Error != nil {
						return fmt.Errorf("failed to seed stock line %d@%d: %w", line.EAN, stock.ID, res.Error)
					}
					stats.Lines += int(res.RowsAffected)
				}
			}
		}
		return nil
	})
	if err != nil {
		return SeedStats{}, err
	}

	logrus.WithFields(logrus.Fields{
		"products":  stats.Products,
		"merchants": stats.Merchants,
		"stocks":    stats.Stocks,
		"lines":     stats.Lines,
	}).Info("Seed data loaded")
	return stats, nil
}
