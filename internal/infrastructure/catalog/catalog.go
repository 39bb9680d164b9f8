// Package catalog carga el directorio inicial de sedes y productos desde un archivo
// (YAML, JSON o TOML) para sembrar el backend de almacenamiento.
package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// SiteSeed sede declarada en el archivo.
type SiteSeed struct {
	ID      string `mapstructure:"id"`
	Name    string `mapstructure:"name"`
	Address string `mapstructure:"address"`
}

// ProductSeed producto declarado en el archivo. Precio y costo como texto para no perder precisión.
type ProductSeed struct {
	ID    string `mapstructure:"id"`
	SKU   string `mapstructure:"sku"`
	Name  string `mapstructure:"name"`
	Price string `mapstructure:"price"`
	Cost  string `mapstructure:"cost"`
}

// Catalog contenido del archivo de siembra.
type Catalog struct {
	Sites    []SiteSeed    `mapstructure:"sites"`
	Products []ProductSeed `mapstructure:"products"`
}

// Load lee el archivo indicado. El formato se deduce de la extensión.
func Load(path string) (*Catalog, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("catalog: leer %s: %w", path, err)
	}
	var c Catalog
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("catalog: decodificar %s: %w", path, err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	seen := make(map[string]bool)
	for i, s := range c.Sites {
		if strings.TrimSpace(s.ID) == "" || strings.TrimSpace(s.Name) == "" {
			return fmt.Errorf("catalog: sede #%d sin id o nombre", i)
		}
		if seen["site:"+s.ID] {
			return fmt.Errorf("catalog: sede duplicada %s", s.ID)
		}
		seen["site:"+s.ID] = true
	}
	for i, p := range c.Products {
		if strings.TrimSpace(p.ID) == "" || strings.TrimSpace(p.SKU) == "" {
			return fmt.Errorf("catalog: producto #%d sin id o sku", i)
		}
		if seen["product:"+p.ID] || seen["sku:"+p.SKU] {
			return fmt.Errorf("catalog: producto duplicado %s (%s)", p.ID, p.SKU)
		}
		seen["product:"+p.ID] = true
		seen["sku:"+p.SKU] = true
		if _, err := parseAmount(p.Price); err != nil {
			return fmt.Errorf("catalog: precio de %s: %w", p.SKU, err)
		}
		if _, err := parseAmount(p.Cost); err != nil {
			return fmt.Errorf("catalog: costo de %s: %w", p.SKU, err)
		}
	}
	return nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("monto negativo %s", s)
	}
	return d, nil
}

// SiteEntities convierte las sedes a entidades activas.
func (c *Catalog) SiteEntities(now time.Time) []entity.Site {
	out := make([]entity.Site, 0, len(c.Sites))
	for _, s := range c.Sites {
		out = append(out, entity.Site{
			ID: s.ID, Name: s.Name, Address: s.Address, Active: true,
			CreatedAt: now, UpdatedAt: now,
		})
	}
	return out
}

// ProductEntities convierte los productos a entidades. Load ya validó los montos.
func (c *Catalog) ProductEntities(now time.Time) []entity.Product {
	out := make([]entity.Product, 0, len(c.Products))
	for _, p := range c.Products {
		price, _ := parseAmount(p.Price)
		cost, _ := parseAmount(p.Cost)
		out = append(out, entity.Product{
			ID: p.ID, SKU: p.SKU, Name: p.Name, Price: price, Cost: cost,
			CreatedAt: now, UpdatedAt: now,
		})
	}
	return out
}
