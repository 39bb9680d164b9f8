package catalog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "catalog.yaml", `
sites:
  - id: bogota
    name: Sede Bogotá
    address: Calle 1
  - id: cali
    name: Sede Cali
products:
  - id: p-1
    sku: FIL-001
    name: Filtro de aceite
    price: "25000.50"
    cost: "18000"
`)
	c, err := Load(path)
	require.NoError(t, err)
	require.Len(t, c.Sites, 2)
	require.Len(t, c.Products, 1)

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	sites := c.SiteEntities(now)
	assert.Equal(t, "bogota", sites[0].ID)
	assert.True(t, sites[0].Active)

	products := c.ProductEntities(now)
	assert.Equal(t, "25000.5", products[0].Price.String())
	assert.Equal(t, "18000", products[0].Cost.String())
}

func TestLoad_RejectsDuplicatesAndBadAmounts(t *testing.T) {
	dup := writeFile(t, "dup.json", `{"sites":[{"id":"a","name":"A"},{"id":"a","name":"B"}]}`)
	_, err := Load(dup)
	assert.Error(t, err)

	bad := writeFile(t, "bad.json", `{"products":[{"id":"p","sku":"S","name":"X","price":"-1"}]}`)
	_, err = Load(bad)
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
