// Package memory implementa los puertos del kardex en memoria. Las transacciones se serializan
// con un mutex y trabajan sobre una copia del estado que se publica solo en commit.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ inventory.TxRunner = (*Store)(nil)

type pairKey struct {
	productID string
	siteID    string
}

type state struct {
	movements map[string]entity.Movement
	order     []string // IDs por Seq ascendente
	stock     map[pairKey]entity.Stock
	transfers map[string]entity.Transfer
	nextSeq   int64
}

func newState() *state {
	return &state{
		movements: make(map[string]entity.Movement),
		stock:     make(map[pairKey]entity.Stock),
		transfers: make(map[string]entity.Transfer),
	}
}

func (s *state) clone() *state {
	c := &state{
		movements: make(map[string]entity.Movement, len(s.movements)),
		order:     append([]string(nil), s.order...),
		stock:     make(map[pairKey]entity.Stock, len(s.stock)),
		transfers: make(map[string]entity.Transfer, len(s.transfers)),
		nextSeq:   s.nextSeq,
	}
	for k, v := range s.movements {
		c.movements[k] = v
	}
	for k, v := range s.stock {
		c.stock[k] = v
	}
	for k, v := range s.transfers {
		c.transfers[k] = copyTransfer(v)
	}
	return c
}

func copyTransfer(t entity.Transfer) entity.Transfer {
	t.Lines = append([]entity.TransferLine(nil), t.Lines...)
	return t
}

// Store kardex en memoria con directorio de productos y sedes.
type Store struct {
	mu       sync.Mutex
	data     *state
	products map[string]entity.Product
	sites    map[string]entity.Site
}

// NewStore construye un store vacío.
func NewStore() *Store {
	return &Store{
		data:     newState(),
		products: make(map[string]entity.Product),
		sites:    make(map[string]entity.Site),
	}
}

// AddProduct registra un producto en el directorio.
func (s *Store) AddProduct(p entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = p
}

// AddSite registra una sede en el directorio.
func (s *Store) AddSite(site entity.Site) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sites[site.ID] = site
}

// Run ejecuta fn con repositorios sobre una copia del estado; si fn no falla la copia se publica.
// El mutex se mantiene durante toda la tx, lo que serializa las lecturas-modificaciones de stock.
func (s *Store) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	stockRepo repository.StockRepository,
	transferRepo repository.TransferRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &txView{data: s.data.clone()}
	if err := fn(&MovementRepo{view: tx}, &StockRepo{view: tx}, &TransferRepo{view: tx}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.data = tx.data
	return nil
}

// Movements devuelve un repositorio de lectura fuera de transacción.
func (s *Store) Movements() *MovementRepo { return &MovementRepo{view: &poolView{s: s}} }

// Stock devuelve un repositorio de stock fuera de transacción.
func (s *Store) Stock() *StockRepo { return &StockRepo{view: &poolView{s: s}} }

// Transfers devuelve un repositorio de traspasos fuera de transacción.
func (s *Store) Transfers() *TransferRepo { return &TransferRepo{view: &poolView{s: s}} }

// Products devuelve el directorio de productos.
func (s *Store) Products() *ProductRepo { return &ProductRepo{s: s} }

// Sites devuelve el directorio de sedes.
func (s *Store) Sites() *SiteRepo { return &SiteRepo{s: s} }

// view abstrae el acceso al estado: dentro de una tx (ya bloqueado) o fuera (bloquea por llamada).
type view interface {
	with(fn func(*state))
}

type txView struct {
	data *state
}

func (v *txView) with(fn func(*state)) { fn(v.data) }

type poolView struct {
	s *Store
}

func (v *poolView) with(fn func(*state)) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	fn(v.s.data)
}
