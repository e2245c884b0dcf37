// Package memory implementa los puertos de persistencia sobre mapas en
// memoria protegidos por mutex. Se usa en tests y como driver de desarrollo
// (DB_DRIVER=memory); el backend real es PostgreSQL.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/Kardex-api/internal/application/ledger"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

var _ ledger.TxRunner = (*Store)(nil)

// Store estado compartido. El mutex serializa las transacciones completas:
// cada Run ve el estado consistente y sus escrituras son atómicas respecto a
// cualquier otro Run u operación suelta.
type Store struct {
	mu        sync.Mutex
	entries   map[string]*entity.StockEntry
	documents map[string]*entity.Document
	products  map[string]*entity.Product
	skuIndex  map[string]string // SKU -> product ID
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		entries:   make(map[string]*entity.StockEntry),
		documents: make(map[string]*entity.Document),
		products:  make(map[string]*entity.Product),
		skuIndex:  make(map[string]string),
	}
}

// Run implementa ledger.TxRunner: toma el lock, saca un snapshot y ejecuta
// fn con vistas sin lock propio. Si fn falla se restaura el snapshot, de
// modo que una falla en la línea N revierte las líneas 1..N-1 igual que un
// rollback de Postgres.
func (s *Store) Run(ctx context.Context, fn func(
	entries repository.StockEntryRepository,
	docs repository.DocumentRepository,
	products repository.ProductRepository,
) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.snapshot()
	if err := fn(&entryView{s}, &documentView{s}, &productView{s}); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// Entries devuelve el repositorio de entradas para uso fuera de transacción.
func (s *Store) Entries() repository.StockEntryRepository { return &lockedEntries{s} }

// Documents devuelve el repositorio de documentos para uso fuera de transacción.
func (s *Store) Documents() repository.DocumentRepository { return &lockedDocuments{s} }

// Products devuelve el repositorio de productos para uso fuera de transacción.
func (s *Store) Products() repository.ProductRepository { return &lockedProducts{s} }

type storeState struct {
	entries   map[string]*entity.StockEntry
	documents map[string]*entity.Document
	products  map[string]*entity.Product
	skuIndex  map[string]string
}

func (s *Store) snapshot() storeState {
	st := storeState{
		entries:   make(map[string]*entity.StockEntry, len(s.entries)),
		documents: make(map[string]*entity.Document, len(s.documents)),
		products:  make(map[string]*entity.Product, len(s.products)),
		skuIndex:  make(map[string]string, len(s.skuIndex)),
	}
	for id, e := range s.entries {
		st.entries[id] = copyEntry(e)
	}
	for id, d := range s.documents {
		st.documents[id] = copyDocument(d)
	}
	for id, p := range s.products {
		st.products[id] = copyProduct(p)
	}
	for sku, id := range s.skuIndex {
		st.skuIndex[sku] = id
	}
	return st
}

func (s *Store) restore(st storeState) {
	s.entries = st.entries
	s.documents = st.documents
	s.products = st.products
	s.skuIndex = st.skuIndex
}

func copyEntry(e *entity.StockEntry) *entity.StockEntry {
	c := *e
	if e.SerialNumbers != nil {
		c.SerialNumbers = append([]string(nil), e.SerialNumbers...)
	}
	if e.ExpirationDate != nil {
		exp := *e.ExpirationDate
		c.ExpirationDate = &exp
	}
	return &c
}

func copyDocument(d *entity.Document) *entity.Document {
	c := *d
	c.Lines = make([]entity.DocumentLine, len(d.Lines))
	for i, l := range d.Lines {
		cl := l
		if l.SerialNumbers != nil {
			cl.SerialNumbers = append([]string(nil), l.SerialNumbers...)
		}
		if l.ExpirationDate != nil {
			exp := *l.ExpirationDate
			cl.ExpirationDate = &exp
		}
		c.Lines[i] = cl
	}
	if d.ConfirmedAt != nil {
		t := *d.ConfirmedAt
		c.ConfirmedAt = &t
	}
	if d.CancelledAt != nil {
		t := *d.CancelledAt
		c.CancelledAt = &t
	}
	return &c
}

func copyProduct(p *entity.Product) *entity.Product {
	c := *p
	return &c
}
