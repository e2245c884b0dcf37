package ledger_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Kardex-api/internal/application/ledger"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
	"github.com/jhoicas/Kardex-api/internal/infrastructure/memory"
)

const testWarehouse = "wh-central"

func newTestEngine(t *testing.T) (*memory.Store, *ledger.Engine) {
	t.Helper()
	store := memory.NewStore()
	return store, ledger.NewEngine(store.Products(), store.Entries())
}

func createProduct(t *testing.T, store *memory.Store, kind entity.TrackingKind) string {
	t.Helper()
	now := time.Now()
	p := &entity.Product{
		ID:              uuid.New().String(),
		SKU:             "SKU-" + uuid.New().String()[:8],
		Name:            "producto de prueba",
		TrackingKind:    kind,
		IsVariantParent: kind == entity.TrackingVariant,
		UnitMeasure:     "PIECE",
		Active:          true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	require.NoError(t, store.Products().Create(context.Background(), p))
	return p.ID
}

func totalStock(t *testing.T, store *memory.Store, productID string) int64 {
	t.Helper()
	total, err := store.Entries().TotalQuantity(context.Background(), productID, testWarehouse)
	require.NoError(t, err)
	return total
}

// ──────────────────────────────────────────────────────────────────────────────
// SIMPLE
// ──────────────────────────────────────────────────────────────────────────────

func TestEngine_Simple_IdaYVuelta(t *testing.T) {
	store, eng := newTestEngine(t)
	ctx := context.Background()
	productID := createProduct(t, store, entity.TrackingSimple)

	require.NoError(t, eng.Increase(ctx, ledger.Line{ProductID: productID, WarehouseID: testWarehouse, Quantity: 10}))
	require.NoError(t, eng.Increase(ctx, ledger.Line{ProductID: productID, WarehouseID: testWarehouse, Quantity: 5}))
	assert.Equal(t, int64(15), totalStock(t, store, productID), "dos altas se acumulan en la misma entrada")

	// Sigue existiendo una sola entrada agregada, no una por alta.
	entries, err := eng.Query(ctx, productID, testWarehouse)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	require.NoError(t, eng.Decrease(ctx, ledger.Line{ProductID: productID, WarehouseID: testWarehouse, Quantity: 6}))
	assert.Equal(t, int64(9), totalStock(t, store, productID))
}

func TestEngine_Simple_StockInsuficienteNoMuta(t *testing.T) {
	store, eng := newTestEngine(t)
	ctx := context.Background()
	productID := createProduct(t, store, entity.TrackingSimple)

	require.NoError(t, eng.Increase(ctx, ledger.Line{ProductID: productID, WarehouseID: testWarehouse, Quantity: 3}))

	err := eng.Decrease(ctx, ledger.Line{ProductID: productID, WarehouseID: testWarehouse, Quantity: 4})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(3), totalStock(t, store, productID), "una baja rechazada no toca el stock")
}

func TestEngine_Simple_BajaSinEntrada(t *testing.T) {
	store, eng := newTestEngine(t)
	productID := createProduct(t, store, entity.TrackingSimple)

	err := eng.Decrease(context.Background(), ledger.Line{ProductID: productID, WarehouseID: testWarehouse, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock, "entrada ausente equivale a stock cero")
}

// Propiedad de concurrencia: con stock (N-1)*q y N bajas concurrentes de q,
// exactamente N-1 deben pasar y el stock debe terminar en cero. La condición
// de suficiencia viaja dentro del write condicional, nunca en un
// read-then-write separado.
func TestEngine_Simple_BajasConcurrentes(t *testing.T) {
	store, _ := newTestEngine(t)
	ctx := context.Background()
	productID := createProduct(t, store, entity.TrackingSimple)

	const n = 8
	const qty = int64(5)
	require.NoError(t, store.Entries().AddSimple(ctx, productID, testWarehouse, qty*(n-1)))

	var wg sync.WaitGroup
	results := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- store.Run(ctx, func(
				entries repository.StockEntryRepository,
				_ repository.DocumentRepository,
				products repository.ProductRepository,
			) error {
				return ledger.NewEngine(products, entries).Decrease(ctx, ledger.Line{
					ProductID:   productID,
					WarehouseID: testWarehouse,
					Quantity:    qty,
				})
			})
		}()
	}
	wg.Wait()
	close(results)

	var ok, insufficient int
	for err := range results {
		switch {
		case err == nil:
			ok++
		default:
			require.ErrorIs(t, err, domain.ErrInsufficientStock)
			insufficient++
		}
	}
	assert.Equal(t, n-1, ok, "deben pasar exactamente N-1 bajas")
	assert.Equal(t, 1, insufficient, "debe fallar exactamente una baja")
	assert.Equal(t, int64(0), totalStock(t, store, productID))
}

// ──────────────────────────────────────────────────────────────────────────────
// SERIALIZED
// ──────────────────────────────────────────────────────────────────────────────

func TestEngine_Serialized_IdaYVuelta(t *testing.T) {
	store, eng := newTestEngine(t)
	ctx := context.Background()
	productID := createProduct(t, store, entity.TrackingSerialized)

	require.NoError(t, eng.Increase(ctx, ledger.Line{
		ProductID: productID, WarehouseID: testWarehouse,
		Quantity: 2, SerialNumbers: []string{"SN-001", "SN-002"},
	}))
	assert.Equal(t, int64(2), totalStock(t, store, productID))

	require.NoError(t, eng.Decrease(ctx, ledger.Line{
		ProductID: productID, WarehouseID: testWarehouse,
		Quantity: 2, SerialNumbers: []string{"SN-001", "SN-002"},
	}))
	assert.Equal(t, int64(0), totalStock(t, store, productID))
}

func TestEngine_Serialized_CantidadNoCoincide(t *testing.T) {
	store, eng := newTestEngine(t)
	ctx := context.Background()
	productID := createProduct(t, store, entity.TrackingSerialized)

	err := eng.Increase(ctx, ledger.Line{
		ProductID: productID, WarehouseID: testWarehouse,
		Quantity: 3, SerialNumbers: []string{"SN-001"},
	})
	assert.ErrorIs(t, err, domain.ErrSerialCountMismatch)
	assert.Equal(t, int64(0), totalStock(t, store, productID))
}

func TestEngine_Serialized_SerialDuplicado(t *testing.T) {
	store, eng := newTestEngine(t)
	ctx := context.Background()
	productID := createProduct(t, store, entity.TrackingSerialized)

	require.NoError(t, eng.Increase(ctx, ledger.Line{
		ProductID: productID, WarehouseID: testWarehouse,
		Quantity: 1, SerialNumbers: []string{"SN-001"},
	}))

	err := eng.Increase(ctx, ledger.Line{
		ProductID: productID, WarehouseID: testWarehouse,
		Quantity: 2, SerialNumbers: []string{"SN-001", "SN-002"},
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateSerial)
	assert.Equal(t, int64(1), totalStock(t, store, productID), "el alta rechazada no crea entrada")
}

func TestEngine_Serialized_SerialesRepartidosNoSeResuelven(t *testing.T) {
	store, eng := newTestEngine(t)
	ctx := context.Background()
	productID := createProduct(t, store, entity.TrackingSerialized)

	// Dos entradas de un serial cada una: un pedido que exige ambos seriales
	// en una sola entrada no tiene match por contención.
	require.NoError(t, eng.Increase(ctx, ledger.Line{
		ProductID: productID, WarehouseID: testWarehouse,
		Quantity: 1, SerialNumbers: []string{"SN-001"},
	}))
	require.NoError(t, eng.Increase(ctx, ledger.Line{
		ProductID: productID, WarehouseID: testWarehouse,
		Quantity: 1, SerialNumbers: []string{"SN-002"},
	}))

	err := eng.Decrease(ctx, ledger.Line{
		ProductID: productID, WarehouseID: testWarehouse,
		Quantity: 2, SerialNumbers: []string{"SN-001", "SN-002"},
	})
	assert.ErrorIs(t, err, domain.ErrSerialsNotFound)
	assert.Equal(t, int64(2), totalStock(t, store, productID), "la baja fallida no elimina ninguna entrada")
}

// ──────────────────────────────────────────────────────────────────────────────
// LOT_TRACKED
// ──────────────────────────────────────────────────────────────────────────────

func TestEngine_Lot_EntradasPorLote(t *testing.T) {
	store, eng := newTestEngine(t)
	ctx := context.Background()
	productID := createProduct(t, store, entity.TrackingLot)

	require.NoError(t, eng.Increase(ctx, ledger.Line{ProductID: productID, WarehouseID: testWarehouse, Quantity: 5, LotCode: "L-01"}))
	require.NoError(t, eng.Increase(ctx, ledger.Line{ProductID: productID, WarehouseID: testWarehouse, Quantity: 3, LotCode: "L-02"}))
	require.NoError(t, eng.Increase(ctx, ledger.Line{ProductID: productID, WarehouseID: testWarehouse, Quantity: 2, LotCode: "L-01"}))

	entries, err := eng.Query(ctx, productID, testWarehouse)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "una entrada por lote, los re-ingresos al mismo lote se acumulan")
	assert.Equal(t, int64(10), totalStock(t, store, productID))

	require.NoError(t, eng.Decrease(ctx, ledger.Line{ProductID: productID, WarehouseID: testWarehouse, Quantity: 6, LotCode: "L-01"}))
	assert.Equal(t, int64(4), totalStock(t, store, productID))
}

func TestEngine_Lot_InsuficienteEnElLote(t *testing.T) {
	store, eng := newTestEngine(t)
	ctx := context.Background()
	productID := createProduct(t, store, entity.TrackingLot)

	require.NoError(t, eng.Increase(ctx, ledger.Line{ProductID: productID, WarehouseID: testWarehouse, Quantity: 2, LotCode: "L-01"}))
	require.NoError(t, eng.Increase(ctx, ledger.Line{ProductID: productID, WarehouseID: testWarehouse, Quantity: 9, LotCode: "L-02"}))

	// El total alcanza, pero el lote pedido no: la estrategia nunca cruza lotes.
	err := eng.Decrease(ctx, ledger.Line{ProductID: productID, WarehouseID: testWarehouse, Quantity: 3, LotCode: "L-01"})
	assert.ErrorIs(t, err, domain.ErrInsufficientLotStock)
	assert.Equal(t, int64(11), totalStock(t, store, productID))
}

func TestEngine_Lot_CodigoObligatorio(t *testing.T) {
	store, eng := newTestEngine(t)
	ctx := context.Background()
	productID := createProduct(t, store, entity.TrackingLot)

	assert.ErrorIs(t, eng.Increase(ctx, ledger.Line{ProductID: productID, WarehouseID: testWarehouse, Quantity: 1}), domain.ErrLotCodeRequired)
	assert.ErrorIs(t, eng.Decrease(ctx, ledger.Line{ProductID: productID, WarehouseID: testWarehouse, Quantity: 1}), domain.ErrLotCodeRequired)
}

// ──────────────────────────────────────────────────────────────────────────────
// EXPIRABLE
// ──────────────────────────────────────────────────────────────────────────────

func TestEngine_Expirable_FEFOEligeElVencimientoMasProximo(t *testing.T) {
	store, eng := newTestEngine(t)
	ctx := context.Background()
	productID := createProduct(t, store, entity.TrackingExpirable)

	far := time.Now().AddDate(0, 6, 0)
	near := time.Now().AddDate(0, 1, 0)
	require.NoError(t, eng.Increase(ctx, ledger.Line{ProductID: productID, WarehouseID: testWarehouse, Quantity: 5, ExpirationDate: &far}))
	require.NoError(t, eng.Increase(ctx, ledger.Line{ProductID: productID, WarehouseID: testWarehouse, Quantity: 2, ExpirationDate: &near}))

	require.NoError(t, eng.Decrease(ctx, ledger.Line{ProductID: productID, WarehouseID: testWarehouse, Quantity: 2}))

	entries, err := eng.Query(ctx, productID, testWarehouse)
	require.NoError(t, err)
	require.Len(t, entries, 2, "los lotes nunca se fusionan")
	for _, e := range entries {
		if e.ExpirationDate.Equal(near) {
			assert.Equal(t, int64(0), e.Quantity, "la baja debe salir del lote que vence primero")
		} else {
			assert.Equal(t, int64(5), e.Quantity)
		}
	}
}

func TestEngine_Expirable_SaltaLotesSinCantidadSuficiente(t *testing.T) {
	store, eng := newTestEngine(t)
	ctx := context.Background()
	productID := createProduct(t, store, entity.TrackingExpirable)

	near := time.Now().AddDate(0, 1, 0)
	far := time.Now().AddDate(0, 6, 0)
	require.NoError(t, eng.Increase(ctx, ledger.Line{ProductID: productID, WarehouseID: testWarehouse, Quantity: 1, ExpirationDate: &near}))
	require.NoError(t, eng.Increase(ctx, ledger.Line{ProductID: productID, WarehouseID: testWarehouse, Quantity: 4, ExpirationDate: &far}))

	// El lote más próximo no alcanza para 3: FEFO elige el siguiente vigente
	// con cantidad suficiente, no reparte entre lotes.
	require.NoError(t, eng.Decrease(ctx, ledger.Line{ProductID: productID, WarehouseID: testWarehouse, Quantity: 3}))

	entries, err := eng.Query(ctx, productID, testWarehouse)
	require.NoError(t, err)
	for _, e := range entries {
		if e.ExpirationDate.Equal(far) {
			assert.Equal(t, int64(1), e.Quantity)
		} else {
			assert.Equal(t, int64(1), e.Quantity, "el lote próximo queda intacto")
		}
	}
}

func TestEngine_Expirable_IgnoraLotesVencidos(t *testing.T) {
	store, eng := newTestEngine(t)
	ctx := context.Background()
	productID := createProduct(t, store, entity.TrackingExpirable)

	expired := time.Now().AddDate(0, 0, -1)
	require.NoError(t, eng.Increase(ctx, ledger.Line{ProductID: productID, WarehouseID: testWarehouse, Quantity: 10, ExpirationDate: &expired}))

	err := eng.Decrease(ctx, ledger.Line{ProductID: productID, WarehouseID: testWarehouse, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNoSuitableBatch, "stock vencido no es vendible")
	assert.Equal(t, int64(10), totalStock(t, store, productID))
}

func TestEngine_Expirable_AltaSinVencimiento(t *testing.T) {
	store, eng := newTestEngine(t)
	productID := createProduct(t, store, entity.TrackingExpirable)

	err := eng.Increase(context.Background(), ledger.Line{ProductID: productID, WarehouseID: testWarehouse, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrExpirationRequired)
}

// ──────────────────────────────────────────────────────────────────────────────
// Despacho y consultas
// ──────────────────────────────────────────────────────────────────────────────

func TestEngine_VariantNoEsAlmacenable(t *testing.T) {
	store, eng := newTestEngine(t)
	ctx := context.Background()
	productID := createProduct(t, store, entity.TrackingVariant)

	assert.ErrorIs(t, eng.Increase(ctx, ledger.Line{ProductID: productID, WarehouseID: testWarehouse, Quantity: 1}), domain.ErrInvalidTrackingKind)
	assert.ErrorIs(t, eng.Decrease(ctx, ledger.Line{ProductID: productID, WarehouseID: testWarehouse, Quantity: 1}), domain.ErrInvalidTrackingKind)
}

func TestEngine_ProductoInexistente(t *testing.T) {
	_, eng := newTestEngine(t)

	err := eng.Increase(context.Background(), ledger.Line{ProductID: uuid.New().String(), WarehouseID: testWarehouse, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestEngine_Availability(t *testing.T) {
	store, eng := newTestEngine(t)
	ctx := context.Background()
	productID := createProduct(t, store, entity.TrackingSimple)

	require.NoError(t, eng.Increase(ctx, ledger.Line{ProductID: productID, WarehouseID: testWarehouse, Quantity: 7}))

	ok, err := eng.Availability(ctx, productID, testWarehouse, 7)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = eng.Availability(ctx, productID, testWarehouse, 8)
	require.NoError(t, err)
	assert.False(t, ok)

	// Bodega sin stock del producto.
	ok, err = eng.Availability(ctx, productID, "wh-otra", 1)
	require.NoError(t, err)
	assert.False(t, ok)
}
