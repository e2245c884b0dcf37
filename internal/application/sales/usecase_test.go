package sales_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Kardex-api/internal/application/document"
	"github.com/jhoicas/Kardex-api/internal/application/receipt"
	"github.com/jhoicas/Kardex-api/internal/application/sales"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/infrastructure/memory"
	"github.com/jhoicas/Kardex-api/pkg/logger"
)

const (
	testWarehouse = "wh-central"
	testActor     = "user-vendedor"
)

func newUseCases(store *memory.Store) (*sales.UseCase, *receipt.UseCase) {
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	s := sales.NewUseCase(store, store.Documents(), store.Products(), store.Entries(), log)
	r := receipt.NewUseCase(store, store.Documents(), store.Products(), store.Entries(), log)
	return s, r
}

func seedProduct(t *testing.T, store *memory.Store, kind entity.TrackingKind) string {
	t.Helper()
	now := time.Now()
	p := &entity.Product{
		ID:           uuid.New().String(),
		SKU:          "SKU-" + uuid.New().String()[:8],
		Name:         "producto de prueba",
		TrackingKind: kind,
		UnitMeasure:  "PIECE",
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, store.Products().Create(context.Background(), p))
	return p.ID
}

func oneLine(productID string, qty int64) document.CreateInput {
	return document.CreateInput{
		CounterpartyID: "cli-001",
		WarehouseID:    testWarehouse,
		Currency:       "COP",
		Lines: []entity.DocumentLine{{
			ProductID: productID,
			Quantity:  qty,
			UnitPrice: decimal.NewFromInt(2500),
		}},
	}
}

func stockOf(t *testing.T, store *memory.Store, productID string) int64 {
	t.Helper()
	total, err := store.Entries().TotalQuantity(context.Background(), productID, testWarehouse)
	require.NoError(t, err)
	return total
}

// Flujo completo: recepción de 10 → venta de 4 → cancelación de la venta.
// El stock pasa por 10 → 6 → 10 y cada transición queda auditada.
func TestFlujoCompleto_CompraVentaDevolucion(t *testing.T) {
	store := memory.NewStore()
	salesUC, receiptUC := newUseCases(store)
	ctx := context.Background()
	productID := seedProduct(t, store, entity.TrackingSimple)

	rcpt, err := receiptUC.Create(ctx, "user-bodeguero", oneLine(productID, 10))
	require.NoError(t, err)
	_, err = receiptUC.Confirm(ctx, "user-bodeguero", rcpt.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), stockOf(t, store, productID))

	sale, err := salesUC.Create(ctx, testActor, oneLine(productID, 4))
	require.NoError(t, err)
	confirmed, err := salesUC.Confirm(ctx, testActor, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusConfirmed, confirmed.Status)
	assert.Equal(t, int64(6), stockOf(t, store, productID))

	cancelled, err := salesUC.Cancel(ctx, testActor, sale.ID, "devolución del cliente")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCancelled, cancelled.Status)
	assert.Equal(t, "devolución del cliente", cancelled.CancellationReason)
	assert.Equal(t, int64(10), stockOf(t, store, productID), "cancelar la venta repone lo vendido")
}

func TestVenta_ConfirmarSinStockDejaTodoIntacto(t *testing.T) {
	store := memory.NewStore()
	salesUC, _ := newUseCases(store)
	ctx := context.Background()
	productID := seedProduct(t, store, entity.TrackingSimple)
	require.NoError(t, store.Entries().AddSimple(ctx, productID, testWarehouse, 3))

	sale, err := salesUC.Create(ctx, testActor, oneLine(productID, 4))
	require.NoError(t, err, "el borrador se crea aunque no haya stock")

	_, err = salesUC.Confirm(ctx, testActor, sale.ID)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, int64(3), stockOf(t, store, productID))
	current, err := salesUC.Get(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusDraft, current.Status)
}

func TestVenta_SerializadaMueveLaEntradaCompleta(t *testing.T) {
	store := memory.NewStore()
	salesUC, receiptUC := newUseCases(store)
	ctx := context.Background()
	productID := seedProduct(t, store, entity.TrackingSerialized)

	in := oneLine(productID, 2)
	in.Lines[0].SerialNumbers = []string{"SN-100", "SN-101"}
	rcpt, err := receiptUC.Create(ctx, "user-bodeguero", in)
	require.NoError(t, err)
	_, err = receiptUC.Confirm(ctx, "user-bodeguero", rcpt.ID)
	require.NoError(t, err)

	out := oneLine(productID, 2)
	out.Lines[0].SerialNumbers = []string{"SN-100", "SN-101"}
	sale, err := salesUC.Create(ctx, testActor, out)
	require.NoError(t, err)
	_, err = salesUC.Confirm(ctx, testActor, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stockOf(t, store, productID))

	// La cancelación vuelve a dar de alta los mismos seriales.
	_, err = salesUC.Cancel(ctx, testActor, sale.ID, "cliente desistió")
	require.NoError(t, err)
	assert.Equal(t, int64(2), stockOf(t, store, productID))
}

func TestVenta_PerecederaConsumePorFEFO(t *testing.T) {
	store := memory.NewStore()
	salesUC, receiptUC := newUseCases(store)
	ctx := context.Background()
	productID := seedProduct(t, store, entity.TrackingExpirable)

	near := time.Now().AddDate(0, 1, 0)
	far := time.Now().AddDate(0, 6, 0)
	for _, exp := range []time.Time{far, near} {
		in := oneLine(productID, 5)
		e := exp
		in.Lines[0].ExpirationDate = &e
		rcpt, err := receiptUC.Create(ctx, "user-bodeguero", in)
		require.NoError(t, err)
		_, err = receiptUC.Confirm(ctx, "user-bodeguero", rcpt.ID)
		require.NoError(t, err)
	}

	// La venta no declara fecha: el motor elige el lote que vence primero.
	sale, err := salesUC.Create(ctx, testActor, oneLine(productID, 5))
	require.NoError(t, err)
	_, err = salesUC.Confirm(ctx, testActor, sale.ID)
	require.NoError(t, err)

	entries, err := store.Entries().List(ctx, productID, testWarehouse)
	require.NoError(t, err)
	for _, e := range entries {
		if e.ExpirationDate.Equal(near) {
			assert.Equal(t, int64(0), e.Quantity, "debe consumirse el lote más próximo a vencer")
		} else {
			assert.Equal(t, int64(5), e.Quantity)
		}
	}
}
