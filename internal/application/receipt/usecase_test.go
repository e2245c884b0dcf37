package receipt_test

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
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/infrastructure/memory"
	"github.com/jhoicas/Kardex-api/pkg/logger"
)

const (
	testWarehouse = "wh-central"
	testActor     = "user-bodeguero"
)

func newReceiptUC(store *memory.Store) *receipt.UseCase {
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	return receipt.NewUseCase(store, store.Documents(), store.Products(), store.Entries(), log)
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
		CounterpartyID: "prov-001",
		WarehouseID:    testWarehouse,
		Currency:       "COP",
		Lines: []entity.DocumentLine{{
			ProductID: productID,
			Quantity:  qty,
			UnitPrice: decimal.NewFromInt(800),
		}},
	}
}

func stockOf(t *testing.T, store *memory.Store, productID string) int64 {
	t.Helper()
	total, err := store.Entries().TotalQuantity(context.Background(), productID, testWarehouse)
	require.NoError(t, err)
	return total
}

func TestRecepcion_ConfirmarYCancelar(t *testing.T) {
	store := memory.NewStore()
	uc := newReceiptUC(store)
	ctx := context.Background()
	productID := seedProduct(t, store, entity.TrackingSimple)

	rcpt, err := uc.Create(ctx, testActor, oneLine(productID, 20))
	require.NoError(t, err)
	_, err = uc.Confirm(ctx, testActor, rcpt.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(20), stockOf(t, store, productID))

	_, err = uc.Cancel(ctx, testActor, rcpt.ID, "factura del proveedor anulada")
	require.NoError(t, err)
	assert.Equal(t, int64(0), stockOf(t, store, productID), "cancelar la recepción retira lo recibido")
}

// La reversa de una recepción es una baja real de stock: si lo recibido ya
// salió por otra vía, la cancelación completa aborta y el documento sigue
// CONFIRMED. Nunca hay reversa parcial ni stock negativo.
func TestRecepcion_CancelarConStockYaVendidoAborta(t *testing.T) {
	store := memory.NewStore()
	uc := newReceiptUC(store)
	ctx := context.Background()
	productID := seedProduct(t, store, entity.TrackingSimple)

	rcpt, err := uc.Create(ctx, testActor, oneLine(productID, 10))
	require.NoError(t, err)
	_, err = uc.Confirm(ctx, testActor, rcpt.ID)
	require.NoError(t, err)

	// Se venden 5 de las 10 unidades recibidas.
	matched, err := store.Entries().SubtractSimple(ctx, productID, testWarehouse, 5)
	require.NoError(t, err)
	require.True(t, matched)

	_, err = uc.Cancel(ctx, testActor, rcpt.ID, "error de digitación")
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, int64(5), stockOf(t, store, productID), "la reversa abortada no toca el stock")
	current, err := uc.Get(ctx, rcpt.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusConfirmed, current.Status)
}

func TestRecepcion_LotesSeparadosPorVencimiento(t *testing.T) {
	store := memory.NewStore()
	uc := newReceiptUC(store)
	ctx := context.Background()
	productID := seedProduct(t, store, entity.TrackingExpirable)

	exp1 := time.Now().AddDate(0, 2, 0)
	exp2 := time.Now().AddDate(0, 4, 0)
	for _, exp := range []time.Time{exp1, exp2} {
		in := oneLine(productID, 6)
		e := exp
		in.Lines[0].ExpirationDate = &e
		rcpt, err := uc.Create(ctx, testActor, in)
		require.NoError(t, err)
		_, err = uc.Confirm(ctx, testActor, rcpt.ID)
		require.NoError(t, err)
	}

	entries, err := store.Entries().List(ctx, productID, testWarehouse)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "cada recepción crea su propio lote, nunca se fusionan")
	assert.Equal(t, int64(12), stockOf(t, store, productID))
}

func TestRecepcion_SerialDuplicadoRechazado(t *testing.T) {
	store := memory.NewStore()
	uc := newReceiptUC(store)
	ctx := context.Background()
	productID := seedProduct(t, store, entity.TrackingSerialized)

	in := oneLine(productID, 1)
	in.Lines[0].SerialNumbers = []string{"SN-900"}
	rcpt, err := uc.Create(ctx, testActor, in)
	require.NoError(t, err)
	_, err = uc.Confirm(ctx, testActor, rcpt.ID)
	require.NoError(t, err)

	dup := oneLine(productID, 1)
	dup.Lines[0].SerialNumbers = []string{"SN-900"}
	rcpt2, err := uc.Create(ctx, testActor, dup)
	require.NoError(t, err)
	_, err = uc.Confirm(ctx, testActor, rcpt2.ID)
	assert.ErrorIs(t, err, domain.ErrDuplicateSerial)
	assert.Equal(t, int64(1), stockOf(t, store, productID))
}
