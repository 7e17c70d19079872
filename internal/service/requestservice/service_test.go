package requestservice_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"almoxarifado/internal/domain"
	apperror "almoxarifado/internal/errors"
	"almoxarifado/internal/pkg/logger"
	"almoxarifado/internal/repository/memory"
	"almoxarifado/internal/service/requestservice"
)

type countingInvalidator struct{ calls int }

func (c *countingInvalidator) Invalidate(context.Context) { c.calls++ }

var (
	admin       = domain.Actor{ID: "u-admin", Name: "Admin", Role: domain.RoleAdmin}
	almox       = domain.Actor{ID: "u-almox", Name: "Almox", Role: domain.RoleAlmox}
	solicitante = domain.Actor{ID: "u-sol", Name: "Maria", Role: domain.RoleSolicitante}
)

type fixture struct {
	store *memory.Store
	svc   *requestservice.Service
	inv   *countingInvalidator
	bolt  domain.Item
	nut   domain.Item
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	store := memory.NewStore()
	bolt, err := store.Items().Save(ctx, domain.Item{Name: "Parafuso", Code: "P-1", Unit: "UN"})
	require.NoError(t, err)
	nut, err := store.Items().Save(ctx, domain.Item{Name: "Porca", Code: "P-2", Unit: "UN", Qty: 3})
	require.NoError(t, err)

	inv := &countingInvalidator{}
	svc := requestservice.NewService(store.Items(), store.Requests(), store, inv, logger.NewLogger("debug")).
		WithClock(func() time.Time { return time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC) })

	return &fixture{store: store, svc: svc, inv: inv, bolt: bolt, nut: nut}
}

func (f *fixture) submitTwoLines(t *testing.T) domain.Request {
	t.Helper()
	req, err := f.svc.Submit(context.Background(), solicitante, domain.RequestSubmission{
		Pedido:     "PC-100",
		Fornecedor: "ACME",
		Lines: []domain.LineDraft{
			{ItemID: f.bolt.ID, Qty: 10, UnitPrice: decimal.NewFromInt(2)},
			{ItemID: f.nut.ID, Qty: 5, UnitPrice: decimal.RequireFromString("0.5")},
		},
	})
	require.NoError(t, err)
	return req
}

func (f *fixture) qty(t *testing.T, id string) int {
	t.Helper()
	item, err := f.store.Items().FindByID(context.Background(), id)
	require.NoError(t, err)
	return item.Qty
}

func TestSubmit_CopiesItemDataAndStartsPending(t *testing.T) {
	f := newFixture(t)

	req := f.submitTwoLines(t)

	assert.NotEmpty(t, req.ID)
	assert.Equal(t, domain.StatusPendente, req.Status)
	assert.Equal(t, "Maria", req.Header.CreatedBy)
	assert.Equal(t, "u-sol", req.Header.CreatedByID)
	assert.Equal(t, 2024, req.Header.CreatedAt.Year())
	require.Len(t, req.Lines, 2)
	assert.Equal(t, "Parafuso", req.Lines[0].Name)
	assert.Equal(t, "P-2", req.Lines[1].Code)
	for _, l := range req.Lines {
		assert.NotEmpty(t, l.ID)
		assert.Equal(t, domain.Receipt{}, l.Receipt)
	}
	assert.Equal(t, 1, f.inv.calls)
}

func TestSubmit_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := map[string]domain.RequestSubmission{
		"sem linhas":       {Pedido: "X"},
		"quantidade zero":  {Lines: []domain.LineDraft{{ItemID: f.bolt.ID, Qty: 0}}},
		"preço negativo":   {Lines: []domain.LineDraft{{ItemID: f.bolt.ID, Qty: 1, UnitPrice: decimal.NewFromInt(-1)}}},
		"item inexistente": {Lines: []domain.LineDraft{{ItemID: "fantasma", Qty: 1}}},
		"acima do máximo":  {Lines: []domain.LineDraft{{ItemID: f.bolt.ID, Qty: domain.MaxQty + 1}}},
	}
	for name, sub := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.svc.Submit(ctx, solicitante, sub)
			assert.IsType(t, &apperror.ValidationError{}, err)
		})
	}
}

// Entrega de uma linha completa e outra zerada deixa a requisição PARCIAL.
func TestApplyDelivery_TwoLineScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.submitTwoLines(t)

	res, err := f.svc.ApplyDelivery(ctx, almox, req.ID, domain.Delivery{
		Lines: []domain.LineUpdate{
			{LineID: req.Lines[0].ID, Qty: 10},
			{LineID: req.Lines[1].ID, Qty: 0},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusParcial, res.Request.Status)
	assert.Equal(t, 1, res.Summary.Delivered)
	assert.Equal(t, 1, res.Summary.Pending)
	assert.Equal(t, []domain.ItemDelta{{ItemID: f.bolt.ID, Delta: 10}}, res.ItemDeltas)
	assert.Equal(t, 10, f.qty(t, f.bolt.ID))
	assert.Equal(t, 3, f.qty(t, f.nut.ID))
	assert.Equal(t, 2, res.Request.Version)
}

// Marcar como entregue recebe exatamente o pendente e conclui a requisição.
func TestApplyDelivery_MarkDeliveredConcludes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.submitTwoLines(t)

	_, err := f.svc.ApplyDelivery(ctx, almox, req.ID, domain.Delivery{
		Lines: []domain.LineUpdate{{LineID: req.Lines[0].ID, Qty: 10}},
	})
	require.NoError(t, err)

	res, err := f.svc.ApplyDelivery(ctx, almox, req.ID, domain.Delivery{
		DeliveryDate: strPtr("2024-03-07T14:00:00Z"),
		Lines: []domain.LineUpdate{
			{LineID: req.Lines[0].ID, Qty: 99}, // já atendida, ignorada
			{LineID: req.Lines[1].ID, MarkDelivered: true, Notes: "caixa avariada"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusConcluido, res.Request.Status)
	assert.Equal(t, 5, res.Request.Lines[1].Receipt.ReceivedQty)
	assert.True(t, res.Request.Lines[1].Receipt.Received)
	assert.Equal(t, "caixa avariada", res.Request.Lines[1].Receipt.Notes)
	assert.Equal(t, 10, res.Request.Lines[0].Receipt.ReceivedQty)
	require.NotNil(t, res.Request.DeliveryDate)
	assert.Equal(t, "2024-03-07", *res.Request.DeliveryDate)
	assert.Equal(t, 10, f.qty(t, f.bolt.ID))
	assert.Equal(t, 8, f.qty(t, f.nut.ID))
}

// Reverter zera os recebimentos sem estornar o saldo.
func TestRevert_KeepsLedger(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.submitTwoLines(t)

	_, err := f.svc.ApplyDelivery(ctx, admin, req.ID, domain.Delivery{
		DeliveryDate: strPtr("2024-03-07"),
		Lines: []domain.LineUpdate{
			{LineID: req.Lines[0].ID, MarkDelivered: true},
			{LineID: req.Lines[1].ID, Qty: 2},
		},
	})
	require.NoError(t, err)

	_, err = f.svc.Revert(ctx, almox, req.ID)
	assert.IsType(t, &apperror.ForbiddenError{}, err)

	reverted, err := f.svc.Revert(ctx, admin, req.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusPendente, reverted.Status)
	for _, l := range reverted.Lines {
		assert.Equal(t, domain.Receipt{}, l.Receipt)
	}
	require.NotNil(t, reverted.DeliveryDate)
	assert.Equal(t, "2024-03-07", *reverted.DeliveryDate)
	assert.Equal(t, 10, f.qty(t, f.bolt.ID))
	assert.Equal(t, 5, f.qty(t, f.nut.ID))
}

func TestApplyDelivery_ConcludedOverrideWithPendingBecomesPartial(t *testing.T) {
	f := newFixture(t)
	req := f.submitTwoLines(t)
	concluded := domain.StatusConcluido

	res, err := f.svc.ApplyDelivery(context.Background(), almox, req.ID, domain.Delivery{
		StatusOverride: &concluded,
		Lines:          []domain.LineUpdate{{LineID: req.Lines[0].ID, Qty: 3}},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusParcial, res.Request.Status)
	assert.Equal(t, domain.StatusParcial, res.Summary.Status)
	assert.Equal(t, 0, res.Summary.Delivered)

	// Leituras recalculam o status a partir dos recebimentos.
	got, err := f.svc.Get(context.Background(), almox, req.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPendente, got.Status)
}

func TestApplyDelivery_AllZeroIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.submitTwoLines(t)

	res, err := f.svc.ApplyDelivery(ctx, almox, req.ID, domain.Delivery{
		Lines: []domain.LineUpdate{{LineID: req.Lines[0].ID}, {LineID: req.Lines[1].ID}},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusPendente, res.Request.Status)
	assert.Empty(t, res.ItemDeltas)
	assert.Equal(t, 0, f.qty(t, f.bolt.ID))
	assert.Equal(t, 3, f.qty(t, f.nut.ID))
}

func TestApplyDelivery_UnknownLineRollsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.submitTwoLines(t)

	_, err := f.svc.ApplyDelivery(ctx, almox, req.ID, domain.Delivery{
		Lines: []domain.LineUpdate{{LineID: req.Lines[0].ID, Qty: 4}, {LineID: "outra", Qty: 1}},
	})
	assert.IsType(t, &apperror.ValidationError{}, err)

	got, err := f.svc.Get(ctx, almox, req.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Lines[0].Receipt.ReceivedQty)
	assert.Equal(t, 1, got.Version)
	assert.Equal(t, 0, f.qty(t, f.bolt.ID))
}

func TestApplyDelivery_MissingItemStillRecordsReceipt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req, err := f.store.Requests().Save(ctx, domain.Request{
		Lines:  []domain.RequestLine{{ItemID: "item-removido", Name: "Antigo", Qty: 2}},
		Status: domain.StatusPendente,
	})
	require.NoError(t, err)

	res, err := f.svc.ApplyDelivery(ctx, almox, req.ID, domain.Delivery{
		Lines: []domain.LineUpdate{{LineID: req.Lines[0].ID, Qty: 2}},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConcluido, res.Request.Status)
	assert.Equal(t, 2, res.Request.Lines[0].Receipt.ReceivedQty)
}

func TestApplyDelivery_RejectsBadPayload(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.submitTwoLines(t)
	bogus := domain.Status("ENTREGUE")

	_, err := f.svc.ApplyDelivery(ctx, almox, req.ID, domain.Delivery{StatusOverride: &bogus})
	assert.IsType(t, &apperror.ValidationError{}, err)

	_, err = f.svc.ApplyDelivery(ctx, almox, req.ID, domain.Delivery{DeliveryDate: strPtr("07/03/2024")})
	assert.IsType(t, &apperror.ValidationError{}, err)

	_, err = f.svc.ApplyDelivery(ctx, solicitante, req.ID, domain.Delivery{})
	assert.IsType(t, &apperror.ForbiddenError{}, err)

	_, err = f.svc.ApplyDelivery(ctx, almox, "nao-existe", domain.Delivery{})
	assert.IsType(t, &apperror.NotFoundError{}, err)
}

func TestList_Scopes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	mine := f.submitTwoLines(t)

	other, err := f.svc.Submit(ctx, almox, domain.RequestSubmission{
		Lines: []domain.LineDraft{{ItemID: f.bolt.ID, Qty: 1}},
	})
	require.NoError(t, err)
	_, err = f.svc.ApplyDelivery(ctx, almox, other.ID, domain.Delivery{
		Lines: []domain.LineUpdate{{LineID: other.Lines[0].ID, MarkDelivered: true}},
	})
	require.NoError(t, err)

	all, err := f.svc.List(ctx, solicitante, requestservice.ScopeAll)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	own, err := f.svc.List(ctx, solicitante, requestservice.ScopeMine)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, mine.ID, own[0].ID)

	open, err := f.svc.List(ctx, admin, requestservice.ScopeOpen)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, mine.ID, open[0].ID)

	_, err = f.svc.List(ctx, admin, "todas")
	assert.IsType(t, &apperror.ValidationError{}, err)
}

func strPtr(s string) *string { return &s }
