package summary_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"almoxarifado/internal/domain"
	"almoxarifado/internal/summary"
)

func sampleRequests() []domain.Request {
	return []domain.Request{
		{
			ID:     "r1",
			Header: domain.RequestHeader{Pedido: "PC-100", Fornecedor: "Ferragens São João", Marca: "Tramontina", Linha: "Montagem"},
			Lines: []domain.RequestLine{
				{ItemID: "i1", Name: "Parafuso", Unit: "un", Qty: 10, UnitPrice: decimal.RequireFromString("0.25"), Receipt: domain.Receipt{ReceivedQty: 4}},
				{ItemID: "i2", Name: "Luva", Unit: "par", Qty: 2, UnitPrice: decimal.NewFromInt(12), Receipt: domain.Receipt{ReceivedQty: 2, Received: true}},
			},
		},
		{
			ID:     "r2",
			Header: domain.RequestHeader{Pedido: "PC-200", Fornecedor: "Distribuidora Norte", Marca: "3M", Linha: "Pintura"},
			Lines: []domain.RequestLine{
				{ItemID: "i1", Name: "Parafuso sextavado", Unit: "cx", Qty: 5, UnitPrice: decimal.RequireFromString("0.25"), Receipt: domain.Receipt{ReceivedQty: 5, Received: true}},
			},
		},
	}
}

func TestAggregateByItem(t *testing.T) {
	totals := summary.AggregateByItem(sampleRequests())

	require.Len(t, totals, 2)
	screws := totals["i1"]
	assert.Equal(t, "Parafuso", screws.Name)
	assert.Equal(t, "un", screws.Unit)
	assert.Equal(t, 9, screws.ReceivedTotal)
	assert.Equal(t, 6, screws.PendingTotal)
	assert.True(t, decimal.RequireFromString("3.75").Equal(screws.RequestedValue))
	assert.True(t, decimal.RequireFromString("2.25").Equal(screws.ReceivedValue))

	gloves := totals["i2"]
	assert.Equal(t, 2, gloves.ReceivedTotal)
	assert.Equal(t, 0, gloves.PendingTotal)
}

func TestAggregateByItem_OverReceiptCountsNoPending(t *testing.T) {
	reqs := []domain.Request{{Lines: []domain.RequestLine{
		{ItemID: "i1", Name: "Fita", Qty: 3, UnitPrice: decimal.NewFromInt(1), Receipt: domain.Receipt{ReceivedQty: 5}},
	}}}

	totals := summary.AggregateByItem(reqs)
	assert.Equal(t, 5, totals["i1"].ReceivedTotal)
	assert.Equal(t, 0, totals["i1"].PendingTotal)
	assert.True(t, decimal.NewFromInt(3).Equal(totals["i1"].ReceivedValue))
}

func TestOrdered(t *testing.T) {
	ordered := summary.Ordered(summary.AggregateByItem(sampleRequests()))
	require.Len(t, ordered, 2)
	assert.Equal(t, "Luva", ordered[0].Name)
	assert.Equal(t, "Parafuso", ordered[1].Name)
}

func TestPartition(t *testing.T) {
	open, concluded := summary.Partition(sampleRequests())

	require.Len(t, open, 1)
	require.Len(t, concluded, 1)
	assert.Equal(t, "r1", open[0].ID)
	assert.Equal(t, "r2", concluded[0].ID)
}

func TestFilter_AccentAndCaseInsensitive(t *testing.T) {
	reqs := sampleRequests()

	assert.Len(t, summary.Filter(reqs, "sao joao"), 1)
	assert.Len(t, summary.Filter(reqs, "PINTURA"), 1)
	assert.Len(t, summary.Filter(reqs, "pc-"), 2)
	assert.Len(t, summary.Filter(reqs, "  "), 2)
	assert.Empty(t, summary.Filter(reqs, "inexistente"))
}

func TestFold(t *testing.T) {
	assert.Equal(t, "concluido", summary.Fold("CONCLUÍDO"))
	assert.Equal(t, "acao", summary.Fold("Ação"))
}
