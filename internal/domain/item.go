package domain

import (
	"context"
	"math"
	"time"
)

// Item representa um material do almoxarifado e seu saldo atual.
// A coluna 'version' é usada para controle de concorrência otimista.
type Item struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	Unit      string    `json:"unit"`
	Category  string    `json:"category"`
	Location  string    `json:"location"`
	Qty       int       `json:"qty"`
	Min       int       `json:"min"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BelowMin indica se o saldo está abaixo do estoque mínimo.
func (i Item) BelowMin() bool {
	return i.Qty < i.Min
}

// ItemRegistration é o payload de cadastro de um novo item.
// Saldo e mínimo iniciais negativos são tratados como zero.
type ItemRegistration struct {
	Name     string `json:"name"`
	Code     string `json:"code"`
	Unit     string `json:"unit"`
	Category string `json:"category"`
	Location string `json:"location"`
	Qty      int    `json:"qty"`
	Min      int    `json:"min"`
}

// StockMovement é o payload de entrada ou saída de estoque.
type StockMovement struct {
	Qty int `json:"qty"`
}

// StockAdjustment é o payload de ajuste manual de estoque (entrada > 0, saída < 0).
type StockAdjustment struct {
	Delta int `json:"delta"`
}

// MinimumUpdate é o payload de alteração do estoque mínimo.
type MinimumUpdate struct {
	Min int `json:"min"`
}

// StockResult é devolvido pelas movimentações de estoque.
type StockResult struct {
	Item     Item `json:"item"`
	BelowMin bool `json:"below_min"`
}

// ItemDelta é um incremento pendente no saldo de um item.
type ItemDelta struct {
	ItemID string `json:"item_id"`
	Delta  int    `json:"delta"`
}

// ItemRepository define o contrato de persistência do livro de itens.
type ItemRepository interface {
	Save(ctx context.Context, item Item) (Item, error)
	FindByID(ctx context.Context, id string) (Item, error)
	FindAll(ctx context.Context) ([]Item, error)
	// AdjustQuantity soma delta ao saldo, limitando o resultado a zero.
	AdjustQuantity(ctx context.Context, id string, delta int) (Item, error)
	SetMinimum(ctx context.Context, id string, min int) (Item, error)
}

// MaxQty é a maior quantidade aceita; cabe numa coluna INTEGER.
const MaxQty = math.MaxInt32

// ClampQty limita uma quantidade ao intervalo [0, MaxQty].
func ClampQty(q int) int {
	if q < 0 {
		return 0
	}
	if q > MaxQty {
		return MaxQty
	}
	return q
}

// AddQty soma delta a q sem estourar: o resultado fica em [0, MaxQty].
func AddQty(q, delta int) int {
	q = ClampQty(q)
	if delta > MaxQty-q {
		return MaxQty
	}
	return ClampQty(q + delta)
}
