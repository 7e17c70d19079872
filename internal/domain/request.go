package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Status é a situação de atendimento de uma requisição.
type Status string

const (
	StatusPendente  Status = "PENDENTE"
	StatusParcial   Status = "PARCIAL"
	StatusConcluido Status = "CONCLUÍDO"
)

// Valid informa se o status pertence ao enum conhecido.
func (s Status) Valid() bool {
	switch s {
	case StatusPendente, StatusParcial, StatusConcluido:
		return true
	}
	return false
}

// Receipt é o registro de recebimento de uma linha.
type Receipt struct {
	ReceivedQty int    `json:"received_qty"`
	Received    bool   `json:"received"`
	Notes       string `json:"notes"`
}

// RequestLine é uma linha da requisição, pareada com o seu recebimento.
// Identidade, item, quantidade e preço não mudam após a criação.
type RequestLine struct {
	ID        string          `json:"id"`
	ItemID    string          `json:"item_id"`
	Name      string          `json:"name"`
	Code      string          `json:"code"`
	Unit      string          `json:"unit"`
	Qty       int             `json:"qty"`
	UnitPrice decimal.Decimal `json:"unit_price" swaggertype:"string"`
	Receipt   Receipt         `json:"receipt"`
}

// Pending retorna a quantidade ainda não recebida.
func (l RequestLine) Pending() int {
	return ClampQty(l.Qty - l.Receipt.ReceivedQty)
}

// Delivered indica se a linha foi totalmente recebida.
func (l RequestLine) Delivered() bool {
	return l.Receipt.ReceivedQty >= l.Qty
}

// Total é o valor solicitado da linha.
func (l RequestLine) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Qty)))
}

// ReceivedValue é o valor já recebido da linha.
func (l RequestLine) ReceivedValue() decimal.Decimal {
	rec := l.Receipt.ReceivedQty
	if rec > l.Qty {
		rec = l.Qty
	}
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(rec)))
}

// RequestHeader contém os dados de cabeçalho informados pelo solicitante.
type RequestHeader struct {
	Pedido      string    `json:"pedido"`
	Linha       string    `json:"linha"`
	Fornecedor  string    `json:"fornecedor"`
	Marca       string    `json:"marca"`
	CreatedBy   string    `json:"created_by"`
	CreatedByID string    `json:"created_by_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// Request é uma requisição de material.
// DeliveryDate, quando presente, está no formato YYYY-MM-DD.
type Request struct {
	ID           string        `json:"id"`
	Header       RequestHeader `json:"header"`
	Lines        []RequestLine `json:"lines"`
	DeliveryDate *string       `json:"delivery_date"`
	Status       Status        `json:"status"`
	Version      int           `json:"version"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// Clone devolve uma cópia independente da requisição.
func (r Request) Clone() Request {
	c := r
	c.Lines = make([]RequestLine, len(r.Lines))
	copy(c.Lines, r.Lines)
	if r.DeliveryDate != nil {
		d := *r.DeliveryDate
		c.DeliveryDate = &d
	}
	return c
}

// LineDraft é uma linha informada no envio de uma requisição.
type LineDraft struct {
	ItemID    string          `json:"item_id"`
	Qty       int             `json:"qty"`
	UnitPrice decimal.Decimal `json:"unit_price" swaggertype:"string"`
}

// RequestSubmission é o payload de criação de uma requisição.
type RequestSubmission struct {
	Pedido     string      `json:"pedido"`
	Linha      string      `json:"linha"`
	Fornecedor string      `json:"fornecedor"`
	Marca      string      `json:"marca"`
	Lines      []LineDraft `json:"lines"`
}

// LineUpdate é a entrada do almoxarife para uma linha durante o recebimento.
type LineUpdate struct {
	LineID        string `json:"line_id"`
	Qty           int    `json:"qty"`
	MarkDelivered bool   `json:"mark_delivered"`
	Notes         string `json:"notes"`
}

// Delivery é o payload de registro de entrega.
// DeliveryDate nulo mantém a data atual; string vazia a remove.
type Delivery struct {
	DeliveryDate   *string      `json:"delivery_date"`
	StatusOverride *Status      `json:"status"`
	Lines          []LineUpdate `json:"lines"`
}

// RequestFilter restringe a listagem de requisições.
type RequestFilter struct {
	CreatedByID string
}

// RequestRepository define o contrato de persistência de requisições.
type RequestRepository interface {
	Save(ctx context.Context, req Request) (Request, error)
	FindByID(ctx context.Context, id string) (Request, error)
	FindAll(ctx context.Context, filter RequestFilter) ([]Request, error)
	// UpdateFulfillment grava recebimentos, status e data de entrega,
	// falhando com ConflictError se req.Version estiver desatualizada.
	UpdateFulfillment(ctx context.Context, req Request) (Request, error)
}

// TxRunner executa fn numa unidade de trabalho atômica.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(items ItemRepository, requests RequestRepository) error) error
}
