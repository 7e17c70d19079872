// Package reconciliation concilia entregas parciais com as linhas de uma
// requisição: totais por linha, status derivado e incrementos no saldo dos itens.
//
// Todas as funções são puras: não acessam repositório e não alteram a
// requisição recebida.
package reconciliation

import (
	"fmt"

	"almoxarifado/internal/domain"
	apperror "almoxarifado/internal/errors"
)

// Summary resume o atendimento de uma requisição.
type Summary struct {
	Status    domain.Status `json:"status"`
	Delivered int           `json:"delivered"`
	Pending   int           `json:"pending"`
	Total     int           `json:"total"`
}

// Outcome é o resultado da aplicação de uma entrega.
type Outcome struct {
	Request      domain.Request     `json:"request"`
	ItemDeltas   []domain.ItemDelta `json:"item_deltas"`
	AnyPending   bool               `json:"any_pending"`
	AnyDelivered bool               `json:"any_delivered"`
}

// Summarize conta linhas entregues e pendentes e deriva o status.
// Uma linha está entregue quando a quantidade recebida alcança a solicitada.
func Summarize(r domain.Request) Summary {
	s := Summary{Total: len(r.Lines)}
	for _, l := range r.Lines {
		if l.Delivered() {
			s.Delivered++
		} else {
			s.Pending++
		}
	}
	s.Status = statusFor(s.Pending, s.Delivered)
	return s
}

func statusFor(pending, delivered int) domain.Status {
	switch {
	case pending == 0:
		return domain.StatusConcluido
	case delivered > 0:
		return domain.StatusParcial
	default:
		return domain.StatusPendente
	}
}

// ApplyDelivery aplica os incrementos informados às linhas ainda pendentes.
//
// Linhas já atendidas são ignoradas. Para as demais, a entrada é localizada por
// LineID; sem entrada o incremento é zero e a observação fica vazia.
// Quantidades negativas viram zero, o recebido satura em domain.MaxQty e
// MarkDelivered recebe exatamente o pendente.
// Cada incremento positivo gera um ItemDelta para o item da linha.
//
// O status final é sempre o derivado das linhas; se o chamador selecionou
// CONCLUÍDO com linhas pendentes, o resultado é PARCIAL.
func ApplyDelivery(r domain.Request, d domain.Delivery) Outcome {
	updated := r.Clone()

	byLine := make(map[string]domain.LineUpdate, len(d.Lines))
	for _, u := range d.Lines {
		byLine[u.LineID] = u
	}

	var (
		out      Outcome
		deltas   = map[string]int{}
		itemSeen []string
	)

	for i, l := range updated.Lines {
		pend := l.Pending()
		if pend == 0 {
			continue
		}

		inc, notes := 0, ""
		if u, ok := byLine[l.ID]; ok {
			inc = domain.ClampQty(u.Qty)
			if u.MarkDelivered {
				inc = pend
			}
			notes = u.Notes
		}

		// Recebido nunca passa de MaxQty; o incremento é o que de fato entrou.
		rec := domain.AddQty(l.Receipt.ReceivedQty, inc)
		inc = rec - l.Receipt.ReceivedQty
		updated.Lines[i].Receipt = domain.Receipt{
			ReceivedQty: rec,
			Received:    rec >= l.Qty,
			Notes:       notes,
		}

		if rec >= l.Qty {
			out.AnyDelivered = true
		} else {
			out.AnyPending = true
		}

		if inc > 0 {
			if _, ok := deltas[l.ItemID]; !ok {
				itemSeen = append(itemSeen, l.ItemID)
			}
			deltas[l.ItemID] = domain.AddQty(deltas[l.ItemID], inc)
		}
	}

	for _, id := range itemSeen {
		out.ItemDeltas = append(out.ItemDeltas, domain.ItemDelta{ItemID: id, Delta: deltas[id]})
	}

	status := Summarize(updated).Status
	if d.StatusOverride != nil && *d.StatusOverride == domain.StatusConcluido && status != domain.StatusConcluido {
		status = domain.StatusParcial
	}
	updated.Status = status

	if d.DeliveryDate != nil {
		if *d.DeliveryDate == "" {
			updated.DeliveryDate = nil
		} else {
			day := DayKey(*d.DeliveryDate)
			updated.DeliveryDate = &day
		}
	}

	out.Request = updated
	return out
}

// Revert zera os recebimentos de todas as linhas e volta o status para PENDENTE.
// A data de entrega é mantida e o saldo dos itens não é estornado.
func Revert(r domain.Request) domain.Request {
	reverted := r.Clone()
	for i := range reverted.Lines {
		reverted.Lines[i].Receipt = domain.Receipt{}
	}
	reverted.Status = domain.StatusPendente
	return reverted
}

// UnknownLines devolve os LineIDs da entrega que não pertencem à requisição.
func UnknownLines(r domain.Request, d domain.Delivery) []string {
	known := make(map[string]struct{}, len(r.Lines))
	for _, l := range r.Lines {
		known[l.ID] = struct{}{}
	}
	var unknown []string
	for _, u := range d.Lines {
		if _, ok := known[u.LineID]; !ok {
			unknown = append(unknown, u.LineID)
		}
	}
	return unknown
}

// ValidateAlignment confere se há um recebimento para cada linha.
// Um vetor de recebimentos vazio é aceito e tratado como zerado.
func ValidateAlignment(lines, receipts int) error {
	if receipts == 0 || receipts == lines {
		return nil
	}
	return apperror.NewInvariantError(fmt.Sprintf("%d linhas para %d recebimentos", lines, receipts))
}

// DayKey reduz uma data ISO (com ou sem hora) ao formato YYYY-MM-DD.
func DayKey(s string) string {
	if len(s) > 10 {
		return s[:10]
	}
	return s
}
