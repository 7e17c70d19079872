// Package summary consolida requisições por item e separa abertas de concluídas.
package summary

import (
	"sort"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"almoxarifado/internal/domain"
	"almoxarifado/internal/reconciliation"
)

// ItemTotals acumula o recebido e o pendente de um item em várias requisições.
type ItemTotals struct {
	ItemID         string          `json:"item_id"`
	Name           string          `json:"name"`
	Unit           string          `json:"unit"`
	ReceivedTotal  int             `json:"received_total"`
	PendingTotal   int             `json:"pending_total"`
	RequestedValue decimal.Decimal `json:"requested_value" swaggertype:"string"`
	ReceivedValue  decimal.Decimal `json:"received_value" swaggertype:"string"`
}

// AggregateByItem soma, por item, as quantidades recebidas e pendentes.
// Nome e unidade vêm da primeira linha encontrada para o item.
func AggregateByItem(requests []domain.Request) map[string]ItemTotals {
	totals := make(map[string]ItemTotals)
	for _, r := range requests {
		for _, l := range r.Lines {
			t, ok := totals[l.ItemID]
			if !ok {
				t = ItemTotals{
					ItemID:         l.ItemID,
					Name:           l.Name,
					Unit:           l.Unit,
					RequestedValue: decimal.Zero,
					ReceivedValue:  decimal.Zero,
				}
			}
			t.ReceivedTotal += l.Receipt.ReceivedQty
			t.PendingTotal += l.Pending()
			t.RequestedValue = t.RequestedValue.Add(l.Total())
			t.ReceivedValue = t.ReceivedValue.Add(l.ReceivedValue())
			totals[l.ItemID] = t
		}
	}
	return totals
}

// Ordered devolve os totais ordenados por nome e, no empate, por item.
func Ordered(totals map[string]ItemTotals) []ItemTotals {
	out := make([]ItemTotals, 0, len(totals))
	for _, t := range totals {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ItemID < out[j].ItemID
	})
	return out
}

// Partition separa as requisições não concluídas das concluídas, mantendo a ordem.
func Partition(requests []domain.Request) (open, concluded []domain.Request) {
	open = make([]domain.Request, 0)
	concluded = make([]domain.Request, 0)
	for _, r := range requests {
		if reconciliation.Summarize(r).Status == domain.StatusConcluido {
			concluded = append(concluded, r)
		} else {
			open = append(open, r)
		}
	}
	return open, concluded
}

// Filter mantém as requisições cujo pedido, fornecedor, marca ou linha contém
// a busca, sem diferenciar maiúsculas nem acentos. Busca vazia devolve tudo.
func Filter(requests []domain.Request, query string) []domain.Request {
	q := Fold(strings.TrimSpace(query))
	if q == "" {
		return requests
	}
	out := make([]domain.Request, 0)
	for _, r := range requests {
		h := r.Header
		for _, field := range []string{h.Pedido, h.Fornecedor, h.Marca, h.Linha} {
			if strings.Contains(Fold(field), q) {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

// Fold normaliza o texto para comparação: minúsculas e sem diacríticos.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}
