// Package calendar agrega requisições por dia de entrega.
package calendar

import (
	"fmt"
	"time"

	"almoxarifado/internal/domain"
	"almoxarifado/internal/reconciliation"
)

// Severity ordena os status para a marcação do calendário:
// PENDENTE (2) > PARCIAL (1) > CONCLUÍDO (0).
func Severity(s domain.Status) int {
	switch s {
	case domain.StatusPendente:
		return 2
	case domain.StatusParcial:
		return 1
	default:
		return 0
	}
}

// MoreSevere informa se a é mais grave que b.
func MoreSevere(a, b domain.Status) bool {
	return Severity(a) > Severity(b)
}

// MonthPrefix devolve o prefixo "YYYY-MM-" usado para filtrar chaves de dia.
func MonthPrefix(year int, month time.Month) string {
	return fmt.Sprintf("%04d-%02d-", year, int(month))
}

// BuildMonth mapeia cada dia do mês com entregas ao status mais grave entre as
// requisições daquele dia. Requisições sem data de entrega são ignoradas.
func BuildMonth(requests []domain.Request, year int, month time.Month) map[string]domain.Status {
	prefix := MonthPrefix(year, month)
	days := make(map[string]domain.Status)

	for _, r := range requests {
		if r.DeliveryDate == nil || *r.DeliveryDate == "" {
			continue
		}
		key := reconciliation.DayKey(*r.DeliveryDate)
		if len(key) != 10 || key[:8] != prefix {
			continue
		}

		st := reconciliation.Summarize(r).Status
		current, ok := days[key]
		if !ok || MoreSevere(st, current) {
			days[key] = st
		}
	}
	return days
}

// DayDetail devolve, na ordem recebida, as requisições com entrega no dia.
func DayDetail(requests []domain.Request, dayKey string) []domain.Request {
	key := reconciliation.DayKey(dayKey)
	out := make([]domain.Request, 0)
	for _, r := range requests {
		if r.DeliveryDate != nil && reconciliation.DayKey(*r.DeliveryDate) == key {
			out = append(out, r)
		}
	}
	return out
}

// Grid monta a grade 6x7 do mês, com semanas começando no domingo.
// Células fora do mês valem 0.
func Grid(year int, month time.Month) [][7]int {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := first.AddDate(0, 1, -1).Day()
	offset := int(first.Weekday())

	grid := make([][7]int, 6)
	for day := 1; day <= daysInMonth; day++ {
		cell := offset + day - 1
		grid[cell/7][cell%7] = day
	}
	return grid
}
