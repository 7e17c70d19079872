// Package export gera as planilhas e os PDFs dos relatórios de requisições.
package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"almoxarifado/internal/domain"
	"almoxarifado/internal/reconciliation"
	"almoxarifado/internal/summary"
)

// Nomes das abas da planilha de resumo.
const (
	SheetItems     = "Itens"
	SheetOpen      = "Em aberto"
	SheetConcluded = "Concluídas"
)

// ContentTypeXLSX é o MIME type das planilhas geradas.
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var (
	itemHeader    = []interface{}{"Item", "Unidade", "Recebido", "Pendente", "Valor solicitado", "Valor recebido"}
	requestHeader = []interface{}{"Pedido", "Linha", "Fornecedor", "Marca", "Solicitante", "Criada em", "Entrega", "Status", "Entregues", "Pendentes"}
)

// SummaryXLSX monta a planilha com os totais por item e as requisições
// separadas entre abertas e concluídas.
func SummaryXLSX(totals []summary.ItemTotals, open, concluded []domain.Request) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	// A aba padrão vira a aba de itens
	if err := f.SetSheetName(f.GetSheetName(0), SheetItems); err != nil {
		return nil, fmt.Errorf("xlsx: renomear aba: %w", err)
	}
	if err := writeItems(f, totals); err != nil {
		return nil, err
	}

	for _, sheet := range []struct {
		name string
		reqs []domain.Request
	}{
		{SheetOpen, open},
		{SheetConcluded, concluded},
	} {
		if _, err := f.NewSheet(sheet.name); err != nil {
			return nil, fmt.Errorf("xlsx: criar aba %s: %w", sheet.name, err)
		}
		if err := writeRequests(f, sheet.name, sheet.reqs); err != nil {
			return nil, err
		}
	}
	f.SetActiveSheet(0)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("xlsx: gravar planilha: %w", err)
	}
	return buf.Bytes(), nil
}

func writeItems(f *excelize.File, totals []summary.ItemTotals) error {
	if err := f.SetSheetRow(SheetItems, "A1", &itemHeader); err != nil {
		return fmt.Errorf("xlsx: cabeçalho de itens: %w", err)
	}
	for i, t := range totals {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			t.Name, t.Unit, t.ReceivedTotal, t.PendingTotal,
			t.RequestedValue.InexactFloat64(), t.ReceivedValue.InexactFloat64(),
		}
		if err := f.SetSheetRow(SheetItems, cell, &row); err != nil {
			return fmt.Errorf("xlsx: linha de item %s: %w", t.ItemID, err)
		}
	}
	return f.SetColWidth(SheetItems, "A", "A", 32)
}

func writeRequests(f *excelize.File, sheet string, reqs []domain.Request) error {
	if err := f.SetSheetRow(sheet, "A1", &requestHeader); err != nil {
		return fmt.Errorf("xlsx: cabeçalho de %s: %w", sheet, err)
	}
	for i, r := range reqs {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		s := reconciliation.Summarize(r)
		row := []interface{}{
			r.Header.Pedido, r.Header.Linha, r.Header.Fornecedor, r.Header.Marca,
			r.Header.CreatedBy, r.Header.CreatedAt.Format("2006-01-02 15:04"),
			deliveryLabel(r), string(s.Status), s.Delivered, s.Pending,
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("xlsx: linha da requisição %s: %w", r.ID, err)
		}
	}
	return nil
}

func deliveryLabel(r domain.Request) string {
	if r.DeliveryDate == nil {
		return ""
	}
	return *r.DeliveryDate
}
