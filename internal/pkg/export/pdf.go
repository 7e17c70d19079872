package export

import (
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"almoxarifado/internal/domain"
	"almoxarifado/internal/reconciliation"
	"almoxarifado/internal/summary"
)

// ContentTypePDF é o MIME type dos documentos gerados.
const ContentTypePDF = "application/pdf"

var (
	colorPrimary = &props.Color{Red: 30, Green: 64, Blue: 120}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

func newDocument(title string) core.Maroto {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		WithAuthor("Almoxarifado", true).
		Build()
	return maroto.New(cfg)
}

// RequestPDF gera o espelho de uma requisição com o recebimento de cada linha.
func RequestPDF(r domain.Request) ([]byte, error) {
	m := newDocument("Requisição " + r.Header.Pedido)
	s := reconciliation.Summarize(r)

	m.AddRows(titleRow("REQUISIÇÃO DE MATERIAL", fmt.Sprintf("Pedido %s", dash(r.Header.Pedido))))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(row.New(14).Add(
		col.New(6).Add(
			text.New("Fornecedor: "+dash(r.Header.Fornecedor), props.Text{Size: 8, Top: 1}),
			text.New("Marca: "+dash(r.Header.Marca), props.Text{Size: 8, Top: 6}),
		),
		col.New(6).Add(
			text.New("Solicitante: "+dash(r.Header.CreatedBy), props.Text{Size: 8, Top: 1, Align: align.Right}),
			text.New(fmt.Sprintf("Status: %s   |   Entrega: %s", s.Status, dash(deliveryLabel(r))), props.Text{Size: 8, Top: 6, Align: align.Right}),
		),
	))

	m.AddRows(tableRow(true, "Item", "Un.", "Qtd.", "Recebido", "Preço unit.", "Total"))
	total := decimal.Zero
	for _, l := range r.Lines {
		m.AddRows(tableRow(false,
			l.Name, l.Unit, fmt.Sprint(l.Qty), fmt.Sprint(l.Receipt.ReceivedQty),
			l.UnitPrice.StringFixed(2), l.Total().StringFixed(2),
		))
		if l.Receipt.Notes != "" {
			m.AddRows(text.NewRow(5, "Obs.: "+l.Receipt.Notes, props.Text{Size: 7, Left: 3, Color: colorGray}))
		}
		total = total.Add(l.Total())
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(text.NewRow(8, fmt.Sprintf("Linhas entregues: %d de %d   |   Valor total: %s", s.Delivered, s.Total, total.StringFixed(2)),
		props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 2}))

	return generate(m)
}

// SummaryPDF gera o resumo consolidado por item e a lista de requisições em aberto.
func SummaryPDF(totals []summary.ItemTotals, open, concluded []domain.Request, generatedAt time.Time) ([]byte, error) {
	m := newDocument("Resumo de requisições")

	m.AddRows(titleRow("RESUMO DE REQUISIÇÕES", "Gerado em "+generatedAt.Format("02/01/2006 15:04")))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(sectionRow("Totais por item"))
	m.AddRows(tableRow(true, "Item", "Un.", "Recebido", "Pendente", "Solicitado", "Recebido (R$)"))
	for _, t := range totals {
		m.AddRows(tableRow(false,
			t.Name, t.Unit, fmt.Sprint(t.ReceivedTotal), fmt.Sprint(t.PendingTotal),
			t.RequestedValue.StringFixed(2), t.ReceivedValue.StringFixed(2),
		))
	}

	m.AddRows(sectionRow(fmt.Sprintf("Em aberto (%d)   |   Concluídas (%d)", len(open), len(concluded))))
	m.AddRows(tableRow(true, "Pedido", "Fornecedor", "Solicitante", "Entrega", "Status", "Pendentes"))
	for _, r := range open {
		s := reconciliation.Summarize(r)
		m.AddRows(tableRow(false,
			dash(r.Header.Pedido), dash(r.Header.Fornecedor), dash(r.Header.CreatedBy),
			dash(deliveryLabel(r)), string(s.Status), fmt.Sprint(s.Pending),
		))
	}

	return generate(m)
}

func generate(m core.Maroto) ([]byte, error) {
	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: gerar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func titleRow(title, subtitle string) core.Row {
	return row.New(14).Add(
		col.New(7).Add(text.New(title, props.Text{
			Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
		})),
		col.New(5).Add(text.New(subtitle, props.Text{
			Size: 9, Align: align.Right, Top: 3, Color: colorGray,
		})),
	)
}

func sectionRow(label string) core.Row {
	return text.NewRow(9, label, props.Text{Style: fontstyle.Bold, Size: 10, Color: colorPrimary, Top: 3})
}

// tableRow distribui seis colunas: a primeira larga, as demais estreitas.
func tableRow(header bool, cells ...string) core.Row {
	sizes := []int{4, 1, 2, 2, 1, 2}
	style := fontstyle.Normal
	if header {
		style = fontstyle.Bold
	}

	cols := make([]core.Col, 0, len(cells))
	for i, c := range cells {
		a := align.Right
		if i == 0 {
			a = align.Left
		}
		cols = append(cols, col.New(sizes[i]).Add(text.New(c, props.Text{Style: style, Size: 8, Align: a, Top: 1})))
	}
	return row.New(6).Add(cols...)
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
