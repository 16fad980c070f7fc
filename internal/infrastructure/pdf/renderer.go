// Package pdf renders quotations into paginated documents with maroto.
package pdf

import (
	"context"
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/bizquote/quotation-system/internal/core/domain"
)

// Renderer implements ports.DocumentRenderer.
type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

func (r *Renderer) Render(_ context.Context, q *domain.Quotation, client *domain.Client, issuer *domain.User, profile domain.CompanyProfile) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(12,
		text.NewCol(8, profile.Name, props.Text{
			Size:  16,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
		text.NewCol(4, "Quotation", props.Text{
			Size:  16,
			Style: fontstyle.Bold,
			Align: align.Right,
		}),
	)

	m.AddRow(18,
		col.New(6).Add(
			text.New(profile.Address, props.Text{Top: 0}),
			text.New(profile.Email, props.Text{Top: 4}),
			text.New(profile.Phone, props.Text{Top: 8}),
		),
		col.New(6).Add(
			text.New("Number: "+q.Number, props.Text{Top: 0, Align: align.Right}),
			text.New("Date: "+q.CreatedAt.Format("2006-01-02"), props.Text{Top: 4, Align: align.Right}),
			text.New(validUntilLine(q), props.Text{Top: 8, Align: align.Right}),
		),
	)

	m.AddRow(16,
		col.New(6).Add(
			text.New("Billed to", props.Text{Style: fontstyle.Bold}),
			text.New(client.Name, props.Text{Top: 4}),
			text.New(client.Company, props.Text{Top: 8}),
			text.New(client.Address, props.Text{Top: 12}),
		),
		col.New(6).Add(
			text.New("Prepared by", props.Text{Style: fontstyle.Bold, Align: align.Right}),
			text.New(issuerName(issuer), props.Text{Top: 4, Align: align.Right}),
		),
	)

	m.AddRow(10,
		text.NewCol(12, q.Title, props.Text{Size: 12, Style: fontstyle.Bold}),
	)
	if q.Description != "" {
		m.AddRow(8, text.NewCol(12, q.Description, props.Text{Size: 9}))
	}

	for _, line := range amountLines(q, profile) {
		m.AddRow(6,
			text.NewCol(8, line.label, props.Text{Align: align.Right}),
			text.NewCol(4, line.value, props.Text{Align: align.Right, Style: line.style}),
		)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("render quotation %s: %w", q.ID, err)
	}
	return doc.GetBytes(), nil
}

type amountLine struct {
	label string
	value string
	style fontstyle.Type
}

// amountLines builds the totals block. Only the components the record's
// taxation model actually uses are printed; legacy records show their flat
// pair untouched.
func amountLines(q *domain.Quotation, profile domain.CompanyProfile) []amountLine {
	lines := []amountLine{
		{label: "Subtotal", value: q.Subtotal.StringFixed(2), style: fontstyle.Normal},
	}

	switch q.DisplayTaxationType() {
	case domain.TaxationGST:
		lines = append(lines, amountLine{
			label: fmt.Sprintf("GST (%s%%)%s", q.GSTPercentage.String(), taxNumber(profile.GSTNumber)),
			value: q.GSTAmount.StringFixed(2), style: fontstyle.Normal,
		})
	case domain.TaxationPST:
		lines = append(lines, amountLine{
			label: fmt.Sprintf("PST (%s%%)%s", q.PSTPercentage.String(), taxNumber(profile.PSTNumber)),
			value: q.PSTAmount.StringFixed(2), style: fontstyle.Normal,
		})
	case domain.TaxationBoth:
		lines = append(lines,
			amountLine{
				label: fmt.Sprintf("GST (%s%%)%s", q.GSTPercentage.String(), taxNumber(profile.GSTNumber)),
				value: q.GSTAmount.StringFixed(2), style: fontstyle.Normal,
			},
			amountLine{
				label: fmt.Sprintf("PST (%s%%)%s", q.PSTPercentage.String(), taxNumber(profile.PSTNumber)),
				value: q.PSTAmount.StringFixed(2), style: fontstyle.Normal,
			},
		)
	case domain.TaxationLegacy:
		lines = append(lines, amountLine{
			label: fmt.Sprintf("Tax (%s%%)", q.TaxPercentage.String()),
			value: q.TaxAmount.StringFixed(2), style: fontstyle.Normal,
		})
	}

	lines = append(lines, amountLine{
		label: "Total", value: q.TotalAmount.StringFixed(2), style: fontstyle.Bold,
	})
	return lines
}

func taxNumber(num string) string {
	if num == "" {
		return ""
	}
	return " #" + num
}

func validUntilLine(q *domain.Quotation) string {
	if q.ValidUntil == nil {
		return ""
	}
	return "Valid until: " + q.ValidUntil.Format("2006-01-02")
}

func issuerName(u *domain.User) string {
	if u == nil {
		return ""
	}
	return u.Username
}
