// Package render produces printable artifacts for payments.
package render

import (
	"bytes"
	"fmt"
	"io"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// ReceiptData is everything a rent receipt displays, pre-resolved to strings
// so the renderer stays free of domain lookups.
type ReceiptData struct {
	ReceiptNumber string
	DatePaid      string
	Method        string
	Reference     string

	TenantName   string
	PropertyName string
	Period       string

	Amount     string
	PaidToDate string
	Balance    string
}

// Renderer builds PDF receipts with the landlord's details baked in.
type Renderer struct {
	landlordName string
	currencyCode string
}

func NewRenderer(landlordName, currencyCode string) *Renderer {
	return &Renderer{landlordName: landlordName, currencyCode: currencyCode}
}

// FormatAmount renders minor units as a currency string, e.g. 800000 as
// "ZMW 8,000.00".
func (r *Renderer) FormatAmount(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}

	units := minor / 100
	cents := minor % 100

	digits := fmt.Sprintf("%d", units)
	var grouped []byte
	for i, d := range []byte(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			grouped = append(grouped, ',')
		}
		grouped = append(grouped, d)
	}

	return fmt.Sprintf("%s %s%s.%02d", r.currencyCode, sign, grouped, cents)
}

func (r *Renderer) Render(data ReceiptData) (io.Reader, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(30,
		text.NewCol(8, "Rent Receipt", props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
		text.NewCol(4, data.ReceiptNumber, props.Text{
			Size:  10,
			Align: align.Right,
			Top:   5,
		}),
	)

	m.AddRow(25,
		col.New(6).Add(
			text.New("Received by: "+r.landlordName, props.Text{Top: 0}),
			text.New("Date paid: "+data.DatePaid, props.Text{Top: 5}),
			text.New("Method: "+data.Method, props.Text{Top: 10}),
		),
		col.New(6).Add(
			text.New("Tenant: "+data.TenantName, props.Text{Top: 0}),
			text.New("Property: "+data.PropertyName, props.Text{Top: 5}),
			text.New("Billing month: "+data.Period, props.Text{Top: 10}),
		),
	)

	if data.Reference != "" {
		m.AddRow(10,
			text.NewCol(12, "Reference: "+data.Reference, props.Text{Size: 9}),
		)
	}

	m.AddRow(15,
		text.NewCol(12, data.Amount+" received", props.Text{
			Size:  14,
			Style: fontstyle.Bold,
			Top:   5,
		}),
	)

	m.AddRow(10,
		text.NewCol(6, "Paid to date", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(6, data.PaidToDate, props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(10,
		text.NewCol(6, "Balance", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(6, data.Balance, props.Text{Size: 9, Align: align.Right}),
	)

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(doc.GetBytes()), nil
}
