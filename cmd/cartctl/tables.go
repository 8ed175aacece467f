package main

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	catalogmodels "github.com/ghuser/gamercart/services/catalog/domain/models"
	ordermodels "github.com/ghuser/gamercart/services/orders/domain/models"
)

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	return t
}

func renderProducts(w io.Writer, products []catalogmodels.Product) {
	t := newTable(w)
	t.AppendHeader(table.Row{"ID", "Name", "Brand", "Price", "Active"})
	for _, p := range products {
		active := "no"
		if p.Active {
			active = "yes"
		}
		t.AppendRow(table.Row{p.ID, p.Name, p.Brand, p.Price.StringFixed(2), active})
	}
	t.AppendFooter(table.Row{"", "", "", "Total", len(products)})
	t.Render()
}

func renderOrders(w io.Writer, orders []ordermodels.Order) {
	t := newTable(w)
	t.AppendHeader(table.Row{"ID", "Reference", "Customer", "Status", "Total", "Created"})
	for _, o := range orders {
		t.AppendRow(table.Row{
			o.ID,
			o.Reference,
			o.CustomerName,
			o.Status.Label(),
			o.Total.StringFixed(2),
			o.CreatedAt.Format("2006-01-02 15:04"),
		})
	}
	t.Render()
}

type componentStatus struct {
	Name   string
	Status string
	Detail string
}

func renderHealth(w io.Writer, components []componentStatus) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Component", "Status", "Detail"})
	for _, c := range components {
		t.AppendRow(table.Row{c.Name, c.Status, c.Detail})
	}
	t.Render()
}
