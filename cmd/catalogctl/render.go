package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"unicode/utf8"

	"product-catalog/internal/viewmodel"
)

const descriptionWidth = 50

func renderStats(w io.Writer, s viewmodel.Stats) {
	fmt.Fprintf(w, "Products: %d   Stock value: %s   Low stock: %d   Out of stock: %d\n",
		s.Total, s.TotalValue.StringFixed(2), s.LowStock, s.OutOfStock)
}

func renderView(w io.Writer, snap viewmodel.Snapshot) {
	if snap.Error != "" {
		fmt.Fprintf(w, "! %s\n", snap.Error)
	}
	renderStats(w, snap.Stats)
	fmt.Fprintln(w)

	if len(snap.Visible) == 0 {
		fmt.Fprintln(w, "No products found.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICE\tSTOCK\tSTATUS\tDESCRIPTION")
	for _, p := range snap.Visible {
		stock := viewmodel.StockStatusOf(p.Stock)
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d - %s\t%s\t%s\n",
			p.ID, p.Name, p.Category, p.Price.StringFixed(2),
			p.Stock, stock.Label(), p.Status.Label(), truncate(p.Description, descriptionWidth))
	}
	tw.Flush()
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n]) + "..."
}
