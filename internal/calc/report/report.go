package report

import (
	"fmt"
	"io"
	"time"

	"Firebox/internal/calc/heater"

	"github.com/phpdave11/gofpdf"
)

type Meta struct {
	Project string    `json:"project" yaml:"project"`
	Author  string    `json:"author" yaml:"author"`
	Title   string    `json:"title" yaml:"title"`
	Notes   string    `json:"notes" yaml:"notes"`
	Date    time.Time `json:"-" yaml:"-"`
}

const defaultTitle = "Fired Heater Efficiency Report"

// Write renders res as a one page PDF.
func Write(w io.Writer, res heater.Result, meta Meta) error {
	if meta.Title == "" {
		meta.Title = defaultTitle
	}
	if meta.Date.IsZero() {
		meta.Date = time.Now()
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr(meta.Title))
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Project: %s", meta.Project)))
	pdf.Ln(6)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Author: %s", meta.Author)))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", meta.Date.Format("2006-01-02")))
	pdf.Ln(10)

	section(pdf, "Results")
	for _, row := range res.Rows() {
		line(pdf, tr, row.Description, fmt.Sprintf("%.2f", row.Value), row.Unit)
	}
	pdf.Ln(4)

	section(pdf, "Operating data")
	for _, f := range heater.Fields() {
		line(pdf, tr, f.Description, fmt.Sprintf("%g", f.Value(res.Parameters)), f.Unit)
	}
	line(pdf, tr, "Saturation pressure", fmt.Sprintf("%.1f", res.Parameters.SaturationPressurePa), "Pa")
	line(pdf, tr, "Water vapour fraction", fmt.Sprintf("%.5f", res.WaterFraction), "mol/mol")

	if len(res.Warnings) > 0 {
		pdf.Ln(4)
		section(pdf, "Warnings")
		for _, s := range res.Warnings {
			pdf.MultiCell(0, 5, tr(s), "", "L", false)
		}
	}
	if meta.Notes != "" {
		pdf.Ln(4)
		section(pdf, "Notes")
		pdf.MultiCell(0, 6, tr(meta.Notes), "", "L", false)
	}
	return pdf.Output(w)
}

func section(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, title)
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
}

func line(pdf *gofpdf.Fpdf, tr func(string) string, desc, value, unit string) {
	pdf.CellFormat(90, 6, tr(desc), "1", 0, "L", false, 0, "")
	pdf.CellFormat(50, 6, value, "1", 0, "R", false, 0, "")
	pdf.CellFormat(40, 6, tr(unit), "1", 1, "L", false, 0, "")
}
