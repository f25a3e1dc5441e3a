package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"coffeeshop-pos/internal/domain"
)

// ProductWriter is the slice of the catalog repository the importer needs.
type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

// CSVImporter reads menu CSV exports and inserts/updates catalog products.
// A product row may be followed by continuation rows that add option
// choices to it.
type CSVImporter struct {
	reader  *csv.Reader
	catalog ProductWriter
}

func NewCSVImporter(r io.Reader, catalog ProductWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:  csvr,
		catalog: catalog,
	}
}

type csvRow struct {
	Name      string
	Category  string
	Cents     int64
	Desc      string
	Available string
	Option    string
	Choice    string
	Delta     int64
}

type menuItem struct {
	row     csvRow
	choices []csvRow
}

// Run parses CSV rows and upserts products grouped by name.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)

	var (
		current  *menuItem
		imported int
	)

	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}

		row := parseRow(record, index)
		if row == nil {
			continue
		}

		if row.Name != "" {
			if current != nil {
				if err := i.save(ctx, current); err != nil {
					return imported, err
				}
				imported++
			}
			current = &menuItem{row: *row}
			if row.Option != "" && row.Choice != "" {
				current.choices = append(current.choices, *row)
			}
			continue
		}

		// Continuation rows (option choices) belong to the current product.
		if current != nil && row.Option != "" && row.Choice != "" {
			current.choices = append(current.choices, *row)
		}
	}

	if current != nil {
		if err := i.save(ctx, current); err != nil {
			return imported, err
		}
		imported++
	}

	return imported, nil
}

func (i *CSVImporter) save(ctx context.Context, item *menuItem) error {
	row := item.row
	if row.Cents <= 0 {
		return fmt.Errorf("invalid price for %q: %d", row.Name, row.Cents)
	}
	category, err := domain.ParseCategory(row.Category)
	if err != nil {
		return fmt.Errorf("product %q: %w", row.Name, err)
	}

	available := true
	if row.Available != "" {
		parsed, err := strconv.ParseBool(row.Available)
		if err != nil {
			return fmt.Errorf("product %q: bad available flag %q", row.Name, row.Available)
		}
		available = parsed
	}

	p := domain.Product{
		Name:        row.Name,
		Category:    category,
		PriceCents:  row.Cents,
		Description: row.Desc,
		Available:   available,
	}
	for _, c := range item.choices {
		p.Options = addChoice(p.Options, c.Option, c.Choice, c.Delta)
	}

	if _, err := i.catalog.Upsert(ctx, p); err != nil {
		return fmt.Errorf("upsert product %q: %w", row.Name, err)
	}
	return nil
}

// addChoice folds one choice row into the option list, keeping first-seen
// option order.
func addChoice(opts []domain.Option, name, label string, delta int64) []domain.Option {
	for i := range opts {
		if opts[i].Name == name {
			opts[i].Choices = append(opts[i].Choices, domain.Choice{Label: label, PriceDeltaCents: delta})
			return opts
		}
	}
	return append(opts, domain.Option{
		Name:    name,
		Choices: []domain.Choice{{Label: label, PriceDeltaCents: delta}},
	})
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) *csvRow {
	name := pick(record, index, "name")
	option := pick(record, index, "option")
	choice := pick(record, index, "choice")

	if name == "" && option == "" {
		return nil
	}

	var cents int64
	if centStr := pick(record, index, "price_cents"); centStr != "" {
		cents, _ = strconv.ParseInt(centStr, 10, 64)
	}
	var delta int64
	if deltaStr := pick(record, index, "delta_cents"); deltaStr != "" {
		delta, _ = strconv.ParseInt(deltaStr, 10, 64)
	}

	return &csvRow{
		Name:      name,
		Category:  pick(record, index, "category"),
		Cents:     cents,
		Desc:      pick(record, index, "description"),
		Available: pick(record, index, "available"),
		Option:    option,
		Choice:    choice,
		Delta:     delta,
	}
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
