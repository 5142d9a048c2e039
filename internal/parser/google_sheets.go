package parser

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/fabianroy/Bistro-Boss-Server/internal/domain"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// menuRange covers name, recipe, price and image.
const menuRange = "A:D"

type GoogleSheetsParser struct {
	service *sheets.Service
}

type Config struct {
	CredentialsJSON []byte
}

func New(cfg Config) (*GoogleSheetsParser, error) {
	ctx := context.Background()

	service, err := sheets.NewService(ctx,
		option.WithCredentialsJSON(cfg.CredentialsJSON),
		option.WithScopes(sheets.SpreadsheetsReadonlyScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &GoogleSheetsParser{
		service: service,
	}, nil
}

// ParseMenu reads the first sheet of spreadsheetID. The first row is a
// header. A row with only its first cell set starts a category; every
// following row up to the next category is one item laid out as
// name | recipe | price | image.
func (p *GoogleSheetsParser) ParseMenu(ctx context.Context, spreadsheetID string) ([]domain.MenuItem, error) {
	resp, err := p.service.Spreadsheets.Values.Get(spreadsheetID, menuRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read spreadsheet: %w", err)
	}

	if len(resp.Values) == 0 {
		return nil, fmt.Errorf("no data found in spreadsheet")
	}

	return parseRows(resp.Values)
}

func parseRows(rows [][]interface{}) ([]domain.MenuItem, error) {
	items := []domain.MenuItem{}
	var category string

	// skip header
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if len(row) == 0 || cell(row, 0) == "" {
			continue
		}

		if isCategoryRow(row) {
			category = strings.ToLower(cell(row, 0))
			continue
		}

		if category == "" {
			return nil, fmt.Errorf("row %d: item %q appears before any category", i+1, cell(row, 0))
		}

		price, err := strconv.ParseFloat(cell(row, 2), 64)
		if err != nil || price <= 0 {
			return nil, fmt.Errorf("row %d: invalid price %q", i+1, cell(row, 2))
		}

		items = append(items, domain.MenuItem{
			Name:     cell(row, 0),
			Recipe:   cell(row, 1),
			Price:    price,
			Image:    cell(row, 3),
			Category: category,
		})
	}

	return items, nil
}

func isCategoryRow(row []interface{}) bool {
	for i := 1; i < len(row); i++ {
		if cell(row, i) != "" {
			return false
		}
	}
	return true
}

func cell(row []interface{}, i int) string {
	if i >= len(row) || row[i] == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprintf("%v", row[i]))
}
