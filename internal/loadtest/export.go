package loadtest

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"net/http"

	"github.com/xuri/excelize/v2"

	"github.com/okian/marquee/internal/adapters/export"
)

// verifyExports downloads both exports of the session and checks that each
// holds a header plus exactly wantRows data rows.
func verifyExports(ctx context.Context, c *HTTPClient, wantRows int) error {
	csvRows, err := countCSVRows(ctx, c)
	if err != nil {
		return err
	}
	if csvRows != wantRows {
		return fmt.Errorf("%w: csv export has %d rows, view shows %d", ErrViolation, csvRows, wantRows)
	}

	xlsxRows, err := countXLSXRows(ctx, c)
	if err != nil {
		return err
	}
	if xlsxRows != wantRows {
		return fmt.Errorf("%w: xlsx export has %d rows, view shows %d", ErrViolation, xlsxRows, wantRows)
	}
	return nil
}

func download(ctx context.Context, c *HTTPClient, path string) ([]byte, error) {
	resp, err := c.Get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", path, err)
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", path, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download %s: %w", path, apiError(resp.StatusCode, body))
	}
	return body, nil
}

// countCSVRows returns the number of data rows, excluding the header.
func countCSVRows(ctx context.Context, c *HTTPClient) (int, error) {
	body, err := download(ctx, c, exportCSVPath)
	if err != nil {
		return 0, err
	}
	records, err := csv.NewReader(bytes.NewReader(body)).ReadAll()
	if err != nil {
		return 0, fmt.Errorf("parse csv export: %w", err)
	}
	if len(records) == 0 {
		return 0, fmt.Errorf("%w: csv export has no header", ErrViolation)
	}
	return len(records) - 1, nil
}

// countXLSXRows returns the number of data rows of the export sheet, excluding the header.
func countXLSXRows(ctx context.Context, c *HTTPClient) (int, error) {
	body, err := download(ctx, c, exportXLSXPath)
	if err != nil {
		return 0, err
	}
	f, err := excelize.OpenReader(bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("open xlsx export: %w", err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(export.SheetName)
	if err != nil {
		return 0, fmt.Errorf("read xlsx export: %w", err)
	}
	if len(rows) == 0 {
		return 0, fmt.Errorf("%w: xlsx export has no header", ErrViolation)
	}
	return len(rows) - 1, nil
}
