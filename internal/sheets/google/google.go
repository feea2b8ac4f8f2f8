// Package google mirrors record writes into a backup Google Spreadsheet
// using a Service Account. The mirror is an append-only audit log; it is
// never read back by the application.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"spendtrack/internal/core"
	ports "spendtrack/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

var _ ports.Mirror = (*Client)(nil)

// NewFromEnv creates a mirror client from the environment.
// Required: SHEETS_SPREADSHEET_ID (or the value passed in spreadsheetID).
// Credentials: GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS.
func NewFromEnv(ctx context.Context, spreadsheetID, sheetName string) (*Client, error) {
	if spreadsheetID == "" {
		spreadsheetID = strings.TrimSpace(os.Getenv("SHEETS_SPREADSHEET_ID"))
	}
	if spreadsheetID == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	if sheetName == "" {
		sheetName = "Expenses"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// RecordExpense appends one expense row to the mirror sheet.
func (c *Client) RecordExpense(ctx context.Context, e core.Expense) error {
	return c.appendRow(ctx, []any{
		"expense", e.ID, e.UID, e.Date, e.Month, e.Title, e.Category,
		e.Amount.Units(), e.CreatedAt.Format(time.RFC3339),
	})
}

// RecordExpenseDeletion appends a tombstone row; mirror rows are never
// removed in place.
func (c *Client) RecordExpenseDeletion(ctx context.Context, id, uid string) error {
	return c.appendRow(ctx, []any{
		"expense_deleted", id, uid, "", "", "", "", "",
		time.Now().Format(time.RFC3339),
	})
}

// RecordBudget appends one budget row to the mirror sheet.
func (c *Client) RecordBudget(ctx context.Context, b core.Budget) error {
	return c.appendRow(ctx, []any{
		"budget", b.ID, b.UID, "", b.Month, "", "",
		b.Amount.Units(), b.CreatedAt.Format(time.RFC3339),
	})
}

func (c *Client) appendRow(ctx context.Context, row []any) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	rng := fmt.Sprintf("%s!A:I", c.sheetName)
	vr := &gsheet.ValueRange{Values: [][]any{row}}

	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append row to sheet %s: %w", c.sheetName, err)
	}

	slog.DebugContext(ctx, "Mirror row appended", "sheet", c.sheetName, "kind", row[0])
	return nil
}
