package sheetsclient

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/jakechorley/accreditation-draw/internal/config"
	"github.com/jakechorley/accreditation-draw/pkg/utils"
)

// valueInputRaw stores cell values exactly as written, without formula or date parsing
const valueInputRaw = "RAW"

// Client wraps the Google Sheets API with retries on transient failures
type Client struct {
	service *sheets.Service
	ctx     context.Context
}

// NewClient authorises against Google, running the browser flow when no stored token is valid,
// and returns a client bound to ctx. Tokens are persisted per environment.
func NewClient(ctx context.Context, oauthCfg *config.OAuthClientConfig, env string) (*Client, error) {
	oauthConfig, err := utils.GetOAuthConfig(oauthCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to get oauth config: %w", err)
	}

	store, err := utils.DefaultTokenStore()
	if err != nil {
		return nil, fmt.Errorf("failed to open token store: %w", err)
	}

	token, err := utils.GetTokenWithFlow(ctx, oauthConfig, store, env)
	if err != nil {
		return nil, fmt.Errorf("failed to get oauth token: %w", err)
	}

	return NewClientWithOptions(ctx, option.WithHTTPClient(oauthConfig.Client(ctx, token)))
}

// NewClientWithOptions builds a client from raw API options, skipping the OAuth flow
func NewClientWithOptions(ctx context.Context, opts ...option.ClientOption) (*Client, error) {
	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return &Client{service: service, ctx: ctx}, nil
}

// GetValues reads values from a spreadsheet range
func (c *Client) GetValues(spreadsheetID, sheetRange string) ([][]interface{}, error) {
	call := c.service.Spreadsheets.Values.Get(spreadsheetID, sheetRange)
	resp, err := withRetry(c.ctx, func() (*sheets.ValueRange, error) {
		return call.Context(c.ctx).Do()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get values: %w", err)
	}
	return resp.Values, nil
}

// SheetTitles returns the titles of every tab in the spreadsheet
func (c *Client) SheetTitles(spreadsheetID string) ([]string, error) {
	call := c.service.Spreadsheets.Get(spreadsheetID).Fields("sheets.properties.title")
	spreadsheet, err := withRetry(c.ctx, func() (*sheets.Spreadsheet, error) {
		return call.Context(c.ctx).Do()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get spreadsheet metadata: %w", err)
	}

	var titles []string
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties == nil {
			continue
		}
		titles = append(titles, sheet.Properties.Title)
	}
	return titles, nil
}

// CreateSheet adds a tab and returns its sheet ID
func (c *Client) CreateSheet(spreadsheetID, sheetTitle string) (int64, error) {
	batch := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: sheetTitle},
			},
		}},
	}

	// AddSheet is not idempotent, so it is not retried
	resp, err := c.service.Spreadsheets.BatchUpdate(spreadsheetID, batch).Context(c.ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("failed to create sheet %q: %w", sheetTitle, err)
	}

	if len(resp.Replies) == 0 || resp.Replies[0].AddSheet == nil || resp.Replies[0].AddSheet.Properties == nil {
		return 0, errors.New("unexpected response from create sheet")
	}
	return resp.Replies[0].AddSheet.Properties.SheetId, nil
}

// ClearValues removes every value in a range, keeping formatting
func (c *Client) ClearValues(spreadsheetID, sheetRange string) error {
	call := c.service.Spreadsheets.Values.Clear(spreadsheetID, sheetRange, &sheets.ClearValuesRequest{})
	if _, err := withRetry(c.ctx, func() (*sheets.ClearValuesResponse, error) {
		return call.Context(c.ctx).Do()
	}); err != nil {
		return fmt.Errorf("failed to clear values: %w", err)
	}
	return nil
}

// UpdateValues writes values starting at the top left of a range
func (c *Client) UpdateValues(spreadsheetID, sheetRange string, values [][]interface{}) error {
	call := c.service.Spreadsheets.Values.
		Update(spreadsheetID, sheetRange, &sheets.ValueRange{Values: values}).
		ValueInputOption(valueInputRaw)
	if _, err := withRetry(c.ctx, func() (*sheets.UpdateValuesResponse, error) {
		return call.Context(c.ctx).Do()
	}); err != nil {
		return fmt.Errorf("failed to update values: %w", err)
	}
	return nil
}
