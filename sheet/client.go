package sheet

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const (
	inputUserEntered = "USER_ENTERED"
	inputRaw         = "RAW"
)

// Client binds a Sheets service to one spreadsheet.
type Client struct {
	srv           *sheets.Service
	spreadsheetID string
	log           zerolog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithLogger sets the logger used for API calls.
func WithLogger(l zerolog.Logger) ClientOption {
	return func(c *Client) { c.log = l }
}

// New validates cfg and authorizes a Sheets service with its credential file.
// opts are applied after the credentials.
func New(ctx context.Context, cfg Config, opts []option.ClientOption, copts ...ClientOption) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := []option.ClientOption{
		option.WithCredentialsFile(cfg.CredentialFile),
		option.WithScopes(sheets.SpreadsheetsScope),
		option.WithUserAgent(cfg.ApplicationName),
	}
	srv, err := sheets.NewService(ctx, append(o, opts...)...)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return NewWithService(srv, cfg.SpreadsheetID, copts...), nil
}

// NewWithService wraps an already built service.
func NewWithService(srv *sheets.Service, spreadsheetID string, opts ...ClientOption) *Client {
	c := &Client{
		srv:           srv,
		spreadsheetID: spreadsheetID,
		log:           zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SpreadsheetID returns the bound spreadsheet.
func (c *Client) SpreadsheetID() string {
	return c.spreadsheetID
}

// Titles lists the titles of every sheet in the spreadsheet.
func (c *Client) Titles(ctx context.Context) ([]string, error) {
	c.log.Debug().Str("spreadsheet", c.spreadsheetID).Msg("get spreadsheet")

	ss, err := c.srv.Spreadsheets.Get(c.spreadsheetID).
		Fields("sheets.properties.title").
		Context(ctx).
		Do()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	titles := make([]string, 0, len(ss.Sheets))
	for _, s := range ss.Sheets {
		if s.Properties == nil {
			continue
		}
		titles = append(titles, s.Properties.Title)
	}
	return titles, nil
}

// SheetNames returns, for every sheet whose title contains title, the rest of the
// title with title removed and surrounding blanks trimmed.
func (c *Client) SheetNames(ctx context.Context, title string) ([]string, error) {
	titles, err := c.Titles(ctx)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, t := range titles {
		if !strings.Contains(t, title) {
			continue
		}
		if title != "" {
			t = strings.ReplaceAll(t, title, "")
		}
		names = append(names, strings.TrimSpace(t))
	}
	return names, nil
}

func (c *Client) hasTitle(ctx context.Context, title string) (bool, error) {
	titles, err := c.Titles(ctx)
	if err != nil {
		return false, err
	}
	for _, t := range titles {
		if t == title {
			return true, nil
		}
	}
	return false, nil
}

// WriteCell writes a single value without parsing it.
func (c *Client) WriteCell(ctx context.Context, cell string, value any) error {
	c.log.Debug().Str("range", cell).Msg("update cell")

	var vr sheets.ValueRange
	vr.Values = append(vr.Values, []interface{}{value})

	_, err := c.srv.Spreadsheets.Values.Update(c.spreadsheetID, cell, &vr).
		ValueInputOption(inputRaw).
		Context(ctx).
		Do()
	if err != nil {
		return errors.WithStack(err)
	}

	return nil
}

func (c *Client) values(ctx context.Context, rng string) ([][]interface{}, error) {
	c.log.Debug().Str("range", rng).Msg("get values")

	resp, err := c.srv.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, errors.Wrapf(err, "get %s", rng)
	}
	return resp.Values, nil
}

func (c *Client) appendRows(ctx context.Context, rng string, rows [][]interface{}) error {
	c.log.Debug().Str("range", rng).Int("rows", len(rows)).Msg("append values")

	vr := &sheets.ValueRange{Values: rows}
	_, err := c.srv.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption(inputUserEntered).
		Context(ctx).
		Do()
	if err != nil {
		return errors.Wrapf(err, "append %s", rng)
	}
	return nil
}

func (c *Client) clear(ctx context.Context, rng string) error {
	c.log.Debug().Str("range", rng).Msg("clear values")

	_, err := c.srv.Spreadsheets.Values.Clear(c.spreadsheetID, rng, &sheets.ClearValuesRequest{}).
		Context(ctx).
		Do()
	if err != nil {
		return errors.Wrapf(err, "clear %s", rng)
	}
	return nil
}

func (c *Client) addSheet(ctx context.Context, title string) error {
	c.log.Info().Str("title", title).Msg("add sheet")

	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: title},
			},
		}},
	}
	_, err := c.srv.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do()
	if err != nil {
		return errors.Wrapf(err, "add sheet %q", title)
	}
	return nil
}
