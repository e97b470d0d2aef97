package nse

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/wonny/niftyscreen/internal/contracts"
	"github.com/wonny/niftyscreen/pkg/httputil"
	"github.com/wonny/niftyscreen/pkg/logger"
)

// Client downloads the index constituent list from the NSE archives
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	url        string
}

// NewClient creates a new NSE list client
func NewClient(httpClient *httputil.Client, url string, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log.WithModule("nse"),
		url:        url,
	}
}

// FetchConstituents downloads and parses the constituent list
func (c *Client) FetchConstituents(ctx context.Context) ([]contracts.Constituent, error) {
	body, err := c.httpClient.GetBody(ctx, c.url)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch constituent list: %v", contracts.ErrNetworkFailure, err)
	}

	list, err := ParseConstituents(body)
	if err != nil {
		return nil, fmt.Errorf("parse constituent list: %w", err)
	}

	c.logger.WithField("count", len(list)).Debug("Fetched constituent list")
	return list, nil
}

var errNoSymbols = errors.New("no symbols in document")

// ParseConstituents accepts the archive CSV or an HTML page holding a constituents table
func ParseConstituents(body []byte) ([]contracts.Constituent, error) {
	trimmed := bytes.TrimSpace(body)
	if bytes.HasPrefix(trimmed, []byte("<")) {
		return parseHTML(trimmed)
	}
	return parseCSV(trimmed)
}

// parseCSV reads a header row with a Symbol column and an optional Company Name column
func parseCSV(body []byte) ([]contracts.Constituent, error) {
	r := csv.NewReader(bytes.NewReader(body))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	symbolCol, nameCol := columns(header)
	if symbolCol < 0 {
		return nil, fmt.Errorf("no Symbol column in header %v", header)
	}

	var rows [][]string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		rows = append(rows, record)
	}

	return collect(rows, symbolCol, nameCol)
}

// parseHTML finds the first table whose header row names a Symbol column
func parseHTML(body []byte) ([]contracts.Constituent, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var list []contracts.Constituent
	var parseErr error

	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		var header []string
		table.Find("tr").First().Find("th, td").Each(func(_ int, cell *goquery.Selection) {
			header = append(header, cell.Text())
		})

		symbolCol, nameCol := columns(header)
		if symbolCol < 0 {
			return true
		}

		var rows [][]string
		table.Find("tr").Slice(1, goquery.ToEnd).Each(func(_ int, tr *goquery.Selection) {
			var row []string
			tr.Find("td").Each(func(_ int, cell *goquery.Selection) {
				row = append(row, cell.Text())
			})
			rows = append(rows, row)
		})

		list, parseErr = collect(rows, symbolCol, nameCol)
		return false
	})

	if parseErr != nil {
		return nil, parseErr
	}
	if list == nil {
		return nil, fmt.Errorf("no constituents table: %w", errNoSymbols)
	}
	return list, nil
}

func columns(header []string) (symbolCol, nameCol int) {
	symbolCol, nameCol = -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))) {
		case "symbol":
			symbolCol = i
		case "company name", "company", "name":
			nameCol = i
		}
	}
	return symbolCol, nameCol
}

func collect(rows [][]string, symbolCol, nameCol int) ([]contracts.Constituent, error) {
	seen := make(map[contracts.Symbol]bool)
	list := make([]contracts.Constituent, 0, len(rows))

	for _, row := range rows {
		if symbolCol >= len(row) {
			continue
		}
		sym := contracts.NormalizeSymbol(row[symbolCol], "")
		if sym == "" || seen[sym] {
			continue
		}
		seen[sym] = true

		c := contracts.Constituent{Symbol: sym}
		if nameCol >= 0 && nameCol < len(row) {
			c.CompanyName = strings.TrimSpace(row[nameCol])
		}
		list = append(list, c)
	}

	if len(list) == 0 {
		return nil, errNoSymbols
	}
	return list, nil
}
