package sheet

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/timmy/vidgrid/internal/domain"
)

// columnAliases maps lower-cased sheet headers to record fields.
var columnAliases = map[string]string{
	"title":         "title",
	"name":          "title",
	"url":           "url",
	"link":          "url",
	"video":         "url",
	"video_url":     "url",
	"platform":      "platform",
	"topic":         "topic",
	"category":      "category",
	"page":          "category",
	"thumbnail":     "thumbnail",
	"thumb":         "thumbnail",
	"thumbnail_url": "thumbnail",
	"image":         "thumbnail",
}

// errNoRows is returned for a JSON object that carries neither rows nor data,
// typically an error body from the script behind the endpoint.
var errNoRows = errors.New("sheet JSON object has no rows or data")

func canonicalColumn(header string) string {
	key := strings.ToLower(strings.TrimSpace(header))
	key = strings.ReplaceAll(key, " ", "_")
	return columnAliases[key]
}

func isFieldName(header string) bool {
	key := strings.ToLower(strings.TrimSpace(header))
	return columnAliases[key] == key
}

// cell is one header/value pair of a row, in column order.
type cell struct {
	header string
	value  string
}

// recordFromRow maps cells onto a record. When several columns alias the same
// field, the first non-empty one wins.
func recordFromRow(cells []cell) domain.VideoRecord {
	var rec domain.VideoRecord
	for _, c := range cells {
		var dst *string
		switch canonicalColumn(c.header) {
		case "title":
			dst = &rec.Title
		case "url":
			dst = &rec.URL
		case "platform":
			dst = &rec.Platform
		case "topic":
			dst = &rec.Topic
		case "category":
			dst = &rec.Category
		case "thumbnail":
			dst = &rec.Thumbnail
		default:
			continue
		}
		if strings.TrimSpace(*dst) == "" {
			*dst = c.value
		}
	}
	return rec
}

// recordsFromTable maps a header row plus data rows onto records.
func recordsFromTable(headers []string, rows [][]string) []domain.VideoRecord {
	recs := make([]domain.VideoRecord, 0, len(rows))
	for _, values := range rows {
		cells := make([]cell, 0, len(headers))
		for i, h := range headers {
			if i < len(values) {
				cells = append(cells, cell{header: h, value: values[i]})
			}
		}
		recs = append(recs, recordFromRow(cells))
	}
	return recs
}

// jsonCells flattens a decoded JSON row. Object keys have no order, so exact
// field names come first and the rest sort by key.
func jsonCells(r map[string]interface{}) []cell {
	cells := make([]cell, 0, len(r))
	for k, v := range r {
		if v == nil {
			continue
		}
		s, ok := v.(string)
		if !ok {
			s = fmt.Sprint(v)
		}
		cells = append(cells, cell{header: k, value: s})
	}
	sort.Slice(cells, func(i, j int) bool {
		ei, ej := isFieldName(cells[i].header), isFieldName(cells[j].header)
		if ei != ej {
			return ei
		}
		return cells[i].header < cells[j].header
	})
	return cells
}

// parseJSON accepts a bare array of row objects, {"rows": [...]} or {"data": [...]}.
func parseJSON(body []byte) ([]domain.VideoRecord, error) {
	body = bytes.TrimSpace(body)
	var rows []map[string]interface{}
	if len(body) > 0 && body[0] == '{' {
		var wrapped struct {
			Rows  []map[string]interface{} `json:"rows"`
			Data  []map[string]interface{} `json:"data"`
			Error string                   `json:"error"`
		}
		if err := json.Unmarshal(body, &wrapped); err != nil {
			return nil, fmt.Errorf("failed to decode sheet JSON: %w", err)
		}
		switch {
		case wrapped.Rows != nil:
			rows = wrapped.Rows
		case wrapped.Data != nil:
			rows = wrapped.Data
		case wrapped.Error != "":
			return nil, fmt.Errorf("%w: %s", errNoRows, wrapped.Error)
		default:
			return nil, errNoRows
		}
	} else if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode sheet JSON: %w", err)
	}

	recs := make([]domain.VideoRecord, 0, len(rows))
	for _, r := range rows {
		recs = append(recs, recordFromRow(jsonCells(r)))
	}
	return recs, nil
}

// ParseCSV reads a sheet CSV export whose first row is the header.
func ParseCSV(r io.Reader) ([]domain.VideoRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	all, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet CSV: %w", err)
	}
	if len(all) == 0 {
		return []domain.VideoRecord{}, nil
	}
	headers := all[0]
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], "\ufeff")
	}
	return recordsFromTable(headers, all[1:]), nil
}

// parseHTML reads the first table of a "publish to web" sheet page.
// Row-number cells are <th> and are ignored; the first row with <td> cells is the header.
func parseHTML(r io.Reader) ([]domain.VideoRecord, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse sheet HTML: %w", err)
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("sheet HTML has no table")
	}

	var headers []string
	var rows [][]string
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		var cells []string
		tr.Find("td").Each(func(_ int, td *goquery.Selection) {
			cells = append(cells, strings.TrimSpace(td.Text()))
		})
		if len(cells) == 0 {
			return
		}
		if headers == nil {
			headers = cells
			return
		}
		rows = append(rows, cells)
	})

	if headers == nil {
		return []domain.VideoRecord{}, nil
	}
	return recordsFromTable(headers, rows), nil
}
