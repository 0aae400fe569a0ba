package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/msalah0e/relgraph/internal/network"
)

// ReadCSV parses the spreadsheet export: a header row, then one row per
// person with an index column, name, relation and (time, description) pairs
// from the fourth column on. Blank rows are skipped.
func ReadCSV(r io.Reader, fallbackRelation string) ([]network.PersonRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	var records []network.PersonRecord
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		if blank(row) {
			continue
		}
		records = append(records, csvRecord(row, len(records), fallbackRelation))
	}
	return records, nil
}

func csvRecord(row []string, i int, fallbackRelation string) network.PersonRecord {
	name := cell(row, 1)
	if name == "" {
		name = fmt.Sprintf("Unknown %d", i)
	}
	relation := cell(row, 2)
	if relation == "" {
		relation = fallbackRelation
	}

	events := []network.Event{}
	for j := 3; j < len(row); j += 2 {
		ev := network.Event{Time: cell(row, j), Description: cell(row, j+1)}
		if ev.Time != "" || ev.Description != "" {
			events = append(events, ev)
		}
	}
	return network.PersonRecord{Name: name, Relation: relation, Events: events}
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func blank(row []string) bool {
	for _, c := range row {
		if c != "" {
			return false
		}
	}
	return true
}
