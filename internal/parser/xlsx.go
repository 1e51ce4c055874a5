package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ParseXLSX reads the first sheet of a workbook. Column A holds the word,
// column B the definition, and the first row is a header.
func ParseXLSX(r io.Reader) ([]Entry, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}

	var entries []Entry
	for i, row := range rows {
		if i == 0 || len(row) < 2 {
			continue
		}
		word := strings.TrimSpace(row[0])
		definition := strings.TrimSpace(row[1])
		if word == "" || definition == "" {
			continue
		}
		entries = append(entries, Entry{Word: word, Definition: definition})
	}
	return entries, nil
}
