package refdata

import (
	"bufio"
	"io"
	"strings"

	"tube-catalog/domain/model"
	"tube-catalog/infrastructure/logger"
)

// LoadDelimited parses a comma-delimited resource into ordered field
// tuples. The first line is a header and is discarded. Each remaining
// line is split on the first fieldCount-1 commas only, so the final field
// may itself contain commas. Rows with too few delimiters are skipped and
// logged; the second return value is the number of rows skipped.
func LoadDelimited(r io.Reader, resourceName string, fieldCount int) ([][]string, int, error) {
	scanner := bufio.NewScanner(r)
	var rows [][]string
	skipped := 0
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if lineNo == 1 {
			continue
		}
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.SplitN(line, ",", fieldCount)
		if len(fields) < fieldCount {
			skipped++
			perr := &model.ParseError{Resource: resourceName, Line: lineNo, Reason: "not enough fields"}
			logger.GetLogger().WithField("error", perr).Warn("Skipping malformed reference-data row")
			continue
		}
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}
		rows = append(rows, fields)
	}
	if err := scanner.Err(); err != nil {
		return nil, skipped, err
	}
	return rows, skipped, nil
}

// LoadLanguages parses the 3-field language table.
func LoadLanguages(r io.Reader, resourceName string) ([]model.Language, int, error) {
	rows, skipped, err := LoadDelimited(r, resourceName, 3)
	if err != nil {
		return nil, skipped, err
	}
	out := make([]model.Language, 0, len(rows))
	for _, f := range rows {
		out = append(out, model.Language{Code: f[0], Language: f[1], NativeName: f[2]})
	}
	return out, skipped, nil
}

// LoadRegions parses the 4-field region table.
func LoadRegions(r io.Reader, resourceName string) ([]model.Region, int, error) {
	rows, skipped, err := LoadDelimited(r, resourceName, 4)
	if err != nil {
		return nil, skipped, err
	}
	out := make([]model.Region, 0, len(rows))
	for _, f := range rows {
		out = append(out, model.Region{Code: f[0], HL: f[1], Name: f[2], Country: f[3]})
	}
	return out, skipped, nil
}
