package refdata

import (
	"bufio"
	"io"
	"strings"

	"tube-catalog/domain/model"
)

// LoadSelectOptions parses a key=value bundle into select options in file
// order, prepending the synthetic blank placeholder. A key prefixed with
// '*' marks that option as the category default. Lines starting with #
// and blank lines are ignored.
func LoadSelectOptions(r io.Reader) ([]model.SelectOption, error) {
	options := []model.SelectOption{{Value: "", Label: "--"}}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		idx := strings.Index(line, "=")
		if idx == -1 {
			continue
		}
		key := strings.TrimSpace(line[:idx])
		label := strings.TrimSpace(line[idx+1:])
		if key == "" {
			continue
		}
		isDefault := strings.HasPrefix(key, "*")
		key = strings.TrimPrefix(key, "*")
		options = append(options, model.SelectOption{Value: key, Label: label, IsDefault: isDefault})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return options, nil
}
