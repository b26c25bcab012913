package rules

import (
	"encoding/csv"
	"io"
	"os"
	"strings"
)

// Column names recognized by the loader. The action column has appeared
// under several spellings in historical rule files; all are accepted.
var actionColumns = []string{"what_to_do", "what_do_do", "what to do"}

// LoadFile parses the rule table CSV at path.
// The source name recorded on the returned table is the file path.
func LoadFile(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return Table{}, &SourceError{Path: path, Cause: err}
	}
	defer f.Close()

	return Load(f, path)
}

// Load parses a rule table from r. The parse is pure: it either produces a
// complete table or fails, and never installs partial state.
//
// Rows missing the field name or the action descriptor are skipped, as are
// fully blank rows. A row whose action descriptor cannot be parsed, or
// whose ALLOW action lacks its parameter, fails the whole load with a
// MalformedRuleError.
func Load(r io.Reader, source string) (Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // rule files have ragged trailing columns

	header, err := reader.Read()
	if err != nil {
		return Table{}, &SourceError{Path: source, Cause: err}
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff") // BOM from spreadsheet exports
		}
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}

	table := Table{Source: source}

	for row := 1; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Table{}, &SourceError{Path: source, Cause: err}
		}

		cell := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		name := cell("name")
		descriptor := ""
		for _, col := range actionColumns {
			if descriptor = cell(col); descriptor != "" {
				break
			}
		}

		// Tolerant parsing: rows without a field name or action are not
		// rules (blank lines, section separators) and are dropped.
		if name == "" || descriptor == "" {
			continue
		}

		rule := Rule{
			Name:       name,
			Subsection: cell("subsection"),
			Definition: cell("definition"),
			Type:       cell("type"),
			Importance: cell("importance"),
		}

		switch {
		case descriptor == string(ActionRequire):
			rule.Action = ActionRequire
		case descriptor == string(ActionIgnore):
			rule.Action = ActionIgnore
		case descriptor == string(ActionDisallow):
			rule.Action = ActionDisallow
		case strings.HasPrefix(descriptor, "ALLOW") && strings.Contains(descriptor, "default"):
			rule.Action = ActionAllowDefault
			rule.DefaultValue = cell("default")
			if rule.DefaultValue == "" {
				return Table{}, &MalformedRuleError{
					Source: source, Row: row, Field: name, Text: descriptor,
					Reason: "ALLOW default requires a non-empty default column",
				}
			}
		case strings.HasPrefix(descriptor, "ALLOW "):
			rule.Action = ActionAllowValues
			rule.AllowedValues = parseValueList(strings.TrimPrefix(descriptor, "ALLOW "))
			if len(rule.AllowedValues) == 0 {
				return Table{}, &MalformedRuleError{
					Source: source, Row: row, Field: name, Text: descriptor,
					Reason: "ALLOW requires a value list",
				}
			}
		default:
			return Table{}, &MalformedRuleError{
				Source: source, Row: row, Field: name, Text: descriptor,
				Reason: "unknown action",
			}
		}

		table.Rules = append(table.Rules, rule)
	}

	return table, nil
}

// parseValueList splits an ALLOW value list on commas, treating " and " as
// a separator too ("A, B and C"). Values are trimmed and empties dropped;
// order is preserved.
func parseValueList(s string) []string {
	s = strings.ReplaceAll(s, " and ", ", ")

	var values []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}
