// Package docs renders Markdown documentation for rule tables.
//
// The output describes the fields a connector configuration may carry:
// required fields and fields with a constrained value set. Ignored,
// disallowed and platform-managed fields are omitted, since users cannot
// meaningfully set them.
package docs

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"streamhq/confgate/pkg/rules"
)

var whitespace = regexp.MustCompile(`\s+`)

// Generate renders the complete configuration documentation for a snapshot.
func Generate(snap *rules.Snapshot) string {
	general := documentedRules(snap.General)
	generalNames := make(map[string]bool, len(general))
	for _, r := range general {
		generalNames[r.Name] = true
	}

	var b strings.Builder
	writeSection(&b, "General Configurations", general)
	writeSection(&b, "Source Connector Configurations",
		excludeNames(documentedRules(snap.Source), generalNames))
	writeSection(&b, "Sink Connector Configurations",
		excludeNames(documentedRules(snap.Sink), generalNames))
	return b.String()
}

// documentedRules selects the rules worth documenting: required fields and
// fields with an explicit allowed-value set. Rules without a definition are
// skipped.
func documentedRules(table rules.Table) []rules.Rule {
	var out []rules.Rule
	for _, r := range table.Rules {
		if r.Definition == "" {
			continue
		}
		switch r.Action {
		case rules.ActionRequire, rules.ActionAllowValues:
			out = append(out, r)
		}
	}
	sortByImportance(out)
	return out
}

// excludeNames drops rules whose name appears in the exclusion set, so a
// field documented in the general section is not repeated per direction.
func excludeNames(rs []rules.Rule, excluded map[string]bool) []rules.Rule {
	var out []rules.Rule
	for _, r := range rs {
		if !excluded[r.Name] {
			out = append(out, r)
		}
	}
	return out
}

var importanceOrder = map[string]int{"high": 0, "medium": 1, "low": 2}

func sortByImportance(rs []rules.Rule) {
	sort.SliceStable(rs, func(i, j int) bool {
		oi, ok := importanceOrder[strings.ToLower(rs[i].Importance)]
		if !ok {
			oi = 3
		}
		oj, ok := importanceOrder[strings.ToLower(rs[j].Importance)]
		if !ok {
			oj = 3
		}
		if oi != oj {
			return oi < oj
		}
		return rs[i].Name < rs[j].Name
	})
}

func writeSection(b *strings.Builder, title string, rs []rules.Rule) {
	fmt.Fprintf(b, "### %s\n\n", title)

	if len(rs) == 0 {
		b.WriteString("No configurable fields available.\n\n")
		return
	}

	b.WriteString("| Field | Description | Required | Default | Example |\n")
	b.WriteString("|-------|-------------|----------|---------|---------|\n")

	for _, r := range rs {
		description := whitespace.ReplaceAllString(r.Definition, " ")
		required := "No"
		if r.Action == rules.ActionRequire {
			required = "Yes"
		}
		def := r.DefaultValue
		if def == "" {
			def = "N/A"
		}
		fmt.Fprintf(b, "| `%s` | %s | %s | `%s` | `%s` |\n",
			r.Name, description, required, def, exampleValue(r))
	}
	b.WriteString("\n")
}

// exampleValue derives an example from the rule's allowed values or default,
// falling back to a guess based on the field name.
func exampleValue(r rules.Rule) string {
	if len(r.AllowedValues) > 0 {
		return r.AllowedValues[0]
	}
	if r.DefaultValue != "" && len(r.DefaultValue) < 50 {
		return r.DefaultValue
	}

	name := strings.ToLower(r.Name)
	switch {
	case strings.Contains(name, "key"):
		return "your-api-key"
	case strings.Contains(name, "secret") || strings.Contains(name, "password"):
		return "your-secret"
	case strings.Contains(name, "user"):
		return "dbuser"
	case strings.Contains(name, "database"):
		return "orders"
	case strings.Contains(name, "collection"):
		return "transactions"
	case strings.Contains(name, "topic") && strings.Contains(name, "prefix"):
		return "ecommerce"
	case strings.Contains(name, "topic"):
		return "ecommerce.orders"
	case r.Name == "name":
		return "my-connector"
	case r.Name == "connector.class":
		return "MongoDbAtlasSource"
	case r.Type == "boolean":
		return "true"
	case r.Type == "int" || r.Type == "long":
		return "300000"
	default:
		return "value"
	}
}
