package comicvine

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// FormatOptions contains options for formatting output
type FormatOptions struct {
	ShowDetails bool
	// Fields lists extra keys printed under each object.
	Fields []string
}

// ConsoleFormatter provides console output formatting for results
type ConsoleFormatter struct{}

// NewConsoleFormatter creates a new console formatter
func NewConsoleFormatter() *ConsoleFormatter {
	return &ConsoleFormatter{}
}

// FormatObjects formats a page of objects for console display
func (f *ConsoleFormatter) FormatObjects(title string, objects []Object, options FormatOptions) string {
	if len(objects) == 0 {
		return "No results found"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "\n%s (%d):\n\n", title, len(objects))

	for i, obj := range objects {
		isLast := i == len(objects)-1
		f.formatObject(&sb, obj, isLast, options)

		if !isLast {
			sb.WriteString("│\n")
		}
	}

	sb.WriteString("\n")
	return sb.String()
}

// FormatList formats a list page with its paging footer
func (f *ConsoleFormatter) FormatList(list *ListResult, options FormatOptions) string {
	out := f.FormatObjects(titleCase(string(list.Resource)), list.Results, options)
	if len(list.Results) == 0 {
		return out
	}
	return out + pageFooter(list)
}

// FormatSearch formats a search page with its paging footer
func (f *ConsoleFormatter) FormatSearch(result *SearchResult, options FormatOptions) string {
	title := fmt.Sprintf("Results for %q in %s", result.Query, result.Resource)
	out := f.FormatObjects(title, result.Results, options)
	if len(result.Results) == 0 {
		return out
	}
	return out + pageFooter(&result.ListResult)
}

// FormatObject formats a single object with every scalar field
func (f *ConsoleFormatter) FormatObject(obj Object) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "\n╰── %s (ID: %d)\n", obj.DisplayName(), obj.ID())

	for _, key := range slices.Sorted(maps.Keys(obj)) {
		if key == "id" || key == "name" {
			continue
		}
		value, ok := summarize(obj[key])
		if !ok {
			continue
		}
		fmt.Fprintf(&sb, "    %s: %s\n", key, value)
	}

	sb.WriteString("\n")
	return sb.String()
}

// FormatTypes formats the type descriptor list
func (f *ConsoleFormatter) FormatTypes(types []TypeDescriptor) string {
	if len(types) == 0 {
		return "No types found"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "\nTypes (%d):\n\n", len(types))
	for i, td := range types {
		prefix := "├"
		if i == len(types)-1 {
			prefix = "╰"
		}
		fmt.Fprintf(&sb, "%s── %d: %s / %s\n", prefix, td.ID, td.DetailResourceName, td.ListResourceName)
	}
	sb.WriteString("\n")
	return sb.String()
}

// formatObject formats a single entry of a list
func (f *ConsoleFormatter) formatObject(sb *strings.Builder, obj Object, isLast bool, options FormatOptions) {
	prefix := "├"
	if isLast {
		prefix = "╰"
	}

	fmt.Fprintf(sb, "%s── %s (ID: %d)", prefix, obj.DisplayName(), obj.ID())
	if rt := obj.ResourceType(); rt != "" {
		fmt.Fprintf(sb, " [%s]", rt)
	}
	sb.WriteString("\n")

	indent := "│   "
	if isLast {
		indent = "    "
	}

	if options.ShowDetails {
		if pub := obj.Object("publisher"); pub != nil {
			fmt.Fprintf(sb, "%sPublisher: %s\n", indent, pub.Name())
		}
		if vol := obj.Object("volume"); vol != nil {
			fmt.Fprintf(sb, "%sVolume: %s\n", indent, vol.Name())
		}

		var dateParts []string
		if year := obj.String("start_year"); year != "" {
			dateParts = append(dateParts, "Started: "+year)
		}
		if cover := obj.String("cover_date"); cover != "" {
			dateParts = append(dateParts, "Cover date: "+cover)
		}
		if len(dateParts) > 0 {
			fmt.Fprintf(sb, "%s%s\n", indent, strings.Join(dateParts, " | "))
		}

		if deck := obj.String("deck"); deck != "" {
			fmt.Fprintf(sb, "%s%s\n", indent, deck)
		}
		if site := obj.SiteDetailURL(); site != "" {
			fmt.Fprintf(sb, "%s%s\n", indent, site)
		}
	}

	for _, field := range options.Fields {
		if value, ok := summarize(obj[field]); ok {
			fmt.Fprintf(sb, "%s%s: %s\n", indent, field, value)
		}
	}
}

// pageFooter describes where a page sits in the full result set
func pageFooter(list *ListResult) string {
	return fmt.Sprintf("Page %d of %d (%d total)\n", list.Page(), list.PageCount(), list.TotalResults)
}

// summarize renders a field value on one line. Null values and empty strings
// are skipped.
func summarize(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		if val == "" {
			return "", false
		}
		return val, true
	case map[string]any:
		obj := Object(val)
		if obj.Name() != "" {
			return obj.Name(), true
		}
		return fmt.Sprintf("{%d fields}", len(val)), true
	case []any:
		return fmt.Sprintf("[%d items]", len(val)), true
	default:
		return fmt.Sprint(val), true
	}
}

func titleCase(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
