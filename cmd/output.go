package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"github.com/s0up4200/comicvine/comicvine"
	"github.com/s0up4200/comicvine/config"
)

// Output format names
const (
	OutputFormatTree  = "tree"
	OutputFormatTable = "table"
	OutputFormatJSON  = "json"
	OutputFormatYAML  = "yaml"
)

func validateOutputFormat(format string) error {
	if !slices.Contains(config.OutputFormats, format) {
		return fmt.Errorf("invalid output format: %s", format)
	}
	return nil
}

// listOutput is the json/yaml shape of a page of results
type listOutput struct {
	Resource string             `json:"resource" yaml:"resource"`
	Query    string             `json:"query,omitempty" yaml:"query,omitempty"`
	Offset   int                `json:"offset" yaml:"offset"`
	Limit    int                `json:"limit" yaml:"limit"`
	Total    int                `json:"total" yaml:"total"`
	Results  []comicvine.Object `json:"results" yaml:"results"`
}

// printer renders results in the configured output format
type printer struct {
	w         io.Writer
	format    string
	options   comicvine.FormatOptions
	formatter *comicvine.ConsoleFormatter
}

func newPrinter(w io.Writer) *printer {
	return &printer{
		w:      w,
		format: cfg.Output.Format,
		options: comicvine.FormatOptions{
			ShowDetails: cfg.Output.ShowDetails,
			Fields:      showFields,
		},
		formatter: comicvine.NewConsoleFormatter(),
	}
}

func (p *printer) printList(list *comicvine.ListResult) error {
	switch p.format {
	case OutputFormatTree:
		_, err := io.WriteString(p.w, p.formatter.FormatList(list, p.options))
		return err
	case OutputFormatTable:
		return p.renderTable(list.Results)
	default:
		return p.encode(listOutput{
			Resource: string(list.Resource),
			Offset:   list.Offset,
			Limit:    list.Limit,
			Total:    list.TotalResults,
			Results:  nonNil(list.Results),
		})
	}
}

func (p *printer) printSearch(result *comicvine.SearchResult) error {
	switch p.format {
	case OutputFormatTree:
		_, err := io.WriteString(p.w, p.formatter.FormatSearch(result, p.options))
		return err
	case OutputFormatTable:
		return p.renderTable(result.Results)
	default:
		return p.encode(listOutput{
			Resource: string(result.Resource),
			Query:    result.Query,
			Offset:   result.Offset,
			Limit:    result.Limit,
			Total:    result.TotalResults,
			Results:  nonNil(result.Results),
		})
	}
}

func (p *printer) printObjects(objects []comicvine.Object) error {
	switch p.format {
	case OutputFormatTree:
		if len(objects) == 0 {
			_, err := io.WriteString(p.w, "No results found\n")
			return err
		}
		for _, obj := range objects {
			if _, err := io.WriteString(p.w, p.formatter.FormatObject(obj)); err != nil {
				return err
			}
		}
		return nil
	case OutputFormatTable:
		return p.renderTable(objects)
	default:
		if len(objects) == 1 {
			return p.encode(objects[0])
		}
		return p.encode(nonNil(objects))
	}
}

func (p *printer) printTypes(types []comicvine.TypeDescriptor) error {
	switch p.format {
	case OutputFormatTree:
		_, err := io.WriteString(p.w, p.formatter.FormatTypes(types))
		return err
	case OutputFormatTable:
		table := tablewriter.NewWriter(p.w)
		table.Header("ID", "Detail Resource", "List Resource")
		for _, td := range types {
			if err := table.Append([]string{strconv.Itoa(td.ID), td.DetailResourceName, td.ListResourceName}); err != nil {
				return fmt.Errorf("failed to render table: %w", err)
			}
		}
		return table.Render()
	default:
		return p.encode(types)
	}
}

// printPresets renders preset summaries. total is the number of objects the
// presets were evaluated against, or -1 when they were not evaluated.
func (p *printer) printPresets(presets []presetSummary, total int) error {
	switch p.format {
	case OutputFormatTree:
		if len(presets) == 0 {
			_, err := io.WriteString(p.w, "No presets configured\n")
			return err
		}
		fmt.Fprintf(p.w, "\nPresets (%d):\n\n", len(presets))
		for i, ps := range presets {
			prefix := "├"
			if i == len(presets)-1 {
				prefix = "╰"
			}
			fmt.Fprintf(p.w, "%s── %s: %s", prefix, ps.Name, ps.Expression)
			if ps.Matches != nil {
				fmt.Fprintf(p.w, " (%d of %d)", *ps.Matches, total)
			}
			fmt.Fprintln(p.w)
		}
		_, err := fmt.Fprintln(p.w)
		return err
	case OutputFormatTable:
		table := tablewriter.NewWriter(p.w)
		table.Header("Name", "Expression", "Matches")
		for _, ps := range presets {
			matches := "-"
			if ps.Matches != nil {
				matches = fmt.Sprintf("%d/%d", *ps.Matches, total)
			}
			if err := table.Append([]string{ps.Name, ps.Expression, matches}); err != nil {
				return fmt.Errorf("failed to render table: %w", err)
			}
		}
		return table.Render()
	default:
		return p.encode(presets)
	}
}

func (p *printer) encode(v any) error {
	switch p.format {
	case OutputFormatYAML:
		encoder := yaml.NewEncoder(p.w)
		if err := encoder.Encode(yamlValue(v)); err != nil {
			return fmt.Errorf("failed to encode as YAML: %w", err)
		}
		return encoder.Close()
	default:
		encoder := json.NewEncoder(p.w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(v); err != nil {
			return fmt.Errorf("failed to encode as JSON: %w", err)
		}
		return nil
	}
}

func (p *printer) renderTable(objects []comicvine.Object) error {
	if len(objects) == 0 {
		_, err := io.WriteString(p.w, "No results found\n")
		return err
	}

	header := []string{"ID", "Name", "Type"}
	header = append(header, p.options.Fields...)

	table := tablewriter.NewWriter(p.w)
	table.Header(toAny(header)...)

	for _, obj := range objects {
		row := []string{strconv.FormatInt(obj.ID(), 10), obj.DisplayName(), obj.ResourceType()}
		for _, field := range p.options.Fields {
			row = append(row, obj.String(field))
		}
		if err := table.Append(row); err != nil {
			return fmt.Errorf("failed to render table: %w", err)
		}
	}

	return table.Render()
}

// yamlValue swaps json.Number values for plain numbers, which yaml.v3 would
// otherwise quote.
func yamlValue(v any) any {
	switch val := v.(type) {
	case listOutput:
		val.Results = plainObjects(val.Results)
		return val
	case comicvine.Object:
		return val.Plain()
	case []comicvine.Object:
		return plainObjects(val)
	default:
		return v
	}
}

func plainObjects(objects []comicvine.Object) []comicvine.Object {
	out := make([]comicvine.Object, len(objects))
	for i, obj := range objects {
		out[i] = obj.Plain()
	}
	return out
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func nonNil(objects []comicvine.Object) []comicvine.Object {
	if objects == nil {
		return []comicvine.Object{}
	}
	return objects
}
