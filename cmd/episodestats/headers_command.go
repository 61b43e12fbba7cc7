package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"episodestats/internal/schema"
)

type headerJSON struct {
	Index      int    `json:"index"`
	Header     string `json:"header"`
	Normalized string `json:"normalized"`
	Field      string `json:"field,omitempty"`
	Status     string `json:"status"`
}

type fieldJSON struct {
	Field  string `json:"field"`
	Header string `json:"header"`
}

type headersJSON struct {
	Source   string       `json:"source"`
	Encoding string       `json:"encoding"`
	Rejected []string     `json:"rejected_encodings,omitempty"`
	Skipped  int          `json:"rows_skipped"`
	Missing  []string     `json:"missing_fields,omitempty"`
	Fields   []fieldJSON  `json:"fields,omitempty"`
	Columns  []headerJSON `json:"columns"`
}

const (
	statusMapped       = "mapped"
	statusIgnored      = "ignored"
	statusUnclassified = "unclassified"
)

func newHeadersCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "headers <file>",
		Short: "Show how each source header is classified",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			decoded, mapping, resolveErr := ctx.inspect(args[0])
			if decoded == nil {
				return resolveErr
			}

			view := headersJSON{
				Source:   decoded.Path,
				Encoding: decoded.Encoding,
				Skipped:  decoded.Skipped,
			}
			for _, attempt := range decoded.Rejected {
				view.Rejected = append(view.Rejected, attempt.Encoding+": "+attempt.Reason)
			}
			var schemaErr *schema.SchemaError
			if errors.As(resolveErr, &schemaErr) {
				for _, f := range schemaErr.Missing {
					view.Missing = append(view.Missing, string(f))
				}
			}
			view.Fields = mappedFields(mapping)
			view.Columns = classifyColumns(decoded.Header, mapping)

			if ctx.jsonOutput() {
				if err := writeJSON(cmd, view); err != nil {
					return err
				}
				return resolveErr
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Source: %s\n", view.Source)
			fmt.Fprintf(out, "Encoding: %s\n", view.Encoding)
			for _, r := range view.Rejected {
				fmt.Fprintf(out, "Rejected: %s\n", r)
			}
			fmt.Fprintf(out, "Rows skipped: %d\n", view.Skipped)
			columns := tableView{
				title: "Source headers",
				columns: []column{
					numberColumn("#"), textColumn("Header"), textColumn("Normalized"), textColumn("Field"), textColumn("Status"),
				},
			}
			for _, c := range view.Columns {
				field := c.Field
				if field == "" {
					field = "-"
				}
				columns.add(strconv.Itoa(c.Index+1), c.Header, c.Normalized, field, c.Status)
			}
			fmt.Fprintln(out, columns.render(out))
			if len(view.Fields) > 0 {
				fields := tableView{
					title:   "Mapped fields",
					columns: []column{textColumn("Field"), textColumn("Read from")},
				}
				for _, f := range view.Fields {
					fields.add(f.Field, f.Header)
				}
				fmt.Fprintln(out, fields.render(out))
			}
			return resolveErr
		},
	}
}

// mappedFields lists each resolved field with the header it is read from, in
// classification priority order.
func mappedFields(mapping *schema.Mapping) []fieldJSON {
	if mapping == nil {
		return nil
	}
	var out []fieldJSON
	for _, field := range mapping.Fields() {
		if header, ok := mapping.Header(field); ok {
			out = append(out, fieldJSON{Field: string(field), Header: header})
		}
	}
	return out
}

// classifyColumns reports every header with its status. Without a mapping
// (resolution failed) the per-header classification is still shown.
func classifyColumns(headers []string, mapping *schema.Mapping) []headerJSON {
	ignored := make(map[int]schema.Field)
	if mapping != nil {
		for _, c := range mapping.Ignored {
			ignored[c.Index] = c.Field
		}
	}
	claimed := make(map[schema.Field]bool)
	out := make([]headerJSON, 0, len(headers))
	for idx, header := range headers {
		normalized := schema.NormalizeHeader(header)
		item := headerJSON{Index: idx, Header: header, Normalized: normalized, Status: statusUnclassified}
		field, ok := schema.Classify(normalized)
		switch {
		case !ok:
		case mapping != nil:
			if f, isIgnored := ignored[idx]; isIgnored {
				item.Field, item.Status = string(f), statusIgnored
			} else if mapped, ok := mapping.Index(field); ok && mapped == idx {
				item.Field, item.Status = string(field), statusMapped
			}
		default:
			item.Field, item.Status = string(field), statusMapped
			if claimed[field] {
				item.Status = statusIgnored
			}
			claimed[field] = true
		}
		out = append(out, item)
	}
	return out
}
