package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/back1ply/Catalog-of-BI-tools/internal/facets"
)

func newFacetsCmd() *cobra.Command {
	var (
		from    string
		search  string
		filters []string
	)

	cmd := &cobra.Command{
		Use:   "facets",
		Short: "List filter options or query a generated collection",
		Long: `Facets builds the per-dimension index of a generated collection.

Without --search or --filter it lists every dimension's options with counts.
With them it prints the matching tools. Filters are repeatable as
dimension=value; values of one dimension are alternatives, different
dimensions must all match.`,
		Example: `  catalog-cli facets --filter deployment=Cloud --filter pricing=Freemium
  catalog-cli facets --search snowflake`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if from == "" {
				from = cfg.Output.Path
			}
			records, err := loadRecords(from)
			if err != nil {
				return err
			}
			index := facets.Build(records)

			if search == "" && len(filters) == 0 {
				if outputJSON {
					return printJSON(index.Snapshot())
				}
				printOptions(ui, index)
				return nil
			}

			query, err := parseQuery(search, filters)
			if err != nil {
				return err
			}
			matches := index.Filter(query)

			names := make([]string, len(matches))
			for i, rec := range matches {
				names[i] = rec.Name
			}
			if outputJSON {
				return printJSON(map[string]interface{}{"query": query, "matches": names})
			}
			ui.Success("%d of %d tools match", len(matches), index.Len())
			for _, name := range names {
				fmt.Fprintf(ui.out, "  %s\n", name)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "collection JSON (default: configured output)")
	cmd.Flags().StringVarP(&search, "search", "s", "", "case-insensitive text search")
	cmd.Flags().StringArrayVarP(&filters, "filter", "f", nil, "dimension=value filter (repeatable)")

	return cmd
}

// parseQuery turns dimension=value flags into a facet query.
func parseQuery(search string, filters []string) (facets.Query, error) {
	q := facets.Query{Search: strings.TrimSpace(search)}
	for _, f := range filters {
		dim, value, ok := strings.Cut(f, "=")
		dim, value = strings.TrimSpace(dim), strings.TrimSpace(value)
		if !ok || dim == "" || value == "" {
			return facets.Query{}, fmt.Errorf("invalid filter %q: want dimension=value", f)
		}
		if _, known := facets.Lookup(dim); !known {
			return facets.Query{}, fmt.Errorf("unknown dimension %q: want one of %s", dim, dimensionNames())
		}
		if q.Filters == nil {
			q.Filters = make(map[string][]string)
		}
		q.Filters[dim] = append(q.Filters[dim], value)
	}
	return q, nil
}

func dimensionNames() string {
	names := make([]string, len(facets.Dimensions))
	for i, d := range facets.Dimensions {
		names[i] = d.Name
	}
	return strings.Join(names, ", ")
}

func printOptions(ui *UI, index *facets.Index) {
	for _, d := range facets.Dimensions {
		ui.Section(d.Label)
		values := index.Values(d.Name)
		rows := make([][]string, 0, len(values))
		for _, v := range values {
			rows = append(rows, []string{v, strconv.Itoa(len(index.Records(d.Name, v)))})
		}
		sort.SliceStable(rows, func(i, j int) bool {
			return len(index.Records(d.Name, rows[i][0])) > len(index.Records(d.Name, rows[j][0]))
		})
		ui.Table([]string{"Value", "Tools"}, rows)
	}
}
