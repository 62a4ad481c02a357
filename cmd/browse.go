package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/comicvine/comicvine"
)

var (
	limit      int
	offset     int
	page       int
	pages      int
	sortOrder  string
	fieldList  string
	apiFilter  string
	fetchFull  bool
	showFields []string
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <resources> <query>",
	Short: "Search Comic Vine",
	Long: `Search one or more resources for a query. Resources are detail names and
may be comma-separated, e.g. "volume,issue".`,
	Example: `  comicvine search volume "amazing spider-man" --limit 5
  comicvine search volume,character batman --filter 'count_of_issues > 100'`,
	Args: cobra.MinimumNArgs(2),
	RunE: runSearch,
}

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list <resource>",
	Short: "List a page of a resource",
	Long: `List a resource page by page. Singular names are accepted and mapped to
their list form, so "volume" lists volumes.`,
	Example: `  comicvine list volumes --api-filter name:Saga --sort name:asc
  comicvine list issues --limit 100 --pages 3 --preset recent`,
	Args: cobra.ExactArgs(1),
	RunE: runList,
}

// getCmd represents the get command
var getCmd = &cobra.Command{
	Use:   "get <resource> <id>...",
	Short: "Get one or more objects by id",
	Long:  `Get the full detail of one or more instances of a resource. Ids are fetched concurrently.`,
	Example: `  comicvine get issue 371103
  comicvine get volume 2127 4363 --field-list id,name,count_of_issues`,
	Args: cobra.MinimumNArgs(2),
	RunE: runGet,
}

// getURLCmd represents the get-url command
var getURLCmd = &cobra.Command{
	Use:   "get-url <api_detail_url>",
	Short: "Get the object behind an API detail URL",
	Args:  cobra.ExactArgs(1),
	RunE:  runGetURL,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(getURLCmd)

	for _, c := range []*cobra.Command{searchCmd, listCmd} {
		c.Flags().IntVarP(&limit, "limit", "l", 0, "results per page (1-100, default from config)")
		c.Flags().BoolVar(&fetchFull, "full", false, "fetch the full detail of every result")
	}
	for _, c := range []*cobra.Command{searchCmd, listCmd, getCmd, getURLCmd} {
		c.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression applied to results")
		c.Flags().StringVarP(&preset, "preset", "p", "", "use a preset filter from config")
		c.Flags().StringSliceVar(&showFields, "show", nil, "extra fields to print in tree and table output")
	}
	for _, c := range []*cobra.Command{searchCmd, listCmd, getCmd} {
		c.Flags().StringVar(&fieldList, "field-list", "", "comma-separated fields to return")
	}

	searchCmd.Flags().IntVar(&page, "page", 1, "page of results")

	listCmd.Flags().IntVar(&offset, "offset", 0, "number of results to skip")
	listCmd.Flags().IntVar(&pages, "pages", 1, "number of pages to follow")
	listCmd.Flags().StringVar(&sortOrder, "sort", "", "sort order, e.g. date_added:desc")
	listCmd.Flags().StringVar(&apiFilter, "api-filter", "", "server-side filter, e.g. name:Saga")
}

// listParams collects the query parameters shared by search and list
func listParams() comicvine.Params {
	params := comicvine.Params{comicvine.ParamLimit: cfg.Output.Limit}
	if limit > 0 {
		params[comicvine.ParamLimit] = limit
	}
	if fieldList != "" {
		params[comicvine.ParamFieldList] = fieldList
	}
	return params
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	resource := comicvine.Resource(args[0])
	query := strings.Join(args[1:], " ")

	params := listParams()
	if page > 1 {
		params[comicvine.ParamPage] = page
	}

	logger.Info().
		Str("resources", string(resource)).
		Str("query", query).
		Msg("Searching Comic Vine")

	result, err := client.Search(ctx, resource, query, params)
	if err != nil {
		return err
	}

	if result.Results, err = prepareResults(cmd, result.Results); err != nil {
		return err
	}

	return newPrinter(cmd.OutOrStdout()).printSearch(result)
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	resource := comicvine.Resource(args[0])
	if !resource.Supported() {
		return fmt.Errorf("%w: %q", comicvine.ErrResourceNotSupported, resource)
	}

	params := listParams()
	if offset > 0 {
		params[comicvine.ParamOffset] = offset
	}
	if sortOrder != "" {
		params[comicvine.ParamSort] = sortOrder
	}
	if apiFilter != "" {
		params[comicvine.ParamFilter] = apiFilter
	}

	objects, last, err := client.ListPages(ctx, resource, params, max(pages, 1))
	if err != nil {
		return err
	}

	list := *last
	if list.Results, err = prepareResults(cmd, objects); err != nil {
		return err
	}

	return newPrinter(cmd.OutOrStdout()).printList(&list)
}

func runGet(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	resource := comicvine.Resource(args[0])

	var params comicvine.Params
	if fieldList != "" {
		params = comicvine.Params{comicvine.ParamFieldList: fieldList}
	}

	objects, err := client.DetailsMany(ctx, resource, args[1:], params)
	if err != nil {
		return err
	}

	if objects, err = applyFilter(ctx, objects); err != nil {
		return err
	}

	return newPrinter(cmd.OutOrStdout()).printObjects(objects)
}

func runGetURL(cmd *cobra.Command, args []string) error {
	obj, err := client.DetailsByURL(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	objects, err := applyFilter(cmd.Context(), []comicvine.Object{obj})
	if err != nil {
		return err
	}
	return newPrinter(cmd.OutOrStdout()).printObjects(objects)
}

// prepareResults fetches full details when asked and applies the filter
func prepareResults(cmd *cobra.Command, objects []comicvine.Object) ([]comicvine.Object, error) {
	if fetchFull {
		full, err := client.FetchMany(cmd.Context(), objects)
		if err != nil {
			return nil, err
		}
		objects = full
	}
	return applyFilter(cmd.Context(), objects)
}
