package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/artpar/showroom/adapters/clock"
	"github.com/artpar/showroom/adapters/sqlite"
	"github.com/artpar/showroom/app"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print visitor analytics to the terminal",
	Long: `Print aggregated visitor analytics without starting the server.

Examples:
  showroom stats
  showroom stats --days 7
  showroom stats --product 3`,
	RunE: runStats,
}

var (
	statsDays    int
	statsProduct int64
)

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().IntVar(&statsDays, "days", 30, "trailing window in days")
	statsCmd.Flags().Int64Var(&statsProduct, "product", 0, "show analytics for a single product ID")
}

func runStats(cmd *cobra.Command, args []string) error {
	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	analytics := app.NewAnalyticsService(
		sqlite.NewVisitorStore(db),
		sqlite.NewPageViewStore(db),
		sqlite.NewProductViewStore(db),
		clock.Real{},
	)

	ctx := context.Background()

	if statsProduct != 0 {
		return printProductStats(ctx, db, analytics)
	}
	return printSiteStats(ctx, analytics)
}

func printSiteStats(ctx context.Context, analytics *app.AnalyticsService) error {
	summary, err := analytics.SiteAnalytics(ctx, statsDays)
	if err != nil {
		return fmt.Errorf("failed to aggregate: %w", err)
	}

	fmt.Printf("Site analytics, last %d days (since %s)\n\n", summary.WindowDays, summary.Since.Format("2006-01-02"))
	fmt.Printf("Page views:      %d\n", summary.TotalViews)
	fmt.Printf("Unique visitors: %d\n", summary.UniqueVisitors)

	if len(summary.TopPages) > 0 {
		fmt.Println("\nTop pages:")
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "  VIEWS\tURL\tTITLE")
		for _, p := range summary.TopPages {
			fmt.Fprintf(w, "  %d\t%s\t%s\n", p.Views, p.PageURL, p.PageTitle)
		}
		w.Flush()
	}

	if len(summary.DailyViews) > 0 {
		fmt.Println("\nDaily views:")
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		for _, d := range summary.DailyViews {
			fmt.Fprintf(w, "  %s\t%d\n", d.Day, d.Views)
		}
		w.Flush()
	}

	if len(summary.TopReferrers) > 0 {
		fmt.Println("\nTop referrers:")
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		for _, r := range summary.TopReferrers {
			fmt.Fprintf(w, "  %d\t%s\n", r.Views, r.Referrer)
		}
		w.Flush()
	}

	return nil
}

func printProductStats(ctx context.Context, db *sqlite.DB, analytics *app.AnalyticsService) error {
	product, err := sqlite.NewProductStore(db).Get(ctx, statsProduct)
	if err != nil {
		return fmt.Errorf("product not found: %d", statsProduct)
	}

	summary, err := analytics.ProductAnalytics(ctx, statsProduct, statsDays)
	if err != nil {
		return fmt.Errorf("failed to aggregate: %w", err)
	}

	fmt.Printf("Product analytics for %q, last %d days (since %s)\n\n", product.Name, summary.WindowDays, summary.Since.Format("2006-01-02"))
	fmt.Printf("Views:          %d\n", summary.TotalViews)
	fmt.Printf("Unique IPs:     %d\n", summary.UniqueIPs)
	fmt.Printf("Lifetime views: %d\n", product.ViewCount)

	if len(summary.PageViews) > 0 {
		fmt.Println("\nCatalog pages read:")
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "  PAGE\tVIEWS")
		for _, p := range summary.PageViews {
			fmt.Fprintf(w, "  %d\t%d\n", p.PageNumber, p.Views)
		}
		w.Flush()
	}

	return nil
}
