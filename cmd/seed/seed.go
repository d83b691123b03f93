package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/shopapi/shopapi/internal/metrics"
	"github.com/shopapi/shopapi/internal/repository"
	"github.com/shopapi/shopapi/internal/service"
)

type seedOptions struct {
	databaseURL string
	users       int
	products    int
	orders      int
	format      string
	timeout     time.Duration
	stamp       string
}

// seedResult lists the ids created by one run.
type seedResult struct {
	UserIDs    []int64    `json:"user_ids"`
	ProductIDs []int64    `json:"product_ids"`
	OrderIDs   []int64    `json:"order_ids"`
	Lines      [][2]int64 `json:"order_products"`
}

func newRootCmd() *cobra.Command {
	opts := seedOptions{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill the shopapi database with sample data",
		Long: `Seed creates users, products and orders through the shopapi services,
so the same validation and association rules apply as over HTTP.
Each order is linked to one product, round robin.

Examples:
  seed --database-url postgres://localhost/shop
  seed --users 5 --products 10 --orders 20 --format json`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.databaseURL, "database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection URL (defaults to $DATABASE_URL)")
	cmd.Flags().IntVar(&opts.users, "users", 3, "Number of users to create")
	cmd.Flags().IntVar(&opts.products, "products", 5, "Number of products to create")
	cmd.Flags().IntVar(&opts.orders, "orders", 5, "Number of orders to create")
	cmd.Flags().StringVar(&opts.format, "format", "plain", "Output format: plain or json")
	cmd.Flags().DurationVar(&opts.timeout, "connect-timeout", 30*time.Second, "How long to wait for the database")

	return cmd
}

func (o seedOptions) validate() error {
	if o.databaseURL == "" {
		return fmt.Errorf("--database-url is required")
	}
	if o.format != "plain" && o.format != "json" {
		return fmt.Errorf("--format must be plain or json, got %q", o.format)
	}
	if o.users < 0 || o.products < 0 || o.orders < 0 {
		return fmt.Errorf("counts must not be negative")
	}
	if o.orders > 0 && o.users == 0 {
		return fmt.Errorf("--orders needs at least one user")
	}
	return nil
}

func runSeed(ctx context.Context, opts seedOptions, out io.Writer) error {
	if err := opts.validate(); err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	repo, err := repository.Connect(ctx, opts.databaseURL, repository.PoolConfig{MaxConns: 2, MinConns: 1}, opts.timeout, logger)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer repo.Close()

	if err := repo.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}

	result, err := seed(ctx, repo, opts)
	if err != nil {
		return err
	}
	return printResult(out, opts.format, result)
}

// seed creates the requested rows. Emails carry a run stamp so repeated
// runs against the same database do not collide.
func seed(ctx context.Context, store repository.Store, opts seedOptions) (*seedResult, error) {
	recorder := metrics.NewNoop()
	users := service.NewUserService(store, recorder)
	products := service.NewProductService(store, recorder)
	orders := service.NewOrderService(store, recorder)

	result := &seedResult{
		UserIDs:    []int64{},
		ProductIDs: []int64{},
		OrderIDs:   []int64{},
		Lines:      [][2]int64{},
	}
	stamp := opts.stamp
	if stamp == "" {
		stamp = time.Now().UTC().Format("20060102150405")
	}

	for i := 1; i <= opts.users; i++ {
		user, err := users.CreateUser(ctx, map[string]any{
			"name":  fmt.Sprintf("Seed User %d", i),
			"email": fmt.Sprintf("seed-%s-%d@example.com", stamp, i),
		})
		if err != nil {
			return nil, fmt.Errorf("create user %d: %w", i, err)
		}
		result.UserIDs = append(result.UserIDs, user.ID)
	}

	for i := 1; i <= opts.products; i++ {
		product, err := products.CreateProduct(ctx, map[string]any{
			"product_name": fmt.Sprintf("Seed Product %d", i),
			"price":        float64(i*250) / 100,
		})
		if err != nil {
			return nil, fmt.Errorf("create product %d: %w", i, err)
		}
		result.ProductIDs = append(result.ProductIDs, product.ID)
	}

	for i := 0; i < opts.orders; i++ {
		userID := result.UserIDs[i%len(result.UserIDs)]
		order, err := orders.CreateOrder(ctx, map[string]any{"user_id": userID})
		if err != nil {
			return nil, fmt.Errorf("create order for user %d: %w", userID, err)
		}
		result.OrderIDs = append(result.OrderIDs, order.ID)

		if len(result.ProductIDs) == 0 {
			continue
		}
		productID := result.ProductIDs[i%len(result.ProductIDs)]
		if _, err := orders.LinkProduct(ctx, map[string]any{
			"order_id":   order.ID,
			"product_id": productID,
		}); err != nil {
			return nil, fmt.Errorf("link product %d to order %d: %w", productID, order.ID, err)
		}
		result.Lines = append(result.Lines, [2]int64{order.ID, productID})
	}

	return result, nil
}

func printResult(out io.Writer, format string, result *seedResult) error {
	if format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KIND\tIDS")
	fmt.Fprintf(w, "users\t%v\n", result.UserIDs)
	fmt.Fprintf(w, "products\t%v\n", result.ProductIDs)
	fmt.Fprintf(w, "orders\t%v\n", result.OrderIDs)
	fmt.Fprintf(w, "order lines\t%d\n", len(result.Lines))
	return w.Flush()
}
