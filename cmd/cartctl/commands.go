package main

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/ghuser/gamercart/pkg/cache"
	"github.com/ghuser/gamercart/pkg/httpx"
	catalogmysql "github.com/ghuser/gamercart/services/catalog/infrastructure/persistence/mysql"
	ordermysql "github.com/ghuser/gamercart/services/orders/infrastructure/persistence/mysql"
)

func newProductsCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "products",
		Short: "List every product, active or not",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			products, err := catalogmysql.NewProductRepository(e.db, nil).ListAll(cmd.Context())
			if err != nil {
				return err
			}
			renderProducts(cmd.OutOrStdout(), products)
			return nil
		},
	}
}

func newOrdersCmd(e *env) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "List the latest orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if limit <= 0 {
				return errors.New("--limit must be positive")
			}
			orders, err := ordermysql.NewOrderRepository(e.db, nil).ListRecent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			renderOrders(cmd.OutOrStdout(), orders)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of orders to show")
	return cmd
}

func newHealthCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check MySQL and Redis connectivity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
			defer cancel()

			components := []componentStatus{probe(ctx, "mysql", e.db)}
			rc, err := cache.NewRedisClient(ctx, e.cfg)
			if err != nil {
				components = append(components, componentStatus{Name: "redis", Status: httpx.StatusDisconnected, Detail: err.Error()})
			} else {
				defer rc.Close() //nolint:errcheck
				components = append(components, probe(ctx, "redis", rc))
			}
			renderHealth(cmd.OutOrStdout(), components)

			if components[0].Status != httpx.StatusConnected {
				return errors.New("database unreachable")
			}
			return nil
		},
	}
}

func probe(ctx context.Context, name string, c httpx.HealthChecker) componentStatus {
	if err := c.Ping(ctx); err != nil {
		return componentStatus{Name: name, Status: httpx.StatusDisconnected, Detail: err.Error()}
	}
	return componentStatus{Name: name, Status: httpx.StatusConnected}
}
