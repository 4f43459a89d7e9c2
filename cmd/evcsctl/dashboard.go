package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dumeirei/evcs-console/internal/router"
	"github.com/dumeirei/evcs-console/pkg/evcs"
)

func newDashboardCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "dashboard", Short: "仪表盘"}

	var limit, days int
	recent := &cobra.Command{
		Use:   "recent-orders",
		Short: "最近订单",
		RunE: runE(func(ctx context.Context, cmd *cobra.Command, _ []string) error {
			return show(cmd, func() ([]evcs.RecentOrder, error) { return a.client.GetRecentOrders(ctx, limit) })
		}),
	}
	recent.Flags().IntVar(&limit, "limit", 10, "条数")

	ranking := &cobra.Command{
		Use:   "ranking",
		Short: "充电站排行",
		RunE: runE(func(ctx context.Context, cmd *cobra.Command, _ []string) error {
			return show(cmd, func() ([]evcs.StationRank, error) { return a.client.GetStationRanking(ctx, limit) })
		}),
	}
	ranking.Flags().IntVar(&limit, "limit", 10, "条数")

	trend := &cobra.Command{
		Use:       "trend <charging|revenue>",
		Short:     "趋势数据",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"charging", "revenue"},
		RunE: runE(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			fetch := a.client.GetChargingTrend
			if args[0] == "revenue" {
				fetch = a.client.GetRevenueTrend
			}
			return show(cmd, func() ([]evcs.TrendPoint, error) { return fetch(ctx, days) })
		}),
	}
	trend.Flags().IntVar(&days, "days", 7, "天数")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "stats",
			Short: "总览统计",
			RunE: runE(func(ctx context.Context, cmd *cobra.Command, _ []string) error {
				return show(cmd, func() (*evcs.DashboardStats, error) { return a.client.GetDashboardStats(ctx) })
			}),
		},
		&cobra.Command{
			Use:   "charger-status",
			Short: "充电桩状态分布",
			RunE: runE(func(ctx context.Context, cmd *cobra.Command, _ []string) error {
				return show(cmd, func() (*evcs.ChargerStatusStats, error) { return a.client.GetChargerStatusStats(ctx) })
			}),
		},
		recent,
		ranking,
		trend,
	)
	return cmd
}

// newRoutesCmd 输出控制台页面路由表，不需要后端
func newRoutesCmd() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "routes",
		Short: "控制台页面路由",
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			routes := router.Menu()
			if all {
				routes = router.Routes()
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "PATH\tNAME\tTITLE\tAUTH")
			for _, r := range routes {
				auth := "required"
				if r.Public {
					auth = "public"
				}
				title := r.Meta.Title
				if r.Redirect != "" {
					title = "-> " + r.Redirect
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Path, r.Name, title, auth)
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "包含隐藏页面与重定向")
	return cmd
}
