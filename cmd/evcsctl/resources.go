package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dumeirei/evcs-console/pkg/evcs"
)

// idCmd 接收单个 ID 参数的子命令
func idCmd(use, short string, fn func(ctx context.Context, cmd *cobra.Command, id int64) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: runE(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return fn(ctx, cmd, id)
		}),
	}
}

func newTenantsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "tenants", Aliases: []string{"tenant"}, Short: "租户管理"}

	var (
		page   pageFlags
		q      evcs.TenantQuery
		status int
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "租户列表",
		RunE: runE(func(ctx context.Context, cmd *cobra.Command, _ []string) error {
			q.Status = statusFlag(cmd, status)
			q.PageQuery = page.query()
			return show(cmd, func() (*evcs.PageResult[evcs.Tenant], error) { return a.client.ListTenants(ctx, q) })
		}),
	}
	page.register(list)
	list.Flags().StringVar(&q.Name, "name", "", "租户名称")
	list.Flags().StringVar(&q.Type, "type", "", "租户类型")
	list.Flags().IntVar(&status, "status", 0, "状态")

	var newStatus int
	setStatus := idCmd("status", "修改租户状态", func(ctx context.Context, cmd *cobra.Command, id int64) error {
		return done(cmd, "租户状态已更新", a.client.ChangeTenantStatus(ctx, id, newStatus))
	})
	setStatus.Flags().IntVar(&newStatus, "set", 1, "目标状态")

	var local bool
	tree := &cobra.Command{
		Use:   "tree",
		Short: "租户树",
		RunE: runE(func(ctx context.Context, cmd *cobra.Command, _ []string) error {
			if local {
				return show(cmd, func() ([]*evcs.TenantNode, error) { return localTenantTree(ctx, a.client) })
			}
			return show(cmd, func() ([]*evcs.TenantNode, error) { return a.client.GetTenantTree(ctx) })
		}),
	}
	tree.Flags().BoolVar(&local, "local", false, "按租户列表的 parentId 在本地组装")

	cmd.AddCommand(
		list,
		idCmd("get", "租户详情", func(ctx context.Context, cmd *cobra.Command, id int64) error {
			return show(cmd, func() (*evcs.Tenant, error) { return a.client.GetTenant(ctx, id) })
		}),
		tree,
		idCmd("children", "直接子租户", func(ctx context.Context, cmd *cobra.Command, id int64) error {
			return show(cmd, func() ([]evcs.Tenant, error) { return a.client.GetTenantChildren(ctx, id) })
		}),
		&cobra.Command{
			Use:   "stats",
			Short: "租户统计",
			RunE: runE(func(ctx context.Context, cmd *cobra.Command, _ []string) error {
				return show(cmd, func() (*evcs.TenantStatistics, error) { return a.client.GetTenantStatistics(ctx) })
			}),
		},
		setStatus,
		idCmd("delete", "删除租户", func(ctx context.Context, cmd *cobra.Command, id int64) error {
			return done(cmd, "租户已删除", a.client.DeleteTenant(ctx, id))
		}),
	)
	return cmd
}

// localTenantTree 分页拉取全部租户后按 parentId 组装
func localTenantTree(ctx context.Context, client *evcs.Client) ([]*evcs.TenantNode, error) {
	var all []evcs.Tenant
	for current := 1; current <= exportMaxPages; current++ {
		page, err := client.ListTenants(ctx, evcs.TenantQuery{PageQuery: evcs.PageQuery{Current: current, Size: exportPageSize}})
		if err != nil {
			return nil, err
		}
		if page == nil {
			break
		}
		all = append(all, page.Records...)
		if len(page.Records) < exportPageSize || int64(len(all)) >= page.Total {
			break
		}
	}
	return evcs.BuildTenantTree(all), nil
}

func newUsersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "users", Aliases: []string{"user"}, Short: "用户管理"}

	var (
		page   pageFlags
		q      evcs.UserQuery
		status int
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "用户列表",
		RunE: runE(func(ctx context.Context, cmd *cobra.Command, _ []string) error {
			q.Status = statusFlag(cmd, status)
			q.PageQuery = page.query()
			return show(cmd, func() (*evcs.PageResult[evcs.User], error) { return a.client.ListUsers(ctx, q) })
		}),
	}
	page.register(list)
	list.Flags().StringVar(&q.Username, "username", "", "用户名")
	list.Flags().StringVar(&q.RealName, "real-name", "", "真实姓名")
	list.Flags().IntVar(&status, "status", 0, "状态")

	var newPassword string
	reset := idCmd("reset-password", "重置密码", func(ctx context.Context, cmd *cobra.Command, id int64) error {
		if newPassword == "" {
			return fmt.Errorf("--password is required")
		}
		return done(cmd, "密码已重置", a.client.ResetUserPassword(ctx, id, newPassword))
	})
	reset.Flags().StringVar(&newPassword, "password", "", "新密码")

	cmd.AddCommand(
		list,
		idCmd("get", "用户详情", func(ctx context.Context, cmd *cobra.Command, id int64) error {
			return show(cmd, func() (*evcs.User, error) { return a.client.GetUser(ctx, id) })
		}),
		idCmd("roles", "用户角色", func(ctx context.Context, cmd *cobra.Command, id int64) error {
			return show(cmd, func() ([]evcs.Role, error) { return a.client.GetUserRoles(ctx, id) })
		}),
		reset,
		idCmd("delete", "删除用户", func(ctx context.Context, cmd *cobra.Command, id int64) error {
			return done(cmd, "用户已删除", a.client.DeleteUser(ctx, id))
		}),
	)
	return cmd
}

func newStationsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "stations", Aliases: []string{"station"}, Short: "充电站管理"}

	var (
		page   pageFlags
		q      evcs.StationQuery
		status int
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "充电站列表",
		RunE: runE(func(ctx context.Context, cmd *cobra.Command, _ []string) error {
			q.Status = statusFlag(cmd, status)
			q.PageQuery = page.query()
			return show(cmd, func() (*evcs.PageResult[evcs.Station], error) { return a.client.ListStations(ctx, q) })
		}),
	}
	page.register(list)
	list.Flags().StringVar(&q.StationName, "name", "", "充电站名称")
	list.Flags().StringVar(&q.Province, "province", "", "省份")
	list.Flags().StringVar(&q.City, "city", "", "城市")
	list.Flags().IntVar(&status, "status", 0, "状态")

	cmd.AddCommand(
		list,
		idCmd("get", "充电站详情", func(ctx context.Context, cmd *cobra.Command, id int64) error {
			return show(cmd, func() (*evcs.Station, error) { return a.client.GetStation(ctx, id) })
		}),
		idCmd("chargers", "充电站下的充电桩", func(ctx context.Context, cmd *cobra.Command, id int64) error {
			return show(cmd, func() ([]evcs.Charger, error) { return a.client.GetStationChargers(ctx, id) })
		}),
		idCmd("delete", "删除充电站", func(ctx context.Context, cmd *cobra.Command, id int64) error {
			return done(cmd, "充电站已删除", a.client.DeleteStation(ctx, id))
		}),
	)
	return cmd
}

func newChargersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "chargers", Aliases: []string{"charger"}, Short: "充电桩管理"}

	var (
		page   pageFlags
		q      evcs.ChargerQuery
		status int
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "充电桩列表",
		RunE: runE(func(ctx context.Context, cmd *cobra.Command, _ []string) error {
			q.Status = statusFlag(cmd, status)
			q.PageQuery = page.query()
			return show(cmd, func() (*evcs.PageResult[evcs.Charger], error) { return a.client.ListChargers(ctx, q) })
		}),
	}
	page.register(list)
	list.Flags().StringVar(&q.ChargerCode, "code", "", "充电桩编号")
	list.Flags().Int64Var(&q.StationID, "station", 0, "充电站 ID")
	list.Flags().IntVar(&status, "status", 0, "状态")

	cmd.AddCommand(
		list,
		idCmd("get", "充电桩详情", func(ctx context.Context, cmd *cobra.Command, id int64) error {
			return show(cmd, func() (*evcs.Charger, error) { return a.client.GetCharger(ctx, id) })
		}),
		idCmd("status", "充电桩实时状态", func(ctx context.Context, cmd *cobra.Command, id int64) error {
			return show(cmd, func() (*evcs.ChargerRealtime, error) { return a.client.GetChargerStatus(ctx, id) })
		}),
		idCmd("start", "远程启动充电", func(ctx context.Context, cmd *cobra.Command, id int64) error {
			return done(cmd, "启动指令已下发", a.client.ControlCharger(ctx, id, evcs.ChargerStart))
		}),
		idCmd("stop", "远程停止充电", func(ctx context.Context, cmd *cobra.Command, id int64) error {
			return done(cmd, "停止指令已下发", a.client.ControlCharger(ctx, id, evcs.ChargerStop))
		}),
		idCmd("delete", "删除充电桩", func(ctx context.Context, cmd *cobra.Command, id int64) error {
			return done(cmd, "充电桩已删除", a.client.DeleteCharger(ctx, id))
		}),
	)
	return cmd
}

func newBillingCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "billing", Short: "计费方案管理"}

	var (
		page pageFlags
		q    evcs.BillingPlanQuery
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "计费方案分页列表",
		RunE: runE(func(ctx context.Context, cmd *cobra.Command, _ []string) error {
			q.PageQuery = page.query()
			return show(cmd, func() (*evcs.PageResult[evcs.BillingPlan], error) { return a.client.PageBillingPlans(ctx, q) })
		}),
	}
	page.register(list)
	list.Flags().Int64Var(&q.StationID, "station", 0, "充电站 ID")

	var stationID int64
	setDefault := idCmd("set-default", "设为充电站默认方案", func(ctx context.Context, cmd *cobra.Command, id int64) error {
		_, err := a.client.SetDefaultBillingPlan(ctx, id, stationID)
		return done(cmd, "默认方案已更新", err)
	})
	setDefault.Flags().Int64Var(&stationID, "station", 0, "充电站 ID")
	_ = setDefault.MarkFlagRequired("station")

	var newName string
	clone := idCmd("clone", "复制计费方案", func(ctx context.Context, cmd *cobra.Command, id int64) error {
		return show(cmd, func() (*evcs.BillingPlan, error) { return a.client.CloneBillingPlan(ctx, id, newName) })
	})
	clone.Flags().StringVar(&newName, "name", "", "新方案名称")
	_ = clone.MarkFlagRequired("name")

	cmd.AddCommand(
		list,
		idCmd("get", "计费方案详情", func(ctx context.Context, cmd *cobra.Command, id int64) error {
			return show(cmd, func() (*evcs.BillingPlan, error) { return a.client.GetBillingPlan(ctx, id) })
		}),
		idCmd("segments", "计费时段", func(ctx context.Context, cmd *cobra.Command, id int64) error {
			return show(cmd, func() ([]evcs.BillingPlanSegment, error) { return a.client.GetBillingPlanSegments(ctx, id) })
		}),
		setDefault,
		clone,
		idCmd("delete", "删除计费方案", func(ctx context.Context, cmd *cobra.Command, id int64) error {
			_, err := a.client.DeleteBillingPlan(ctx, id)
			return done(cmd, "计费方案已删除", err)
		}),
	)
	return cmd
}
