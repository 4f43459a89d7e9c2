package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dumeirei/evcs-console/internal/common/config"
	"github.com/dumeirei/evcs-console/internal/common/jwt"
	"github.com/dumeirei/evcs-console/internal/common/logger"
	"github.com/dumeirei/evcs-console/internal/notify"
	"github.com/dumeirei/evcs-console/internal/session"
	"github.com/dumeirei/evcs-console/pkg/evcs"
)

// version 构建时通过 -ldflags "-X main.version=..." 注入
var version = "dev"

// app 命令共享的运行状态
type app struct {
	configPath  string
	sessionFile string
	baseURL     string
	verbose     bool

	cfg    *config.Config
	store  *session.FileStore
	client *evcs.Client
}

// NewRootCmd 创建根命令
func NewRootCmd() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:           "evcsctl",
		Short:         "充电运营管理后台命令行",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "配置文件路径")
	flags.StringVar(&a.sessionFile, "session-file", "", "会话文件，默认 ~/.evcs/session.json")
	flags.StringVar(&a.baseURL, "base-url", "", "后端地址，覆盖配置中的 api.base_url")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "输出请求日志")

	cmd.AddCommand(
		newLoginCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newTenantsCmd(a),
		newUsersCmd(a),
		newStationsCmd(a),
		newChargersCmd(a),
		newOrdersCmd(a),
		newBillingCmd(a),
		newDashboardCmd(a),
		newRoutesCmd(),
	)
	return cmd
}

// setup 加载配置并创建使用文件会话的客户端
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.LoadFresh(a.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if a.baseURL != "" {
		cfg.API.BaseURL = a.baseURL
	}
	a.cfg = cfg

	store, err := session.NewFileStore(a.sessionFile)
	if err != nil {
		return err
	}
	a.store = store

	log := zap.NewNop()
	if a.verbose {
		if err := logger.Init(&config.LoggerConfig{Level: "debug", Format: "console", Output: "stderr"}); err != nil {
			return err
		}
		log = logger.GetLogger()
	}

	errOut := cmd.ErrOrStderr()
	inspector := jwt.NewInspector(&jwt.Config{Secret: cfg.JWT.Secret, Issuer: cfg.JWT.Issuer})
	a.client, err = evcs.New(evcs.Config{
		BaseURL:         cfg.API.BaseURL,
		Root:            cfg.API.Root,
		Timeout:         cfg.API.TimeoutDuration(),
		DevelopingPaths: cfg.API.DevelopingPaths,
		UserAgent:       "evcsctl/" + version,
	},
		evcs.WithSession(store),
		evcs.WithLogger(log),
		evcs.WithNotifier(notify.NewWriterNotifier(errOut)),
		evcs.WithNavigator(evcs.NavigatorFunc(func(context.Context) {
			fmt.Fprintln(errOut, "会话已失效，请执行 evcsctl login 重新登录")
		})),
		evcs.WithTokenInspector(inspector.Inspect),
	)
	return err
}

// printJSON 以缩进 JSON 输出结果
func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// parseID 解析位置参数中的 ID
func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

// pageFlags 分页参数
type pageFlags struct {
	current int
	size    int
}

func (p *pageFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&p.current, "current", 1, "页码")
	cmd.Flags().IntVar(&p.size, "size", 10, "每页条数")
}

func (p *pageFlags) query() evcs.PageQuery {
	return evcs.PageQuery{Current: p.current, Size: p.size}
}

// statusFlag 只有显式指定时才发送状态参数
func statusFlag(cmd *cobra.Command, value int) *int {
	if cmd.Flags().Changed("status") {
		return evcs.Int(value)
	}
	return nil
}

// runE 把带上下文的处理函数适配为 cobra RunE
func runE(fn func(ctx context.Context, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		return fn(cmd.Context(), cmd, args)
	}
}

// show 调用接口并输出结果
func show[T any](cmd *cobra.Command, fn func() (T, error)) error {
	v, err := fn()
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), v)
}

// done 调用无返回值的接口并输出确认
func done(cmd *cobra.Command, msg string, err error) error {
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), msg)
	return nil
}
