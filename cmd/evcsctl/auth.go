package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dumeirei/evcs-console/internal/common/jwt"
	"github.com/dumeirei/evcs-console/pkg/evcs"
)

func newLoginCmd(a *app) *cobra.Command {
	var identifier, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "登录并保存会话",
		RunE: runE(func(ctx context.Context, cmd *cobra.Command, _ []string) error {
			if identifier == "" {
				return errors.New("--username is required")
			}
			if password == "" {
				fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read password: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}

			out, err := a.client.Login(ctx, evcs.LoginRequest{Identifier: identifier, Password: password})
			if err != nil {
				return err
			}
			name := identifier
			if out.User != nil && out.User.Username != "" {
				name = out.User.Username
			}
			fmt.Fprintf(cmd.OutOrStdout(), "已登录: %s (会话文件 %s)\n", name, a.store.Path())
			return nil
		}),
	}
	cmd.Flags().StringVarP(&identifier, "username", "u", "", "用户名、手机号或邮箱")
	cmd.Flags().StringVarP(&password, "password", "p", "", "密码，缺省时从标准输入读取")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "注销并清除本地会话",
		RunE: runE(func(ctx context.Context, cmd *cobra.Command, _ []string) error {
			err := a.client.Logout(ctx)
			fmt.Fprintln(cmd.OutOrStdout(), "本地会话已清除")
			return err
		}),
	}
}

// whoami 输出
type whoami struct {
	TenantID  string              `json:"tenantId,omitempty"`
	UserID    string              `json:"userId,omitempty"`
	ExpiresAt string              `json:"expiresAt,omitempty"`
	User      *evcs.LoginUserInfo `json:"user,omitempty"`
}

func newWhoamiCmd(a *app) *cobra.Command {
	var remote bool
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "查看当前会话",
		RunE: runE(func(ctx context.Context, cmd *cobra.Command, _ []string) error {
			token, err := a.store.Get(ctx, evcs.KeyToken)
			if err != nil {
				return err
			}
			if token == "" {
				return errors.New("未登录，请先执行 evcsctl login")
			}

			var out whoami
			out.TenantID, _ = a.store.Get(ctx, evcs.KeyTenantID)
			out.UserID, _ = a.store.Get(ctx, evcs.KeyUserID)

			inspector := jwt.NewInspector(&jwt.Config{Secret: a.cfg.JWT.Secret, Issuer: a.cfg.JWT.Issuer})
			if claims, err := inspector.Parse(token); err == nil && claims.ExpiresAt != nil {
				out.ExpiresAt = claims.ExpiresAt.Time.Format(time.RFC3339)
			}

			if remote {
				if out.User, err = a.client.GetUserInfo(ctx); err != nil {
					return err
				}
			}
			return printJSON(cmd.OutOrStdout(), out)
		}),
	}
	cmd.Flags().BoolVar(&remote, "remote", false, "同时查询后端用户信息")
	return cmd
}
