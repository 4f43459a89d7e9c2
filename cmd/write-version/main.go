// Package main 生成 dist/version.json 构建元数据
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dumeirei/evcs-console/internal/buildinfo"
)

func main() {
	if err := newCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func newCmd() *cobra.Command {
	var (
		output string
		dir    string
	)
	cmd := &cobra.Command{
		Use:          "write-version",
		Short:        "写入构建版本信息",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			info := buildinfo.Collect(ctx, buildinfo.Git(dir), os.Getenv, time.Now())
			if err := buildinfo.Write(output, info); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Version file written: %s (commit %s, build #%s)\n",
				output, info.Commit, info.BuildNumber)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "dist/version.json", "输出文件")
	cmd.Flags().StringVar(&dir, "git-dir", ".", "git 工作目录")
	return cmd
}
