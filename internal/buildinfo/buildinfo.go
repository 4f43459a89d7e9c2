// Package buildinfo 采集并读写构建元数据（version.json）
package buildinfo

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// Unknown git 不可用时的占位值
const Unknown = "unknown"

// EnvBuildNumber CI 注入的构建号环境变量
const EnvBuildNumber = "BUILD_NUMBER"

// Info 构建元数据
type Info struct {
	Commit      string `json:"commit"`
	Branch      string `json:"branch"`
	BuildTime   string `json:"buildTime"`
	BuildNumber string `json:"buildNumber"`
}

// Runner 执行 git 子命令并返回标准输出
type Runner func(ctx context.Context, args ...string) (string, error)

// Git 在工作目录 dir 中执行 git
func Git(dir string) Runner {
	return func(ctx context.Context, args ...string) (string, error) {
		cmd := exec.CommandContext(ctx, "git", args...)
		cmd.Dir = dir
		out, err := cmd.Output()
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(out)), nil
	}
}

// Collect 采集构建元数据
//
// 任一 git 命令失败都回退为占位值，从不返回错误。
// 构建号优先取纯数字的 BUILD_NUMBER，其次为提交数，最后为 "0"。
func Collect(ctx context.Context, run Runner, getenv func(string) string, now time.Time) Info {
	if getenv == nil {
		getenv = os.Getenv
	}
	git := func(fallback string, args ...string) string {
		out, err := run(ctx, args...)
		if err != nil || out == "" {
			return fallback
		}
		return out
	}

	info := Info{
		Commit:    git(Unknown, "rev-parse", "--short", "HEAD"),
		Branch:    git(Unknown, "rev-parse", "--abbrev-ref", "HEAD"),
		BuildTime: now.UTC().Format("2006-01-02T15:04:05.000Z"),
	}
	if n := getenv(EnvBuildNumber); isDigits(n) {
		info.BuildNumber = n
	} else {
		info.BuildNumber = git("0", "rev-list", "--count", "HEAD")
	}
	return info
}

// Write 以两空格缩进写入 JSON，自动创建目录
func Write(path string, info Info) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create version dir: %w", err)
	}
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// Read 读取 version.json
func Read(path string) (*Info, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var info Info
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &info, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
