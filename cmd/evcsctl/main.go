// Package main 是运营管理命令行入口
package main

import (
	"fmt"
	"os"

	"github.com/dumeirei/evcs-console/pkg/evcs"
)

const errExitCode = 1

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		// 后端调用失败已经由提示器输出
		if _, ok := evcs.AsError(err); !ok {
			fmt.Fprintln(os.Stderr, err.Error())
		}
		os.Exit(errExitCode)
	}
}
