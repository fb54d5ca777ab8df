package main

import (
	"os"

	"github.com/Nyukimin/failguard/internal/adapter/cli"
)

// version はビルド時に -ldflags で上書きされる
var version = "dev"

func main() {
	os.Exit(cli.Execute(version))
}
