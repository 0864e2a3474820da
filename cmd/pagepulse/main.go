package main

import (
	_ "embed"
	"strings"

	"go.uber.org/zap"

	"github.com/pagepulse/pagepulse/internal/cli"
	"github.com/pagepulse/pagepulse/internal/logging"
)

//go:embed VERSION
var versionFile string

//go:embed assets/visitor.js
var visitorScript []byte

//go:embed assets/scroll.js
var scrollScript []byte

var executeCLI = cli.Execute

func run() error {
	version := strings.TrimSpace(versionFile)
	return executeCLI(version, visitorScript, scrollScript)
}

func main() {
	if err := run(); err != nil {
		logging.Fatal("pagepulse execution failed", zap.Error(err))
	}
}
