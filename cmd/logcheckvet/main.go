// Command logcheckvet runs the log message analyzer as a standalone vet tool:
//
//	logcheckvet ./...
//	go vet -vettool=$(which logcheckvet) ./...
package main

import (
	"golang.org/x/tools/go/analysis/singlechecker"

	"github.com/aiseeq/logcheck/pkg/analyzer"
)

func main() {
	singlechecker.Main(analyzer.Analyzer)
}
