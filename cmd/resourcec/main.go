package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/teris-io/cli"

	"its-hmny.dev/resourcec/pkg/compile"
)

var Description = strings.ReplaceAll(`
The resourcec compiler reads a resource schema file and emits two artifacts that
implement the same bit-exact binary wire format: a typed TypeScript client decoder
and a typed Go server builder/encoder.
`, "\n", " ")

var Resourcec = cli.New(Description).
	WithArg(cli.NewArg("schema", "The resource schema file to compile")).
	WithArg(cli.NewArg("outdir", "The directory to write client.ts and server.go into")).
	WithOption(cli.NewOption("target-package", "Go package name for the generated server.go (default 'generated')").
		WithType(cli.TypeString)).
	WithAction(Handler)

func Handler(args []string, options map[string]string) int {
	if len(args) < 2 {
		printErr("not enough arguments provided, use --help")
		return -1
	}

	input, err := os.ReadFile(args[0])
	if err != nil {
		printErr(fmt.Sprintf("unable to read schema file: %s", err))
		return -1
	}

	pkgName := options["target-package"]
	if pkgName == "" {
		pkgName = compile.DefaultPackage
	}

	result, err := compile.CompileTo(string(input), pkgName)
	if err != nil {
		printErr(err.Error())
		return -1
	}

	if err := os.MkdirAll(args[1], 0o755); err != nil {
		printErr(fmt.Sprintf("unable to create output directory: %s", err))
		return -1
	}

	clientPath := filepath.Join(args[1], "client.ts")
	serverPath := filepath.Join(args[1], "server.go")

	if err := os.WriteFile(clientPath, []byte(result.Client), 0o644); err != nil {
		printErr(fmt.Sprintf("unable to write %s: %s", clientPath, err))
		return -1
	}
	if err := os.WriteFile(serverPath, []byte(result.Server), 0o644); err != nil {
		printErr(fmt.Sprintf("unable to write %s: %s", serverPath, err))
		return -1
	}

	slog.Info("compiled schema",
		"resources", len(result.IR.Resources),
		"client_bytes", len(result.Client),
		"server_bytes", len(result.Server),
	)

	return 0
}

func printErr(msg string) {
	color.New(color.FgRed).Fprintln(os.Stderr, "ERROR: "+msg)
}

func main() { os.Exit(Resourcec.Run(os.Args, os.Stdout)) }
