package main

import (
	"fmt"
	"os"

	"fjacquet/gl-audit/cmd/analyze"
	"fjacquet/gl-audit/cmd/anomalies"
	"fjacquet/gl-audit/cmd/batch"
	"fjacquet/gl-audit/cmd/benford"
	"fjacquet/gl-audit/cmd/headers"
	"fjacquet/gl-audit/cmd/relations"
	"fjacquet/gl-audit/cmd/root"
	"fjacquet/gl-audit/cmd/sample"
	"fjacquet/gl-audit/internal/config"
)

func init() {
	// 1. Load .env silently before viper reads the environment
	_, _ = config.LoadEnv()

	// 2. Initialize root command flags
	root.Init()

	// 3. Add all subcommands
	root.Cmd.AddCommand(analyze.Cmd)
	root.Cmd.AddCommand(headers.Cmd)
	root.Cmd.AddCommand(anomalies.Cmd)
	root.Cmd.AddCommand(benford.Cmd)
	root.Cmd.AddCommand(relations.Cmd)
	root.Cmd.AddCommand(sample.Cmd)
	root.Cmd.AddCommand(batch.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
