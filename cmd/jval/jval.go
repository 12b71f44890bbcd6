// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

// Program jval parses values in a JSON-like dialect.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/creachadair/jval"
	"github.com/creachadair/jval/jpath"
)

var cli struct {
	Input       string `help:"Read input from this file instead of stdin." short:"i" type:"existingfile"`
	Comments    bool   `help:"Permit line and block comments." short:"c"`
	Dates       bool   `help:"Convert timestamp strings to time values." short:"d"`
	StrictKeys  bool   `help:"Require identifier-like object keys." short:"s"`
	ForceDouble bool   `help:"Store numeric array elements as doubles." short:"f"`

	Check checkCmd `cmd:"" help:"Parse the input and report any errors."`
	JSON  jsonCmd  `cmd:"" name:"json" help:"Re-encode the input as plain JSON."`
	Get   getCmd   `cmd:"" help:"Print the value at a path expression."`
}

// env carries the streams commands read and write, so tests can run
// commands without touching the process stdio.
type env struct {
	in  io.Reader
	out io.Writer
}

// parseInput reads and parses the input selected by the global flags.
func (e *env) parseInput() (jval.Value, error) {
	in := e.in
	if cli.Input != "" {
		f, err := os.Open(cli.Input)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		in = f
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return jval.NewParser(&jval.Options{
		AllowComments:     cli.Comments,
		RecognizeDates:    cli.Dates,
		StrictKeys:        cli.StrictKeys,
		ForceDoubleArrays: cli.ForceDouble,
	}).Parse(data)
}

type checkCmd struct{}

func (checkCmd) Run(e *env) error {
	_, err := e.parseInput()
	return err
}

type jsonCmd struct{}

func (jsonCmd) Run(e *env) error {
	v, err := e.parseInput()
	if err != nil {
		return err
	}
	fmt.Fprintln(e.out, v.JSON())
	return nil
}

type getCmd struct {
	Expr string `arg:"" help:"Path expression, e.g. $.list[0].name."`
}

func (g getCmd) Run(e *env) error {
	v, err := e.parseInput()
	if err != nil {
		return err
	}
	v, err = jpath.Eval(v, g.Expr)
	if err != nil {
		return err
	}
	fmt.Fprintln(e.out, v.JSON())
	return nil
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("jval"),
		kong.Description("Parse values in a JSON-like dialect."),
		kong.UsageOnError(),
	)
	ctx.FatalIfErrorf(ctx.Run(&env{in: os.Stdin, out: os.Stdout}))
}
