package main

import (
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/effective-security/pkicodec/cmd/pkicodec-tool/cli"
	"github.com/effective-security/pkicodec/internal/version"
	"github.com/effective-security/x/ctl"
)

type app struct {
	cli.Cli

	Key  cli.KeyCmd   `cmd:"" help:"Key commands"`
	Csr  cli.CsrCmd   `cmd:"" help:"CSR commands"`
	Cert cli.CertsCmd `cmd:"" help:"Certificate commands"`
}

func main() {
	realMain(os.Args, os.Stdout, os.Stderr, os.Exit)
}

func realMain(args []string, out io.Writer, errout io.Writer, exit func(int)) {
	cl := app{
		Cli: cli.Cli{},
	}
	cl.Cli.WithErrWriter(errout).
		WithWriter(out)

	parser, err := kong.New(&cl,
		kong.Name("pkicodec-tool"),
		kong.Description("PKI codec tools"),
		kong.Writers(out, errout),
		kong.Exit(exit),
		ctl.BoolPtrMapper,
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version.Current().String(),
		})
	if err != nil {
		panic(err)
	}

	ctx, err := parser.Parse(args[1:])
	parser.FatalIfErrorf(err)

	if ctx != nil {
		err = ctx.Run(&cl.Cli)
		ctx.FatalIfErrorf(err)
	}
}
