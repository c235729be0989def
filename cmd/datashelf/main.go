package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/serum-errors/go-serum"
	"github.com/urfave/cli/v2"
)

const VERSION = "v0.1.0"

func makeApp(stdin io.Reader, stdout, stderr io.Writer) *cli.App {
	app := cli.NewApp()
	app.Name = "datashelf"
	app.Version = VERSION
	app.Usage = "Keep folders of tables honest."
	app.Reader = stdin
	app.Writer = stdout
	app.ErrWriter = stderr
	cli.VersionFlag = &cli.BoolFlag{
		Name: "version",
	}
	app.HideVersion = true
	app.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
		},
		&cli.BoolFlag{
			Name: "quiet",
		},
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Emit errors as JSON",
		},
	}
	app.Commands = []*cli.Command{
		&createCmdDef,
		&lsCmdDef,
		&showCmdDef,
		&checksumCmdDef,
		&importCmdDef,
	}
	app.ExitErrHandler = func(c *cli.Context, err error) {
		if err == nil {
			return
		}
		if c.Bool("json") {
			json.NewEncoder(c.App.ErrWriter).Encode(struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			}{serum.Code(err), err.Error()})
		} else {
			fmt.Fprintf(c.App.ErrWriter, "error: %s\n", err)
		}
		cli.OsExiter(1)
	}
	return app
}

func main() {
	err := makeApp(os.Stdin, os.Stdout, os.Stderr).Run(os.Args)
	if err != nil {
		os.Exit(1)
	}
}
