package main

import (
	"github.com/serum-errors/go-serum"
	"github.com/urfave/cli/v2"

	"github.com/shelftools/datashelf/cmd/datashelf/internal/util"
	"github.com/shelftools/datashelf/dsapi"
	"github.com/shelftools/datashelf/pkg/dataset"
	"github.com/shelftools/datashelf/pkg/logging"
)

var createCmdDef = cli.Command{
	Name:      "create",
	Usage:     "Create a fresh, empty dataset directory. An existing dataset at the path is reset; any other existing directory is refused.",
	ArgsUsage: "<dataset-dir>",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "title",
			Usage: "Title to record in the dataset metadata",
		},
	},
	Action: util.ChainCmdMiddleware(cmdCreate,
		util.CmdMiddlewareLogging,
	),
}

func cmdCreate(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return serum.Errorf(dsapi.ECodeInvalid, "create requires exactly one dataset directory argument")
	}
	meta := dsapi.DatasetMeta{Title: c.String("title")}
	ds, err := dataset.CreateEmpty(c.Args().First(), &meta)
	if err != nil {
		return err
	}
	log := logging.Ctx(c.Context)
	log.Info("create", "created empty dataset at %q", ds.Path())
	return nil
}
