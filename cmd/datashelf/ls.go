package main

import (
	"github.com/serum-errors/go-serum"
	"github.com/urfave/cli/v2"

	"github.com/shelftools/datashelf/cmd/datashelf/internal/util"
	"github.com/shelftools/datashelf/dsapi"
	"github.com/shelftools/datashelf/pkg/dataset"
	"github.com/shelftools/datashelf/pkg/logging"
)

var lsCmdDef = cli.Command{
	Name:      "ls",
	Usage:     "List the tables in a dataset",
	ArgsUsage: "<dataset-dir>",
	Action: util.ChainCmdMiddleware(cmdLs,
		util.CmdMiddlewareLogging,
	),
}

func cmdLs(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return serum.Errorf(dsapi.ECodeInvalid, "ls requires exactly one dataset directory argument")
	}
	ds, err := dataset.Open(c.Args().First())
	if err != nil {
		return err
	}
	names, err := ds.Names()
	if err != nil {
		return err
	}
	log := logging.Ctx(c.Context)
	for _, name := range names {
		log.Out("%s", name)
	}
	return nil
}
