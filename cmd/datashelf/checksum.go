package main

import (
	"github.com/serum-errors/go-serum"
	"github.com/urfave/cli/v2"

	"github.com/shelftools/datashelf/cmd/datashelf/internal/util"
	"github.com/shelftools/datashelf/dsapi"
	"github.com/shelftools/datashelf/pkg/dataset"
	"github.com/shelftools/datashelf/pkg/logging"
)

var checksumCmdDef = cli.Command{
	Name:      "checksum",
	Usage:     "Print the dataset's checksum over its index, data files, and sidecars",
	ArgsUsage: "<dataset-dir>",
	Action: util.ChainCmdMiddleware(cmdChecksum,
		util.CmdMiddlewareLogging,
	),
}

func cmdChecksum(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return serum.Errorf(dsapi.ECodeInvalid, "checksum requires exactly one dataset directory argument")
	}
	ds, err := dataset.Open(c.Args().First())
	if err != nil {
		return err
	}
	sum, err := ds.Checksum()
	if err != nil {
		return err
	}
	log := logging.Ctx(c.Context)
	log.Out("%s", sum)
	return nil
}
