package main

import (
	"path/filepath"
	"strings"

	"github.com/serum-errors/go-serum"
	"github.com/urfave/cli/v2"

	"github.com/shelftools/datashelf/cmd/datashelf/internal/util"
	"github.com/shelftools/datashelf/dsapi"
	"github.com/shelftools/datashelf/pkg/dataset"
	"github.com/shelftools/datashelf/pkg/logging"
	"github.com/shelftools/datashelf/pkg/tables"
)

var importCmdDef = cli.Command{
	Name:      "import",
	Usage:     "Read a csv file and add it to the dataset as a feather table",
	ArgsUsage: "<dataset-dir> <csv-file>",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "name",
			Aliases: []string{"n"},
			Usage:   "Table name to store under (defaults to the csv file's base name)",
		},
	},
	Action: util.ChainCmdMiddleware(cmdImport,
		util.CmdMiddlewareLogging,
	),
}

func cmdImport(c *cli.Context) error {
	if c.Args().Len() != 2 {
		return serum.Errorf(dsapi.ECodeInvalid, "import requires a dataset directory and a csv file")
	}
	ds, err := dataset.Open(c.Args().Get(0))
	if err != nil {
		return err
	}
	csvPath := c.Args().Get(1)
	name := c.String("name")
	if name == "" {
		base := filepath.Base(csvPath)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	rec, err := tables.ReadRecord(csvPath, tables.FormatCSV)
	if err != nil {
		return err
	}
	defer rec.Release()
	t, err := tables.New(name, rec)
	if err != nil {
		return err
	}
	defer t.Release()
	if err := ds.Add(t); err != nil {
		return err
	}
	log := logging.Ctx(c.Context)
	log.Info("import", "added table %q (%d rows) to dataset at %q", t.Name(), t.NumRows(), ds.Path())
	return nil
}
