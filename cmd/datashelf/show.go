package main

import (
	"github.com/serum-errors/go-serum"
	"github.com/urfave/cli/v2"

	"github.com/shelftools/datashelf/cmd/datashelf/internal/util"
	"github.com/shelftools/datashelf/dsapi"
	"github.com/shelftools/datashelf/pkg/dataset"
	"github.com/shelftools/datashelf/pkg/logging"
)

var showCmdDef = cli.Command{
	Name:      "show",
	Usage:     "Show a table's shape and metadata",
	ArgsUsage: "<dataset-dir> <table-name>",
	Action: util.ChainCmdMiddleware(cmdShow,
		util.CmdMiddlewareLogging,
	),
}

func cmdShow(c *cli.Context) error {
	if c.Args().Len() != 2 {
		return serum.Errorf(dsapi.ECodeInvalid, "show requires a dataset directory and a table name")
	}
	ds, err := dataset.Open(c.Args().Get(0))
	if err != nil {
		return err
	}
	t, err := ds.Get(c.Args().Get(1))
	if err != nil {
		return err
	}
	defer t.Release()

	log := logging.Ctx(c.Context)
	log.Out("table: %s", t.Name())
	if title := t.Meta().Title; title != "" {
		log.Out("title: %s", title)
	}
	log.Out("rows: %d", t.NumRows())
	log.Out("columns: %d", t.NumCols())
	for _, field := range t.Record().Schema().Fields() {
		v := t.Variable(field.Name)
		line := "  " + field.Name + " (" + field.Type.String() + ")"
		if v.Unit != "" {
			line += " [" + v.Unit + "]"
		}
		log.Out("%s", line)
	}
	return nil
}
