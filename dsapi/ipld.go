package dsapi

import (
	_ "github.com/ipld/go-ipld-prime/codec/json" // side-effecting import; registers a codec.
	"github.com/ipld/go-ipld-prime/schema"
)

// TypeSystem describes all our metadata document types and their
// representation strategies in IPLD Schema form.
// Each type file in this package accumulates its own types in an init func.
var TypeSystem = func() *schema.TypeSystem {
	ts := new(schema.TypeSystem)
	ts.Init()
	ts.Accumulate(schema.SpawnString("String"))
	ts.Accumulate(schema.SpawnBool("Bool"))
	ts.Accumulate(schema.SpawnInt("Int"))
	ts.Accumulate(schema.SpawnFloat("Float"))
	ts.Accumulate(schema.SpawnBytes("Bytes"))
	return ts
}()
