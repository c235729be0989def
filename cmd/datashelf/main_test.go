package main

import (
	"io"
	"os"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/warpfork/go-testmark"
	"github.com/warpfork/go-testmark/testexec"
)

func TestExecFixtures(t *testing.T) {
	os.Chdir("../../examples/500-cli")
	doc, err := testmark.ReadFile("cli.md")
	if err != nil {
		t.Fatalf("fixture file parse failed?!: %s", err)
	}

	doc.BuildDirIndex()
	patches := testmark.PatchAccumulator{}
	for _, dir := range doc.DirEnt.ChildrenList {
		test := testexec.Tester{
			ExecFn:   execFn,
			Patches:  &patches,
			AssertFn: assertFn,
		}
		test.TestSequence(t, dir)
	}
}

func execFn(args []string, stdin io.Reader, stdout, stderr io.Writer) (int, error) {
	err := makeApp(stdin, stdout, stderr).Run(args)
	if err != nil {
		return 1, err
	}
	return 0, nil
}

func assertFn(t *testing.T, actual, expect string) {
	qt.Assert(t, strings.TrimSpace(actual), qt.Equals, strings.TrimSpace(expect))
}
