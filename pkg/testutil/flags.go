package testutil

import "flag"

var FlagKeepTempDirs = flag.Bool("testutil.keeptempdirs", false, "Keep temporary dataset directories after tests for inspection")
