package settings

import (
	"os"
	"path/filepath"
)

const (
	CmdName = "tickprof"

	DefaultSlot       = 0
	DefaultExportFile = CmdName + ".pprof"
)

var (
	DefaultSegmentDir = filepath.Join(os.TempDir(), CmdName)
)
