package credstore

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
)

// Version returns the credential store library's version string, read
// once from the VERSION file in the project root and cached for
// subsequent calls. Returns "unknown" if the file is missing or empty;
// callers such as a future diagnostics/Info surface should treat that as
// "version not determinable" rather than an error.
var Version = sync.OnceValue(readVersion)

func readVersion() string {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "unknown"
	}

	projectRoot := filepath.Join(filepath.Dir(filename), "..", "..")
	versionFile := filepath.Join(projectRoot, "VERSION")

	// #nosec G304 - reading fixed VERSION file from project root
	data, err := os.ReadFile(versionFile)
	if err != nil {
		return "unknown"
	}

	version := strings.TrimSpace(string(data))
	if version == "" {
		return "unknown"
	}

	return version
}
