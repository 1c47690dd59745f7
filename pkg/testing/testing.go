// Package testing prepares the process for package tests. Import it for its side effects:
//
//	import (
//	  _ "liyu1981.xyz/water-intake-service/pkg/testing"
//	)
package testing

import (
	"os"
	"path"
	"path/filepath"
	"runtime"
)

func init() {
	// runtime.Caller gives this file, two levels up is the module root
	_, filename, _, _ := runtime.Caller(0)
	dir := path.Join(path.Dir(filename), "..", "..")
	if err := os.Chdir(dir); err != nil {
		panic(err)
	}

	// keep test runs from rotating the service log
	if _, found := os.LookupEnv("IOT_LOG_DIR"); !found {
		if err := os.Setenv("IOT_LOG_DIR", filepath.Join(os.TempDir(), "water-intake-service-test-logs")); err != nil {
			panic(err)
		}
	}
}
