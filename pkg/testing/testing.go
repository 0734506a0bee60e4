package testing

import (
	"os"
	"path"
	"runtime"
)

func init() {
	// cd to the module root so relative paths (logs/, test dbs) land in one place.
	// usage, in some_test.go:
	//
	//   import (
	//     _ "liyu1981.xyz/home-controller-schema/pkg/testing"
	//   )

	_, filename, _, _ := runtime.Caller(0)
	dir := path.Join(path.Dir(filename), "..", "..")
	if err := os.Chdir(dir); err != nil {
		panic(err)
	}
}
