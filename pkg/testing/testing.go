package testing

import (
	"os"
	"path"
	"runtime"
)

func init() {
	// tests run from the project root so that ./logs and relative db paths
	// land in one place. usage, in some_test.go:
	//
	//   import (
	//     _ "liyu1981.xyz/vigilant/pkg/testing"
	//   )

	_, filename, _, _ := runtime.Caller(0)
	dir := path.Join(path.Dir(filename), "..", "..")
	err := os.Chdir(dir)
	if err != nil {
		panic(err)
	}
}
