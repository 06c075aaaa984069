package main

import (
	"embed"
	"github.com/cottand/uom/uom"
	"github.com/stretchr/testify/assert"
	"io/fs"
	"path"
	"strings"
	"testing"
)

// embeds the test folder
//
//go:embed test
var testSet embed.FS

// format is as follows:
//
//	#uom:solverTest var | expected binding
//
// where expected is the canonical rendering of the variable's binding in the
// solution, the word "free" for a variable the solution leaves undetermined,
// or, when var is the word "error", a substring of the expected error message
func extractTestComment(t *testing.T, str string) (name, expected string) {
	firstLine := strings.Split(str, "\n")[0]
	trimmed := strings.TrimPrefix(firstLine, "#uom:solverTest ")
	elems := strings.Split(trimmed, "|")
	if len(elems) < 2 {
		t.Fatalf("could not parse comment string: '%v'", firstLine)
	}
	return strings.TrimSpace(elems[0]), strings.TrimSpace(elems[1])
}

func TestRootEndToEnd(t *testing.T) {
	files, err := testSet.ReadDir("test")
	assert.NoError(t, err)
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".uom") {
			continue
		}
		testFile(t, "", f)
	}
}

func TestMechanicsEndToEnd(t *testing.T) {
	files, err := testSet.ReadDir("test/mechanics")
	assert.NoError(t, err)
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".uom") {
			continue
		}
		testFile(t, "mechanics", f)
	}
}

func TestUnsolvableEndToEnd(t *testing.T) {
	files, err := testSet.ReadDir("test/unsolvable")
	assert.NoError(t, err)
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".uom") {
			continue
		}
		testFile(t, "unsolvable", f)
	}
}

func testFile(t *testing.T, at string, f fs.DirEntry) bool {
	return t.Run(f.Name(), func(t *testing.T) {
		content, err := testSet.ReadFile(path.Join("test", at, f.Name()))
		assert.NoError(t, err)

		name, expected := extractTestComment(t, string(content))

		sys, errs, err := uom.NewSystemFromBytes(content, f.Name())
		assert.NoError(t, err)

		if name == "error" {
			assert.True(t, errs.HasError(), "expected errors, got solution:\n%v", sys.DisplaySolution())
			assert.Contains(t, sys.DisplayErrors(), expected)
			return
		}

		assert.False(t, errs.HasError(), "solve errors:\n%v", sys.DisplayErrors())
		if expected == "free" {
			assert.Contains(t, sys.FreeVars(), name)
			return
		}
		bound, ok := sys.Solution().Lookup(name)
		assert.True(t, ok, "no binding for %v in solution:\n%v", name, sys.DisplaySolution())
		assert.Equal(t, expected, bound.String())
	})
}
