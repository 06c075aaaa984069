//go:build js && wasm

package main

import (
	"syscall/js"

	"github.com/cottand/uom/uom"
)

func main() {
	js.Global().Set("SolveAndShow", js.FuncOf(uom.SolveAndShow))
	js.Global().Set("SolveAndShowNormalForms", js.FuncOf(uom.SolveAndShowNormalForms))
	js.Global().Set("SolveSource", uom.SolveSource)

	// wait indefinitely so that Go does not terminate execution
	// and the function remains available
	<-make(chan struct{})
}
