//go:build js && wasm

package uom

import (
	"fmt"
	"strings"
	"syscall/js"
)

// SolveAndShow does a full pass of the equations in source
// and prints the most general solution for the system's unit
// variables, or alternatively displays error messages if the
// equations do not parse or have no solution
func SolveAndShow(_ js.Value, args []js.Value) (ret any) {
	defer func() {
		if r := recover(); r != nil {
			ret = "solver panicked: " + fmt.Sprint(r)
		}
	}()

	source := args[0].String()
	sys, errs, err := NewSystemFromBytes([]byte(source), "equations.uom")
	if err != nil {
		return fmt.Sprintf("the solver encountered a failure:\n\n%s", err)
	}
	if errs.HasError() {
		sb := strings.Builder{}
		sb.WriteString("the equations have the following errors:\n")
		sb.WriteString(sys.DisplayErrors())
		return sb.String()
	}
	return sys.DisplaySolution()
}

// SolveAndShowNormalForms does a full pass of the equations in source
// and returns the most general solution for the system's unit
// variables, or alternatively displays error messages if the
// equations do not parse or have no solution.
// It also returns each equation rewritten in canonical normal form.
//
// output: { error: string } | { solution: string, normalForms: string }
func SolveAndShowNormalForms(_ js.Value, args []js.Value) (ret any) {
	errorObj := func(err string) any {
		return js.ValueOf(map[string]any{
			"error": err,
		})
	}

	okResultObj := func(solution string, normalForms string) any {
		return js.ValueOf(map[string]any{
			"solution":    solution,
			"normalForms": normalForms,
		})
	}
	defer func() {
		if r := recover(); r != nil {
			ret = errorObj("solver panicked: " + fmt.Sprint(r))
		}
	}()

	source := args[0].String()
	sys, errs, err := NewSystemFromBytes([]byte(source), "equations.uom")
	if errs.HasError() {
		sb := strings.Builder{}
		sb.WriteString("the equations have the following errors:\n")
		sb.WriteString(sys.DisplayErrors())
		return errorObj(sb.String())
	}
	if err != nil {
		return errorObj(fmt.Sprintf("the solver encountered a failure:\n\n%s", err))
	}

	return okResultObj(sys.DisplaySolution(), sys.DisplayNormalForms())
}

// solveSource is the promise-based variant of SolveAndShow for callers that
// prefer to catch failures rather than parse them out of the output
func solveSource(_ js.Value, args []js.Value) (ret any, err error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("expected 1 argument, got %d", len(args))
	}
	source := args[0].String()
	sys, errs, err := NewSystemFromBytes([]byte(source), "equations.uom")
	if err != nil {
		return nil, err
	}
	if errs.HasError() {
		return nil, fmt.Errorf("the equations have the following errors:\n%s", sys.DisplayErrors())
	}
	return sys.DisplaySolution(), nil
}

// asPromise implemented based on
// https://stackoverflow.com/questions/67437284/how-to-throw-js-error-from-go-web-assembly
//
// It takes a normal JS-API function that also returns an error, and returns function
// that returns a promise which
// completes when the function completes, and can be used to catch errors, if any
func asPromise(function func(js.Value, []js.Value) (any, error)) any {
	return js.FuncOf(func(this js.Value, args []js.Value) any {
		handler := js.FuncOf(func(_ js.Value, promiseArgs []js.Value) any {
			resolve := promiseArgs[0]
			reject := promiseArgs[1]

			go func() {
				defer func() {
					if r := recover(); r != nil {
						errorConstructor := js.Global().Get("Error")
						errorObject := errorConstructor.New(fmt.Sprintf("%s", r))
						reject.Invoke(errorObject)
					}
				}()

				data, err := function(this, args)
				if err != nil {
					// err should be an instance of `error`, eg `errors.New("some error")`
					errorConstructor := js.Global().Get("Error")
					errorObject := errorConstructor.New(err.Error())
					reject.Invoke(errorObject)
				} else {
					resolve.Invoke(js.ValueOf(data))
				}
			}()

			return nil
		})
		promiseConstructor := js.Global().Get("Promise")
		return promiseConstructor.New(handler)
	})
}

var SolveSource = asPromise(solveSource)
