// Package scripting provides JavaScript automation scripts over a
// desktop handle. Scripts get a `desktop` global for building locators
// and driving elements, plus console, sleep and an output object for
// passing values back to the host.
package scripting

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dop251/goja"

	"github.com/desklab-dev/uidriver/pkg/desktop"
)

// Engine wraps a goja runtime bound to one desktop handle. The engine
// serializes script execution; the desktop itself is safe to share.
type Engine struct {
	runtime *goja.Runtime
	desktop *desktop.Desktop
	ctx     context.Context
	output  map[string]interface{}
	mu      sync.Mutex
}

// New creates a script engine over the given desktop. The context
// bounds every resolution and action the script performs.
func New(ctx context.Context, d *desktop.Desktop) *Engine {
	e := &Engine{
		runtime: goja.New(),
		desktop: d,
		ctx:     ctx,
		output:  make(map[string]interface{}),
	}

	e.setupBuiltins()
	return e
}

// setupBuiltins registers all built-in functions and objects
func (e *Engine) setupBuiltins() {
	e.setupConsole()

	// sleep(ms) pauses the script, honoring context cancellation
	e.runtime.Set("sleep", func(call goja.FunctionCall) goja.Value {
		ms := call.Argument(0).ToInteger()
		select {
		case <-time.After(time.Duration(ms) * time.Millisecond):
		case <-e.ctx.Done():
			panic(e.runtime.NewGoError(e.ctx.Err()))
		}
		return goja.Undefined()
	})

	// Output object (for storing values to pass back to the host)
	e.runtime.Set("output", e.output)

	// Desktop automation object
	e.runtime.Set("desktop", e.desktopObject())
}

// setupConsole adds console.log, console.error, etc.
func (e *Engine) setupConsole() {
	makeConsoleFunc := func(prefix string) func(goja.FunctionCall) goja.Value {
		return func(call goja.FunctionCall) goja.Value {
			args := make([]interface{}, len(call.Arguments))
			for i, arg := range call.Arguments {
				args[i] = arg.Export()
			}
			if prefix != "" {
				fmt.Println(prefix, args)
			} else {
				fmt.Println(args...)
			}
			return goja.Undefined()
		}
	}

	console := e.runtime.NewObject()
	console.Set("log", makeConsoleFunc(""))
	console.Set("error", makeConsoleFunc("ERROR:"))
	console.Set("warn", makeConsoleFunc("WARN:"))
	e.runtime.Set("console", console)
}

// SetVariable sets a variable accessible in JS as a global
func (e *Engine) SetVariable(name string, value interface{}) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.runtime.Set(name, value)
}

// SetVariables sets multiple variables
func (e *Engine) SetVariables(vars map[string]interface{}) {
	for k, v := range vars {
		e.SetVariable(k, v)
	}
}

// GetOutput returns a copy of the output object (values set by scripts)
func (e *Engine) GetOutput() map[string]interface{} {
	e.mu.Lock()
	defer e.mu.Unlock()

	outputVal := e.runtime.Get("output")
	var source map[string]interface{}

	if outputVal != nil && !goja.IsUndefined(outputVal) {
		if m, ok := outputVal.Export().(map[string]interface{}); ok {
			source = m
		}
	}

	if source == nil {
		source = e.output
	}

	// Return a copy to prevent external modification
	result := make(map[string]interface{}, len(source))
	for k, v := range source {
		result[k] = v
	}
	return result
}

// Eval evaluates a JavaScript expression and returns the result
func (e *Engine) Eval(script string) (interface{}, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	result, err := e.runtime.RunString(script)
	if err != nil {
		return nil, fmt.Errorf("JS eval error: %w", err)
	}

	return result.Export(), nil
}

// Run runs a JavaScript script for its side effects
func (e *Engine) Run(script string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, err := e.runtime.RunString(script)
	if err != nil {
		return fmt.Errorf("JS runtime error: %w", err)
	}

	return nil
}

// throw converts a Go error into a JS exception carrying the message.
func (e *Engine) throw(err error) {
	panic(e.runtime.NewGoError(err))
}
