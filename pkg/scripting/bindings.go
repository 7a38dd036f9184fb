package scripting

import (
	"time"

	"github.com/dop251/goja"

	"github.com/desklab-dev/uidriver/pkg/core"
	"github.com/desklab-dev/uidriver/pkg/desktop"
)

// desktopObject builds the `desktop` global: the entry point for
// locators and application scoping.
func (e *Engine) desktopObject() *goja.Object {
	obj := e.runtime.NewObject()

	obj.Set("locator", func(call goja.FunctionCall) goja.Value {
		loc, err := e.desktop.Locator(call.Argument(0).String())
		if err != nil {
			e.throw(err)
		}
		return e.locatorObject(loc)
	})

	obj.Set("application", func(call goja.FunctionCall) goja.Value {
		app := e.desktop.Application(call.Argument(0).String())
		return e.locatorObject(app)
	})

	return obj
}

// locatorObject exposes a locator's chaining and query surface.
// Chaining methods return fresh objects; the wrapped locator is never
// mutated.
func (e *Engine) locatorObject(loc *desktop.Locator) *goja.Object {
	obj := e.runtime.NewObject()

	obj.Set("locator", func(call goja.FunctionCall) goja.Value {
		child, err := loc.Locator(call.Argument(0).String())
		if err != nil {
			e.throw(err)
		}
		return e.locatorObject(child)
	})

	obj.Set("timeout", func(call goja.FunctionCall) goja.Value {
		ms := call.Argument(0).ToInteger()
		return e.locatorObject(loc.Timeout(time.Duration(ms) * time.Millisecond))
	})

	obj.Set("selector", func(call goja.FunctionCall) goja.Value {
		return e.runtime.ToValue(loc.Selector())
	})

	obj.Set("first", func(call goja.FunctionCall) goja.Value {
		el, err := loc.First(e.ctx)
		if err != nil {
			e.throw(err)
		}
		return e.elementObject(el)
	})

	obj.Set("all", func(call goja.FunctionCall) goja.Value {
		maxDepth := int(call.Argument(0).ToInteger())
		elements, err := loc.All(e.ctx, maxDepth)
		if err != nil {
			e.throw(err)
		}
		out := make([]interface{}, len(elements))
		for i, el := range elements {
			out[i] = e.elementObject(el)
		}
		return e.runtime.ToValue(out)
	})

	obj.Set("validate", func(call goja.FunctionCall) goja.Value {
		result, err := loc.Validate(e.ctx)
		if err != nil {
			e.throw(err)
		}
		res := e.runtime.NewObject()
		res.Set("exists", result.Exists)
		if result.Element != nil {
			res.Set("element", e.elementObject(result.Element))
		} else {
			res.Set("element", goja.Null())
		}
		return res
	})

	obj.Set("waitFor", func(call goja.FunctionCall) goja.Value {
		el, err := loc.WaitFor(e.ctx, call.Argument(0).String())
		if err != nil {
			e.throw(err)
		}
		return e.elementObject(el)
	})

	return obj
}

// elementObject exposes a resolved element's action surface.
func (e *Engine) elementObject(el *desktop.Element) *goja.Object {
	obj := e.runtime.NewObject()

	obj.Set("click", func(call goja.FunctionCall) goja.Value {
		if err := el.Click(e.ctx); err != nil {
			e.throw(err)
		}
		return goja.Undefined()
	})

	obj.Set("type", func(call goja.FunctionCall) goja.Value {
		if err := el.Type(e.ctx, call.Argument(0).String()); err != nil {
			e.throw(err)
		}
		return goja.Undefined()
	})

	obj.Set("invoke", func(call goja.FunctionCall) goja.Value {
		if err := el.Invoke(e.ctx); err != nil {
			e.throw(err)
		}
		return goja.Undefined()
	})

	obj.Set("value", func(call goja.FunctionCall) goja.Value {
		val, err := el.Value(e.ctx)
		if err != nil {
			e.throw(err)
		}
		if val == nil {
			return goja.Null()
		}
		return e.runtime.ToValue(*val)
	})

	obj.Set("setValue", func(call goja.FunctionCall) goja.Value {
		if err := el.SetValue(e.ctx, call.Argument(0).String()); err != nil {
			e.throw(err)
		}
		return goja.Undefined()
	})

	obj.Set("rangeValue", func(call goja.FunctionCall) goja.Value {
		val, err := el.RangeValue(e.ctx)
		if err != nil {
			e.throw(err)
		}
		if val == nil {
			return goja.Null()
		}
		return e.runtime.ToValue(*val)
	})

	obj.Set("setRangeValue", func(call goja.FunctionCall) goja.Value {
		if err := el.SetRangeValue(e.ctx, call.Argument(0).ToFloat()); err != nil {
			e.throw(err)
		}
		return goja.Undefined()
	})

	obj.Set("scrollIntoView", func(call goja.FunctionCall) goja.Value {
		if err := el.ScrollIntoView(e.ctx); err != nil {
			e.throw(err)
		}
		return goja.Undefined()
	})

	obj.Set("attributes", func(call goja.FunctionCall) goja.Value {
		info, err := el.Attributes(e.ctx)
		if err != nil {
			e.throw(err)
		}
		return e.runtime.ToValue(infoToMap(info))
	})

	obj.Set("locator", func(call goja.FunctionCall) goja.Value {
		child, err := el.Locator(call.Argument(0).String())
		if err != nil {
			e.throw(err)
		}
		return e.locatorObject(child)
	})

	obj.Set("highlight", func(call goja.FunctionCall) goja.Value {
		overlay, err := el.Highlight(e.ctx, e.highlightOptions(call.Argument(0)))
		if err != nil {
			e.throw(err)
		}
		handle := e.runtime.NewObject()
		handle.Set("close", func(goja.FunctionCall) goja.Value {
			if err := overlay.Close(); err != nil {
				e.throw(err)
			}
			return goja.Undefined()
		})
		return handle
	})

	return obj
}

func infoToMap(info *core.ElementInfo) map[string]interface{} {
	m := map[string]interface{}{
		"role":     info.Role,
		"name":     info.Name,
		"nativeid": info.NativeID,
		"visible":  info.Visible,
		"enabled":  info.Enabled,
		"focused":  info.Focused,
		"bounds": map[string]interface{}{
			"x":      info.Bounds.X,
			"y":      info.Bounds.Y,
			"width":  info.Bounds.Width,
			"height": info.Bounds.Height,
		},
	}
	if len(info.Attrs) > 0 {
		attrs := make(map[string]interface{}, len(info.Attrs))
		for k, v := range info.Attrs {
			attrs[k] = v
		}
		m["attrs"] = attrs
	}
	return m
}

// highlightOptions reads an optional JS options object:
// {color, durationMs, text, textPosition, fontStyle}.
func (e *Engine) highlightOptions(v goja.Value) desktop.HighlightOptions {
	var opts desktop.HighlightOptions
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return opts
	}
	obj := v.ToObject(e.runtime)
	if obj == nil {
		return opts
	}
	if c := obj.Get("color"); c != nil && !goja.IsUndefined(c) {
		opts.Color = uint32(c.ToInteger())
	}
	if d := obj.Get("durationMs"); d != nil && !goja.IsUndefined(d) {
		opts.Duration = time.Duration(d.ToInteger()) * time.Millisecond
	}
	if t := obj.Get("text"); t != nil && !goja.IsUndefined(t) {
		opts.Text = t.String()
	}
	if p := obj.Get("textPosition"); p != nil && !goja.IsUndefined(p) {
		opts.TextPosition = desktop.TextPosition(p.String())
	}
	if f := obj.Get("fontStyle"); f != nil && !goja.IsUndefined(f) {
		opts.FontStyle = desktop.FontStyle(f.String())
	}
	return opts
}
