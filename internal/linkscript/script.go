// Package linkscript evaluates a user Lua chunk per object to choose the
// link and tooltip of its image map area.
//
// The chunk sees the globals id, name, location and classes (an array of
// class names) and returns either a string href or a table
// { href = ..., title = ... }. Missing fields fall back to the object's
// location and name.
package linkscript

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	lua "github.com/yuin/gopher-lua"

	"github.com/flarebyte/clustermap/internal/classification"
	"github.com/flarebyte/clustermap/internal/render"
)

// DefaultTimeout bounds one evaluation.
const DefaultTimeout = 200 * time.Millisecond

// ErrTimeout is returned when an evaluation exceeds its timeout.
var ErrTimeout = errors.New("link script timeout")

// Options configures the sandbox.
type Options struct {
	// Timeout per object; DefaultTimeout when zero, unlimited when negative.
	Timeout time.Duration
}

// Script is a compiled link chunk. It is not safe for concurrent use.
type Script struct {
	state   *lua.LState
	fn      *lua.LFunction
	timeout time.Duration
}

var _ render.Linker = (*Script)(nil)

// Compile loads code into a fresh sandbox. Code that compiles as a single
// expression is returned as-is; anything else is compiled as a chunk.
func Compile(code string, opts Options) (*Script, error) {
	if strings.TrimSpace(code) == "" {
		return nil, errors.New("empty link script")
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	L := newSandbox()
	fn, err := L.LoadString("return (\n" + code + "\n)")
	if err != nil {
		fn, err = L.LoadString(code)
	}
	if err != nil {
		L.Close()
		return nil, fmt.Errorf("compile link script: %w", err)
	}
	return &Script{state: L, fn: fn, timeout: timeout}, nil
}

// Close releases the Lua state.
func (s *Script) Close() {
	if s != nil && s.state != nil {
		s.state.Close()
	}
}

// Link runs the chunk for obj.
func (s *Script) Link(obj classification.Object, classes []string) (render.Link, error) {
	L := s.state
	L.SetGlobal("id", lua.LString(obj.ID))
	L.SetGlobal("name", lua.LString(obj.Name))
	L.SetGlobal("location", lua.LString(obj.Location))
	names := L.NewTable()
	for _, c := range classes {
		names.Append(lua.LString(c))
	}
	L.SetGlobal("classes", names)

	if s.timeout > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		L.SetContext(ctx)
		defer L.RemoveContext()
	}

	L.Push(s.fn)
	if err := L.PCall(0, 1, nil); err != nil {
		if isTimeout(err) {
			return render.Link{}, fmt.Errorf("object %s: %w", obj.ID, ErrTimeout)
		}
		return render.Link{}, err
	}
	ret := L.Get(-1)
	L.Pop(1)
	return toLink(obj, fromLValue(ret))
}

type linkFields struct {
	Href  string `mapstructure:"href"`
	Title string `mapstructure:"title"`
}

func toLink(obj classification.Object, v any) (render.Link, error) {
	def := render.Link{Href: obj.Location, Title: obj.Name}
	switch x := v.(type) {
	case nil:
		return def, nil
	case string:
		def.Href = x
		return def, nil
	case map[string]any:
		var f linkFields
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &f,
		})
		if err != nil {
			return render.Link{}, err
		}
		if err := dec.Decode(x); err != nil {
			return render.Link{}, fmt.Errorf("link table: %w", err)
		}
		if f.Href != "" {
			def.Href = f.Href
		}
		if f.Title != "" {
			def.Title = f.Title
		}
		return def, nil
	case []any:
		if len(x) == 0 {
			return def, nil
		}
	}
	return render.Link{}, fmt.Errorf("link script returned %T, want string or table", v)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "deadline") || strings.Contains(msg, "context canceled")
}
