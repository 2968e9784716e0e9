package linkscript

import (
	"math/rand"

	lua "github.com/yuin/gopher-lua"
)

// sandboxSeed keeps math.random reproducible so the image map stays stable
// across runs.
const sandboxSeed = 0x636c7573

// Registry bounds for one sandbox; pushing past the ceiling raises a Lua
// error instead of growing without limit.
const (
	registrySize    = 256
	registryMaxSize = 4096
)

// newSandbox opens only the base, string, table and math libraries and drops
// the base functions that reach the file system.
func newSandbox() *lua.LState {
	L := lua.NewState(lua.Options{
		SkipOpenLibs:    true,
		RegistrySize:    registrySize,
		RegistryMaxSize: registryMaxSize,
	})
	openLib := func(name string, f lua.LGFunction) {
		L.Push(L.NewFunction(f))
		L.Push(lua.LString(name))
		L.Call(1, 0)
	}
	openLib(lua.BaseLibName, lua.OpenBase)
	openLib(lua.StringLibName, lua.OpenString)
	openLib(lua.TabLibName, lua.OpenTable)
	openLib(lua.MathLibName, lua.OpenMath)

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		L.SetGlobal(name, lua.LNil)
	}
	installDeterministicRandom(L, sandboxSeed)
	return L
}

func installDeterministicRandom(L *lua.LState, seed int64) {
	mathTbl, ok := L.GetGlobal("math").(*lua.LTable)
	if !ok || mathTbl == nil {
		return
	}
	rng := rand.New(rand.NewSource(seed))
	mathTbl.RawSetString("random", L.NewFunction(func(L *lua.LState) int {
		switch L.GetTop() {
		case 0:
			L.Push(lua.LNumber(rng.Float64()))
			return 1
		case 1:
			hi := L.CheckInt(1)
			if hi < 1 {
				L.ArgError(1, "interval is empty")
				return 0
			}
			L.Push(lua.LNumber(rng.Intn(hi) + 1))
			return 1
		default:
			lo, hi := L.CheckInt(1), L.CheckInt(2)
			if hi < lo {
				L.ArgError(2, "interval is empty")
				return 0
			}
			L.Push(lua.LNumber(rng.Intn(hi-lo+1) + lo))
			return 1
		}
	}))
	mathTbl.RawSetString("randomseed", L.NewFunction(func(L *lua.LState) int {
		return 0
	}))
}

// fromLValue converts a Lua result to plain Go values. Tables with keys
// 1..n become slices, other tables maps keyed by the key's string form.
func fromLValue(v lua.LValue) any {
	switch v.Type() {
	case lua.LTNil:
		return nil
	case lua.LTBool:
		return lua.LVAsBool(v)
	case lua.LTNumber:
		return float64(v.(lua.LNumber))
	case lua.LTString:
		return v.String()
	case lua.LTTable:
		t := v.(*lua.LTable)
		arr := []any{}
		isArray := true
		t.ForEach(func(k, val lua.LValue) {
			if !isArray {
				return
			}
			if lk, ok := k.(lua.LNumber); ok && int(lk) == len(arr)+1 {
				arr = append(arr, fromLValue(val))
			} else {
				isArray = false
			}
		})
		if isArray {
			return arr
		}
		obj := map[string]any{}
		t.ForEach(func(k, val lua.LValue) {
			obj[k.String()] = fromLValue(val)
		})
		return obj
	default:
		return nil
	}
}
