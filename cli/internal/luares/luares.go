// Package luares loads user-defined handler resolvers written in Lua. A
// resolver chunk must return a function taking (mode, text) and returning a
// URL string, or nil for no match:
//
//	return function(mode, text)
//	  local ticket = text:match("(JIRA%-%d+)")
//	  if not ticket then return nil end
//	  return "https://jira.example.com/browse/" .. ticket
//	end
//
// The chunk additionally sees a read-only ctx table with the fields file,
// filename, filetype, and line. Each Resolve runs in a fresh Lua state, so a
// chunk cannot carry state between dispatches or interfere with other
// handlers; a chunk that errors simply contributes no candidate.
package luares

import (
	"context"
	"os"
	"time"

	lua "github.com/yuin/gopher-lua"

	"openref/cli/internal/erruser"
	"openref/cli/internal/handler"
)

const resolveTimeout = 2 * time.Second

// Resolver holds a compiled-checked Lua chunk implementing handler.Resolver.
type Resolver struct {
	name string
	src  string
}

// Load reads and syntax-checks the chunk at path. Malformed Lua is reported
// at configuration time, not during dispatch.
func Load(name, path string) (*Resolver, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, erruser.New("Could not read Lua resolver for handler "+name+".", err)
	}
	return LoadString(name, string(src))
}

// LoadString is Load for an inline chunk.
func LoadString(name, src string) (*Resolver, error) {
	L := lua.NewState()
	defer L.Close()
	if _, err := L.LoadString(src); err != nil {
		return nil, erruser.New("Invalid Lua resolver for handler "+name+".", err)
	}
	return &Resolver{name: name, src: src}, nil
}

// Resolve implements handler.Resolver. Any Lua failure (runtime error,
// non-function chunk result, non-string return) yields no candidate.
func (r *Resolver) Resolve(req handler.Request) (string, bool) {
	L := lua.NewState()
	defer L.Close()

	ctx := L.NewTable()
	L.SetField(ctx, "file", lua.LString(req.Ctx.FilePath))
	L.SetField(ctx, "filename", lua.LString(req.Ctx.FileName))
	L.SetField(ctx, "filetype", lua.LString(req.Ctx.FileType))
	L.SetField(ctx, "line", lua.LNumber(req.Ctx.Line))
	L.SetGlobal("ctx", ctx)

	tctx, cancel := context.WithTimeout(context.Background(), resolveTimeout)
	defer cancel()
	L.SetContext(tctx)

	if err := L.DoString(r.src); err != nil {
		return "", false
	}
	fn := L.Get(-1)
	L.Pop(1)
	if fn.Type() != lua.LTFunction {
		return "", false
	}
	err := L.CallByParam(
		lua.P{Fn: fn, NRet: 1, Protect: true},
		lua.LString(string(req.Mode)),
		lua.LString(req.Text),
	)
	if err != nil {
		return "", false
	}
	ret := L.Get(-1)
	L.Pop(1)
	if s, ok := ret.(lua.LString); ok && s != "" {
		return string(s), true
	}
	return "", false
}
