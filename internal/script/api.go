package script

import (
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/linemark/internal/collab"
	"github.com/dshills/linemark/internal/engine/block"
)

const sideTypeName = "linemark.side"

// installAPI registers the scenario globals and the side type.
func (r *Runner) installAPI() {
	L := r.L

	mt := L.NewTypeMetatable(sideTypeName)
	L.SetField(mt, "__index", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"name":     sideName,
		"insert":   sideInsert,
		"edit":     sideEdit,
		"delete":   sideDelete,
		"added":    sideAdded,
		"edited":   sideEdited,
		"set_text": sideSetText,
		"push":     sidePush,
		"pull":     sidePull,
		"split":    sideSplit,
		"dismiss":  sideDismiss,
		"flush":    sideFlush,
		"ranges":   sideRanges,
		"blocks":   sideBlocks,
		"lines":    sideLines,
		"text":     sideText,
	}))

	L.SetGlobal("side", L.NewFunction(r.luaSide))
	L.SetGlobal("wait", L.NewFunction(r.luaWait))
	L.SetGlobal("now", L.NewFunction(r.luaNow))
}

// side(name) returns the handle for a side.
func (r *Runner) luaSide(L *lua.LState) int {
	name := L.CheckString(1)
	s, err := r.hub.Side(name)
	if err != nil {
		L.ArgError(1, err.Error())
		return 0
	}
	ud := L.NewUserData()
	ud.Value = s
	L.SetMetatable(ud, L.GetTypeMetatable(sideTypeName))
	L.Push(ud)
	return 1
}

// wait(ms) advances virtual time and runs deferred work that came due.
func (r *Runner) luaWait(L *lua.LState) int {
	ms := L.CheckInt(1)
	if ms < 0 {
		L.ArgError(1, "wait needs a non-negative duration")
		return 0
	}
	r.clock.Advance(time.Duration(ms) * time.Millisecond)
	r.hub.RunDue(r.clock.Now())
	return 0
}

// now() returns the virtual milliseconds elapsed.
func (r *Runner) luaNow(L *lua.LState) int {
	L.Push(lua.LNumber(r.clock.Elapsed().Milliseconds()))
	return 1
}

func checkSide(L *lua.LState) *collab.Side {
	ud := L.CheckUserData(1)
	if s, ok := ud.Value.(*collab.Side); ok {
		return s
	}
	L.ArgError(1, "side expected")
	return nil
}

func sideName(L *lua.LState) int {
	L.Push(lua.LString(checkSide(L).Name()))
	return 1
}

func sideInsert(L *lua.LState) int {
	s := checkSide(L)
	line := s.InsertLine(L.CheckInt(2), L.OptString(3, ""))
	L.Push(lua.LNumber(line))
	return 1
}

func sideEdit(L *lua.LState) int {
	s := checkSide(L)
	L.Push(lua.LBool(s.EditLine(L.CheckInt(2), L.CheckString(3))))
	return 1
}

func sideDelete(L *lua.LState) int {
	s := checkSide(L)
	L.Push(lua.LBool(s.DeleteLine(L.CheckInt(2))))
	return 1
}

func sideAdded(L *lua.LState) int {
	checkSide(L).OnLineAdded(L.CheckInt(2))
	return 0
}

func sideEdited(L *lua.LState) int {
	checkSide(L).OnLineEdited(L.CheckInt(2))
	return 0
}

func sideSetText(L *lua.LState) int {
	checkSide(L).OnContentChanged(L.CheckString(2))
	return 0
}

func sidePush(L *lua.LState) int {
	L.Push(lua.LBool(checkSide(L).Push()))
	return 1
}

func sidePull(L *lua.LState) int {
	L.Push(lua.LBool(checkSide(L).Pull()))
	return 1
}

func sideSplit(L *lua.LState) int {
	s := checkSide(L)
	L.Push(lua.LBool(s.SplitBlock(block.ID(L.CheckString(2)), L.CheckInt(3))))
	return 1
}

func sideDismiss(L *lua.LState) int {
	s := checkSide(L)
	L.Push(lua.LBool(s.DismissBlock(block.ID(L.CheckString(2)))))
	return 1
}

func sideFlush(L *lua.LState) int {
	checkSide(L).Flush()
	return 0
}

// ranges() returns {start=, end=, author=, kind=} tables in line order.
func sideRanges(L *lua.LState) int {
	view := checkSide(L).View()
	list := L.NewTable()
	for _, rg := range view.Ranges {
		t := L.NewTable()
		t.RawSetString("start", lua.LNumber(rg.Start))
		t.RawSetString("end", lua.LNumber(rg.End))
		t.RawSetString("author", lua.LString(rg.Author))
		t.RawSetString("kind", lua.LString(rg.Kind.String()))
		list.Append(t)
	}
	L.Push(list)
	return 1
}

// blocks() returns the pending blocks with their ids and contents.
func sideBlocks(L *lua.LState) int {
	view := checkSide(L).View()
	list := L.NewTable()
	for _, b := range view.Blocks {
		t := L.NewTable()
		t.RawSetString("id", lua.LString(b.ID))
		t.RawSetString("start", lua.LNumber(b.Start))
		t.RawSetString("end", lua.LNumber(b.End))
		t.RawSetString("author", lua.LString(b.Author))
		t.RawSetString("kind", lua.LString(b.Kind.String()))
		t.RawSetString("lines", stringList(L, b.Lines))
		list.Append(t)
	}
	L.Push(list)
	return 1
}

func sideLines(L *lua.LState) int {
	L.Push(stringList(L, checkSide(L).Lines()))
	return 1
}

func sideText(L *lua.LState) int {
	L.Push(lua.LString(checkSide(L).Text()))
	return 1
}

func stringList(L *lua.LState, items []string) *lua.LTable {
	t := L.CreateTable(len(items), 0)
	for _, s := range items {
		t.Append(lua.LString(s))
	}
	return t
}
