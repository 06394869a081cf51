// Package script runs Lua scenarios against a collaboration hub.
//
// A scenario drives both sides through a sandboxed gopher-lua state:
//
//	local a, b = side("a"), side("b")
//	a:insert(2, "hello")
//	a:insert(3, "world")
//	wait(600)
//	a:push()
//	b:pull()
//	for _, r in ipairs(a:ranges()) do print(r.start, r["end"], r.author, r.kind) end
//
// Time inside a scenario is virtual: wait(ms) advances the clock shared by
// the sides and runs deferred work that has come due. Only the base, table,
// string and math libraries are available.
package script
