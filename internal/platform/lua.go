package platform

import (
	lua "github.com/yuin/gopher-lua"
)

// InjectPlatformTable creates a read-only platform table and sets it as a
// global in the Lua state. It must be called before loading any user
// configuration code, so configs can branch on OS, architecture, and
// Linux distribution.
func InjectPlatformTable(L *lua.LState, info *Info) error {
	tbl := L.NewTable()

	L.SetField(tbl, "os", lua.LString(info.OS))
	L.SetField(tbl, "arch", lua.LString(info.Arch))

	L.SetField(tbl, "is_linux", lua.LBool(info.IsLinux()))
	L.SetField(tbl, "is_macos", lua.LBool(info.IsMacOS()))
	L.SetField(tbl, "is_windows", lua.LBool(info.IsWindows()))

	if info.IsLinux() && info.Platform != "" {
		distro := L.NewTable()
		L.SetField(distro, "id", lua.LString(info.Platform))
		L.SetField(distro, "family", lua.LString(info.Family))
		L.SetField(distro, "version", lua.LString(info.Version))
		L.SetField(tbl, "distro", distro)
	} else {
		L.SetField(tbl, "distro", lua.LNil)
	}

	L.SetGlobal("platform", makeReadOnly(L, tbl))
	return nil
}

// makeReadOnly wraps a Lua table in a proxy whose metatable redirects
// reads to the original table and rejects all writes.
func makeReadOnly(L *lua.LState, table *lua.LTable) *lua.LTable {
	mt := L.NewTable()
	L.SetField(mt, "__index", table)
	L.SetField(mt, "__newindex", L.NewFunction(func(L *lua.LState) int {
		L.RaiseError("platform table is read-only and cannot be modified")
		return 0
	}))
	L.SetField(mt, "__metatable", lua.LString("protected"))

	proxy := L.NewTable()
	L.SetMetatable(proxy, mt)
	return proxy
}
