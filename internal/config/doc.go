// Package config loads eventplay playbooks.
//
// A playbook is a TOML file that chooses a dispatch mode, declares Lua
// listeners and lists the steps to run against them:
//
//	mode = "async"
//	log_level = "debug"
//
//	[[listener]]
//	name = "adder"
//	event = "tick"
//	source = "return function(p) state.total = (state.total or 0) + p.n end"
//
//	[[listener]]
//	name = "audit"
//	event = "tick"
//	once = true
//	file = "audit.lua"   # relative to the playbook
//
//	[[step]]
//	emit = "tick"
//	payload = { n = 1 }
//
//	[[step]]
//	remove = "adder"
//
// EVENTPLAY_MODE and EVENTPLAY_LOG_LEVEL override the file.
package config
