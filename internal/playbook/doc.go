// Package playbook runs a config.Config against an event system.
//
// Run registers every Lua listener of the playbook on a sync or async
// system, performs the steps in order and returns a Report with the
// final script state and the system statistics. Watch re-runs a
// callback whenever the playbook file changes.
package playbook
