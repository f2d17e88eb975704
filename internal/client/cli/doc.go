// Package cli provides the interactive GeoJournal command-line client.
//
// It wires configuration, the on-device store, the remote client and the
// persistence gateway, then runs a REPL next to a background connectivity
// watcher. Every command goes through the gateway, so the REPL behaves the
// same whether the store is reachable or not; only the reported source and
// the prompt differ.
//
// Commands:
//
//	help                   show available commands
//	list | l               list entries
//	add                    add an entry (interactive)
//	delete <id>            delete an entry
//	import <file>          replace the device copy from a .json or .yaml snapshot
//	export <file>          write the current list to a .json or .yaml snapshot
//	pending                show entries created while offline
//	status                 probe the store now and print connectivity
//	exit | quit            leave the program
package cli
