// Package cli provides the interactive portal command-line client.
//
// It wires configuration, the gRPC client and an interactive REPL. A
// background watcher pings the server and shows whether it is reachable in
// the prompt.
//
// Commands:
//   - register / login / logout
//   - get, update, delete <user_id>
//   - grant, revoke <user_id> (superadmin only)
//   - avatar upload|download <user_id> <file>
//   - ping
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
