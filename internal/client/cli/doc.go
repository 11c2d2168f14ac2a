// Package cli provides the interactive admin console.
//
// It wires configuration, the local credential store, the HTTP transport and
// the client services, then runs a REPL over them. Typical flow: resume a
// stored session or log in, list users, then add, edit or delete records.
//
// Key features:
//   - Register / Login / Logout
//   - List users with attachment links
//   - Add and edit users through the form state machine
//   - Delete users after a yes/no confirmation
//
// The REPL is started via App.Run(ctx), which blocks until the user exits or
// ctx is cancelled. See App and runREPL for details.
package cli
