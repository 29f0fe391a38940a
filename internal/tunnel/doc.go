// Package tunnel carries backend traffic over SSH.
//
// The monitoring backend usually listens on the loopback interface of the
// machine it watches. Open connects to that machine once and hands out a
// DialContext that the backend HTTP client uses in place of net.Dial, so
// "http://127.0.0.1:8765" resolves on the remote side of the connection.
//
// Connection settings come from ~/.ssh/config when present. Authentication
// tries the SSH agent first, then IdentityFile, then the default key files.
// Host keys are checked against ~/.ssh/known_hosts.
package tunnel
