// Package cli implements the netsentinel command-line interface.
//
// Running netsentinel with no subcommand opens the dashboard. The other
// commands are one-shot views of the same backend calls, meant for scripts
// and quick checks:
//
//	netsentinel status          - connection quality and details
//	netsentinel ping [host]     - one-shot ping diagnostic
//	netsentinel dns             - DNS resolution diagnostic
//	netsentinel scan            - Wi-Fi survey
//	netsentinel monitor start   - start or stop backend monitoring
//	netsentinel history         - recent history, clear or export it
//	netsentinel settings        - read, change or edit persisted settings
//	netsentinel init            - write a starter config
//
// Global flags (--config, --backend, --ssh, --broker, --no-color) override
// the loaded config for one invocation.
package cli
