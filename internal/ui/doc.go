// Package ui holds the terminal presentation primitives shared by the CLI
// commands and the dashboard.
//
// # Color Scheme
//
// Brand accents (ColorNeon*) and semantic colors are hex values rendered
// through lipgloss. DisableColors drops to plain ASCII for --no-color.
//
// Network quality has its own fixed palette. QualityColor is the only place
// that maps a backend quality label to a color; the overlay, the status
// header, the history chart and the history rows all go through it.
//
// # Formatting
//
// FormatSpeed scales a bits-per-second figure into the user's preferred unit
// with a fixed precision per unit:
//
//	ui.FormatSpeed(12_500_000, backend.SpeedMbps) // "12.50 Mbps"
//	ui.FormatSpeed(0, backend.SpeedMbps)          // "--"
//
// The unit is passed at call time, never cached, so a settings change
// retargets every rendered figure on the next frame.
//
// # Components
//
//	Spinner          - Animated status line for one-shot CLI diagnostics
//	SpinnerComponent - Bubble Tea spinner for embedding in the dashboard
//	Sparkline        - Block-character trend line (live ping)
//	Table, RenderKV  - Tables and key/value blocks for CLI reports
//	RenderBar        - Horizontal fill bar (quality score)
package ui
