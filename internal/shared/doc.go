// Package shared provides common utilities and test helpers used across the
// rectcli codebase. It serves as a central location for functionality that
// doesn't belong to any specific domain or architectural layer.
//
// # Structure
//
// - testutil: log-capture handlers for asserting on structured logging
//
// # Usage Guidelines
//
// This package should only contain:
//
// 1. Test utilities used by multiple packages
// 2. Generic helper functions with no domain-specific logic
//
// It should NOT contain business logic or circular dependencies with
// other internal packages.
package shared
