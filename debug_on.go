//go:build ringdebug

package ringcursor

// debugChecks enables ring ownership and range checks on every cursor
// operation. Build with -tags ringdebug.
const debugChecks = true
