//go:build !ringdebug

package ringcursor

const debugChecks = false
