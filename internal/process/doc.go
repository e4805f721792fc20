// Package process runs external commands in their own process group so a timeout
// or cancellation can stop the command together with any children it spawned.
package process
