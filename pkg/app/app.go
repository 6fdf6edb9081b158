// Package app holds the contract between cmd/ entrypoints and the processes
// they start.
package app

// Runner is a long-lived process. Run blocks until the process stops and
// reports why it stopped abnormally.
type Runner interface {
	Run() error
}
