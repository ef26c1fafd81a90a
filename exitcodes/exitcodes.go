// Package exitcodes defines the standard exit codes used by testrail-prerun.
package exitcodes

// Exit code constants used by testrail-prerun
// These constants define the exit codes that the application uses to indicate
// various states when it exits:
//
// * Success (0): Used when the run plan resolved cleanly
// * Failure (1): Used for transient tracker failures and timeouts
// * ConfigErr (2): Used for configuration mistakes such as unknown status labels
const (
	Success   = 0 // Plan resolved
	Failure   = 1 // Transient tracker failure or timeout
	ConfigErr = 2 // Configuration mistake
)
