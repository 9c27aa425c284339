package shared

// Process exit codes.
const (
	ExitOK          = 0
	ExitError       = 1
	ExitConfigError = 2
	ExitInjectError = 3
	ExitMacroError  = 4
)
