package diag

// Severity grades a diagnostic. Every condition the compiler reports aborts
// the compile, so SevError is the only grade.
type Severity uint8

const SevError Severity = 1

func (s Severity) String() string {
	if s == SevError {
		return "ERROR"
	}
	return "UNKNOWN"
}
