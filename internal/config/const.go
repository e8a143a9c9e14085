package config

const (
	LogLevelDebug   string = "debug"
	LogLevelInfo    string = "info"
	LogLevelWarning string = "warn"
	LogLevelError   string = "error"

	LogFilePath string = "raid6store/log/log_output.txt"

	Version string = "0.1.0"

	// ParityDisks is fixed by spec: RAID-6 always carries exactly two
	// parity columns (P and Q).
	ParityDisks = 2
)
