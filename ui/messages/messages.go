package messages

import "time"

// Msg is a marker interface for all message types
type Msg any

// StartRunMsg is sent before anything is compiled or run
type StartRunMsg struct {
	Problem  string
	Language string
	Samples  int
}

// CompileMsg is sent when a compiled language starts building
type CompileMsg struct {
	Command string
}

// CompileFailedMsg carries the compiler's complaint
type CompileFailedMsg struct {
	Output string
}

// ResolveSampleMsg is sent when one sample has been run and compared
type ResolveSampleMsg struct {
	Index    int
	Total    int
	Name     string
	Verdict  string
	Passed   bool
	TimedOut bool
	Crashed  bool
	Stdin    string
	Stdout   string
	Expected string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// SummaryMsg is sent once every sample has been resolved
type SummaryMsg struct {
	Passed int
	Total  int
}

// SubmittedMsg is sent when the judge has accepted an upload
type SubmittedMsg struct {
	ID  string
	URL string
}

// JudgeProgressMsg is sent after every status poll
type JudgeProgressMsg struct {
	Status string
	Final  bool
	Marks  string
	Done   int
	Total  int
}

// VerdictMsg is the judge's final word
type VerdictMsg struct {
	Status         string
	Accepted       bool
	CPUTime        string
	CompilerOutput string
}
