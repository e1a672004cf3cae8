package client

import "fmt"

// Status is the judge's status_id for a submission.
type Status int

const (
	StatusNew               Status = 0
	StatusNewAlt            Status = 1
	StatusWaitingForCompile Status = 2
	StatusCompiling         Status = 3
	StatusWaitingForRun     Status = 4
	StatusRunning           Status = 5
	StatusJudgeError        Status = 6
	StatusCompileError      Status = 8
	StatusRuntimeError      Status = 9
	StatusMemoryLimit       Status = 10
	StatusOutputLimit       Status = 11
	StatusTimeLimit         Status = 12
	StatusIllegalFunction   Status = 13
	StatusWrongAnswer       Status = 14
	StatusAccepted          Status = 16

	// StatusUnknown means polling gave up before a final verdict.
	StatusUnknown Status = -1
)

var statusNames = map[Status]string{
	StatusNew:               "New",
	StatusNewAlt:            "New",
	StatusWaitingForCompile: "Waiting for compile",
	StatusCompiling:         "Compiling",
	StatusWaitingForRun:     "Waiting for run",
	StatusRunning:           "Running",
	StatusJudgeError:        "Judge Error",
	StatusCompileError:      "Compile Error",
	StatusRuntimeError:      "Run Time Error",
	StatusMemoryLimit:       "Memory Limit Exceeded",
	StatusOutputLimit:       "Output Limit Exceeded",
	StatusTimeLimit:         "Time Limit Exceeded",
	StatusIllegalFunction:   "Illegal Function",
	StatusWrongAnswer:       "Wrong Answer",
	StatusAccepted:          "Accepted",
	StatusUnknown:           "Unknown",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Unknown Status %d", int(s))
}

// Final reports whether judging is over. Codes the judge adds later are
// treated as final so polling never spins on them.
func (s Status) Final() bool {
	return s < StatusNew || s >= StatusJudgeError
}

func (s Status) Accepted() bool {
	return s == StatusAccepted
}
