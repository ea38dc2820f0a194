package optype

// Payload is the closed set of operation payload shapes. Only types in
// this package implement it.
type Payload interface {
	Marker() Marker
	isPayload()
}

// TestPhase names one phase of a simulator test lifecycle.
type TestPhase string

const (
	PhaseSetup          TestPhase = "setup"
	PhaseLocalWarmup    TestPhase = "local_warmup"
	PhaseGlobalWarmup   TestPhase = "global_warmup"
	PhaseRun            TestPhase = "run"
	PhaseGlobalVerify   TestPhase = "global_verify"
	PhaseLocalVerify    TestPhase = "local_verify"
	PhaseGlobalTeardown TestPhase = "global_teardown"
	PhaseLocalTeardown  TestPhase = "local_teardown"
)

// WorkerParameters describes one worker process to start.
type WorkerParameters struct {
	WorkerType string
	Index      int
	JVMOptions string
	Env        map[string]string
}

type IntegrationTestOperation struct {
	Kind     string
	TestData string
}

type CreateWorkerOperation struct {
	Workers []WorkerParameters
	DelayMS int64
}

type CreateTestOperation struct {
	TestIndex  int
	TestID     string
	Properties map[string]string
}

type LogOperation struct {
	Message string
	Level   string
}

type ExceptionOperation struct {
	Kind          string
	WorkerAddress string
	TestID        string
	Cause         string
	StackTrace    string
}

type IsPhaseCompletedOperation struct {
	TestID string
	Phase  TestPhase
}

type StartTestPhaseOperation struct {
	TestID string
	Phase  TestPhase
}

type StartTestOperation struct {
	TestID        string
	PassiveMember bool
}

type StopTestOperation struct {
	TestID string
}

func (*IntegrationTestOperation) Marker() Marker  { return MarkerIntegrationTest }
func (*CreateWorkerOperation) Marker() Marker     { return MarkerCreateWorker }
func (*CreateTestOperation) Marker() Marker       { return MarkerCreateTest }
func (*LogOperation) Marker() Marker              { return MarkerLog }
func (*ExceptionOperation) Marker() Marker        { return MarkerException }
func (*IsPhaseCompletedOperation) Marker() Marker { return MarkerIsPhaseCompleted }
func (*StartTestPhaseOperation) Marker() Marker   { return MarkerStartTestPhase }
func (*StartTestOperation) Marker() Marker        { return MarkerStartTest }
func (*StopTestOperation) Marker() Marker         { return MarkerStopTest }

func (*IntegrationTestOperation) isPayload()  {}
func (*CreateWorkerOperation) isPayload()     {}
func (*CreateTestOperation) isPayload()       {}
func (*LogOperation) isPayload()              {}
func (*ExceptionOperation) isPayload()        {}
func (*IsPhaseCompletedOperation) isPayload() {}
func (*StartTestPhaseOperation) isPayload()   {}
func (*StartTestOperation) isPayload()        {}
func (*StopTestOperation) isPayload()         {}

// NewPayload returns an empty payload of the concrete type for marker,
// ready for a decoder to fill.
func NewPayload(marker Marker) (Payload, error) {
	switch marker {
	case MarkerIntegrationTest:
		return &IntegrationTestOperation{}, nil
	case MarkerCreateWorker:
		return &CreateWorkerOperation{}, nil
	case MarkerCreateTest:
		return &CreateTestOperation{}, nil
	case MarkerLog:
		return &LogOperation{}, nil
	case MarkerException:
		return &ExceptionOperation{}, nil
	case MarkerIsPhaseCompleted:
		return &IsPhaseCompletedOperation{}, nil
	case MarkerStartTestPhase:
		return &StartTestPhaseOperation{}, nil
	case MarkerStartTest:
		return &StartTestOperation{}, nil
	case MarkerStopTest:
		return &StopTestOperation{}, nil
	default:
		return nil, UnknownTypeError{Marker: marker}
	}
}
