package optype

// Marker identifies the concrete payload shape carried by a variant.
type Marker string

// Variant is one kind of protocol operation.
type Variant struct {
	Name   string
	Marker Marker
	ID     int32
}

// WireID returns the identifier placed on the wire for v.
func (v Variant) WireID() int32 {
	return v.ID
}

// PayloadMarker returns the payload-type marker of v.
func (v Variant) PayloadMarker() Marker {
	return v.Marker
}

func (v Variant) String() string {
	return v.Name
}

// Payload markers, one per catalog variant.
const (
	MarkerIntegrationTest  Marker = "IntegrationTestOperation"
	MarkerCreateWorker     Marker = "CreateWorkerOperation"
	MarkerCreateTest       Marker = "CreateTestOperation"
	MarkerLog              Marker = "LogOperation"
	MarkerException        Marker = "ExceptionOperation"
	MarkerIsPhaseCompleted Marker = "IsPhaseCompletedOperation"
	MarkerStartTestPhase   Marker = "StartTestPhaseOperation"
	MarkerStartTest        Marker = "StartTestOperation"
	MarkerStopTest         Marker = "StopTestOperation"
)

// Operation variants. New operations take the next unused id; ids are
// never reused once published.
var (
	IntegrationTest  = Variant{Name: "INTEGRATION_TEST", Marker: MarkerIntegrationTest, ID: 0}
	CreateWorker     = Variant{Name: "CREATE_WORKER", Marker: MarkerCreateWorker, ID: 1}
	CreateTest       = Variant{Name: "CREATE_TEST", Marker: MarkerCreateTest, ID: 2}
	Log              = Variant{Name: "LOG", Marker: MarkerLog, ID: 3}
	Exception        = Variant{Name: "EXCEPTION", Marker: MarkerException, ID: 4}
	IsPhaseCompleted = Variant{Name: "IS_PHASE_COMPLETED", Marker: MarkerIsPhaseCompleted, ID: 5}
	StartTestPhase   = Variant{Name: "START_TEST_PHASE", Marker: MarkerStartTestPhase, ID: 6}
	StartTest        = Variant{Name: "START_TEST", Marker: MarkerStartTest, ID: 7}
	StopTest         = Variant{Name: "STOP_TEST", Marker: MarkerStopTest, ID: 8}
)

var catalog = [...]Variant{
	IntegrationTest,
	CreateWorker,
	CreateTest,
	Log,
	Exception,
	IsPhaseCompleted,
	StartTestPhase,
	StartTest,
	StopTest,
}

// Catalog returns a copy of the closed operation set in declaration order.
func Catalog() []Variant {
	out := make([]Variant, len(catalog))
	copy(out, catalog[:])
	return out
}
