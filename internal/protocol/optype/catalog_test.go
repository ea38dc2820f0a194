package optype

import (
	"errors"
	"testing"

	"github.com/danmuck/simctl/internal/testutil/testlog"
)

func TestCatalogMatchesPublishedIDs(t *testing.T) {
	testlog.Start(t)
	want := map[string]int32{
		"INTEGRATION_TEST":   0,
		"CREATE_WORKER":      1,
		"CREATE_TEST":        2,
		"LOG":                3,
		"EXCEPTION":          4,
		"IS_PHASE_COMPLETED": 5,
		"START_TEST_PHASE":   6,
		"START_TEST":         7,
		"STOP_TEST":          8,
	}
	got := Catalog()
	if len(got) != len(want) {
		t.Fatalf("unexpected catalog size: %d", len(got))
	}
	for _, v := range got {
		id, ok := want[v.Name]
		if !ok || id != v.WireID() {
			t.Fatalf("unexpected catalog entry: %+v", v)
		}
	}
}

func TestCatalogReturnsCopy(t *testing.T) {
	testlog.Start(t)
	first := Catalog()
	first[0].ID = 99
	if Catalog()[0].ID != 0 {
		t.Fatalf("catalog source mutated through returned slice")
	}
}

func TestNewPayloadCoversCatalog(t *testing.T) {
	testlog.Start(t)
	r := MustBuild(Catalog())
	for _, v := range Catalog() {
		p, err := NewPayload(v.Marker)
		if err != nil {
			t.Fatalf("new payload for %s: %v", v, err)
		}
		if p.Marker() != v.Marker {
			t.Fatalf("payload marker mismatch: got=%s want=%s", p.Marker(), v.Marker)
		}
		got, err := r.ResolvePayload(p)
		if err != nil || got != v {
			t.Fatalf("resolve payload for %s: got=%+v err=%v", v, got, err)
		}
	}
	if _, err := NewPayload("ShutdownOperation"); !errors.Is(err, ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
}

func TestNewPayloadForReceivedID(t *testing.T) {
	testlog.Start(t)
	r := MustBuild(Catalog())
	v, p, err := r.NewPayloadFor(StartTestPhase.ID)
	if err != nil {
		t.Fatalf("new payload for id %d: %v", StartTestPhase.ID, err)
	}
	if v != StartTestPhase {
		t.Fatalf("unexpected variant: %+v", v)
	}
	phase, ok := p.(*StartTestPhaseOperation)
	if !ok {
		t.Fatalf("unexpected payload type %T", p)
	}
	phase.Phase = PhaseRun
	if got, _ := r.ResolvePayload(phase); got != StartTestPhase {
		t.Fatalf("filled payload resolved to %+v", got)
	}

	if _, p, err := r.NewPayloadFor(77); p != nil || !errors.Is(err, ErrUnknownIdentifier) {
		t.Fatalf("expected unknown identifier, got payload=%v err=%v", p, err)
	}
}

func TestPayloadNotInRegistry(t *testing.T) {
	testlog.Start(t)
	r := MustBuild([]Variant{Log})
	_, err := r.ResolvePayload(&StopTestOperation{TestID: "t1"})
	var unknown UnknownTypeError
	if !errors.As(err, &unknown) || unknown.Marker != MarkerStopTest {
		t.Fatalf("expected UnknownTypeError(%s), got %v", MarkerStopTest, err)
	}
}

func TestNewPayloadForRegisteredMarkerWithoutShape(t *testing.T) {
	testlog.Start(t)
	obs := &countingObserver{}
	shutdown := Variant{Name: "SHUTDOWN", Marker: "ShutdownOperation", ID: 9}
	r, err := Default(WithObserver(obs))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	r, err = r.Extend(shutdown)
	if err != nil {
		t.Fatalf("extend: %v", err)
	}

	v, p, err := r.NewPayloadFor(9)
	var unknown UnknownTypeError
	if !errors.As(err, &unknown) || unknown.Marker != shutdown.Marker {
		t.Fatalf("expected UnknownTypeError(%s), got %v", shutdown.Marker, err)
	}
	if p != nil || v != (Variant{}) {
		t.Fatalf("expected empty result, got variant=%+v payload=%v", v, p)
	}
	if len(obs.markers) != 1 || obs.markers[0] != shutdown.Marker {
		t.Fatalf("observer not told about missing payload shape: %v", obs.markers)
	}
	if len(obs.ids) != 0 {
		t.Fatalf("id lookup miscounted as failure: %v", obs.ids)
	}
}
