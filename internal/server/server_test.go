package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danmuck/simctl/internal/protocol/manifest"
	"github.com/danmuck/simctl/internal/protocol/optype"
	"github.com/danmuck/simctl/internal/testutil/testlog"
	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
)

func newTestServer(t *testing.T) (*Server, *optype.Registry) {
	t.Helper()
	reg := optype.MustBuild(optype.Catalog())
	return New("optypectl", ":0", reg, zerolog.Nop()), reg
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func TestListOperations(t *testing.T) {
	testlog.Start(t)
	s, reg := newTestServer(t)
	rr := get(t, s, "/operations")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var body struct {
		Operations []operationView `json:"operations"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := make([]operationView, 0, reg.Len())
	for _, v := range reg.Variants() {
		want = append(want, viewOf(v))
	}
	if diff := cmp.Diff(want, body.Operations); diff != "" {
		t.Fatalf("operations mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveOperationByID(t *testing.T) {
	testlog.Start(t)
	s, _ := newTestServer(t)
	cases := []struct {
		path   string
		status int
		want   *operationView
	}{
		{path: "/operations/3", status: http.StatusOK, want: &operationView{Name: "LOG", Marker: "LogOperation", ID: 3}},
		{path: "/operations/9", status: http.StatusNotFound},
		{path: "/operations/-1", status: http.StatusNotFound},
		{path: "/operations/abc", status: http.StatusBadRequest},
		{path: "/operations/99999999999", status: http.StatusBadRequest},
	}
	for _, tc := range cases {
		rr := get(t, s, tc.path)
		if rr.Code != tc.status {
			t.Fatalf("%s: expected %d, got %d body=%s", tc.path, tc.status, rr.Code, rr.Body.String())
		}
		if tc.want == nil {
			continue
		}
		var got operationView
		if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
			t.Fatalf("%s: decode: %v", tc.path, err)
		}
		if got != *tc.want {
			t.Fatalf("%s: got=%+v want=%+v", tc.path, got, *tc.want)
		}
	}
}

func TestResolveOperationByMarker(t *testing.T) {
	testlog.Start(t)
	s, _ := newTestServer(t)
	rr := get(t, s, "/markers/StopTestOperation")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var got operationView
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != optype.StopTest.ID {
		t.Fatalf("unexpected id: %d", got.ID)
	}
	if rr := get(t, s, "/markers/ShutdownOperation"); rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown marker, got %d", rr.Code)
	}
}

func TestManifestEndpointChecksClean(t *testing.T) {
	testlog.Start(t)
	s, reg := newTestServer(t)
	rr := get(t, s, "/manifest")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	m, err := manifest.Decode(bytes.NewReader(rr.Body.Bytes()))
	if err != nil {
		t.Fatalf("decode manifest: %v", err)
	}
	if err := manifest.Check(m, reg); err != nil {
		t.Fatalf("check: %v", err)
	}
}

func TestHealth(t *testing.T) {
	testlog.Start(t)
	s, reg := newTestServer(t)
	rr := get(t, s, "/health")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" || body["operations"] != float64(reg.Len()) {
		t.Fatalf("unexpected health body: %#v", body)
	}
}
