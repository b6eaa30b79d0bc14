package module

import (
	"testing"

	phttp "dncsweep/internal/platform/net/http"
	"dncsweep/internal/platform/testkit"
)

type pinger interface{ Ping() string }

type pingImpl struct{}

func (pingImpl) Ping() string { return "pong" }

type fakeModule struct{ ports any }

func (m fakeModule) MountRoutes(_ phttp.Router) {}
func (m fakeModule) Ports() any                 { return m.ports }
func (m fakeModule) Name() string               { return "fake" }

type portBundle struct {
	P pinger
}

func TestRegistryRoundTrip(t *testing.T) {
	Reset()
	defer Reset()

	Register("fake", portBundle{P: pingImpl{}})

	got, ok := PortsAs[portBundle]("fake")
	if !ok {
		t.Fatalf("registered ports not found")
	}
	if got.P.Ping() != "pong" {
		t.Fatalf("ports lost their implementation")
	}

	if _, ok := PortsAs[portBundle]("missing"); ok {
		t.Fatalf("unknown name should not resolve")
	}
	if _, ok := PortsAs[string]("fake"); ok {
		t.Fatalf("wrong type assertion should fail")
	}
}

func TestPortsOfWalksStructFields(t *testing.T) {
	m := fakeModule{ports: portBundle{P: pingImpl{}}}

	p, ok := PortsOf[pinger](m)
	if !ok || p.Ping() != "pong" {
		t.Fatalf("PortsOf should find the pinger field")
	}

	if _, ok := PortsOf[pinger](fakeModule{ports: nil}); ok {
		t.Fatalf("nil ports should not resolve")
	}
}

func TestMustPortsOfPanicsWhenMissing(t *testing.T) {
	if got := MustPortsOf[portBundle](fakeModule{ports: portBundle{P: pingImpl{}}}); got.P == nil {
		t.Fatalf("direct bundle should resolve")
	}
	testkit.MustPanic(t, func() {
		MustPortsOf[pinger](fakeModule{ports: struct{}{}})
	})
}
