// ABOUTME: Tests for mDNS tap discovery
// ABOUTME: Covers manager construction and local address enumeration
package discovery

import (
	"testing"
)

func TestNewManager(t *testing.T) {
	config := Config{
		ServiceName: "Test Tap",
		Port:        8931,
	}

	mgr := NewManager(config)
	if mgr == nil {
		t.Fatal("expected manager to be created")
	}
	if mgr.Taps() == nil {
		t.Error("expected taps channel")
	}

	mgr.Stop()
}

func TestGetLocalIPs(t *testing.T) {
	ips, err := getLocalIPs()
	if err != nil {
		t.Fatalf("getLocalIPs: %v", err)
	}

	for _, ip := range ips {
		if ip.To4() == nil {
			t.Errorf("non-IPv4 address returned: %v", ip)
		}
		if ip.IsLoopback() {
			t.Errorf("loopback address returned: %v", ip)
		}
	}
}
