package netalloc

import (
	"fmt"
	"testing"
)

func TestAllocatorAddresses(t *testing.T) {
	alloc, err := New("10.100")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if got := alloc.Subnet(0); got != "10.100.0.0/24" {
		t.Errorf("Subnet(0) = %s", got)
	}
	if got := alloc.Subnet(100); got != "10.100.100.0/24" {
		t.Errorf("Subnet(100) = %s", got)
	}
	if got := alloc.IP(100); got != "10.100.100.10" {
		t.Errorf("IP(100) = %s", got)
	}
	if got := alloc.Gateway(101); got != "10.100.101.1" {
		t.Errorf("Gateway(101) = %s", got)
	}

	start, end := alloc.PoolRange(5)
	if start != "10.100.5.10" || end != "10.100.5.100" {
		t.Errorf("PoolRange(5) = %s, %s", start, end)
	}
}

func TestAllocatorDistinctIPs(t *testing.T) {
	alloc, err := New("10.100")
	if err != nil {
		t.Fatal(err)
	}

	seen := map[string]int{}
	for i := 0; i < 200; i++ {
		ip := alloc.IP(i)
		if prev, ok := seen[ip]; ok {
			t.Fatalf("IP(%d) = %s collides with IP(%d)", i, ip, prev)
		}
		seen[ip] = i
	}
}

func TestAllocatorMonotonicThirdOctet(t *testing.T) {
	alloc, _ := New("10.200")
	for i := 0; i < 10; i++ {
		want := fmt.Sprintf("10.200.%d.10", i)
		if got := alloc.IP(i); got != want {
			t.Errorf("IP(%d) = %s, want %s", i, got, want)
		}
	}
}

func TestNewRejectsBadBase(t *testing.T) {
	for _, base := range []string{"", "10", "10.100.0", "ten.hundred"} {
		if _, err := New(base); err == nil {
			t.Errorf("New(%q) should fail", base)
		}
	}
}

func TestSplitSubnet(t *testing.T) {
	base, err := SplitSubnet("10.100.3.0/24")
	if err != nil {
		t.Fatalf("SplitSubnet failed: %v", err)
	}
	if base != "10.100.3" {
		t.Errorf("SplitSubnet = %s, want 10.100.3", base)
	}
}

func TestSplitSubnetInvalid(t *testing.T) {
	cases := []string{
		"10.100.0.0",       // missing mask
		"10.100.x.0/24",    // non-numeric octet
		"not-a-subnet",     //
		"10.100.0.0/24/24", // double mask
		"fd00::/64",        // IPv6 not supported for attachments
	}
	for _, subnet := range cases {
		if _, err := SplitSubnet(subnet); err == nil {
			t.Errorf("SplitSubnet(%q) should fail", subnet)
		}
	}
}
