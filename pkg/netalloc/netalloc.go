// Package netalloc deterministically allocates per-interface subnets for
// multi-homed telecom workloads. The third octet of the base /16 carries the
// interface index, so allocations for distinct indexes never collide.
package netalloc

import (
	"fmt"
	"net"
	"strings"
)

const (
	// Host octets within each allocated /24.
	startHost   = "10"
	endHost     = "100"
	gatewayHost = "1"

	cidrSuffix = "/24"
)

// Allocator issues addresses under a fixed two-octet base prefix ("10.100").
type Allocator struct {
	base string
}

// New creates an allocator for the given base prefix. The prefix must be the
// first two octets of an IPv4 network ("10.100").
func New(base string) (*Allocator, error) {
	parts := strings.Split(base, ".")
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid base prefix %q: expected two octets (e.g. 10.100)", base)
	}
	if net.ParseIP(base+".0.0") == nil {
		return nil, fmt.Errorf("invalid base prefix %q", base)
	}
	return &Allocator{base: base}, nil
}

// Subnet returns the CIDR block for interface index i, e.g. "10.100.0.0/24".
func (a *Allocator) Subnet(i int) string {
	return fmt.Sprintf("%s.%d.0%s", a.base, i, cidrSuffix)
}

// IP returns the first pool address for interface index i, e.g. "10.100.0.10".
func (a *Allocator) IP(i int) string {
	return fmt.Sprintf("%s.%d.%s", a.base, i, startHost)
}

// Gateway returns the gateway address for interface index i.
func (a *Allocator) Gateway(i int) string {
	return fmt.Sprintf("%s.%d.%s", a.base, i, gatewayHost)
}

// PoolRange returns the first and last address offered to an attachment's
// address pool within subnet index i.
func (a *Allocator) PoolRange(i int) (start, end string) {
	return fmt.Sprintf("%s.%d.%s", a.base, i, startHost),
		fmt.Sprintf("%s.%d.%s", a.base, i, endHost)
}

// SplitSubnet validates a CIDR string and returns its first three octets
// ("10.100.0" for "10.100.0.0/24"). A string that does not parse as a dotted
// IPv4 network in a.b.c.d/n form is a hard validation failure.
func SplitSubnet(subnet string) (string, error) {
	ip, _, err := net.ParseCIDR(subnet)
	if err != nil {
		return "", fmt.Errorf("invalid subnet %q: expected CIDR notation (e.g. 10.100.0.0/24): %w", subnet, err)
	}
	v4 := ip.To4()
	if v4 == nil {
		return "", fmt.Errorf("invalid subnet %q: not an IPv4 network", subnet)
	}
	return fmt.Sprintf("%d.%d.%d", v4[0], v4[1], v4[2]), nil
}
