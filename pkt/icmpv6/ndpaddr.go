package icmpv6

import "gvisor.dev/gvisor/pkg/tcpip"

// Addr returns the Prefix Information option's advertised prefix as a
// gvisor tcpip.Address, the same address representation
// netstack/util/parse.go's IsAny/ApplyMask helpers operate on.
func (o PrefixInfo) Addr() tcpip.Address {
	return tcpip.AddrFromSlice(append([]byte(nil), o.Prefix()...))
}

// IsAnyAddr reports whether addr is the unspecified (all-zero) address,
// grounded on netstack/util/parse.go's IsAny; the check is
// tcpip.Address.Unspecified.
func IsAnyAddr(addr tcpip.Address) bool {
	return addr.Unspecified()
}

// SamePrefix reports whether on and addr share the first prefixLen bits,
// the on-link/autonomous-prefix comparison a receiver performs against a
// Prefix Information option's PrefixLen before adding or refreshing an
// address, grounded on netstack/util/parse.go's ApplyMask+PrefixLength
// pairing.
func SamePrefix(on, addr tcpip.Address, prefixLen uint8) bool {
	a, b := on.AsSlice(), addr.AsSlice()
	if len(a) != len(b) || int(prefixLen) > len(a)*8 {
		return false
	}
	fullBytes := int(prefixLen) / 8
	for i := 0; i < fullBytes; i++ {
		if a[i] != b[i] {
			return false
		}
	}
	if rem := prefixLen % 8; rem != 0 {
		mask := byte(0xff << (8 - rem))
		if a[fullBytes]&mask != b[fullBytes]&mask {
			return false
		}
	}
	return true
}
