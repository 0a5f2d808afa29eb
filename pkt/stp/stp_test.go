package stp_test

import (
	"testing"

	"go.netpkt.dev/netpkt/pkt/ether"
	"go.netpkt.dev/netpkt/pkt/stp"
)

func TestConfMessageRoundTrip(t *testing.T) {
	buf := make([]byte, stp.ConfLen)
	m := stp.BuildConfMessage(buf)

	rootMac := ether.AddrFromBytes([]byte{0x00, 0x1b, 0x21, 0x11, 0x22, 0x33})
	bridgeMac := ether.AddrFromBytes([]byte{0x00, 0x1b, 0x21, 0x44, 0x55, 0x66})

	m.SetFlag(0x01)
	m.SetRootPriority(0x8000)
	m.SetRootSysIDExt(0x001)
	m.SetRootMacAddr(rootMac)
	m.SetPathCost(4)
	m.SetBridgePriority(0x8000)
	m.SetBridgeSysIDExt(0x002)
	m.SetBridgeMacAddr(bridgeMac)
	m.SetPortID(0x8003)
	m.SetMsgAge(1)
	m.SetMaxAge(20)
	m.SetHelloTime(2)
	m.SetForwardDelay(15)

	got, ok := stp.ParseConfMessage(buf)
	if !ok {
		t.Fatalf("ParseConfMessage failed")
	}
	if got.Version() != stp.VersionSTP || got.Type() != stp.TypeConf {
		t.Fatalf("version/type mismatch")
	}
	if got.Flag() != 0x01 {
		t.Fatalf("flag mismatch")
	}
	if got.RootPriority() != 0x8000 || got.RootSysIDExt() != 0x001 {
		t.Fatalf("root id fields mismatch: priority=%#x sysid=%#x", got.RootPriority(), got.RootSysIDExt())
	}
	if got.RootMacAddr() != rootMac {
		t.Fatalf("root mac mismatch: got %v want %v", got.RootMacAddr(), rootMac)
	}
	if got.PathCost() != 4 {
		t.Fatalf("path cost mismatch")
	}
	if got.BridgePriority() != 0x8000 || got.BridgeSysIDExt() != 0x002 {
		t.Fatalf("bridge id fields mismatch")
	}
	if got.BridgeMacAddr() != bridgeMac {
		t.Fatalf("bridge mac mismatch")
	}
	if got.PortID() != 0x8003 {
		t.Fatalf("port id mismatch")
	}
	if got.MsgAge() != 1 || got.MaxAge() != 20 || got.HelloTime() != 2 || got.ForwardDelay() != 15 {
		t.Fatalf("timer fields mismatch: age=%d maxage=%d hello=%d fwd=%d",
			got.MsgAge(), got.MaxAge(), got.HelloTime(), got.ForwardDelay())
	}
}

func TestSetRootPriorityPreservesSysIDExt(t *testing.T) {
	buf := make([]byte, stp.ConfLen)
	m := stp.BuildConfMessage(buf)

	m.SetRootSysIDExt(0x0ab)
	m.SetRootPriority(0x4000)
	if m.RootSysIDExt() != 0x0ab {
		t.Fatalf("SetRootPriority must not disturb sys-id-ext, got %#x", m.RootSysIDExt())
	}
	if m.RootPriority() != 0x4000 {
		t.Fatalf("root priority mismatch after combined writes")
	}
}

func TestTCNMessageRoundTrip(t *testing.T) {
	buf := make([]byte, stp.TCNLen)
	stp.BuildTCNMessage(buf)

	got, ok := stp.ParseTCNMessage(buf)
	if !ok {
		t.Fatalf("ParseTCNMessage failed")
	}
	if got.Version() != stp.VersionSTP || got.Type() != stp.TypeTCN {
		t.Fatalf("tcn version/type mismatch")
	}
}

func TestRstpConfMessageRoundTrip(t *testing.T) {
	buf := make([]byte, stp.RstpLen)
	m := stp.BuildRstpConfMessage(buf)
	m.SetRootPriority(0x2000)
	m.SetPathCost(1)
	m.SetVersion1Len(0)

	got, ok := stp.ParseRstpConfMessage(buf)
	if !ok {
		t.Fatalf("ParseRstpConfMessage failed")
	}
	if got.Version() != stp.VersionRSTP || got.Type() != stp.TypeRSTPOrMSTP {
		t.Fatalf("rstp version/type mismatch")
	}
	if got.RootPriority() != 0x2000 {
		t.Fatalf("root priority mismatch")
	}
	if got.PathCost() != 1 {
		t.Fatalf("path cost mismatch")
	}
	if got.Version1Len() != 0 {
		t.Fatalf("version1len must be 0, got %d", got.Version1Len())
	}
}

func TestGroupParseDispatch(t *testing.T) {
	confBuf := make([]byte, stp.ConfLen)
	stp.BuildConfMessage(confBuf)
	if kind, ok := stp.GroupParse(confBuf); !ok || kind != stp.KindConf {
		t.Fatalf("expected KindConf, got %v ok=%v", kind, ok)
	}

	tcnBuf := make([]byte, stp.TCNLen)
	stp.BuildTCNMessage(tcnBuf)
	if kind, ok := stp.GroupParse(tcnBuf); !ok || kind != stp.KindTCN {
		t.Fatalf("expected KindTCN, got %v ok=%v", kind, ok)
	}

	rstpBuf := make([]byte, stp.RstpLen)
	stp.BuildRstpConfMessage(rstpBuf)
	if kind, ok := stp.GroupParse(rstpBuf); !ok || kind != stp.KindRstpConf {
		t.Fatalf("expected KindRstpConf, got %v ok=%v", kind, ok)
	}
}
