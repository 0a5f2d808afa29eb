// Package pppoe implements the PPPoE session and discovery header views
// (RFC 2516), grounded on original_source/rpkt/src/pppoe/generated.rs and
// cross-checked against original_source/rpkt/tests/pppoe_test.rs for the
// PppoeCode/PppoeTagType constant values, neither of which survived
// distillation as a standalone enum source file.
package pppoe

// Code is the PPPoE Code field (RFC 2516 §5).
type Code uint8

const (
	CodeSession Code = 0x00
	CodePADI    Code = 0x09
	CodePADO    Code = 0x07
	CodePADR    Code = 0x19
	CodePADS    Code = 0x65
	CodePADT    Code = 0xa7
)

// TagType is the PPPoE discovery Tag-Type field (RFC 2516 §5.1).
type TagType uint16

const (
	TagEndOfList       TagType = 0x0000
	TagSvcName         TagType = 0x0101
	TagACName          TagType = 0x0102
	TagHostUniq        TagType = 0x0103
	TagACCookie        TagType = 0x0104
	TagVendorSpecific  TagType = 0x0105
	TagRelaySessionID  TagType = 0x0110
	TagSvcNameError    TagType = 0x0201
	TagACSystemError   TagType = 0x0202
	TagGenericError    TagType = 0x0203
)
