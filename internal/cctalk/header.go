// Package cctalk implements the ccTalk command layer: header bytes, request
// payload encoding, reply decoding, and the classification tables the
// device supervisor consults while processing the event log.
package cctalk

// Header identifies a ccTalk command by its header byte.
type Header uint8

// Command headers actually used by this driver. Values match the ccTalk
// specification exactly; unused commands are not declared.
const (
	HeaderReply                   Header = 0
	HeaderResetDevice             Header = 1
	HeaderGetCommsRevision        Header = 4
	HeaderSetBillOperatingMode    Header = 153
	HeaderRouteBill               Header = 154
	HeaderGetCountryScalingFactor Header = 156
	HeaderGetBillId               Header = 157
	HeaderReadBufferedBillEvents  Header = 159
	HeaderGetBuildCode            Header = 192
	HeaderGetCoinId               Header = 184
	HeaderGetSoftwareRevision     Header = 241
	HeaderGetSerialNumber         Header = 242
	HeaderGetProductCode          Header = 244
	HeaderGetEquipmentCategory    Header = 245
	HeaderGetManufacturer         Header = 246
	HeaderGetVariableSet          Header = 247
	HeaderGetMasterInhibitStatus  Header = 227
	HeaderSetInhibitStatus        Header = 231
	HeaderSetMasterInhibitStatus  Header = 228
	HeaderReadBufferedCredit      Header = 229
	HeaderPerformSelfCheck        Header = 232
	HeaderGetPollingPriority      Header = 249
	HeaderSimplePoll              Header = 254
)

var headerNames = map[Header]string{
	HeaderReply:                   "Reply",
	HeaderResetDevice:             "ResetDevice",
	HeaderGetCommsRevision:        "GetCommsRevision",
	HeaderSetBillOperatingMode:    "SetBillOperatingMode",
	HeaderRouteBill:               "RouteBill",
	HeaderGetCountryScalingFactor: "GetCountryScalingFactor",
	HeaderGetBillId:               "GetBillId",
	HeaderReadBufferedBillEvents:  "ReadBufferedBillEvents",
	HeaderGetBuildCode:            "GetBuildCode",
	HeaderGetCoinId:               "GetCoinId",
	HeaderGetSoftwareRevision:     "GetSoftwareRevision",
	HeaderGetSerialNumber:         "GetSerialNumber",
	HeaderGetProductCode:          "GetProductCode",
	HeaderGetEquipmentCategory:    "GetEquipmentCategory",
	HeaderGetManufacturer:         "GetManufacturer",
	HeaderGetVariableSet:          "GetVariableSet",
	HeaderGetMasterInhibitStatus:  "GetMasterInhibitStatus",
	HeaderSetInhibitStatus:        "SetInhibitStatus",
	HeaderSetMasterInhibitStatus:  "SetMasterInhibitStatus",
	HeaderReadBufferedCredit:      "ReadBufferedCredit",
	HeaderPerformSelfCheck:        "PerformSelfCheck",
	HeaderGetPollingPriority:      "GetPollingPriority",
	HeaderSimplePoll:              "SimplePoll",
}

// Name returns a displayable name for a header, or "Unknown" if it is not in the table.
func (h Header) Name() string {
	if n, ok := headerNames[h]; ok {
		return n
	}
	return "Unknown"
}
