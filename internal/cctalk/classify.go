package cctalk

// CoinEventCode is the value carried in result_b when a coin acceptor's
// event record is an error/status event (result_a == 0).
type CoinEventCode uint8

const (
	CoinEventNoError                           CoinEventCode = 0
	CoinEventRejectCoin                        CoinEventCode = 1
	CoinEventInhibitedCoin                     CoinEventCode = 2
	CoinEventMultipleWindow                     CoinEventCode = 3
	CoinEventWakeupTimeout                      CoinEventCode = 4
	CoinEventValidationTimeout                  CoinEventCode = 5
	CoinEventCreditSensorTimeout                CoinEventCode = 6
	CoinEventSorterOptoTimeout                   CoinEventCode = 7
	CoinEventSecondCloseCoinError                CoinEventCode = 8
	CoinEventAcceptGateNotReady                  CoinEventCode = 9
	CoinEventCreditSensorNotReady                CoinEventCode = 10
	CoinEventSorterNotReady                      CoinEventCode = 11
	CoinEventRejectCoinNotCleared                CoinEventCode = 12
	CoinEventValidationSensorNotReady            CoinEventCode = 13
	CoinEventCreditSensorBlocked                 CoinEventCode = 14
	CoinEventSorterOptoBlocked                   CoinEventCode = 15
	CoinEventCreditSequenceError                 CoinEventCode = 16
	CoinEventCoinGoingBackwards                  CoinEventCode = 17
	CoinEventCoinTooFastOverCreditSensor         CoinEventCode = 18
	CoinEventCoinTooSlowOverCreditSensor         CoinEventCode = 19
	CoinEventCosMechanismActivated               CoinEventCode = 20
	CoinEventDceOptoTimeout                      CoinEventCode = 21
	CoinEventDceOptoNotSeen                      CoinEventCode = 22
	CoinEventCreditSensorReachedTooEarly         CoinEventCode = 23
	CoinEventRejectCoinRepeatedSequentialTrip    CoinEventCode = 24
	CoinEventRejectSlug                          CoinEventCode = 25
	CoinEventRejectSensorBlocked                 CoinEventCode = 26
	CoinEventGamesOverload                       CoinEventCode = 27
	CoinEventMaxCoinMeterPulsesExceeded          CoinEventCode = 28
	CoinEventAcceptGateOpenNotClosed             CoinEventCode = 29
	CoinEventAcceptGateClosedNotOpen             CoinEventCode = 30
	CoinEventManifoldOptoTimeout                 CoinEventCode = 31
	CoinEventManifoldOptoBlocked                 CoinEventCode = 32
	CoinEventManifoldNotReady                    CoinEventCode = 33
	CoinEventSecurityStatusChanged               CoinEventCode = 34
	CoinEventMotorException                      CoinEventCode = 35
	CoinEventSwallowedCoin                        CoinEventCode = 36
	CoinEventCoinTooFastOverValidationSensor     CoinEventCode = 37
	CoinEventCoinTooSlowOverValidationSensor     CoinEventCode = 38
	CoinEventCoinIncorrectlySorted               CoinEventCode = 39
	CoinEventExternalLightAttack                 CoinEventCode = 40
	CoinEventInhibitedCoinType1                  CoinEventCode = 128
	CoinEventInhibitedCoinType32                 CoinEventCode = 159
	CoinEventReservedCreditCancelling1           CoinEventCode = 160
	CoinEventReservedCreditCancellingN           CoinEventCode = 191
	CoinEventDataBlockRequest                    CoinEventCode = 253
	CoinEventCoinReturnMechanismActivated        CoinEventCode = 254
	CoinEventUnspecifiedAlarmCode                 CoinEventCode = 255
)

// isInhibitedCoinType reports whether code is one of the 32 per-type inhibit codes.
func isInhibitedCoinType(code CoinEventCode) bool {
	return code >= 128 && code <= 159
}

// CoinRejectionType classifies a coin acceptor error event per the
// firmware's own table: Rejected codes are benign, Accepted codes mean the
// device counted credit while also logging diagnostics, Unknown codes
// warrant a self-check.
type CoinRejectionType int

const (
	CoinRejected CoinRejectionType = iota
	CoinAccepted
	CoinUnknown
)

// CoinEventRejectionType reproduces ccCoinAcceptorEventCodeGetRejectionType
// verbatim. An unrecognized code falls through to Unknown, matching the
// firmware's own default.
func CoinEventRejectionType(code CoinEventCode) CoinRejectionType {
	switch code {
	case CoinEventNoError,
		CoinEventSorterOptoTimeout,
		CoinEventCreditSequenceError,
		CoinEventCoinGoingBackwards,
		CoinEventCoinTooFastOverCreditSensor,
		CoinEventCoinTooSlowOverCreditSensor,
		CoinEventCosMechanismActivated,
		CoinEventCreditSensorReachedTooEarly,
		CoinEventRejectSensorBlocked,
		CoinEventGamesOverload,
		CoinEventMaxCoinMeterPulsesExceeded,
		CoinEventAcceptGateOpenNotClosed,
		CoinEventManifoldOptoTimeout,
		CoinEventSwallowedCoin,
		CoinEventCoinIncorrectlySorted,
		CoinEventExternalLightAttack,
		CoinEventDataBlockRequest,
		CoinEventCoinReturnMechanismActivated,
		CoinEventUnspecifiedAlarmCode:
		return CoinAccepted

	case CoinEventWakeupTimeout,
		CoinEventValidationTimeout,
		CoinEventCreditSensorTimeout,
		CoinEventDceOptoTimeout,
		CoinEventSecurityStatusChanged,
		CoinEventMotorException,
		CoinEventReservedCreditCancelling1,
		CoinEventReservedCreditCancellingN:
		return CoinUnknown

	case CoinEventRejectCoin,
		CoinEventInhibitedCoin,
		CoinEventMultipleWindow,
		CoinEventSecondCloseCoinError,
		CoinEventAcceptGateNotReady,
		CoinEventCreditSensorNotReady,
		CoinEventSorterNotReady,
		CoinEventRejectCoinNotCleared,
		CoinEventValidationSensorNotReady,
		CoinEventCreditSensorBlocked,
		CoinEventSorterOptoBlocked,
		CoinEventDceOptoNotSeen,
		CoinEventRejectCoinRepeatedSequentialTrip,
		CoinEventRejectSlug,
		CoinEventAcceptGateClosedNotOpen,
		CoinEventManifoldOptoBlocked,
		CoinEventManifoldNotReady,
		CoinEventCoinTooFastOverValidationSensor,
		CoinEventCoinTooSlowOverValidationSensor:
		return CoinRejected
	}

	if isInhibitedCoinType(code) {
		return CoinRejected
	}

	return CoinUnknown
}

// BillErrorCode is the value carried in result_b when a bill validator's
// event record is an error/status event (result_a == 0).
type BillErrorCode uint8

const (
	BillErrorMasterInhibitActive            BillErrorCode = 0
	BillErrorBillReturnedFromEscrow          BillErrorCode = 1
	BillErrorInvalidBillValidationFail       BillErrorCode = 2
	BillErrorInvalidBillTransportProblem     BillErrorCode = 3
	BillErrorInhibitedBillOnSerial           BillErrorCode = 4
	BillErrorInhibitedBillOnDipSwitches      BillErrorCode = 5
	BillErrorBillJammedInTransportUnsafeMode BillErrorCode = 6
	BillErrorBillJammedInStacker             BillErrorCode = 7
	BillErrorBillPulledBackwards             BillErrorCode = 8
	BillErrorBillTamper                      BillErrorCode = 9
	BillErrorStackerOk                       BillErrorCode = 10
	BillErrorStackerRemoved                  BillErrorCode = 11
	BillErrorStackerInserted                 BillErrorCode = 12
	BillErrorStackerFaulty                   BillErrorCode = 13
	BillErrorStackerFull                     BillErrorCode = 14
	BillErrorStackerJammed                   BillErrorCode = 15
	BillErrorBillJammedInTransportSafeMode   BillErrorCode = 16
	BillErrorOptoFraudDetected                BillErrorCode = 17
	BillErrorStringFraudDetected              BillErrorCode = 18
	BillErrorAntiStringMechanismFaulty       BillErrorCode = 19
	BillErrorBarcodeDetected                  BillErrorCode = 20
	BillErrorUnknownBillTypeStacked           BillErrorCode = 21
	BillErrorCustomNoError                    BillErrorCode = 255
)

// BillSuccessCode is the value carried in result_b when a bill validator's
// event record is a success event (result_a in 1..255).
type BillSuccessCode uint8

const (
	BillValidatedAndAccepted       BillSuccessCode = 0
	BillValidatedAndHeldInEscrow   BillSuccessCode = 1
	BillSuccessCustomUnknown       BillSuccessCode = 255
)

// BillEventType classifies a bill error event for the event-log processor.
type BillEventType int

const (
	BillEventCustomUnknown BillEventType = iota
	BillEventReject
	BillEventFraudAttempt
	BillEventFatalError
	BillEventStatus
)

var billErrorEventType = map[BillErrorCode]BillEventType{
	BillErrorMasterInhibitActive:            BillEventStatus,
	BillErrorBillReturnedFromEscrow:          BillEventStatus,
	BillErrorInvalidBillValidationFail:       BillEventReject,
	BillErrorInvalidBillTransportProblem:     BillEventReject,
	BillErrorInhibitedBillOnSerial:           BillEventStatus,
	BillErrorInhibitedBillOnDipSwitches:      BillEventStatus,
	BillErrorBillJammedInTransportUnsafeMode: BillEventFatalError,
	BillErrorBillJammedInStacker:             BillEventFatalError,
	BillErrorBillPulledBackwards:             BillEventFraudAttempt,
	BillErrorBillTamper:                      BillEventFraudAttempt,
	BillErrorStackerOk:                       BillEventStatus,
	BillErrorStackerRemoved:                  BillEventStatus,
	BillErrorStackerInserted:                 BillEventStatus,
	BillErrorStackerFaulty:                   BillEventFatalError,
	BillErrorStackerFull:                     BillEventStatus,
	BillErrorStackerJammed:                   BillEventFatalError,
	BillErrorBillJammedInTransportSafeMode:   BillEventFatalError,
	BillErrorOptoFraudDetected:                BillEventFraudAttempt,
	BillErrorStringFraudDetected:              BillEventFraudAttempt,
	BillErrorAntiStringMechanismFaulty:       BillEventFatalError,
	BillErrorBarcodeDetected:                  BillEventStatus,
	BillErrorUnknownBillTypeStacked:           BillEventStatus,
	BillErrorCustomNoError:                    BillEventFatalError,
}

// BillErrorEventType reproduces ccBillValidatorErrorCodeGetEventType
// verbatim, including its FatalError default for unrecognized codes.
func BillErrorEventType(code BillErrorCode) BillEventType {
	if t, ok := billErrorEventType[code]; ok {
		return t
	}
	return BillEventFatalError
}
