package cctalk

// FaultCode is the single byte returned by PerformSelfCheck. The supervisor
// only branches on Ok vs non-Ok; the full name table exists purely so log
// output can name a fault instead of printing a bare integer.
type FaultCode uint8

const (
	FaultOk                                   FaultCode = 0
	FaultEepromChecksumCorrupted              FaultCode = 1
	FaultOnInductiveCoils                     FaultCode = 2
	FaultOnCreditSensor                       FaultCode = 3
	FaultOnPiezoSensor                        FaultCode = 4
	FaultOnReflectiveSensor                   FaultCode = 5
	FaultOnDiameterSensor                     FaultCode = 6
	FaultOnWakeUpSensor                       FaultCode = 7
	FaultOnSorterExitSensors                  FaultCode = 8
	FaultNvramChecksumCorrupted               FaultCode = 9
	FaultCoinDispensingError                  FaultCode = 10
	FaultLowLevelSensorError                  FaultCode = 11
	FaultHighLevelSensorError                 FaultCode = 12
	FaultCoinCountingError                    FaultCode = 13
	FaultKeypadError                          FaultCode = 14
	FaultButtonError                          FaultCode = 15
	FaultDisplayError                         FaultCode = 16
	FaultCoinAuditingError                    FaultCode = 17
	FaultOnRejectSensor                       FaultCode = 18
	FaultOnCoinReturnMechanism                FaultCode = 19
	FaultOnCosMechanism                       FaultCode = 20
	FaultOnRimSensor                          FaultCode = 21
	FaultOnThermistor                         FaultCode = 22
	FaultPayoutMotorFault                     FaultCode = 23
	FaultPayoutTimeout                        FaultCode = 24
	FaultPayoutJammed                         FaultCode = 25
	FaultPayoutSensorFault                    FaultCode = 26
	FaultLevelSensorError                     FaultCode = 27
	FaultPersonalityModuleNotFitted           FaultCode = 28
	FaultPersonalityChecksumCorrupted         FaultCode = 29
	FaultRomChecksumMismatch                  FaultCode = 30
	FaultMissingSlaveDevice                   FaultCode = 31
	FaultInternalCommsBad                     FaultCode = 32
	FaultSupplyVoltageOutsideOperatingLimits  FaultCode = 33
	FaultTemperatureOutsideOperatingLimits    FaultCode = 34
	FaultDceFault                             FaultCode = 35
	FaultOnBillValidatorSensor                FaultCode = 36
	FaultOnBillTransportMotor                 FaultCode = 37
	FaultOnStacker                            FaultCode = 38
	FaultBillJammed                           FaultCode = 39
	FaultRamTestFaul                          FaultCode = 40
	FaultOnStringSensor                       FaultCode = 41
	FaultAcceptGateFailedOpen                 FaultCode = 42
	FaultAcceptGateFailedClosed               FaultCode = 43
	FaultStackerMissing                       FaultCode = 44
	FaultStackerFull                          FaultCode = 45
	FaultFlashMemoryEraseFaul                 FaultCode = 46
	FaultFlashMemoryWriteFail                 FaultCode = 47
	FaultSlaveDeviceNotResponding             FaultCode = 48
	FaultOnOptoSensor                         FaultCode = 49
	FaultBatteryFault                         FaultCode = 50
	FaultDoorOpen                             FaultCode = 51
	FaultMicroswitchFault                     FaultCode = 52
	FaultRtcFault                             FaultCode = 53
	FaultFirmwareError                        FaultCode = 54
	FaultInitialisationError                  FaultCode = 55
	FaultSupplyCurrentOutsideOperatingLimits  FaultCode = 56
	FaultForcedBootloaderMode                 FaultCode = 57
	FaultCustomCommandError                   FaultCode = 254
	FaultUnspecifiedFaultCode                 FaultCode = 255
)

var faultCodeNames = map[FaultCode]string{
	FaultOk:                                  "Ok",
	FaultEepromChecksumCorrupted:              "EepromChecksumCorrupted",
	FaultOnInductiveCoils:                     "FaultOnInductiveCoils",
	FaultOnCreditSensor:                       "FaultOnCreditSensor",
	FaultOnPiezoSensor:                        "FaultOnPiezoSensor",
	FaultOnReflectiveSensor:                   "FaultOnReflectiveSensor",
	FaultOnDiameterSensor:                     "FaultOnDiameterSensor",
	FaultOnWakeUpSensor:                       "FaultOnWakeUpSensor",
	FaultOnSorterExitSensors:                  "FaultOnSorterExitSensors",
	FaultNvramChecksumCorrupted:               "NvramChecksumCorrupted",
	FaultCoinDispensingError:                  "CoinDispensingError",
	FaultLowLevelSensorError:                  "LowLevelSensorError",
	FaultHighLevelSensorError:                 "HighLevelSensorError",
	FaultCoinCountingError:                    "CoinCountingError",
	FaultKeypadError:                          "KeypadError",
	FaultButtonError:                          "ButtonError",
	FaultDisplayError:                         "DisplayError",
	FaultCoinAuditingError:                    "CoinAuditingError",
	FaultOnRejectSensor:                       "FaultOnRejectSensor",
	FaultOnCoinReturnMechanism:                "FaultOnCoinReturnMechanism",
	FaultOnCosMechanism:                       "FaultOnCosMechanism",
	FaultOnRimSensor:                          "FaultOnRimSensor",
	FaultOnThermistor:                         "FaultOnThermistor",
	FaultPayoutMotorFault:                     "PayoutMotorFault",
	FaultPayoutTimeout:                        "PayoutTimeout",
	FaultPayoutJammed:                         "PayoutJammed",
	FaultPayoutSensorFault:                    "PayoutSensorFault",
	FaultLevelSensorError:                     "LevelSensorError",
	FaultPersonalityModuleNotFitted:           "PersonalityModuleNotFitted",
	FaultPersonalityChecksumCorrupted:         "PersonalityChecksumCorrupted",
	FaultRomChecksumMismatch:                  "RomChecksumMismatch",
	FaultMissingSlaveDevice:                   "MissingSlaveDevice",
	FaultInternalCommsBad:                     "InternalCommsBad",
	FaultSupplyVoltageOutsideOperatingLimits:  "SupplyVoltageOutsideOperatingLimits",
	FaultTemperatureOutsideOperatingLimits:    "TemperatureOutsideOperatingLimits",
	FaultDceFault:                             "DceFault",
	FaultOnBillValidatorSensor:                "FaultOnBillValidatorSensor",
	FaultOnBillTransportMotor:                 "FaultOnBillTransportMotor",
	FaultOnStacker:                            "FaultOnStacker",
	FaultBillJammed:                           "BillJammed",
	FaultRamTestFaul:                          "RamTestFaul",
	FaultOnStringSensor:                       "FaultOnStringSensor",
	FaultAcceptGateFailedOpen:                 "AcceptGateFailedOpen",
	FaultAcceptGateFailedClosed:               "AcceptGateFailedClosed",
	FaultStackerMissing:                       "StackerMissing",
	FaultStackerFull:                          "StackerFull",
	FaultFlashMemoryEraseFaul:                 "FlashMemoryEraseFaul",
	FaultFlashMemoryWriteFail:                 "FlashMemoryWriteFail",
	FaultSlaveDeviceNotResponding:             "SlaveDeviceNotResponding",
	FaultOnOptoSensor:                         "FaultOnOptoSensor",
	FaultBatteryFault:                         "BatteryFault",
	FaultDoorOpen:                             "DoorOpen",
	FaultMicroswitchFault:                     "MicroswitchFault",
	FaultRtcFault:                             "RtcFault",
	FaultFirmwareError:                        "FirmwareError",
	FaultInitialisationError:                  "InitialisationError",
	FaultSupplyCurrentOutsideOperatingLimits:  "SupplyCurrentOutsideOperatingLimits",
	FaultForcedBootloaderMode:                 "ForcedBootloaderMode",
	FaultCustomCommandError:                   "CustomCommandError",
	FaultUnspecifiedFaultCode:                 "UnspecifiedFaultCode",
}

// Name returns the fault's displayable name, or "Unspecified" if not in the table.
func (f FaultCode) Name() string {
	if n, ok := faultCodeNames[f]; ok {
		return n
	}
	return "Unspecified"
}

// OK reports whether the self-check passed.
func (f FaultCode) OK() bool {
	return f == FaultOk
}
