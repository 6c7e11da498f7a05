package networkmanager

// NM80211ApFlags mirrors NetworkManager's NM_802_11_AP_FLAGS_* enum as
// carried on an access point's "Flags" property.
type NM80211ApFlags uint32

const (
	ApFlagsNone    NM80211ApFlags = 0x00000000
	ApFlagsPrivacy NM80211ApFlags = 0x00000001
	ApFlagsWPS     NM80211ApFlags = 0x00000002
)

// NM80211ApSecurityFlags mirrors NM_802_11_AP_SEC_* as carried on an
// access point's "WpaFlags" and "RsnFlags" properties.
type NM80211ApSecurityFlags uint32

const (
	ApSecNone               NM80211ApSecurityFlags = 0x00000000
	ApSecPairWEP40          NM80211ApSecurityFlags = 0x00000001
	ApSecPairWEP104         NM80211ApSecurityFlags = 0x00000002
	ApSecPairTKIP           NM80211ApSecurityFlags = 0x00000004
	ApSecPairCCMP           NM80211ApSecurityFlags = 0x00000008
	ApSecGroupWEP40         NM80211ApSecurityFlags = 0x00000010
	ApSecGroupWEP104        NM80211ApSecurityFlags = 0x00000020
	ApSecGroupTKIP          NM80211ApSecurityFlags = 0x00000040
	ApSecGroupCCMP          NM80211ApSecurityFlags = 0x00000080
	ApSecKeyMgmtPSK         NM80211ApSecurityFlags = 0x00000100
	ApSecKeyMgmt8021X       NM80211ApSecurityFlags = 0x00000200
	ApSecKeyMgmtSAE         NM80211ApSecurityFlags = 0x00000400
	ApSecKeyMgmtOWE         NM80211ApSecurityFlags = 0x00000800
	ApSecKeyMgmtOWETM       NM80211ApSecurityFlags = 0x00001000
	ApSecKeyMgmtEapSuiteB192 NM80211ApSecurityFlags = 0x00002000

	enterpriseFlags = ApSecKeyMgmt8021X | ApSecKeyMgmtEapSuiteB192
	wpa3Flags       = ApSecKeyMgmtSAE | ApSecKeyMgmtOWE | ApSecKeyMgmtOWETM
	wepFlags        = ApSecPairWEP40 | ApSecPairWEP104 | ApSecGroupWEP40 | ApSecGroupWEP104
)

func (f NM80211ApSecurityFlags) has(bits NM80211ApSecurityFlags) bool { return f&bits != 0 }

// DeviceType mirrors NetworkManager's NMDeviceType enum, trimmed to the
// values this daemon distinguishes between; anything else reports as
// DeviceTypeUnknown.
type DeviceType uint32

const (
	DeviceTypeUnknown  DeviceType = 0
	DeviceTypeEthernet DeviceType = 1
	DeviceTypeWifi     DeviceType = 2
)

// DeviceState mirrors NMDeviceState.
type DeviceState uint32

const (
	DeviceStateUnknown      DeviceState = 0
	DeviceStateUnmanaged    DeviceState = 10
	DeviceStateUnavailable  DeviceState = 20
	DeviceStateDisconnected DeviceState = 30
	DeviceStatePrepare      DeviceState = 40
	DeviceStateConfig       DeviceState = 50
	DeviceStateNeedAuth     DeviceState = 60
	DeviceStateIPConfig     DeviceState = 70
	DeviceStateIPCheck      DeviceState = 80
	DeviceStateSecondaries  DeviceState = 90
	DeviceStateActivated    DeviceState = 100
	DeviceStateDeactivating DeviceState = 110
	DeviceStateFailed       DeviceState = 120
)

// Metered mirrors NMMetered.
type Metered uint32

const (
	MeteredUnknown Metered = 0
	MeteredYes     Metered = 1
	MeteredNo      Metered = 2
	MeteredGuessYes Metered = 3
	MeteredGuessNo Metered = 4
)
