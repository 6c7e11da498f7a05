package networkmanager

// SecurityType is an access point's derived security posture. Enterprise
// dominates WPA3 dominates WPA2 dominates WPA dominates WEP dominates
// Open, regardless of which lower flag combinations are also present.
type SecurityType string

const (
	SecurityOpen       SecurityType = "open"
	SecurityWEP        SecurityType = "wep"
	SecurityWPA        SecurityType = "wpa"
	SecurityWPA2       SecurityType = "wpa2"
	SecurityWPA3       SecurityType = "wpa3"
	SecurityEnterprise SecurityType = "enterprise"
)

// deriveSecurityType classifies an access point from its raw flags,
// wpa_flags and rsn_flags exactly as NetworkManager clients do: RSN
// (rsn_flags) describes WPA2/WPA3/Enterprise capability, WPA (wpa_flags)
// describes the older WPA1 capability, and the two are checked together
// because a modern AP often advertises both for mixed-mode clients.
func deriveSecurityType(flags NM80211ApFlags, wpaFlags, rsnFlags NM80211ApSecurityFlags) SecurityType {
	combined := wpaFlags | rsnFlags

	switch {
	case combined.has(enterpriseFlags):
		return SecurityEnterprise
	case combined.has(wpa3Flags):
		return SecurityWPA3
	case rsnFlags.has(ApSecKeyMgmtPSK):
		return SecurityWPA2
	case wpaFlags.has(ApSecKeyMgmtPSK):
		return SecurityWPA
	case combined.has(wepFlags):
		return SecurityWEP
	case flags.has(ApFlagsPrivacy) && wpaFlags == ApSecNone && rsnFlags == ApSecNone:
		return SecurityWEP
	default:
		return SecurityOpen
	}
}
