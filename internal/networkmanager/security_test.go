package networkmanager

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveSecurityType_Dominance(t *testing.T) {
	cases := []struct {
		name     string
		flags    NM80211ApFlags
		wpa      NM80211ApSecurityFlags
		rsn      NM80211ApSecurityFlags
		expected SecurityType
	}{
		{"no flags at all", ApFlagsNone, ApSecNone, ApSecNone, SecurityOpen},
		{"privacy alone", ApFlagsPrivacy, ApSecNone, ApSecNone, SecurityWEP},
		{"wpa psk in wpa_flags", ApFlagsPrivacy, ApSecKeyMgmtPSK, ApSecNone, SecurityWPA},
		{"wpa psk in rsn_flags", ApFlagsPrivacy, ApSecNone, ApSecKeyMgmtPSK, SecurityWPA2},
		{"sae in rsn_flags", ApFlagsPrivacy, ApSecNone, ApSecKeyMgmtSAE, SecurityWPA3},
		{"802.1x in rsn dominates wpa3", ApFlagsPrivacy, ApSecNone, ApSecKeyMgmtSAE | ApSecKeyMgmt8021X, SecurityEnterprise},
		{"802.1x in wpa_flags alone", ApFlagsPrivacy, ApSecKeyMgmt8021X, ApSecNone, SecurityEnterprise},
		{"wep pair bits", ApFlagsPrivacy, ApSecPairWEP40, ApSecNone, SecurityWEP},
		{"enterprise dominates wpa2 psk", ApFlagsPrivacy, ApSecNone, ApSecKeyMgmtPSK | ApSecKeyMgmt8021X, SecurityEnterprise},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, deriveSecurityType(tc.flags, tc.wpa, tc.rsn))
		})
	}
}

func TestAccessPoint_RecomputeDerivedOnFlagsChange(t *testing.T) {
	ap := newAccessPoint("/ap/0", []byte("home"), "AA:BB:CC:DD:EE:FF")
	ap.Flags.Set(ApFlagsPrivacy)
	ap.RsnFlags.Set(ApSecKeyMgmtSAE)
	ap.recomputeDerived()
	assert.Equal(t, SecurityWPA3, ap.Security.Get())

	ap.RsnFlags.Set(ApSecKeyMgmt8021X)
	ap.recomputeDerived()
	assert.Equal(t, SecurityEnterprise, ap.Security.Get())
}

func TestAccessPoint_IsHiddenDerivedFromSSID(t *testing.T) {
	ap := newAccessPoint("/ap/0", nil, "AA:BB:CC:DD:EE:FF")
	assert.True(t, ap.IsHidden.Get())

	ap.SSIDRaw = []byte("home")
	ap.recomputeDerived()
	assert.False(t, ap.IsHidden.Get())
}
