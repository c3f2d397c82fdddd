// Package refdata provides the country and currency reference data the
// adapters validate against.
package refdata

import (
	"strings"

	"golang.org/x/text/language"
)

// ISO answers ISO 3166-1 and ISO 4217 membership. Candidates are parsed with
// golang.org/x/text and then checked against the currently assigned code
// lists; withdrawn, reserved and user-assigned codes are rejected.
type ISO struct{}

// IsISO3166Country reports whether code is an officially assigned ISO 3166-1
// alpha-2 country code.
func (ISO) IsISO3166Country(code string) bool {
	if len(code) != 2 || !isUpperAlpha(code) {
		return false
	}
	r, err := language.ParseRegion(code)
	if err != nil || r.String() != code {
		return false
	}
	_, ok := assignedCountries[code]
	return ok
}

// IsISO4217Currency reports whether code is an active ISO 4217 currency code.
// Precious metals, fund and testing codes are not currencies a shopper can
// pay in and are rejected.
func (ISO) IsISO4217Currency(code string) bool {
	if len(code) != 3 || !isUpperAlpha(code) {
		return false
	}
	_, ok := activeCurrencies[code]
	return ok
}

func isUpperAlpha(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return true
}

func codeSet(list string) map[string]struct{} {
	fields := strings.Fields(list)
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

// ISO 3166-1 officially assigned alpha-2 codes.
var assignedCountries = codeSet(`
AD AE AF AG AI AL AM AO AQ AR AS AT AU AW AX AZ
BA BB BD BE BF BG BH BI BJ BL BM BN BO BQ BR BS BT BV BW BY BZ
CA CC CD CF CG CH CI CK CL CM CN CO CR CU CV CW CX CY CZ
DE DJ DK DM DO DZ
EC EE EG EH ER ES ET
FI FJ FK FM FO FR
GA GB GD GE GF GG GH GI GL GM GN GP GQ GR GS GT GU GW GY
HK HM HN HR HT HU
ID IE IL IM IN IO IQ IR IS IT
JE JM JO JP
KE KG KH KI KM KN KP KR KW KY KZ
LA LB LC LI LK LR LS LT LU LV LY
MA MC MD ME MF MG MH MK ML MM MN MO MP MQ MR MS MT MU MV MW MX MY MZ
NA NC NE NF NG NI NL NO NP NR NU NZ
OM
PA PE PF PG PH PK PL PM PN PR PS PT PW PY
QA
RE RO RS RU RW
SA SB SC SD SE SG SH SI SJ SK SL SM SN SO SR SS ST SV SX SY SZ
TC TD TF TG TH TJ TK TL TM TN TO TR TT TV TW TZ
UA UG UM US UY UZ
VA VC VE VG VI VN VU
WF WS
YE YT
ZA ZM ZW
`)

// ISO 4217 active currency codes, excluding X-codes for metals, bond units,
// SDR, testing and "no currency".
var activeCurrencies = codeSet(`
AED AFN ALL AMD AOA ARS AUD AWG AZN
BAM BBD BDT BGN BHD BIF BMD BND BOB BOV BRL BSD BTN BWP BYN BZD
CAD CDF CHE CHF CHW CLF CLP CNY COP COU CRC CUP CVE CZK
DJF DKK DOP DZD
EGP ERN ETB EUR
FJD FKP
GBP GEL GHS GIP GMD GNF GTQ GYD
HKD HNL HTG HUF
IDR ILS INR IQD IRR ISK
JMD JOD JPY
KES KGS KHR KMF KPW KRW KWD KYD KZT
LAK LBP LKR LRD LSL LYD
MAD MDL MGA MKD MMK MNT MOP MRU MUR MVR MWK MXN MXV MYR MZN
NAD NGN NIO NOK NPR NZD
OMR
PAB PEN PGK PHP PKR PLN PYG
QAR
RON RSD RUB RWF
SAR SBD SCR SDG SEK SGD SHP SLE SOS SRD SSP STN SVC SYP SZL
THB TJS TMT TND TOP TRY TTD TWD TZS
UAH UGX USD USN UYI UYU UYW UZS
VED VES VND VUV
WST
XAF XCD XCG XOF XPF
YER
ZAR ZMW ZWG
`)
