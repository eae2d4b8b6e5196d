package risk

import "time"

// AlertThreshold is the score at or above which a fraud alert is raised.
const AlertThreshold = 70

// MaxScore caps the aggregate risk score.
const MaxScore = 100

// Amount factor bands. Bands are mutually exclusive; the highest
// applicable band wins.
const (
	amountBandHigh   = 5000.0
	amountBandMedium = 1000.0
	amountBandLow    = 100.0

	amountPointsHigh   = 30
	amountPointsMedium = 20
	amountPointsLow    = 10
)

// Time-of-day factor. Late-night activity scores higher.
const (
	nightEndHour      = 5  // 00:00-05:59
	lateEveningHour   = 22 // 22:00-23:59
	nightPoints       = 25
	lateEveningPoints = 15
)

// Geography factor.
const geographyPoints = 40

// highRiskCountries is the fixed set of higher-risk jurisdictions,
// keyed by ISO 3166-1 alpha-2 code.
var highRiskCountries = map[string]bool{
	"AF": true,
	"BY": true,
	"IR": true,
	"KP": true,
	"MM": true,
	"NG": true,
	"PK": true,
	"RU": true,
	"SY": true,
	"VE": true,
}

// Velocity factor: total transacted amount in the trailing 24 hours,
// including the transaction under evaluation.
const (
	velocityWindow       = 24 * time.Hour
	velocityLimit        = 10000.0
	velocityWarnFraction = 0.7
	velocityHalfFraction = 0.5

	velocityPointsFull = 35
	velocityPointsWarn = 25
	velocityPointsHalf = 15
)

// Frequency factor: transaction counts in trailing windows. Both
// thresholds may apply and their points are additive.
const (
	frequencyWindow      = 24 * time.Hour
	frequencyBurstWindow = time.Hour

	frequencyDailyLimit = 15
	frequencyBurstLimit = 5

	frequencyDailyPoints = 30
	frequencyBurstPoints = 25
)

// Device factor. All flags are additive.
const (
	newDevicePoints   = 20
	proxyPoints       = 30
	emulatorPoints    = 35
	fingerprintPoints = 25
)

// Merchant factor.
const merchantPoints = 25

// highRiskMerchants is the fixed merchant blocklist, matched
// case-insensitively.
var highRiskMerchants = map[string]bool{
	"quickcash ltd":       true,
	"cryptofast exchange": true,
	"offshore holdings":   true,
	"luxe imports":        true,
	"instant gift cards":  true,
}

// Payment method factor. Unrecognized methods score as unknown.
var paymentMethodPoints = map[string]int{
	"cryptocurrency": 30,
	"wire_transfer":  20,
	"digital_wallet": 15,
	"credit_card":    10,
	"debit_card":     5,
}

const paymentMethodUnknownPoints = 15
