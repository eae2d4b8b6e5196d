package risk

import (
	"fmt"
	"strings"

	"vigil/internal/models"
)

// Score computes the 0-100 risk score for a transaction against its
// account history. It is pure: all lookups happen in the HistoryLoader
// before this call, and the caller persists the result.
//
// Each factor contributes points only when its condition holds; the sum
// is clamped to [0, MaxScore].
func Score(tx *models.Transaction, hist History) (int, []Factor) {
	var factors []Factor
	add := func(ftype string, points int, detail string) {
		factors = append(factors, Factor{Type: ftype, Points: points, Detail: detail})
	}

	// Amount: highest applicable band only.
	switch {
	case tx.Amount > amountBandHigh:
		add(FactorAmount, amountPointsHigh, fmt.Sprintf("amount %.2f exceeds %.0f", tx.Amount, amountBandHigh))
	case tx.Amount > amountBandMedium:
		add(FactorAmount, amountPointsMedium, fmt.Sprintf("amount %.2f exceeds %.0f", tx.Amount, amountBandMedium))
	case tx.Amount > amountBandLow:
		add(FactorAmount, amountPointsLow, fmt.Sprintf("amount %.2f exceeds %.0f", tx.Amount, amountBandLow))
	}

	// Time of day, from the transaction's stored wall-clock timestamp.
	hour := tx.Timestamp.Hour()
	switch {
	case hour <= nightEndHour:
		add(FactorTimeOfDay, nightPoints, fmt.Sprintf("night-hours transaction (%02d:00)", hour))
	case hour >= lateEveningHour:
		add(FactorTimeOfDay, lateEveningPoints, fmt.Sprintf("late-evening transaction (%02d:00)", hour))
	}

	// Geography.
	if highRiskCountries[strings.ToUpper(tx.Country)] {
		add(FactorGeography, geographyPoints, fmt.Sprintf("high-risk jurisdiction %s", strings.ToUpper(tx.Country)))
	}

	// Velocity and frequency degrade to zero when the window lookup
	// failed; the score is still produced from the remaining factors.
	if !hist.Degraded {
		total := tx.Amount
		for _, prev := range hist.Last24h {
			total += prev.Amount
		}
		switch {
		case total > velocityLimit:
			add(FactorVelocity, velocityPointsFull, fmt.Sprintf("24h volume %.2f exceeds %.0f", total, velocityLimit))
		case total > velocityLimit*velocityWarnFraction:
			add(FactorVelocity, velocityPointsWarn, fmt.Sprintf("24h volume %.2f exceeds %.0f", total, velocityLimit*velocityWarnFraction))
		case total > velocityLimit*velocityHalfFraction:
			add(FactorVelocity, velocityPointsHalf, fmt.Sprintf("24h volume %.2f exceeds %.0f", total, velocityLimit*velocityHalfFraction))
		}

		daily := len(hist.Last24h) + 1
		burst := len(hist.Last1h) + 1
		if daily >= frequencyDailyLimit {
			add(FactorFrequency, frequencyDailyPoints, fmt.Sprintf("%d transactions in 24h", daily))
		}
		if burst >= frequencyBurstLimit {
			add(FactorFrequency, frequencyBurstPoints, fmt.Sprintf("%d transactions in 1h", burst))
		}
	}

	// Device flags are additive.
	if tx.DeviceID != "" && !hist.KnownDevice {
		add(FactorDevice, newDevicePoints, "first transaction from this device")
	}
	if tx.ProxyFlag {
		add(FactorDevice, proxyPoints, "proxy or VPN detected")
	}
	if tx.EmulatorFlag {
		add(FactorDevice, emulatorPoints, "emulator detected")
	}
	if tx.FingerprintFlag {
		add(FactorDevice, fingerprintPoints, "suspicious device fingerprint")
	}

	// Merchant blocklist.
	if highRiskMerchants[strings.ToLower(tx.Merchant)] {
		add(FactorMerchant, merchantPoints, fmt.Sprintf("high-risk merchant %q", tx.Merchant))
	}

	// Payment method.
	if points, ok := paymentMethodPoints[tx.PaymentMethod]; ok {
		add(FactorPaymentMethod, points, fmt.Sprintf("payment method %s", tx.PaymentMethod))
	} else {
		add(FactorPaymentMethod, paymentMethodUnknownPoints, "unknown payment method")
	}

	score := 0
	for _, f := range factors {
		score += f.Points
	}
	if score > MaxScore {
		score = MaxScore
	}
	if score < 0 {
		score = 0
	}
	return score, factors
}
