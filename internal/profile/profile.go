// Package profile holds the rolling behavioral summary of a user.
//
// Profiles are built and maintained by an external collaborator; this layer
// only reads them. A zero-value profile means "no history" and every
// familiarity check reports unfamiliar.
package profile

import (
	"strings"
	"time"
)

// BehaviorProfile summarizes one user's normal transaction behavior.
type BehaviorProfile struct {
	UserID            string      `json:"userId"`
	AverageAmount     float64     `json:"averageAmount"`
	MaxAmount         float64     `json:"maxAmount"`
	AvgDailyTxCount   float64     `json:"avgDailyTxCount"`
	FrequentMerchants []string    `json:"frequentMerchants,omitempty"`
	FrequentLocations []string    `json:"frequentLocations,omitempty"`
	HourHistogram     map[int]int `json:"hourHistogram,omitempty"`
	KnownDevices      []string    `json:"knownDevices,omitempty"`
	CreatedAt         time.Time   `json:"createdAt,omitempty"`
	UpdatedAt         time.Time   `json:"updatedAt,omitempty"`
}

// KnowsMerchant reports whether the merchant is habitual for this user.
// Comparison is case-insensitive.
func (p *BehaviorProfile) KnowsMerchant(merchant string) bool {
	m := strings.ToLower(strings.TrimSpace(merchant))
	for _, known := range p.FrequentMerchants {
		if strings.ToLower(strings.TrimSpace(known)) == m {
			return true
		}
	}
	return false
}

// KnowsLocation reports whether the location string is habitual.
func (p *BehaviorProfile) KnowsLocation(location string) bool {
	l := strings.ToLower(strings.TrimSpace(location))
	for _, known := range p.FrequentLocations {
		if strings.ToLower(strings.TrimSpace(known)) == l {
			return true
		}
	}
	return false
}

// KnowsDevice reports whether the device fingerprint has been seen before.
func (p *BehaviorProfile) KnowsDevice(fingerprint string) bool {
	for _, known := range p.KnownDevices {
		if known == fingerprint {
			return true
		}
	}
	return false
}

// IsUsualHour reports whether the user has transacted in this hour-of-day
// before. Hours never observed are off-pattern.
func (p *BehaviorProfile) IsUsualHour(hour int) bool {
	return p.HourHistogram[hour] > 0
}
