package services

import (
	"strconv"

	config "github.com/anjiri1684/medicall/configs"
)

const (
	defaultPerKMRate    = 2000
	defaultAdminPercent = 0.1
)

func PerKMRate() float64 {
	return config.ConfigFloat("TRANSPORT_PER_KM_PRICE", defaultPerKMRate)
}

func AdminPercent() float64 {
	return config.ConfigFloat("ADMIN_PERCENT_PRICE", defaultAdminPercent)
}

// TransportFee prices a visit's travel cost from the booking distance.
//
// The fee is the per-km rate times the distance, then coarsened: the raw
// amount is formatted with no decimals, and when that string runs longer
// than 3 digits its last three digits are replaced with "000" (rounding
// down to the nearest thousand), clamped to never fall below the per-km
// rate. Amounts of 3 digits or fewer collapse to the per-km rate itself.
func TransportFee(distanceMeters, perKM float64) float64 {
	raw := strconv.FormatFloat(distanceMeters/1000*perKM, 'f', 0, 64)
	if len(raw) <= 3 {
		return perKM
	}

	fee, err := strconv.ParseFloat(raw[:len(raw)-3]+"000", 64)
	if err != nil || fee < perKM {
		return perKM
	}
	return fee
}

// PlatformFee is the operator's cut of the provider's listed price.
func PlatformFee(price, percent float64) float64 {
	return price * percent
}
