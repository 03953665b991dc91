package services

import "testing"

func TestTransportFee(t *testing.T) {
	cases := []struct {
		name           string
		distanceMeters float64
		perKM          float64
		want           float64
	}{
		// Raw fee below the per-km rate collapses to the rate.
		{name: "short hop", distanceMeters: 500, perKM: 2000, want: 2000},
		{name: "tiny distance", distanceMeters: 100, perKM: 2000, want: 2000},
		{name: "zero distance", distanceMeters: 0, perKM: 2000, want: 2000},
		// 5.5 km at 2000/km → 11000 → "11" + "000".
		{name: "truncates to thousands", distanceMeters: 5500, perKM: 2000, want: 11000},
		// 12 km at 2000/km is already a multiple of 1000.
		{name: "idempotent on multiples", distanceMeters: 12000, perKM: 2000, want: 24000},
		// 5.75 km at 2000/km → 11500 → rounds down to 11000.
		{name: "rounds down", distanceMeters: 5750, perKM: 2000, want: 11000},
		// 1.2 km at 500/km → 600, three digits, collapses to the rate.
		{name: "three digit raw", distanceMeters: 1200, perKM: 500, want: 500},
		// 3 km at 400/km → 1200 → 1000, above the rate so no clamp.
		{name: "four digit raw small rate", distanceMeters: 3000, perKM: 400, want: 1000},
		// 0.9 km at 2000/km → 1800 → 1000 < rate, clamped back up.
		{name: "clamped to rate", distanceMeters: 900, perKM: 2000, want: 2000},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := TransportFee(tc.distanceMeters, tc.perKM); got != tc.want {
				t.Errorf("TransportFee(%v, %v) = %v, want %v", tc.distanceMeters, tc.perKM, got, tc.want)
			}
		})
	}
}

func TestTransportFeeIdempotent(t *testing.T) {
	// Re-applying the coarsening to an already coarse fee must not move it.
	fee := TransportFee(12000, 2000)
	again := TransportFee(fee/2000*1000, 2000)
	if fee != again {
		t.Errorf("coarsening is not idempotent: %v then %v", fee, again)
	}
}

func TestPlatformFee(t *testing.T) {
	if got := PlatformFee(50000, 0.1); got != 5000 {
		t.Errorf("PlatformFee(50000, 0.1) = %v, want 5000", got)
	}
	if got := PlatformFee(0, 0.1); got != 0 {
		t.Errorf("PlatformFee(0, 0.1) = %v, want 0", got)
	}
}
