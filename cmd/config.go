package cmd

import "time"

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	JWTSecret   string
	OSRMBaseURL string

	ServiceFeePercent float64
	RatePerKm         float64
	PriceBandPercent  float64

	ReserveTTL       time.Duration
	CandidateTTL     time.Duration
	FeedPollInterval time.Duration
	HoldSweepSpec    string
}
