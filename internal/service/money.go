package service

import "math"

func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
