package validators

import "time"

// IsHourMinute aceita apenas "HH:mm" (formato usado em working hours e
// bloqueios de agenda).
func IsHourMinute(hm string) bool {
	if hm == "" {
		return false
	}
	_, err := time.Parse("15:04", hm)
	return err == nil
}

// IsDate aceita apenas "YYYY-MM-DD".
func IsDate(d string) bool {
	if d == "" {
		return false
	}
	_, err := time.Parse("2006-01-02", d)
	return err == nil
}
