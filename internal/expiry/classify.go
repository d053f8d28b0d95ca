package expiry

import "time"

// Status adalah tingkat urgensi sebuah dokumen berdasarkan tanggal kedaluwarsanya.
type Status string

const (
	StatusSafe     Status = "safe"
	StatusWarning  Status = "warning"
	StatusCritical Status = "critical"
)

// avgDaysPerMonth approximates calendar months of varying length without a
// calendar library; matches the thresholds used across the UI.
const avgDaysPerMonth = 30.44

// MonthsUntil menghitung sisa waktu sampai expiry dalam satuan bulan (aproksimasi).
// Nilai negatif berarti dokumen sudah kedaluwarsa.
func MonthsUntil(expiry, now time.Time) float64 {
	return expiry.Sub(now).Hours() / (24 * avgDaysPerMonth)
}

// Classify memetakan tanggal kedaluwarsa ke tingkat urgensi.
// expiry nil berarti dokumen permanen dan selalu safe. Dokumen yang sudah
// lewat tanggalnya masuk critical. Fungsi ini pure; callers menyuntikkan now
// agar bisa diuji tanpa jam sistem.
func Classify(expiry *time.Time, now time.Time) Status {
	if expiry == nil {
		return StatusSafe
	}

	months := MonthsUntil(*expiry, now)

	if months <= 1 {
		return StatusCritical
	}
	if months <= 3 {
		return StatusWarning
	}
	return StatusSafe
}
