package progress

import "errors"

// ErrNotImplemented is the certificate download outcome: issuance is a
// display-only action and no artifact is produced.
var ErrNotImplemented = errors.New("certificate download not implemented")

// CertificateReport is the read model behind the certificate view.
type CertificateReport struct {
	CompletedLessons int     `json:"completed_lessons"`
	TotalLessons     int     `json:"total_lessons"`
	Percent          float64 `json:"percent"`
	Eligible         bool    `json:"eligible"`
}

func (t *Tracker) Certificate(totalLessons int) CertificateReport {
	return CertificateReport{
		CompletedLessons: t.CompletedCount(),
		TotalLessons:     totalLessons,
		Percent:          t.Percent(totalLessons),
		Eligible:         t.Eligible(totalLessons),
	}
}

// DownloadCertificate always reports the stubbed outcome. Kept as an explicit
// operation so the gateway surfaces 501 rather than a silent success.
func DownloadCertificate() error {
	return ErrNotImplemented
}
