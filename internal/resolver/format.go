package resolver

import (
	"github.com/vmunix/sortarr/internal/metadata"
	"github.com/vmunix/sortarr/pkg/release"
)

func formatDate(m metadata.Match) string {
	if m.Date.IsZero() {
		return ""
	}
	return m.Date.Format("2006-01-02")
}

func confidence(score float64) string {
	return release.ConfidenceFor(score).String()
}
