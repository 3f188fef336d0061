//go:build !ORT

package provider

import (
	"fmt"

	"github.com/knights-analytics/hugot"
)

// newHugotSession uses the pure Go backend. It needs no shared libraries and
// is fast enough for catalogs of a few thousand funds.
func newHugotSession() (*hugot.Session, error) {
	session, err := hugot.NewGoSession()
	if err != nil {
		return nil, fmt.Errorf("go backend: %w", err)
	}
	return session, nil
}
