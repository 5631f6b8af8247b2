// Package swisstlerr defines the sentinel error kinds the job surface and
// the core distinguish between (spec.md §7).
package swisstlerr

import "errors"

var (
	// ErrInputInvalid marks a request that never reaches the core: an
	// out-of-Switzerland or inverted bbox, an area over 100 km², an
	// out-of-range scalar, or a clip polygon with fewer than 3 points.
	ErrInputInvalid = errors.New("input-invalid")

	// ErrFetchFailed marks a terrain/building/road fetcher that exhausted
	// its retries or returned empty data for a valid bbox.
	ErrFetchFailed = errors.New("fetch-failed")

	// ErrIntegrityFail marks a global-repair mesh whose boundary-edge count
	// is above the hard threshold with no clip polygon active.
	ErrIntegrityFail = errors.New("integrity-fail")

	// ErrNoData marks an elevation grid that is entirely NaN after merge.
	ErrNoData = errors.New("nodata")
)
