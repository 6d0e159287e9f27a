package main

import (
	"github.com/pkg/errors"

	"github.com/jburns/trailnet/pkg/geo"
	"github.com/jburns/trailnet/pkg/ingest/gpx"
	"github.com/jburns/trailnet/pkg/routing"
	"github.com/jburns/trailnet/pkg/track"
)

// Exit codes mirror the teacher's HTTP-status-per-error-kind mapping
// (pkg/api/handlers.go), adapted to a process exit code instead of a status
// code: each of this system's error kinds gets a distinct, stable code a
// caller script can branch on.
const (
	exitOK                = 0
	exitRegionTooLarge    = 10
	exitUnknownWaypoint   = 11
	exitUnreachable       = 12
	exitDuplicateWaypoint = 13
	exitInvalidFile       = 14
	exitEmptyData         = 15
	exitInternal          = 1
)

func exitCodeFor(err error) int {
	if err == nil {
		return exitOK
	}
	var regionErr *geo.RegionTooLargeError
	switch {
	case errors.As(err, &regionErr):
		return exitRegionTooLarge
	case errors.Is(err, routing.ErrUnknownWaypoint):
		return exitUnknownWaypoint
	case errors.Is(err, routing.ErrUnreachable):
		return exitUnreachable
	case errors.Is(err, track.ErrDuplicateWaypoint):
		return exitDuplicateWaypoint
	case errors.Is(err, gpx.ErrInvalidFile):
		return exitInvalidFile
	case errors.Is(err, geo.ErrEmptyData):
		return exitEmptyData
	default:
		return exitInternal
	}
}
