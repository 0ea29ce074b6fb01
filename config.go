// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package tristrip

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"
)

// Config holds the caller-visible knobs of a Stripify call.
// Unlike the original tool this is derived from (which kept these as
// process-global flags), Config is an explicit value passed into
// Stripify: each call is independent and nothing is shared between
// concurrent calls.
type Config struct {
	// CacheSize is the declared post-transform vertex cache capacity.
	// The simulation actually used internally is smaller by a fixed
	// allowance (see cacheInefficiency in cache.go). Default: 16.
	CacheSize int

	// StitchStrips, when true, bridges every committed strip into a
	// single STRIP primitive group using degenerate double-taps,
	// instead of emitting one STRIP group per strip piece (no sentinel
	// values are emitted either way). Default: true.
	StitchStrips bool

	// MinStripSize is the minimum number of triangles a strip must
	// have to survive as a STRIP group; shorter strips are flattened
	// into the trailing LIST group instead. Default: 0 (disabled).
	MinStripSize int

	// ListsOnly, when true, still runs topology construction, the
	// experiment search, and splitting/dropping, but flattens every
	// surviving real triangle into a single LIST group instead of
	// optimizing and emitting strips. Default: false.
	ListsOnly bool

	// Logger receives non-fatal diagnostics as they are discovered.
	// If nil, diagnostics are discarded (but still accumulated into
	// the *multierror.Error returned by Stripify).
	Logger Logger
}

// DefaultConfig returns the Config matching spec-documented defaults.
func DefaultConfig() Config {
	return Config{
		CacheSize:    16,
		StitchStrips: true,
		MinStripSize: 0,
		ListsOnly:    false,
		Logger:       nil,
	}
}

// Logger is the pluggable diagnostics sink. It is satisfied by
// *zap.SugaredLogger directly, or by the ZapLogger adapter wrapping a
// *zap.Logger.
type Logger interface {
	Warnf(format string, args ...any)
}

// ZapLogger adapts a *zap.Logger to the Logger interface.
type ZapLogger struct {
	sugar *zap.SugaredLogger
}

// NewZapLogger wraps z for use as a Stripify Logger.
func NewZapLogger(z *zap.Logger) ZapLogger {
	return ZapLogger{sugar: z.Sugar()}
}

// Warnf implements Logger.
func (l ZapLogger) Warnf(format string, args ...any) {
	l.sugar.Warnf(format, args...)
}

// diagnostics fans a warning out to the caller-supplied Logger and
// into an accumulated *multierror.Error, which Stripify returns
// alongside its result. A non-nil diagnostics error never signals
// failure: Stripify always produces a well-formed result.
type diagnostics struct {
	log Logger
	err *multierror.Error
}

func newDiagnostics(log Logger) *diagnostics {
	return &diagnostics{log: log}
}

func (d *diagnostics) warnf(format string, args ...any) {
	if d == nil {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if d.log != nil {
		d.log.Warnf("%s", msg)
	}
	d.err = multierror.Append(d.err, fmt.Errorf("tristrip: %s", msg))
}

// errorOrNil returns the accumulated diagnostics as an error, or nil
// if none were recorded.
func (d *diagnostics) errorOrNil() error {
	if d == nil || d.err == nil || len(d.err.Errors) == 0 {
		return nil
	}
	return d.err
}
