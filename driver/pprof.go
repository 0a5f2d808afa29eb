//go:build pprof

package driver

import (
	"net/http"
	_ "net/http/pprof"

	"go.uber.org/zap"
)

// ServeDebugPprof starts net/http/pprof's handlers on addr in the
// background, for profiling a running poll-mode Service without
// restarting it under a sampling profiler. Only compiled in under the
// "pprof" build tag, grounded on _teacherref/netstack/pprof.go's
// init-time debug listener (adapted to log through the Service's own
// *zap.Logger instead of the package-level log.Logger, and to take an
// explicit address instead of a hardcoded port).
func (s *Service) ServeDebugPprof(addr string) {
	go func() {
		s.logger.Info("driver: starting pprof server", zap.String("addr", addr))
		if err := http.ListenAndServe(addr, nil); err != nil {
			s.logger.Error("driver: pprof server stopped", zap.Error(err))
		}
	}()
}
