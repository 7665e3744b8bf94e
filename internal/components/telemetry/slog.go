package telemetry

import (
	"fmt"
	"log/slog"
)

// SlogAPI implements API on top of a slog.Logger, the zero value logs to slog.Default().
type SlogAPI struct {
	Logger *slog.Logger
}

func (s SlogAPI) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

// attrs turns report params into slog pairs, errors go under "err" so they can be filtered on.
func attrs(params []any, prefix ...any) []any {
	out := append([]any{}, prefix...)
	errIdx := 0
	for i, p := range params {
		if err, ok := p.(error); ok {
			key := "err"
			if errIdx > 0 {
				key = fmt.Sprintf("err.%d", errIdx)
			}
			errIdx++
			out = append(out, key, err.Error())
			continue
		}
		out = append(out, fmt.Sprintf("params.%d", i), p)
	}
	return out
}

func (s SlogAPI) ReportBroken(id string, params ...any) {
	s.logger().Error("broken component", attrs(params, "id", id)...)
}

func (s SlogAPI) ReportWarning(id string, params ...any) {
	s.logger().Warn("warning", attrs(params, "id", id)...)
}

func (s SlogAPI) ReportDebug(message string, params ...any) {
	s.logger().Debug(message, attrs(params)...)
}

func (s SlogAPI) ReportCount(id string, count int64) {
	s.logger().Info("count", "id", id, "n", count)
}
