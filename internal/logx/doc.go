// Package logx configures check-efy's logging.
//
// A small wrapper (logx.Logger) on top of zerolog keeps two sinks:
//   - Console output at the configured level, written to the writer passed to New
//   - A plain-text log file, truncated each run, that only receives
//     warnings and above unless verbose logging is enabled
//
// Every line carries a timestamp, level, thread name, logger name and message.
package logx
