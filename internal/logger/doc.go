// Package logger wraps zap for the doorbell binaries:
//   - a global sugared logger with a console encoder on a configurable output,
//   - context helpers (ToContext/FromContext/WithName/WithKV),
//   - level parsing and runtime level changes,
//   - a forwarding option that mirrors entries to another consumer,
//     which the terminal window uses for its event log.
//
// Services receive a context and pull the logger out of it.
package logger
