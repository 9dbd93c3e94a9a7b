// Package logging provides structured logging for the ember tools.
//
// # Creating a Logger
//
//	logger, closer, err := logging.New(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	    Output: "/var/log/ember/tap.log",
//	})
//	if err != nil {
//	    return err
//	}
//	defer closer.Close()
//
// NewWithWriter targets any io.Writer, and NewNop discards everything,
// which is what library code receives when the caller passes no logger.
//
// # Structured Logging
//
// Key-value pairs follow the message. Error values are logged by their
// Error text:
//
//	logger.Warn("framing error, resynchronizing",
//	    "source", "tcp://10.0.0.5:9000",
//	    "offset", 1842,
//	    "error", err,
//	)
//
// Text format sorts the fields and quotes values containing spaces:
//
//	2026-02-18T10:30:00Z [warn] framing error, resynchronizing session=65d1f2a0-3-9c0e11aa error="ber: ..." offset=1842 source=tcp://10.0.0.5:9000
//
// # Sessions
//
// Each connection a tap consumes gets its own session ID:
//
//	sessLogger := logger.WithSession(logging.GenerateSessionID())
package logging
