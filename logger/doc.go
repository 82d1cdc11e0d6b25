// Package logger provides structured logging for fluxkit using zerolog.
//
// It supports console and JSON output, level configuration and
// component-scoped loggers. Fields stored on a context with ContextWith are
// picked up by WithContext, which is how a running pipeline tags every line
// with its example name and subscription ID.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "console"
//
// # Usage
//
//	log := logger.Category("reactor.Flux.Range")
//	log.Info("signal", logger.Fields(logger.FieldSignal, "onNext", logger.FieldValue, v))
package logger
