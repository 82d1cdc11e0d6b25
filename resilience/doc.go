// Package resilience holds the retry policy used by flux's backoff retry.
//
// A RetryConfig caps attempts, computes exponential backoff with jitter and
// decides through RetryIf which errors are worth another attempt:
//
//	cfg := resilience.DefaultRetryConfig()
//	cfg.RetryIf = resilience.RetryIfRetryable
//	src.RetryBackoff(cfg)
package resilience
