// Package flux provides lazy, push-based reactive sequences.
//
// A Flux describes a stream of zero or more values followed by at most one
// terminal signal (error or complete). Building a Flux has no side effects;
// work starts only when it is subscribed, and each subscription is
// independent of any other.
//
// # Model
//
// A Producer receives a context and a Sink for every subscription. The sink
// is serialized and terminal-guarded: once Error or Complete has been
// delivered, or the context is done, further signals are dropped. A
// terminal signal cancels the subscription context, which stops every
// upstream producer and every scheduled timer.
//
// In-memory sources emit on the subscribing goroutine before Subscribe
// returns. Timed sources (Interval, DelayElements, RetryBackoff) emit on
// scheduler goroutines; use Subscription.Wait to block until the terminal
// signal.
//
// # Operators
//
// Operators that keep the element type are methods (Filter, Take, Retry,
// DelayElements, DoOnNext, Log, ...). Operators that change it are package
// functions, since Go methods cannot declare type parameters:
//
//	names := flux.Just("Bruce Lee", "Bruce Willis", "Juan Lopez")
//	users := flux.TryMap(names, tutorial.ParseUser)
//	bruces := users.Filter(func(u tutorial.User) bool { return u.FirstName == "Bruce" })
//	sub := flux.Map(bruces, tutorial.User.FullName).Subscribe(ctx, flux.Handlers[string]{
//	    OnNext: func(s string) { log.Info(s) },
//	})
//	err := sub.Wait(ctx)
//
// # Time
//
// Timed operators take a scheduler.Scheduler; the variants without an On
// suffix use scheduler.Default. Tests drive a scheduler.Virtual instead of
// sleeping.
package flux
