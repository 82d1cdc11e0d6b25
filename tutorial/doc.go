// Package tutorial is a catalog of small flux pipelines, each showing one
// operator: map and filter over names, flatMap, collectList, zip of users
// with their comments, interval pacing, delayed elements and a retried
// interval that fails past a limit.
//
// A Runner subscribes to an example, logs each emitted line and waits for
// the terminal signal:
//
//	r := tutorial.NewRunner(tutorial.DefaultConfig())
//	exec, err := r.Run(ctx, "zip-ranges")
package tutorial
