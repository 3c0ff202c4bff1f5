// Package health provides the liveness and readiness probes served by
// watch mode.
//
// Liveness answers 200 while the process runs. Readiness runs every
// registered check concurrently, each bounded by the checker timeout, and
// answers 503 when any of them fails.
//
//	checker := health.New(2 * time.Second)
//	checker.RegisterCheck("store", func(ctx context.Context) error {
//	    _, err := store.Count(ctx, &evidence.Query{})
//	    return err
//	})
//
//	r.Get("/healthz", checker.LivenessHandler())
//	r.Get("/readyz", checker.ReadinessHandler())
//	r.Get("/version", health.VersionHandler(version))
package health
