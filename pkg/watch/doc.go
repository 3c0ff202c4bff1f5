// Package watch re-runs lint when source files change.
//
// FileWatcher uses fsnotify to watch the linted trees recursively,
// picking up directories created later. Events for files with a lint
// extension are collected by a Debouncer and delivered as one sorted
// batch once the tree has been quiet for the configured interval, so a
// save-all in an editor triggers a single run.
//
//	fw, err := watch.NewFileWatcher(watch.ConfigFromLint(roots, &cfg.Lint, &cfg.Watch), logger)
//	if err != nil {
//	    return err
//	}
//	defer fw.Stop()
//
//	err = fw.Watch(ctx, func(ctx context.Context, changed []string) error {
//	    _, err := eng.Run(ctx, paths)
//	    return err
//	})
package watch
