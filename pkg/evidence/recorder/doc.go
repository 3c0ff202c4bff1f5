// Package recorder turns lint reports into stored runs.
//
// Each violation becomes a finding with a fingerprint, a SHA-256 hash of
// rule, file, position and message, so the same finding can be followed
// across runs. File paths are stored relative to Config.BaseDir.
//
// Writes are asynchronous; Close drains the queue:
//
//	rec := recorder.NewRecorder(store, &recorder.Config{
//	    Enabled: true,
//	    Version: version,
//	    BaseDir: cwd,
//	})
//	defer rec.Close()
//
//	report, err := eng.Run(ctx, paths)
//	rec.Record(ctx, report)
package recorder
