/*
Package cli provides the command-line helpers used by the touchlint
command.

Report Formatting:

Lint reports can be written as text, JSON or Checkstyle XML:

	format, err := cli.ParseFormat(cfg.Output.Format)
	if err != nil {
	    return err
	}
	formatter := cli.NewFormatter(format, &cfg.Output)
	if err := formatter.Format(os.Stdout, report); err != nil {
	    return err
	}

Text output can show source lines around each violation and use ANSI
colors. JSON output is the report summary also served by watch mode.

Progress Reporting:

Long runs can draw a progress bar on stderr, fed by the lint engine:

	progress := cli.NewProgressReporter(os.Stderr)
	opts.Progress = cli.ProgressFunc(progress)
	report, err := eng.Run(ctx, paths)
	progress.Finish()

Exit Codes:

ExitCode maps command errors to 0 (clean), 1 (violations found) and 2
(usage, configuration or I/O errors).

Signal Handling:

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()
*/
package cli
