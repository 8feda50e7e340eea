/*
Package cli provides command-line helpers for the pmexport command.

Output Formatting:

Run reports are rendered as text or JSON:

	format, err := cli.ParseFormat(flagValue)
	if err != nil {
		return err
	}
	if err := cli.Render(os.Stdout, format, report); err != nil {
		return err
	}

Progress Reporting:

A run does not know how many households the source holds, so the progress
reporter prints a running count unless a total is given:

	progress := cli.NewProgressReporter(os.Stderr)
	progress.Start(0)
	progress.Update(n)
	progress.Finish()

Exit Codes:

ExitCode maps a command error to the process exit status: 2 for
configuration errors, 3 when the source is unreachable, 4 when a record
aborts the export, 5 when an output file cannot be written, 130 when
interrupted and 1 otherwise.

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx, stop := cli.SetupSignalHandler()
	defer stop()
*/
package cli
