// Package shell builds and runs non-interactive shell commands.
//
// It covers the stateless half of the terminal backend: given a shell family,
// a command string and an optional working directory it produces the concrete
// process invocation, runs it to completion and returns the combined,
// cleaned UTF-8 text of its output.
//
// Features:
//   - One fixed invocation template per shell family
//   - Windows consoles switched to code page 65001 before the command runs
//   - POSIX shells run under a UTF-8 locale
//   - Working directory: explicit, else home, else current directory
//   - Output decoded per family through the charset resolver
//   - Code-page noise stripped from stderr
//   - Shell availability probing for the shell selector
//
// Limitations:
//   - The exit status of the command is NOT returned. A command that fails
//     produces its text like any other; callers that must distinguish success
//     from failure need another channel (the status is logged at debug level
//     and counted in the commands metric).
//
// Example Usage:
//
//	runner := shell.NewRunner(logger)
//	result, err := runner.Run(ctx, types.FamilyBash, "ls -la", "")
//	if errors.Is(err, shell.ErrSpawnFailure) {
//	    // bash missing or not executable
//	}
//	fmt.Println(result.Output)
package shell
