package cli

import (
	"fmt"
	"io"
	"strings"
)

// FlagCompletion describes a CLI flag for shell completion generation.
// Every generator reads flagRegistry, so a new flag only needs an entry there.
type FlagCompletion struct {
	Long      string   // long flag name without "--"
	Short     string   // short flag without "-"
	Help      string   // description text
	Values    []string // suggested values (nil = boolean or free-form)
	ValueName string   // label for the value in zsh (e.g. "duration")
	IsFile    bool     // true if the flag takes a file path
	IsMode    bool     // true if values come from the mode list
}

var durationValues = []string{"100ms", "500ms", "1s", "3s", "8s", "30s", "1m"}

var flagRegistry = []FlagCompletion{
	{Long: "help", Short: "h", Help: "Show help message"},
	{Long: "version", Short: "V", Help: "Show version information"},
	{Long: "mode", Help: "Simulation to run", IsMode: true, ValueName: "mode"},
	{Long: "steps", Help: "Progress steps per racer", Values: []string{"10", "20", "50"}, ValueName: "steps"},
	{Long: "min-duration", Help: "Shortest planned race time", Values: durationValues, ValueName: "duration"},
	{Long: "max-duration", Help: "Longest planned race time", Values: durationValues, ValueName: "duration"},
	{Long: "jitter-min", Help: "Lower per-step speed factor", ValueName: "factor"},
	{Long: "jitter-max", Help: "Upper per-step speed factor", ValueName: "factor"},
	{Long: "interval", Help: "Display refresh interval", Values: []string{"100ms", "300ms", "500ms", "1s"}, ValueName: "duration"},
	{Long: "timeout", Help: "Abort the run after this long", Values: durationValues, ValueName: "duration"},
	{Long: "width", Help: "Progress bar width", Values: []string{"0", "30", "50", "80"}, ValueName: "cells"},
	{Long: "no-countdown", Help: "Skip the countdown"},
	{Long: "sprint", Help: "Run the bonus sprint"},
	{Long: "seed", Help: "Random seed", ValueName: "seed"},
	{Long: "bees", Help: "Number of bees", Values: []string{"2", "4", "8"}, ValueName: "count"},
	{Long: "trips", Help: "Deposits per bee", Values: []string{"0", "3", "10"}, ValueName: "count"},
	{Long: "phase-min", Help: "Shortest bee phase", Values: durationValues, ValueName: "duration"},
	{Long: "phase-max", Help: "Longest bee phase", Values: durationValues, ValueName: "duration"},
	{Short: "a", Help: "First arithmetic operand", ValueName: "integer"},
	{Short: "b", Help: "Second arithmetic operand", ValueName: "integer"},
	{Long: "arith-delay", Help: "Simulated calculation time", Values: durationValues, ValueName: "duration"},
	{Long: "files", Help: "Comma-separated files to download", ValueName: "files"},
	{Long: "download-delay", Help: "Simulated transfer time", Values: durationValues, ValueName: "duration"},
	{Long: "workers", Help: "Download pool size", Values: []string{"0", "1", "2", "4"}, ValueName: "count"},
	{Long: "interactive", Short: "i", Help: "Prompt before each race"},
	{Long: "quiet", Short: "q", Help: "Only print final results"},
	{Long: "no-color", Help: "Disable colored output"},
	{Long: "theme", Help: "Color theme", Values: []string{"dark", "light", "none"}, ValueName: "theme"},
	{Long: "tui", Help: "Full-screen live view"},
	{Long: "log-level", Help: "Log level", Values: []string{"debug", "info", "warn", "error"}, ValueName: "level"},
	{Long: "metrics-addr", Help: "Serve Prometheus metrics on this address", ValueName: "addr"},
	{Long: "env-file", Help: "Load THREADRACE_* variables from a dotenv file", IsFile: true, ValueName: "file"},
	{Long: "completion", Help: "Generate completion script", Values: Shells, ValueName: "shell"},
}

// Shells lists the supported completion targets.
var Shells = []string{"bash", "zsh", "fish"}

// GenerateCompletion writes a completion script for shell.
func GenerateCompletion(out io.Writer, shell string, modes []string) error {
	switch shell {
	case "bash":
		return generateBashCompletion(out, modes)
	case "zsh":
		return generateZshCompletion(out, modes)
	case "fish":
		return generateFishCompletion(out, modes)
	default:
		return fmt.Errorf("unsupported shell: %s (accepted values: %s)", shell, strings.Join(Shells, ", "))
	}
}

func flagPatterns(f FlagCompletion) []string {
	var p []string
	if f.Long != "" {
		p = append(p, "--"+f.Long)
	}
	if f.Short != "" {
		p = append(p, "-"+f.Short)
	}
	return p
}

func generateBashCompletion(out io.Writer, modes []string) error {
	var opts []string
	var cases strings.Builder
	for _, f := range flagRegistry {
		opts = append(opts, flagPatterns(f)...)
		var body string
		switch {
		case f.IsMode:
			body = `COMPREPLY=( $(compgen -W "${modes}" -- "${cur}") )`
		case f.IsFile:
			body = `COMPREPLY=( $(compgen -f -- "${cur}") )`
		case len(f.Values) > 0:
			body = fmt.Sprintf(`COMPREPLY=( $(compgen -W "%s" -- "${cur}") )`, strings.Join(f.Values, " "))
		default:
			continue
		}
		fmt.Fprintf(&cases, "        %s)\n            %s\n            return 0\n            ;;\n",
			strings.Join(flagPatterns(f), "|"), body)
	}

	script := fmt.Sprintf(`# Bash completion script for threadrace
# Add this to your ~/.bashrc or ~/.bash_completion

_threadrace_completions() {
    local cur prev opts modes
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"

    opts="%s"
    modes="%s"

    case "${prev}" in
%s    esac

    if [[ "${cur}" == -* ]]; then
        COMPREPLY=( $(compgen -W "${opts}" -- "${cur}") )
        return 0
    fi
}

complete -F _threadrace_completions threadrace
`, strings.Join(opts, " "), strings.Join(modes, " "), cases.String())

	if _, err := fmt.Fprint(out, script); err != nil {
		return fmt.Errorf("completion bash generation failed: %w", err)
	}
	return nil
}

// zshArgEntry formats a FlagCompletion as a zsh _arguments entry.
func zshArgEntry(f FlagCompletion) string {
	valueSuffix := ""
	switch {
	case f.IsFile:
		valueSuffix = fmt.Sprintf(":%s:_files", f.ValueName)
	case f.IsMode:
		valueSuffix = fmt.Sprintf(":%s:($modes)", f.ValueName)
	case len(f.Values) > 0:
		valueSuffix = fmt.Sprintf(":%s:(%s)", f.ValueName, strings.Join(f.Values, " "))
	case f.ValueName != "":
		valueSuffix = fmt.Sprintf(":%s:", f.ValueName)
	}

	if f.Long != "" && f.Short != "" {
		return fmt.Sprintf("        '(-%s --%s)'{-%s,--%s}'[%s]%s'",
			f.Short, f.Long, f.Short, f.Long, f.Help, valueSuffix)
	}
	if f.Long != "" {
		return fmt.Sprintf("        '--%s[%s]%s'", f.Long, f.Help, valueSuffix)
	}
	return fmt.Sprintf("        '-%s[%s]%s'", f.Short, f.Help, valueSuffix)
}

func generateZshCompletion(out io.Writer, modes []string) error {
	args := make([]string, 0, len(flagRegistry))
	for _, f := range flagRegistry {
		args = append(args, zshArgEntry(f))
	}

	script := fmt.Sprintf(`#compdef threadrace

# Zsh completion script for threadrace
# Place in $fpath

_threadrace() {
    local -a modes
    modes=(%s)

    _arguments -s \
%s
}

_threadrace "$@"
`, strings.Join(modes, " "), strings.Join(args, " \\\n"))

	if _, err := fmt.Fprint(out, script); err != nil {
		return fmt.Errorf("completion zsh generation failed: %w", err)
	}
	return nil
}

// fishCompleteLine formats a FlagCompletion as a fish complete command.
func fishCompleteLine(f FlagCompletion, modes string) string {
	parts := []string{"complete -c threadrace"}
	if f.Short != "" {
		parts = append(parts, "-s "+f.Short)
	}
	if f.Long != "" {
		parts = append(parts, "-l "+f.Long)
	}
	parts = append(parts, fmt.Sprintf("-d '%s'", f.Help))

	switch {
	case f.IsFile:
		parts = append(parts, "-rF")
	case f.IsMode:
		parts = append(parts, fmt.Sprintf("-xa '%s'", modes))
	case len(f.Values) > 0:
		parts = append(parts, fmt.Sprintf("-xa '%s'", strings.Join(f.Values, " ")))
	case f.ValueName != "":
		parts = append(parts, "-x")
	}
	return strings.Join(parts, " ")
}

func generateFishCompletion(out io.Writer, modes []string) error {
	lines := []string{
		"# Fish completion script for threadrace",
		"# Add this to ~/.config/fish/completions/threadrace.fish",
		"",
		"complete -c threadrace -f",
		"",
	}
	list := strings.Join(modes, " ")
	for _, f := range flagRegistry {
		lines = append(lines, fishCompleteLine(f, list))
	}
	lines = append(lines, "")

	if _, err := fmt.Fprint(out, strings.Join(lines, "\n")); err != nil {
		return fmt.Errorf("completion fish generation failed: %w", err)
	}
	return nil
}
