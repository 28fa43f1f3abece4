package cli

import (
	"fmt"
	"io"
	"strings"
)

// FlagCompletion describes a CLI flag for shell completion generation.
// Every generator reads flagRegistry, so a new flag only needs one entry.
type FlagCompletion struct {
	Long      string   // long flag name without "--" (e.g., "tol")
	Short     string   // short flag without "-" (e.g., "p")
	Help      string   // description text
	Values    []string // suggested completion values (nil = boolean/no suggestions)
	ValueName string   // label for the value in zsh (e.g., "number", "duration")
	IsFile    bool     // true if the flag takes a file path
	IsMethod  bool     // true if values come from the method registry
	Section   string   // fish comment group
}

var flagRegistry = []FlagCompletion{
	{Long: "help", Short: "h", Help: "Show help message", Section: "Help and version"},
	{Long: "version", Short: "V", Help: "Show version information", Section: "Help and version"},
	{Long: "poly", Short: "p", Help: "Polynomial coefficients, highest degree first", ValueName: "coefficients", Section: "Problem"},
	{Long: "x0", Help: "Initial guess", ValueName: "number", Section: "Problem"},
	{Long: "tol", Help: "Convergence tolerance", Values: []string{"1e-4", "1e-6", "1e-8", "1e-10", "1e-12"}, ValueName: "tolerance", Section: "Problem"},
	{Long: "max-iter", Help: "Iteration cap (0 for none)", Values: []string{"0", "50", "100", "1000"}, ValueName: "count", Section: "Problem"},
	{Long: "lower", Help: "Lower bound of the search range", ValueName: "number", Section: "Problem"},
	{Long: "upper", Help: "Upper bound of the search range", ValueName: "number", Section: "Problem"},
	{Long: "method", Help: "Update method", IsMethod: true, ValueName: "method", Section: "Problem"},
	{Long: "config", Help: "YAML problem file", IsFile: true, ValueName: "file", Section: "Problem"},
	{Long: "timeout", Help: "Maximum execution time", Values: []string{"1s", "5s", "30s", "1m"}, ValueName: "duration", Section: "Execution"},
	{Long: "verbose", Short: "v", Help: "Print every candidate", Section: "Output"},
	{Long: "details", Short: "d", Help: "Print convergence analysis", Section: "Output"},
	{Long: "quiet", Short: "q", Help: "Print only the root", Section: "Output"},
	{Long: "no-color", Help: "Disable colored output", Section: "Output"},
	{Long: "output", Short: "o", Help: "Output file path", IsFile: true, ValueName: "file", Section: "Output"},
	{Long: "metrics-out", Help: "Prometheus textfile path", IsFile: true, ValueName: "file", Section: "Output"},
	{Long: "log-level", Help: "Log level", Values: []string{"debug", "info", "warn", "error", "disabled"}, ValueName: "level", Section: "Output"},
	{Long: "tui", Help: "Launch the interactive dashboard", Section: "Interfaces"},
	{Long: "interactive", Short: "i", Help: "Start the interactive prompt", Section: "Interfaces"},
	{Long: "completion", Help: "Generate completion script", Values: []string{"bash", "zsh", "fish", "powershell"}, ValueName: "shell", Section: "Completion"},
}

// GenerateCompletion generates a shell completion script for the specified shell.
//
// Parameters:
//   - out: The writer to output the completion script.
//   - shell: The shell type ("bash", "zsh", "fish", "powershell").
//   - methods: The registered method names.
//
// Returns:
//   - error: An error if the shell is not supported.
func GenerateCompletion(out io.Writer, shell string, methods []string) error {
	switch shell {
	case "bash":
		return generateBashCompletion(out, methods)
	case "zsh":
		return generateZshCompletion(out, methods)
	case "fish":
		return generateFishCompletion(out, methods)
	case "powershell", "ps":
		return generatePowerShellCompletion(out, methods)
	default:
		return fmt.Errorf("unsupported shell: %s (accepted values: bash, zsh, fish, powershell)", shell)
	}
}

func formatMethodList(methods []string) string {
	return strings.Join(methods, " ")
}

func generateBashCompletion(out io.Writer, methods []string) error {
	var opts []string
	for _, f := range flagRegistry {
		if f.Long != "" {
			opts = append(opts, "--"+f.Long)
		}
		if f.Short != "" {
			opts = append(opts, "-"+f.Short)
		}
	}

	var caseBody strings.Builder
	writeCase := func(patterns []string, body string) {
		caseBody.WriteString("        ")
		caseBody.WriteString(strings.Join(patterns, "|"))
		caseBody.WriteString(")\n            ")
		caseBody.WriteString(body)
		caseBody.WriteString("\n            return 0\n            ;;\n")
	}

	var filePatterns []string
	for _, f := range flagRegistry {
		switch {
		case f.IsMethod:
			writeCase([]string{"--" + f.Long}, `COMPREPLY=( $(compgen -W "${methods}" -- "${cur}") )`)
		case f.IsFile:
			filePatterns = append(filePatterns, flagPatterns(f)...)
		case len(f.Values) > 0:
			writeCase(flagPatterns(f), fmt.Sprintf(`COMPREPLY=( $(compgen -W "%s" -- "${cur}") )`, strings.Join(f.Values, " ")))
		}
	}
	if len(filePatterns) > 0 {
		writeCase(filePatterns, `COMPREPLY=( $(compgen -f -- "${cur}") )`)
	}

	script := fmt.Sprintf(`# Bash completion script for rootcalc
# Add this to your ~/.bashrc or ~/.bash_completion

_rootcalc_completions() {
    local cur prev opts methods
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"

    opts="%s"
    methods="%s all"

    case "${prev}" in
%s    esac

    if [[ "${cur}" == -* ]]; then
        COMPREPLY=( $(compgen -W "${opts}" -- "${cur}") )
        return 0
    fi
}

complete -F _rootcalc_completions rootcalc
`, strings.Join(opts, " "), formatMethodList(methods), caseBody.String())

	if _, err := fmt.Fprint(out, script); err != nil {
		return fmt.Errorf("completion bash generation failed: %w", err)
	}
	return nil
}

// flagPatterns returns the dashed forms of f.
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

func generateZshCompletion(out io.Writer, methods []string) error {
	var args []string
	for _, f := range flagRegistry {
		args = append(args, zshArgEntry(f))
	}

	script := fmt.Sprintf(`#compdef rootcalc

# Zsh completion script for rootcalc
# Add this to your ~/.zshrc or place in $fpath

_rootcalc() {
    local -a methods
    methods=(%s all)

    _arguments -s \
%s
}

_rootcalc "$@"
`, formatMethodList(methods), strings.Join(args, " \\\n"))

	if _, err := fmt.Fprint(out, script); err != nil {
		return fmt.Errorf("completion zsh generation failed: %w", err)
	}
	return nil
}

// zshArgEntry formats a single FlagCompletion as a zsh _arguments entry.
func zshArgEntry(f FlagCompletion) string {
	valueSuffix := ""
	switch {
	case f.IsFile:
		valueSuffix = fmt.Sprintf(":%s:_files", f.ValueName)
	case f.IsMethod:
		valueSuffix = fmt.Sprintf(":%s:($methods)", f.ValueName)
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

func generateFishCompletion(out io.Writer, methods []string) error {
	lines := []string{
		"# Fish completion script for rootcalc",
		"# Add this to ~/.config/fish/completions/rootcalc.fish",
		"",
		"# Disable file completion by default",
		"complete -c rootcalc -f",
	}

	methodList := formatMethodList(methods)
	section := ""
	for _, f := range flagRegistry {
		if f.Section != section {
			section = f.Section
			lines = append(lines, "", "# "+section)
		}
		lines = append(lines, fishCompleteLine(f, methodList))
	}
	lines = append(lines, "")

	if _, err := fmt.Fprint(out, strings.Join(lines, "\n")); err != nil {
		return fmt.Errorf("completion fish generation failed: %w", err)
	}
	return nil
}

// fishCompleteLine formats a single FlagCompletion as a fish complete command.
func fishCompleteLine(f FlagCompletion, methodList string) string {
	parts := []string{"complete -c rootcalc"}
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
	case f.IsMethod:
		parts = append(parts, fmt.Sprintf("-xa '%s all'", methodList))
	case len(f.Values) > 0:
		parts = append(parts, fmt.Sprintf("-xa '%s'", strings.Join(f.Values, " ")))
	case f.ValueName != "":
		parts = append(parts, "-x")
	}
	return strings.Join(parts, " ")
}

func generatePowerShellCompletion(out io.Writer, methods []string) error {
	var optionEntries []string
	for _, f := range flagRegistry {
		for _, p := range flagPatterns(f) {
			optionEntries = append(optionEntries, fmt.Sprintf(
				"        @{Name = '%s'; Description = '%s' }", p, f.Help))
		}
	}

	psSwitchEntry := func(flag, source string) string {
		return fmt.Sprintf(`        '--%s' {
            %s | Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
                [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
            }
            return
        }`, flag, source)
	}

	var switchEntries []string
	for _, f := range flagRegistry {
		switch {
		case f.IsMethod:
			switchEntries = append(switchEntries, psSwitchEntry(f.Long, "$rootcalcMethods"))
		case !f.IsFile && len(f.Values) > 0:
			quoted := make([]string, len(f.Values))
			for i, v := range f.Values {
				quoted[i] = fmt.Sprintf("'%s'", v)
			}
			switchEntries = append(switchEntries, psSwitchEntry(f.Long, "@("+strings.Join(quoted, ", ")+")"))
		}
	}

	quotedMethods := make([]string, 0, len(methods)+1)
	for _, m := range methods {
		quotedMethods = append(quotedMethods, fmt.Sprintf("'%s'", m))
	}
	quotedMethods = append(quotedMethods, "'all'")

	script := fmt.Sprintf(`# PowerShell completion script for rootcalc
# Add this to your $PROFILE

$rootcalcMethods = @(%s)

Register-ArgumentCompleter -CommandName 'rootcalc' -Native -ScriptBlock {
    param($wordToComplete, $commandAst, $cursorPosition)

    $options = @(
%s
    )

    $elements = $commandAst.CommandElements
    $prevElement = if ($elements.Count -gt 2) { $elements[-2].ToString() } else { '' }

    switch ($prevElement) {
%s
    }

    $options | Where-Object { $_.Name -like "$wordToComplete*" } | ForEach-Object {
        [System.Management.Automation.CompletionResult]::new($_.Name, $_.Name, 'ParameterName', $_.Description)
    }
}
`, strings.Join(quotedMethods, ", "), strings.Join(optionEntries, "\n"), strings.Join(switchEntries, "\n"))

	_, err := fmt.Fprint(out, script)
	return err
}
