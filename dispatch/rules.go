package dispatch

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/simonhull/quill/exec"
)

// Rule maps one extension to the steps that run a file of that type
type Rule struct {
	Ext   string
	Steps []exec.Step
}

// Validate checks a rule is usable
func (r Rule) Validate() error {
	if !strings.HasPrefix(r.Ext, ".") || len(r.Ext) < 2 {
		return fmt.Errorf("rule extension %q must start with '.'", r.Ext)
	}
	if len(r.Steps) == 0 {
		return fmt.Errorf("rule %s has no steps", r.Ext)
	}
	for i, step := range r.Steps {
		if step.Program == "" {
			return fmt.Errorf("rule %s step %d has no program", r.Ext, i+1)
		}
	}
	return nil
}

// DefaultRules returns the built-in dispatch table
func DefaultRules() []Rule {
	return []Rule{
		{
			// Compile first, then run the produced binary
			Ext: ".rs",
			Steps: []exec.Step{
				{Program: "rustc", Args: []string{"{path}", "-o", "{dir}/{stem}{exe}"}},
				{Program: "{dir}/{stem}{exe}"},
			},
		},
		{Ext: ".py", Steps: []exec.Step{{Program: "python", Args: []string{"{path}"}}}},
		{Ext: ".js", Steps: []exec.Step{{Program: "node", Args: []string{"{path}"}}}},
		{Ext: ".go", Steps: []exec.Step{{Program: "go", Args: []string{"run", "{path}"}}}},
		{Ext: ".sh", Steps: []exec.Step{{Program: "sh", Args: []string{"{path}"}}}},
	}
}

// expander substitutes rule placeholders for one file
type expander struct {
	replacer *strings.Replacer
	goos     string
}

func newExpander(path, goos string) expander {
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	exe := ""
	if goos == "windows" {
		exe = ".exe"
	}

	return expander{replacer: strings.NewReplacer(
		"{path}", path,
		"{dir}", dir,
		"{stem}", stem,
		"{exe}", exe,
	), goos: goos}
}

func (e expander) step(s exec.Step) exec.Step {
	args := make([]string, len(s.Args))
	for i, arg := range s.Args {
		args[i] = e.expand(arg)
	}
	return exec.Step{Program: e.expand(s.Program), Args: args, Display: s.Display}
}

// expand substitutes placeholders; for Windows targets "/" becomes `\`
func (e expander) expand(s string) string {
	if !strings.Contains(s, "{") {
		return s
	}
	out := e.replacer.Replace(s)
	if e.goos == "windows" {
		out = strings.ReplaceAll(out, "/", `\`)
	}
	return out
}
