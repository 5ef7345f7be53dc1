// Package deps reports whether the external programs cdrip shells out to are
// installed.
package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement names one external program.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status is a Requirement after a PATH lookup.
type Status struct {
	Requirement
	Available bool
	Path      string // resolved executable when Available
	Detail    string // why it is unavailable
}

// Missing reports whether a required program could not be found.
func (s Status) Missing() bool {
	return !s.Available && !s.Optional
}

// lookPath is replaced in tests.
var lookPath = exec.LookPath

// CheckBinaries resolves every requirement against PATH.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, len(requirements))
	for i, req := range requirements {
		req.Command = strings.TrimSpace(req.Command)
		req.Description = strings.TrimSpace(req.Description)
		results[i] = check(req)
	}
	return results
}

func check(req Requirement) Status {
	status := Status{Requirement: req}
	if req.Command == "" {
		status.Detail = "command not configured"
		return status
	}
	path, err := lookPath(req.Command)
	if err != nil {
		status.Detail = fmt.Sprintf("binary %q not found", req.Command)
		return status
	}
	status.Available = true
	status.Path = path
	return status
}

// MissingRequired filters statuses down to required programs that are
// unavailable.
func MissingRequired(statuses []Status) []Status {
	var missing []Status
	for _, s := range statuses {
		if s.Missing() {
			missing = append(missing, s)
		}
	}
	return missing
}

// Describe renders statuses as "name (detail), ...".
func Describe(statuses []Status) string {
	var b strings.Builder
	for i, s := range statuses {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s (%s)", s.Name, s.Detail)
	}
	return b.String()
}
