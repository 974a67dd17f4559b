package compileinfo

import (
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"strings"
)

type CompileInfo struct {
	Package    string
	GoVersion  string
	Commit     string
	CommitTime string
	Modified   bool
}

func (c CompileInfo) String() string {
	mod := ""
	if c.Modified {
		mod = " Files in the repo were modified after that commit."
	}

	return fmt.Sprintf("This %s binary was built with %s at commit %v at time %v.%s", c.Package, c.GoVersion, c.Commit, c.CommitTime, mod)
}

func Get() CompileInfo {
	out := CompileInfo{}

	z, ok := debug.ReadBuildInfo()
	if !ok {
		return out
	}

	out.GoVersion = z.GoVersion
	out.Package = z.Path
	for _, s := range z.Settings {
		switch s.Key {
		case "vcs.revision":
			out.Commit = s.Value
		case "vcs.time":
			out.CommitTime = s.Value
		case "vcs.modified":
			out.Modified = s.Value == "true"
		}
	}

	return out
}

// RuntimeInfo describes the environment the report ran in, beyond the VCS
// provenance that CompileInfo captures, so that a rendered artifact can be
// traced back to the machine and dependency set that produced it.
type RuntimeInfo struct {
	OS      string
	Arch    string
	NumCPU  int
	Deps    []string
	Compile CompileInfo
}

func (r RuntimeInfo) String() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s\n", r.Compile)
	fmt.Fprintf(&sb, "Running on %s/%s with %d CPUs.\n", r.OS, r.Arch, r.NumCPU)
	fmt.Fprintln(&sb, "Module dependencies:")
	for _, dep := range r.Deps {
		fmt.Fprintf(&sb, "\t%s\n", dep)
	}

	return sb.String()
}

func GetRuntime() RuntimeInfo {
	out := RuntimeInfo{
		OS:      runtime.GOOS,
		Arch:    runtime.GOARCH,
		NumCPU:  runtime.NumCPU(),
		Compile: Get(),
	}

	if z, ok := debug.ReadBuildInfo(); ok {
		for _, dep := range z.Deps {
			out.Deps = append(out.Deps, dep.Path+" "+dep.Version)
		}
	}

	return out
}

func PrintToStdErr() {
	z := Get()
	fmt.Fprintf(os.Stderr, "%s\n", z)
}
