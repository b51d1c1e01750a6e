package version

import "github.com/fatih/color"

// Version information for the sjtc CLI.
// These variables can be overridden at build time via -ldflags.

var (
	versionMajorColor = color.New(color.FgYellow, color.Bold)
	versionMinorColor = color.New(color.FgGreen, color.Bold)
	versionPatchColor = color.New(color.FgBlue, color.Bold)

	// Version is the semantic version of the CLI.
	Version = "0.3.0"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

// Colored renders Version with each numeric part highlighted.
// Pre-release suffixes are kept uncolored.
func Colored() string {
	core, suffix := Version, ""
	for i, r := range Version {
		if r == '-' || r == '+' {
			core, suffix = Version[:i], Version[i:]
			break
		}
	}
	parts := splitDots(core)
	if len(parts) != 3 {
		return Version
	}
	return versionMajorColor.Sprint(parts[0]) + "." +
		versionMinorColor.Sprint(parts[1]) + "." +
		versionPatchColor.Sprint(parts[2]) + suffix
}

func splitDots(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	return append(out, s[start:])
}

// Info is the build metadata reported by `sjtc version`.
type Info struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
}

// Current returns Info for this binary. Missing commit and date are left
// empty; an empty Version reads as "dev".
func Current() Info {
	info := Info{Tool: "sjtc", Version: Version, GitCommit: GitCommit, BuildDate: BuildDate}
	if info.Version == "" {
		info.Version = "dev"
	}
	return info
}
