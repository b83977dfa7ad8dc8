package version

import (
	"fmt"
	"runtime/debug"
	"time"
)

// Заполняются через -ldflags "-X amber-server/internal/version.BuildDate=..."
var (
	BuildDate   string // YYYY-MM-DD (UTC)
	BuildCommit string
	BuildBranch string
)

// Номер сборки - дни от начала проекта.
var buildEpoch = time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

// VersionInfo - метаданные сборки для /version и логов старта.
type VersionInfo struct {
	BuildID    int    `json:"buildId"`
	BuildDate  string `json:"buildDate"`
	Commit     string `json:"commit"`
	Branch     string `json:"branch,omitempty"`
	GoVersion  string `json:"goVersion"`
	Calculated bool   `json:"calculated"`
	Error      string `json:"error,omitempty"`
}

func CalculateBuildID() (int, error) {
	if BuildDate == "" {
		return 0, fmt.Errorf("build date is empty")
	}

	t, err := time.ParseInLocation("2006-01-02", BuildDate, time.UTC)
	if err != nil {
		return 0, fmt.Errorf("invalid build date %q: %w", BuildDate, err)
	}
	return BuildIDFor(t)
}

// BuildIDFor - номер сборки для даты (берётся только день в UTC).
func BuildIDFor(t time.Time) (int, error) {
	y, m, d := t.UTC().Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	if day.Before(buildEpoch) {
		return 0, fmt.Errorf("build date %s is before epoch", day.Format("2006-01-02"))
	}
	return int(day.Sub(buildEpoch).Hours() / 24), nil
}

// DateOf - обратное к BuildIDFor.
func DateOf(id int) time.Time {
	return buildEpoch.AddDate(0, 0, id)
}

// Info собирает метаданные. Коммит без ldflags берётся из VCS-информации бинарника.
func Info() VersionInfo {
	info := VersionInfo{
		BuildDate: BuildDate,
		Commit:    BuildCommit,
		Branch:    BuildBranch,
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		info.GoVersion = bi.GoVersion
		if info.Commit == "" {
			for _, s := range bi.Settings {
				if s.Key == "vcs.revision" {
					info.Commit = s.Value
				}
			}
		}
	}

	id, err := CalculateBuildID()
	if err != nil {
		info.Error = err.Error()
		return info
	}
	info.BuildID = id
	info.Calculated = true
	return info
}

func String() string {
	info := Info()
	if !info.Calculated {
		return fmt.Sprintf("amber-server dev build (%s)", info.Error)
	}
	return fmt.Sprintf("amber-server build %d (%s) commit[%s] branch[%s]",
		info.BuildID, info.BuildDate,
		coalesce(info.Commit, "unknown"),
		coalesce(info.Branch, "unknown"),
	)
}

func coalesce(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
