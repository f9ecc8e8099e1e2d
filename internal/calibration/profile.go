package calibration

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

const (
	// CurrentProfileVersion is bumped whenever the profile format or the
	// benchmark changes meaning.
	CurrentProfileVersion = 1
	// DefaultProfileFileName is the profile file name in the home directory.
	DefaultProfileFileName = ".quadcalc_calibration.json"
	// DefaultMaxProfileAge is how long a cached profile is trusted.
	DefaultMaxProfileAge = 30 * 24 * time.Hour
)

// CalibrationProfile is the persisted result of a calibration run. It is only
// reused on the machine shape it was measured on.
type CalibrationProfile struct {
	CalibratedAt   time.Time `json:"calibrated_at"`
	NumCPU         int       `json:"num_cpu"`
	GOARCH         string    `json:"goarch"`
	GOOS           string    `json:"goos"`
	GoVersion      string    `json:"go_version"`
	WordSize       int       `json:"word_size"`
	ProfileVersion int       `json:"profile_version"`

	OptimalWorkers     int    `json:"optimal_workers"`
	CalibrationSamples uint64 `json:"calibration_samples"`
	CalibrationTime    string `json:"calibration_time"`
}

// NewProfile returns a profile stamped with the current machine.
func NewProfile() *CalibrationProfile {
	return &CalibrationProfile{
		CalibratedAt:   time.Now(),
		NumCPU:         runtime.NumCPU(),
		GOARCH:         runtime.GOARCH,
		GOOS:           runtime.GOOS,
		GoVersion:      runtime.Version(),
		WordSize:       32 << (^uint(0) >> 63),
		ProfileVersion: CurrentProfileVersion,
	}
}

// IsValid reports whether the profile was measured on this machine shape
// with the current profile format.
func (p *CalibrationProfile) IsValid() bool {
	if p == nil {
		return false
	}
	return p.ProfileVersion == CurrentProfileVersion &&
		p.NumCPU == runtime.NumCPU() &&
		p.GOARCH == runtime.GOARCH &&
		p.GOOS == runtime.GOOS &&
		p.WordSize == 32<<(^uint(0)>>63) &&
		p.OptimalWorkers > 0
}

// IsStale reports whether the profile is older than maxAge.
func (p *CalibrationProfile) IsStale(maxAge time.Duration) bool {
	if p == nil {
		return true
	}
	return time.Since(p.CalibratedAt) > maxAge
}

// String renders a one-line summary.
func (p *CalibrationProfile) String() string {
	return fmt.Sprintf("calibration profile v%d (%s/%s, %d CPUs, %s): %d workers, measured %s at %d samples",
		p.ProfileVersion, p.GOOS, p.GOARCH, p.NumCPU, p.GoVersion, p.OptimalWorkers,
		p.CalibratedAt.Format(time.RFC3339), p.CalibrationSamples)
}

// SaveProfile writes the profile as JSON, replacing any previous file
// atomically.
func (p *CalibrationProfile) SaveProfile(path string) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create profile directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write profile: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write profile: %w", err)
	}
	return nil
}

func loadProfile(path string) (*CalibrationProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var p CalibrationProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode profile %s: %w", path, err)
	}
	return &p, nil
}

// LoadOrCreateProfile loads the profile at path, or returns a fresh one when
// the file is missing or unreadable. loaded reports which happened.
func LoadOrCreateProfile(path string) (profile *CalibrationProfile, loaded bool) {
	p, err := loadProfile(path)
	if err != nil {
		return NewProfile(), false
	}
	return p, true
}

// LoadCachedCalibration returns the worker count of a valid, fresh profile at
// path. A missing file is not an error.
func LoadCachedCalibration(path string) (workers int, ok bool, err error) {
	p, err := loadProfile(path)
	if errors.Is(err, os.ErrNotExist) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	if !p.IsValid() || p.IsStale(DefaultMaxProfileAge) {
		return 0, false, nil
	}
	return p.OptimalWorkers, true, nil
}

// GetDefaultProfilePath returns ~/.quadcalc_calibration.json, or the file
// name alone when the home directory is unknown.
func GetDefaultProfilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultProfileFileName
	}
	return filepath.Join(home, DefaultProfileFileName)
}
