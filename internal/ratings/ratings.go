package ratings

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

// ErrUnknownTeam is returned when a team has no rating.
var ErrUnknownTeam = errors.New("no rating for team")

// Table maps a lowercase team name to its Elo rating.
type Table map[string]float64

// Normalize returns the key used for name in a Table.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Rating returns the rating of name, ignoring case.
func (t Table) Rating(name string) (float64, error) {
	r, ok := t[Normalize(name)]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownTeam, name)
	}
	return r, nil
}

// WithHostBonus returns a copy of t with bonus added to the host's rating.
// An empty host returns an unchanged copy.
func (t Table) WithHostBonus(host string, bonus float64) (Table, error) {
	out := make(Table, len(t))
	for k, v := range t {
		out[Normalize(k)] = v
	}
	if host == "" {
		return out, nil
	}
	r, err := out.Rating(host)
	if err != nil {
		return nil, err
	}
	out[Normalize(host)] = r + bonus
	return out, nil
}

// Require checks that every name has a rating.
func (t Table) Require(names ...string) error {
	var missing []error
	for _, n := range names {
		if _, err := t.Rating(n); err != nil {
			missing = append(missing, err)
		}
	}
	return errors.Join(missing...)
}

// LoadFile reads a name to rating mapping from a YAML or JSON file.
func LoadFile(path string) (Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read ratings file %s: %w", path, err)
	}

	var parsed map[string]float64
	switch filepath.Ext(path) {
	case ".json":
		err = json.Unmarshal(raw, &parsed)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &parsed)
	default:
		return nil, fmt.Errorf("unsupported ratings file format: %s", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse ratings file %s: %w", path, err)
	}
	if len(parsed) == 0 {
		return nil, fmt.Errorf("ratings file %s is empty", path)
	}

	t := make(Table, len(parsed))
	for name, r := range parsed {
		t[Normalize(name)] = r
	}
	log.Info("Loaded ratings", "path", path, "teams", len(t))
	return t, nil
}

// Default2022 returns the eloratings.net ratings of the 2022 World Cup teams
// as of 13 November 2022, without any host bonus.
func Default2022() Table {
	return Table{
		"qatar":        1680,
		"ecuador":      1833,
		"senegal":      1687,
		"netherlands":  2040,
		"england":      1920,
		"iran":         1817,
		"usa":          1798,
		"wales":        1790,
		"argentina":    2141,
		"saudi_arabia": 1640,
		"mexico":       1821,
		"poland":       1809,
		"france":       2005,
		"australia":    1719,
		"denmark":      1971,
		"tunisia":      1687,
		"spain":        2045,
		"costa_rica":   1743,
		"germany":      1960,
		"japan":        1798,
		"belgium":      2025,
		"canada":       1765,
		"morocco":      1753,
		"croatia":      1922,
		"brazil":       2169,
		"serbia":       1892,
		"switzerland":  1929,
		"cameroun":     1609,
		"portugal":     2004,
		"ghana":        1540,
		"uruguay":      1936,
		"south_korea":  1786,
	}
}
