package results

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// MarshalBinary encodes the visible results as MessagePack.
func (c *Cache) MarshalBinary() ([]byte, error) {
	return msgpack.Marshal(c.Results())
}

// UnmarshalBinary replaces the contents of c with the MessagePack encoded results.
func (c *Cache) UnmarshalBinary(data []byte) error {
	var rs []Result
	if err := msgpack.Unmarshal(data, &rs); err != nil {
		return fmt.Errorf("failed to decode results: %w", err)
	}
	fresh := New()
	fresh.iteration = c.iteration
	for _, r := range rs {
		if err := fresh.Add(r); err != nil {
			return err
		}
	}
	*c = *fresh
	return nil
}

// knownResult is the on-disk form of a result. The stage is parsed leniently so
// older sheets using "8th"/"quarter"/"semi" load unchanged.
type knownResult struct {
	Team1     string `json:"team1" yaml:"team1"`
	Team2     string `json:"team2" yaml:"team2"`
	Winner    string `json:"winner" yaml:"winner"`
	Stage     string `json:"stage" yaml:"stage"`
	Detail    string `json:"detail" yaml:"detail"`
	Simulated bool   `json:"simulated" yaml:"simulated"`
}

// FromResults builds a cache from rs. With strict set the first invalid result
// is returned as an error; otherwise invalid results are logged and skipped.
func FromResults(rs []Result, strict bool) (*Cache, error) {
	c := New()
	for _, r := range rs {
		if err := c.Add(r); err != nil {
			if strict {
				return nil, err
			}
			log.Warn("Skipping invalid known result", "error", err)
		}
	}
	return c, nil
}

// LoadFile reads known results from a YAML, JSON or MessagePack file.
func LoadFile(path string, strict bool) (*Cache, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read results file %s: %w", path, err)
	}

	if filepath.Ext(path) == ".msgpack" {
		var rs []Result
		if err := msgpack.Unmarshal(raw, &rs); err != nil {
			return nil, fmt.Errorf("failed to parse results file %s: %w", path, err)
		}
		for i := range rs {
			rs[i].Team1 = normalize(rs[i].Team1)
			rs[i].Team2 = normalize(rs[i].Team2)
			rs[i].Winner = normalize(rs[i].Winner)
		}
		c, err := FromResults(rs, strict)
		if err != nil {
			return nil, err
		}
		log.Info("Loaded known results", "path", path, "count", c.Len())
		return c, nil
	}

	var known []knownResult
	switch filepath.Ext(path) {
	case ".json":
		err = json.Unmarshal(raw, &known)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &known)
	default:
		return nil, fmt.Errorf("unsupported results file format: %s", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse results file %s: %w", path, err)
	}

	rs := make([]Result, 0, len(known))
	for _, k := range known {
		stage, err := ParseStage(k.Stage)
		if err != nil {
			verr := &ValidationError{Team1: k.Team1, Team2: k.Team2, Winner: k.Winner, Stage: Stage(k.Stage), Err: ErrInvalidStage}
			if strict {
				return nil, verr
			}
			log.Warn("Skipping invalid known result", "error", verr)
			continue
		}
		rs = append(rs, Result{
			Team1:     normalize(k.Team1),
			Team2:     normalize(k.Team2),
			Winner:    normalize(k.Winner),
			Stage:     stage,
			Detail:    k.Detail,
			Simulated: k.Simulated,
		})
	}

	c, err := FromResults(rs, strict)
	if err != nil {
		return nil, err
	}
	log.Info("Loaded known results", "path", path, "count", c.Len())
	return c, nil
}

// normalize lowercases team names the same way entrants are named.
func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Merge records every result of src into c, src winning on conflicts.
func (c *Cache) Merge(src *Cache) error {
	var errs []error
	for _, r := range src.Results() {
		if err := c.Add(r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
