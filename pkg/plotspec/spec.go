// Package plotspec describes plots declaratively so the CLI and the HTTP
// server can build them from files or request bodies.
//
// A spec is TOML, YAML or JSON. Mappings are written as strings: a bare
// column name or an expression over columns.
//
//	title = "Week 1, play 56"
//	height = 600
//
//	[field]
//	min_yardline = 10
//	max_yardline = 60
//
//	[[positions]]
//	x = "x"
//	y = "y"
//	number = "jerseyNumber"
//	name = "players"
//
//	[aesthetics]
//	team = "club"
//	home_away = "club == homeTeam"
//
//	[animation]
//	frame = "frameId"
//	rate = 10
package plotspec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/ptplot/pkg/cache"
	"github.com/matzehuels/ptplot/pkg/draw"
	perrors "github.com/matzehuels/ptplot/pkg/errors"
	"github.com/matzehuels/ptplot/pkg/group"
	"github.com/matzehuels/ptplot/pkg/nfl"
)

// Spec formats.
const (
	FormatTOML = "toml"
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// Spec is a declarative plot.
type Spec struct {
	Title  string `json:"title,omitempty" toml:"title" yaml:"title,omitempty"`
	Height int    `json:"height,omitempty" toml:"height" yaml:"height,omitempty"`

	Filter     *Filter           `json:"filter,omitempty" toml:"filter" yaml:"filter,omitempty"`
	Field      *nfl.FieldOptions `json:"field,omitempty" toml:"field" yaml:"field,omitempty"`
	Positions  []Positions       `json:"positions,omitempty" toml:"positions" yaml:"positions,omitempty"`
	Tracks     []Tracks          `json:"tracks,omitempty" toml:"tracks" yaml:"tracks,omitempty"`
	Hover      []Hover           `json:"hover,omitempty" toml:"hover" yaml:"hover,omitempty"`
	Facet      *Facet            `json:"facet,omitempty" toml:"facet" yaml:"facet,omitempty"`
	Aesthetics *Aesthetics       `json:"aesthetics,omitempty" toml:"aesthetics" yaml:"aesthetics,omitempty"`
	Animation  *Animation        `json:"animation,omitempty" toml:"animation" yaml:"animation,omitempty"`
}

// Filter keeps the rows between two events, inclusive.
type Filter struct {
	Start string `json:"start" toml:"start" yaml:"start"`
	End   string `json:"end" toml:"end" yaml:"end"`
	Event string `json:"event" toml:"event" yaml:"event"`
	Time  string `json:"time" toml:"time" yaml:"time"`
}

type Positions struct {
	X           string         `json:"x" toml:"x" yaml:"x"`
	Y           string         `json:"y" toml:"y" yaml:"y"`
	Orientation string         `json:"orientation,omitempty" toml:"orientation" yaml:"orientation,omitempty"`
	Number      string         `json:"number,omitempty" toml:"number" yaml:"number,omitempty"`
	FrameFilter string         `json:"frame_filter,omitempty" toml:"frame_filter" yaml:"frame_filter,omitempty"`
	Name        string         `json:"name,omitempty" toml:"name" yaml:"name,omitempty"`
	Radius      float64        `json:"radius,omitempty" toml:"radius" yaml:"radius,omitempty"`
	Attrs       map[string]any `json:"attrs,omitempty" toml:"attrs" yaml:"attrs,omitempty"`
}

type Tracks struct {
	X      string         `json:"x" toml:"x" yaml:"x"`
	Y      string         `json:"y" toml:"y" yaml:"y"`
	Track  string         `json:"track" toml:"track" yaml:"track"`
	Name   string         `json:"name,omitempty" toml:"name" yaml:"name,omitempty"`
	Static bool           `json:"static,omitempty" toml:"static" yaml:"static,omitempty"`
	Attrs  map[string]any `json:"attrs,omitempty" toml:"attrs" yaml:"attrs,omitempty"`
}

type Hover struct {
	Name string `json:"name" toml:"name" yaml:"name"`
	Tips []Tip  `json:"tips" toml:"tips" yaml:"tips"`
}

type Tip struct {
	Label string `json:"label,omitempty" toml:"label" yaml:"label,omitempty"`
	Value string `json:"value" toml:"value" yaml:"value"`
}

type Facet struct {
	By   string `json:"by" toml:"by" yaml:"by"`
	Cols int    `json:"cols,omitempty" toml:"cols" yaml:"cols,omitempty"`
	Rows int    `json:"rows,omitempty" toml:"rows" yaml:"rows,omitempty"`
}

type Aesthetics struct {
	Team     string `json:"team,omitempty" toml:"team" yaml:"team,omitempty"`
	HomeAway string `json:"home_away,omitempty" toml:"home_away" yaml:"home_away,omitempty"`
	// Ball is the team value of the ball rows. Defaults to nfl.BallID.
	Ball string `json:"ball,omitempty" toml:"ball" yaml:"ball,omitempty"`
	// Fallback colors teams missing from the color table. Without it an
	// unknown team fails the draw.
	Fallback *group.TeamColors `json:"fallback,omitempty" toml:"fallback" yaml:"fallback,omitempty"`
	// Teams adds or overrides entries of the NFL color table.
	Teams map[string]group.TeamColors `json:"teams,omitempty" toml:"teams" yaml:"teams,omitempty"`
}

type Animation struct {
	Frame  string  `json:"frame" toml:"frame" yaml:"frame"`
	Rate   float64 `json:"rate,omitempty" toml:"rate" yaml:"rate,omitempty"`
	Labels *Labels `json:"labels,omitempty" toml:"labels" yaml:"labels,omitempty"`
}

// Labels selects a frame label generator. Set Elapsed for elapsed-time
// labels or Columns for joined column values.
type Labels struct {
	Elapsed string `json:"elapsed,omitempty" toml:"elapsed" yaml:"elapsed,omitempty"`
	// Zero is an RFC 3339 time; elapsed labels count from the first
	// frame when it is empty.
	Zero   string `json:"zero,omitempty" toml:"zero" yaml:"zero,omitempty"`
	Format string `json:"format,omitempty" toml:"format" yaml:"format,omitempty"`

	Columns   []string `json:"columns,omitempty" toml:"columns" yaml:"columns,omitempty"`
	Formats   []string `json:"formats,omitempty" toml:"formats" yaml:"formats,omitempty"`
	Separator string   `json:"separator,omitempty" toml:"separator" yaml:"separator,omitempty"`
	Missing   string   `json:"missing,omitempty" toml:"missing" yaml:"missing,omitempty"`
}

// FormatOf returns the spec format for a file name, based on its extension.
func FormatOf(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", perrors.New(perrors.ErrCodeInvalidFormat,
			"unsupported spec file %q (use .toml, .yaml or .json)", filepath.Base(path))
	}
}

// Load reads and validates a spec file.
func Load(path string) (*Spec, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, perrors.Wrap(perrors.ErrCodeFileNotFound, err, "spec %s", path)
		}
		return nil, fmt.Errorf("read spec: %w", err)
	}
	return Parse(data, format)
}

// Parse decodes and validates a spec.
func Parse(data []byte, format string) (*Spec, error) {
	var s Spec
	var err error
	switch format {
	case FormatTOML:
		_, err = toml.Decode(string(data), &s)
	case FormatYAML:
		err = yaml.Unmarshal(data, &s)
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&s)
	default:
		return nil, perrors.New(perrors.ErrCodeInvalidFormat, "unknown spec format %q", format)
	}
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidFormat, err, "decode %s spec", format)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks the parts of the spec that do not depend on the data.
func (s *Spec) Validate() error {
	if s.Height < 0 {
		return perrors.New(perrors.ErrCodeConfiguration, "height must not be negative")
	}
	if len(s.Positions) == 0 && len(s.Tracks) == 0 {
		return perrors.New(perrors.ErrCodeConfiguration, "spec draws nothing: add positions or tracks")
	}
	for i, p := range s.Positions {
		if p.X == "" || p.Y == "" {
			return perrors.New(perrors.ErrCodeConfiguration, "positions[%d]: x and y are required", i)
		}
		if err := attrs(p.Attrs).Validate(); err != nil {
			return perrors.Wrap(perrors.ErrCodeConfiguration, err, "positions[%d]", i)
		}
	}
	for i, t := range s.Tracks {
		if t.X == "" || t.Y == "" || t.Track == "" {
			return perrors.New(perrors.ErrCodeConfiguration, "tracks[%d]: x, y and track are required", i)
		}
		if err := attrs(t.Attrs).Validate(); err != nil {
			return perrors.Wrap(perrors.ErrCodeConfiguration, err, "tracks[%d]", i)
		}
	}
	for i, h := range s.Hover {
		if h.Name == "" || len(h.Tips) == 0 {
			return perrors.New(perrors.ErrCodeConfiguration, "hover[%d]: name and tips are required", i)
		}
	}
	if f := s.Filter; f != nil && (f.Start == "" || f.End == "" || f.Event == "" || f.Time == "") {
		return perrors.New(perrors.ErrCodeConfiguration, "filter needs start, end, event and time")
	}
	if f := s.Facet; f != nil {
		if f.By == "" {
			return perrors.New(perrors.ErrCodeConfiguration, "facet: by is required")
		}
		if err := perrors.ValidateGridSpec(f.Cols, f.Rows); err != nil {
			return err
		}
	}
	if a := s.Aesthetics; a != nil {
		if a.Team == "" && a.HomeAway == "" {
			return perrors.New(perrors.ErrCodeConfiguration, "aesthetics: set team, home_away or both")
		}
		if err := a.validateColors(); err != nil {
			return err
		}
	}
	if a := s.Animation; a != nil {
		if a.Frame == "" {
			return perrors.New(perrors.ErrCodeConfiguration, "animation: frame is required")
		}
		if a.Rate != 0 {
			if err := perrors.ValidateFrameRate(a.Rate); err != nil {
				return err
			}
		}
		if l := a.Labels; l != nil && l.Elapsed != "" && len(l.Columns) > 0 {
			return perrors.New(perrors.ErrCodeConfiguration, "animation labels: set elapsed or columns, not both")
		}
	}
	return nil
}

func (a *Aesthetics) validateColors() error {
	check := func(name string, tc group.TeamColors) error {
		for _, c := range slices.Concat(tc.Home, tc.Away) {
			if !draw.ValidColor(c) {
				return perrors.New(perrors.ErrCodeConfiguration, "aesthetics: %s: %q is not a color", name, c)
			}
		}
		return nil
	}
	if a.Fallback != nil {
		if err := check("fallback", *a.Fallback); err != nil {
			return err
		}
	}
	for _, team := range slices.Sorted(maps.Keys(a.Teams)) {
		if err := check("teams."+team, a.Teams[team]); err != nil {
			return err
		}
	}
	return nil
}

// Hash returns a stable digest of the spec for cache keys.
func (s *Spec) Hash() string {
	data, _ := json.Marshal(s)
	return cache.Hash(data)
}
