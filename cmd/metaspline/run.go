package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"honnef.co/go/metaspline"
)

// script is the decoded form of a --script file.
type script struct {
	Points              int      `yaml:"points"`
	ClosedLoop          bool     `yaml:"closed_loop"`
	LoopKey             *float64 `yaml:"loop_key"`
	StationaryEndpoints bool     `yaml:"stationary_endpoints"`
	Interp              string   `yaml:"interp"`
	Ops                 []op     `yaml:"ops"`
}

type op struct {
	Op    string    `yaml:"op"`
	Index int       `yaml:"index"`
	T     float64   `yaml:"t"`
	Name  string    `yaml:"name"`
	Value yaml.Node `yaml:"value"`
}

// spline is the owner the script's edits are applied to.
type spline struct {
	metaspline.StaticOwner
	numPoints int
}

type runOptions struct {
	schemaPath string
	scriptPath string
	points     int
	snapshot   bool
}

func newRunCmd(newLogger func(io.Writer) *slog.Logger) *cobra.Command {
	var opts runOptions
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Apply a script of point edits and print the metadata",
		Long: `Load a schema, apply the edits of a script to a store with that schema,
synchronize the store and print one label per point.

Examples:
  metaspline run --schema road.yaml --script edits.yaml
  metaspline run --schema road.yaml --script edits.yaml --points 10
  metaspline run --schema road.yaml --script edits.yaml --snapshot`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(cmd.ErrOrStderr())
			return runScript(cmd.OutOrStdout(), log, opts)
		},
	}
	cmd.Flags().StringVar(&opts.schemaPath, "schema", "", "Schema file (YAML)")
	cmd.Flags().StringVar(&opts.scriptPath, "script", "", "Script file (YAML)")
	cmd.Flags().IntVar(&opts.points, "points", -1, "Number of point labels to print, -1 for all")
	cmd.Flags().BoolVar(&opts.snapshot, "snapshot", false, "Print the store as a YAML snapshot instead of labels")
	cmd.MarkFlagRequired("schema")
	cmd.MarkFlagRequired("script")
	return cmd
}

func runScript(w io.Writer, log *slog.Logger, opts runOptions) error {
	schema, err := loadSchema(opts.schemaPath)
	if err != nil {
		return err
	}
	sc, err := loadScript(opts.scriptPath)
	if err != nil {
		return err
	}
	if sc.Points < 0 {
		return fmt.Errorf("%s: negative point count %d", opts.scriptPath, sc.Points)
	}

	storeOpts := []metaspline.Option{metaspline.WithLogger(log)}
	if sc.Interp != "" {
		mode, ok := metaspline.ParseInterpMode(sc.Interp)
		if !ok {
			return fmt.Errorf("%s: unknown interpolation mode %q", opts.scriptPath, sc.Interp)
		}
		storeOpts = append(storeOpts, metaspline.WithInterpMode(mode))
	}

	sp := &spline{
		StaticOwner: metaspline.StaticOwner{
			MetaSchema: schema,
			Closed:     sc.ClosedLoop,
			Stationary: sc.StationaryEndpoints,
		},
		numPoints: sc.Points,
	}
	if sc.LoopKey != nil {
		sp.LoopKey, sp.HasLoopKey = *sc.LoopKey, true
	}

	s := metaspline.New(storeOpts...)
	s.Synchronize(sp.numPoints, sp)
	for i, o := range sc.Ops {
		if err := apply(s, sp, o); err != nil {
			return fmt.Errorf("op %d (%s): %w", i, o.Op, err)
		}
		log.Debug("metaspline: applied op", slog.Int("op", i), slog.String("kind", o.Op), slog.Int("points", s.NumPoints()))
	}
	s.Synchronize(sp.numPoints, sp)

	if opts.snapshot {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s.Snapshot()); err != nil {
			return fmt.Errorf("encoding snapshot: %w", err)
		}
		return enc.Close()
	}
	for i, label := range s.Labels(opts.points) {
		if _, err := fmt.Fprintf(w, "point %d\n", i); err != nil {
			return err
		}
		if label == "" {
			continue
		}
		for _, line := range strings.Split(label, "\n") {
			fmt.Fprintf(w, "  %s\n", line)
		}
	}
	return nil
}

func apply(s *metaspline.Store, sp *spline, o op) error {
	checkIndex := func(n int) error {
		if o.Index < 0 || o.Index >= n {
			return fmt.Errorf("index %d out of range [0, %d)", o.Index, n)
		}
		return nil
	}
	switch o.Op {
	case "insert":
		if o.Index < 0 {
			return fmt.Errorf("negative index %d", o.Index)
		}
		s.InsertPoint(o.Index, o.T, sp.Closed)
		sp.numPoints++
	case "update":
		if err := checkIndex(sp.numPoints); err != nil {
			return err
		}
		s.UpdatePoint(o.Index, o.T, sp.Closed)
	case "add":
		s.AddPoint(float64(sp.numPoints))
		sp.numPoints++
	case "remove":
		if err := checkIndex(sp.numPoints); err != nil {
			return err
		}
		s.RemovePoint(o.Index)
		sp.numPoints--
	case "duplicate":
		if err := checkIndex(sp.numPoints); err != nil {
			return err
		}
		s.DuplicatePoint(o.Index)
		sp.numPoints++
	case "set":
		if err := checkIndex(sp.numPoints); err != nil {
			return err
		}
		v, err := decodeFor(sp.MetaSchema, o)
		if err != nil {
			return err
		}
		if !s.SetValue(o.Name, o.Index, v) {
			return fmt.Errorf("store has no %s attribute %q", v.Kind, o.Name)
		}
	case "default":
		v, err := decodeFor(sp.MetaSchema, o)
		if err != nil {
			return err
		}
		if !sp.MetaSchema.SetDefault(o.Name, v) {
			return fmt.Errorf("can't set default of %q", o.Name)
		}
		s.UpdateSchema(sp.MetaSchema)
	case "sync":
		s.Synchronize(sp.numPoints, sp)
	default:
		return fmt.Errorf("unknown op %q", o.Op)
	}
	return nil
}

// decodeFor decodes the op's value as the kind of the attribute it names.
func decodeFor(schema *metaspline.Schema, o op) (metaspline.Value, error) {
	attr, ok := schema.Lookup(o.Name)
	if !ok {
		return metaspline.Value{}, fmt.Errorf("schema %q has no attribute %q", schema.Name(), o.Name)
	}
	return metaspline.DecodeValue(attr.Kind, &o.Value)
}

func loadSchema(path string) (*metaspline.Schema, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	schema, err := metaspline.LoadSchemaYAML(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return schema, nil
}

func loadScript(path string) (*script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc script
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("%s: decoding script: %w", path, err)
	}
	return &sc, nil
}
