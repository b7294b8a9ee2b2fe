package dsl

import (
	"fmt"
	"maps"
	"strconv"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/piotrgredowski/memer-cli/binding"
)

// Job is a fully interpolated meme request.
type Job struct {
	Pos         lexer.Position `json:"-"`
	Template    string         `json:"template"`
	Top         string         `json:"top,omitempty"`
	Bottom      string         `json:"bottom,omitempty"`
	Output      string         `json:"output,omitempty"`
	MaxFontSize int            `json:"maxFontSize,omitempty"`
}

var memeKeys = map[string]bool{
	"top":           true,
	"bottom":        true,
	"out":           true,
	"max_font_size": true,
}

// Compile evaluates script in order and returns one job per meme entry.
// Variables set by the script and, under "data", the optional data document
// are available to ${...} placeholders. A placeholder that cannot be resolved
// and has no default is an error.
func Compile(script *Script, data any) ([]Job, error) {
	if script == nil {
		return nil, fmt.Errorf("dsl: nil script")
	}
	scope := map[string]any{}
	if data != nil {
		scope["data"] = data
	}
	defaults := map[string]string{}

	var jobs []Job
	for _, entry := range script.Entries {
		switch {
		case entry.Set != nil:
			v, err := eval(entry.Set.Value, scope)
			if err != nil {
				return nil, fmt.Errorf("%s: set %s: %w", entry.Set.Pos, entry.Set.Name, err)
			}
			scope[entry.Set.Name] = v

		case entry.Defaults != nil:
			values, err := evalBlock(entry.Defaults.Block, scope)
			if err != nil {
				return nil, err
			}
			maps.Copy(defaults, values)

		case entry.Meme != nil:
			job, err := compileMeme(entry.Meme, defaults, scope)
			if err != nil {
				return nil, err
			}
			jobs = append(jobs, job)
		}
	}
	return jobs, nil
}

func compileMeme(m *Meme, defaults map[string]string, scope map[string]any) (Job, error) {
	template, err := binding.InterpolateStrict(string(m.Template), scope)
	if err != nil {
		return Job{}, fmt.Errorf("%s: template: %w", m.Pos, err)
	}
	values, err := evalBlock(m.Block, scope)
	if err != nil {
		return Job{}, err
	}
	merged := maps.Clone(defaults)
	maps.Copy(merged, values)

	job := Job{
		Pos:      m.Pos,
		Template: template,
		Top:      merged["top"],
		Bottom:   merged["bottom"],
		Output:   merged["out"],
	}
	if raw, ok := merged["max_font_size"]; ok {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return Job{}, fmt.Errorf("%s: max_font_size must be a non-negative integer, got %q", m.Pos, raw)
		}
		job.MaxFontSize = n
	}
	if job.Template == "" {
		return Job{}, fmt.Errorf("%s: meme has an empty template name", m.Pos)
	}
	if job.Top == "" && job.Bottom == "" {
		return Job{}, fmt.Errorf("%s: meme %q needs top or bottom text", m.Pos, job.Template)
	}
	return job, nil
}

func evalBlock(b *Block, scope map[string]any) (map[string]string, error) {
	out := map[string]string{}
	if b == nil {
		return out, nil
	}
	for _, a := range b.Assignments {
		if !memeKeys[a.Key] {
			return nil, fmt.Errorf("%s: unknown key %q", a.Pos, a.Key)
		}
		if _, dup := out[a.Key]; dup {
			return nil, fmt.Errorf("%s: %q assigned twice", a.Pos, a.Key)
		}
		v, err := eval(a.Value, scope)
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", a.Pos, a.Key, err)
		}
		out[a.Key] = v
	}
	return out, nil
}

func eval(v *Value, scope map[string]any) (string, error) {
	switch {
	case v == nil:
		return "", fmt.Errorf("missing value")
	case v.String != nil:
		return binding.InterpolateStrict(string(*v.String), scope)
	case v.Number != nil:
		return *v.Number, nil
	case v.Ref != nil:
		val, ok := binding.Lookup(scope, *v.Ref)
		if !ok {
			return "", fmt.Errorf("undefined variable %q", *v.Ref)
		}
		return fmt.Sprint(val), nil
	default:
		return "", fmt.Errorf("empty value")
	}
}
