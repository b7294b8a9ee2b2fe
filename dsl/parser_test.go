package dsl_test

import (
	"strings"
	"testing"

	"github.com/piotrgredowski/memer-cli/dsl"
)

const sampleScript = `
# weekly memes
set team = "backend"
set size = 90

defaults {
  max_font_size: size
}

meme "Two Buttons" {
  top: "Deploy on Friday"; bottom: "Sleep, ${team}"
  out: "friday.png"
}

/* the data block comes from -data */
meme "${data.template:-Change My Mind}"
{
  bottom: "${data.people[0]} is always right"
  max_font_size: 40
}
`

func TestParseScript(t *testing.T) {
	script, err := dsl.ParseString(sampleScript)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(script.Entries) != 5 {
		t.Fatalf("expected 5 entries, got %d", len(script.Entries))
	}
	kinds := []string{}
	for _, e := range script.Entries {
		kinds = append(kinds, e.Kind())
	}
	if got := strings.Join(kinds, ","); got != "set,set,defaults,meme,meme" {
		t.Fatalf("kinds = %s", got)
	}

	set := script.Entries[0].Set
	if set.Name != "team" || set.Value.String == nil || string(*set.Value.String) != "backend" {
		t.Fatalf("unexpected set: %+v", set)
	}
	if n := script.Entries[1].Set.Value.Number; n == nil || *n != "90" {
		t.Fatalf("expected number 90, got %+v", script.Entries[1].Set.Value)
	}
	if ref := script.Entries[2].Defaults.Block.Assignments[0].Value.Ref; ref == nil || *ref != "size" {
		t.Fatalf("expected ref to size")
	}

	meme := script.Entries[3].Meme
	if meme.Template != "Two Buttons" {
		t.Fatalf("template = %q", meme.Template)
	}
	if len(meme.Block.Assignments) != 3 {
		t.Fatalf("assignments = %d", len(meme.Block.Assignments))
	}
	if meme.Pos.Line != 10 {
		t.Fatalf("meme position line = %d, want 10", meme.Pos.Line)
	}
}

func TestParseErrors(t *testing.T) {
	bad := []string{
		`meme Two { top: "x" }`,
		`meme "Two" { top "x" }`,
		`set = "x"`,
		`meme "Two" { top: "unterminated }`,
	}
	for _, src := range bad {
		if _, err := dsl.ParseString(src); err == nil {
			t.Fatalf("expected parse error for %q", src)
		}
	}
}

func TestCompile(t *testing.T) {
	script, err := dsl.ParseString(sampleScript)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	data := map[string]any{"people": []any{"Ada"}}

	jobs, err := dsl.Compile(script, data)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("jobs = %+v", jobs)
	}

	first := jobs[0]
	if first.Template != "Two Buttons" || first.Top != "Deploy on Friday" || first.Bottom != "Sleep, backend" {
		t.Fatalf("first job = %+v", first)
	}
	if first.Output != "friday.png" || first.MaxFontSize != 90 {
		t.Fatalf("first job output/size = %q/%d", first.Output, first.MaxFontSize)
	}

	second := jobs[1]
	if second.Template != "Change My Mind" || second.Top != "" || second.Bottom != "Ada is always right" {
		t.Fatalf("second job = %+v", second)
	}
	if second.MaxFontSize != 40 || second.Output != "" {
		t.Fatalf("second job overrides = %+v", second)
	}
}

func TestCompileErrors(t *testing.T) {
	cases := map[string]string{
		"unknown key":    `meme "a" { colour: "red" }`,
		"duplicate key":  `meme "a" { top: "x"; top: "y" }`,
		"no text":        `meme "a" { out: "x.png" }`,
		"undefined ref":  `meme "a" { top: who }`,
		"unresolved":     `meme "a" { top: "${who}" }`,
		"bad size":       `meme "a" { top: "x"; max_font_size: "big" }`,
		"empty template": `meme "" { top: "x" }`,
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			script, err := dsl.ParseString(src)
			if err != nil {
				t.Fatalf("parse failed: %v", err)
			}
			if _, err := dsl.Compile(script, nil); err == nil {
				t.Fatalf("expected compile error")
			}
		})
	}
}
