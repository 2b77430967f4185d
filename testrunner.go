package gamekit

import (
	"fmt"

	"github.com/goccy/go-yaml"
)

// testStep is a single action in an input script.
type testStep struct {
	Action string  `yaml:"action" json:"action"`
	Label  string  `yaml:"label,omitempty" json:"label,omitempty"`
	Key    string  `yaml:"key,omitempty" json:"key,omitempty"`
	X      float64 `yaml:"x,omitempty" json:"x,omitempty"`
	Y      float64 `yaml:"y,omitempty" json:"y,omitempty"`
	FromX  float64 `yaml:"fromX,omitempty" json:"fromX,omitempty"`
	FromY  float64 `yaml:"fromY,omitempty" json:"fromY,omitempty"`
	ToX    float64 `yaml:"toX,omitempty" json:"toX,omitempty"`
	ToY    float64 `yaml:"toY,omitempty" json:"toY,omitempty"`
	Frames int     `yaml:"frames,omitempty" json:"frames,omitempty"`
}

type testScript struct {
	Steps []testStep `yaml:"steps" json:"steps"`
}

// TestRunner plays an input script across frames: clicks, drags, key presses,
// waits and screenshots. Attach it with Core.SetTestRunner.
type TestRunner struct {
	steps     []testStep
	cursor    int
	waitCount int
	done      bool
	finished  *Promise
}

// LoadTestScript parses a YAML or JSON input script.
//
//	steps:
//	  - {action: click, x: 40, y: 60}
//	  - {action: key, key: space}
//	  - {action: wait, frames: 10}
//	  - {action: screenshot, label: after}
func LoadTestScript(data []byte) (*TestRunner, error) {
	var script testScript
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse test script: no steps")
	}
	for i, st := range script.Steps {
		switch st.Action {
		case "click", "drag", "wait", "key", "screenshot":
		default:
			return nil, fmt.Errorf("parse test script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &TestRunner{steps: script.Steps, finished: NewPromise()}, nil
}

// SetTestRunner attaches runner to the Core. It advances once per frame,
// before injected input is consumed.
func (c *Core) SetTestRunner(runner *TestRunner) {
	c.input.runner = runner
}

// Done reports whether every step has run and its input was consumed.
func (r *TestRunner) Done() bool {
	return r.done
}

// Finished returns a promise resolved when the script completes.
func (r *TestRunner) Finished() *Promise {
	return r.finished
}

func (r *TestRunner) finish() {
	r.done = true
	r.finished.Resolve()
}

// step advances the runner by one frame.
func (r *TestRunner) step(c *Core) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if len(c.input.injected) > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.finish()
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "screenshot":
		c.Screenshot(st.Label)
	case "click":
		c.InjectClick(st.X, st.Y)
	case "key":
		c.InjectKey(st.Key)
	case "drag":
		c.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, st.Frames)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1
		}
	}
	c.log.Debug("test runner step", "index", r.cursor-1, "action", st.Action)
}
