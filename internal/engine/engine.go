package engine

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"

	"github.com/1broseidon/tabletd/internal/config"
	"github.com/1broseidon/tabletd/internal/geom"
	"github.com/1broseidon/tabletd/internal/tablet"
)

// DeviceCommander is the command half of the tablet controller the
// engine drives. All calls are best-effort: a failure on one device
// never stops the pass.
type DeviceCommander interface {
	SetArea(id string, area geom.Rect) error
	SetOutputArea(id string, area geom.Rect) error
	SetRawOption(id, opt string) error
}

// WindowSystem answers window and display queries during rule
// evaluation and output resolution.
type WindowSystem interface {
	WindowTitle(id string) (string, error)
	WindowClasses(id string) ([]string, error)
	WindowBounds(id string, includeFrame bool) (geom.Rect, error)
	ListDisplays() ([]string, error)
	DisplayBounds(name string) (geom.Rect, bool, error)
}

// Snapshot is the focused window's state at the start of a tick. An
// empty WindowID means no window is focused. Snapshots are replaced
// wholesale, never mutated.
type Snapshot struct {
	WindowID string
	Bounds   *geom.Rect
}

// Focused reports whether a window was focused when the snapshot was
// taken.
func (s Snapshot) Focused() bool {
	return s.WindowID != ""
}

type categoryOptions struct {
	category tablet.Category
	options  []string
}

type compiledRule struct {
	name        string
	specificity int
	matchers    []matcher
	mapping     *config.Mapping
	options     []categoryOptions
}

type group struct {
	prefix string
	rules  []compiledRule
}

// Engine evaluates the profile configuration against the current device
// registry and window snapshot, and issues device commands for active
// rules. The configuration is compiled once and immutable afterward.
type Engine struct {
	groups  []group
	tablet  DeviceCommander
	windows WindowSystem
	logger  *slog.Logger
}

// New compiles a validated configuration into an engine.
func New(cfg config.Config, commander DeviceCommander, windows WindowSystem, logger *slog.Logger) (*Engine, error) {
	groups := make([]group, 0, len(cfg))
	for _, g := range cfg {
		rules := make([]compiledRule, 0, len(g.Rules))
		for _, nr := range g.Rules {
			matchers, err := compileMatchers(nr.Rule)
			if err != nil {
				return nil, fmt.Errorf("rule %s.%s: %w", g.Prefix, nr.Name, err)
			}
			rules = append(rules, compiledRule{
				name:        nr.Name,
				specificity: nr.Rule.Specificity(),
				matchers:    matchers,
				mapping:     nr.Rule.Mapping,
				options: []categoryOptions{
					{category: tablet.Pad, options: nr.Rule.Pad},
					{category: tablet.Stylus, options: nr.Rule.Stylus},
					{category: tablet.Eraser, options: nr.Rule.Eraser},
				},
			})
		}
		// Least specific first: later, more specific rules override
		// earlier ones because later device commands win. The sort is
		// stable so ties keep their file order.
		sort.SliceStable(rules, func(i, j int) bool {
			return rules[i].specificity < rules[j].specificity
		})
		groups = append(groups, group{prefix: g.Prefix, rules: rules})
	}
	return &Engine{
		groups:  groups,
		tablet:  commander,
		windows: windows,
		logger:  logger,
	}, nil
}

// Apply runs one rule-application pass over the current devices and
// window snapshot. Re-invoking with unchanged arguments issues the same
// commands, so the pass is idempotent in observable device state.
// Failures on individual devices, rules, or displays are logged and
// skipped; Apply never aborts a pass.
func (e *Engine) Apply(devices []*tablet.Device, snap Snapshot) {
	for _, g := range e.groups {
		matching := matchingDevices(devices, g.prefix)
		if len(matching) == 0 {
			continue
		}
		e.logger.Debug("using ruleset", "prefix", g.prefix, "devices", len(matching))
		for _, rule := range g.rules {
			if !e.ruleActive(rule, snap) {
				continue
			}
			e.logger.Debug("applying rule", "prefix", g.prefix, "rule", rule.name)
			e.applyRule(rule, matching, snap)
		}
	}
}

func matchingDevices(devices []*tablet.Device, prefix string) []*tablet.Device {
	var matching []*tablet.Device
	for _, dev := range devices {
		if strings.HasPrefix(dev.Name, prefix) {
			matching = append(matching, dev)
		}
	}
	return matching
}

// ruleActive evaluates a rule's matchers conjunctively against the
// snapshot. A rule with matchers is never active without a focused
// window; a rule without matchers always is.
func (e *Engine) ruleActive(rule compiledRule, snap Snapshot) bool {
	for _, m := range rule.matchers {
		if !snap.Focused() {
			return false
		}
		ok, err := m.matches(e.windows, snap.WindowID)
		if err != nil {
			e.logger.Debug("window query failed during match", "rule", rule.name, "error", err)
			return false
		}
		if !ok {
			return false
		}
	}
	return true
}

func (e *Engine) applyRule(rule compiledRule, devices []*tablet.Device, snap Snapshot) {
	if rule.mapping != nil {
		if output, ok := e.resolveOutput(*rule.mapping, snap); ok {
			e.applyMapping(output, devices)
		}
	}

	for _, co := range rule.options {
		if len(co.options) == 0 {
			continue
		}
		for _, dev := range devices {
			if dev.Category != co.category {
				continue
			}
			e.logger.Debug("setting options", "device", dev.Name)
			for _, opt := range co.options {
				if err := e.tablet.SetRawOption(dev.ID, opt); err != nil {
					e.logger.Error("failed to set option",
						"device", dev.Name, "option", opt, "error", err)
				}
			}
		}
	}
}

func (e *Engine) applyMapping(output geom.Rect, devices []*tablet.Device) {
	for _, dev := range devices {
		if dev.InitialArea == nil {
			continue
		}
		e.logger.Debug("mapping device", "device", dev.Name)
		if err := e.mapDevice(dev, output); err != nil {
			e.logger.Error("failed to map area on device", "device", dev.Name, "error", err)
		}
	}
}

func (e *Engine) mapDevice(dev *tablet.Device, output geom.Rect) error {
	fitted := geom.Fit(output, *dev.InitialArea)
	if fitted.Height() != 0 && output.Height() != 0 &&
		math.Abs(fitted.Aspect()-output.Aspect()) > geom.AspectTolerance {
		e.logger.Warn("fitted aspect ratio does not match output",
			"device", dev.Name, "fitted", fitted.Aspect(), "output", output.Aspect())
	}

	if err := e.tablet.SetOutputArea(dev.ID, output); err != nil {
		return err
	}
	if err := e.tablet.SetArea(dev.ID, fitted); err != nil {
		return err
	}
	e.logger.Debug("mapped device", "device", dev.ID, "area", fitted, "output", output)
	return nil
}
