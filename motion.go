package main

// MotionAttrs are emitted as data-motion-* attributes and picked up by
// static/motion.js. A zero value emits nothing.
type MotionAttrs struct {
	Variant string
	Once    bool
	Margin  string
	Index   int
}

func (a MotionAttrs) Enabled() bool { return a.Variant != "" }

// Motion decides how the panel enters the viewport.
type Motion interface {
	Group() MotionAttrs
	Item(i int) MotionAttrs
}

// StaggerMotion reveals the panel once when it scrolls into view, its items
// following one another.
type StaggerMotion struct {
	Margin string
}

func (s StaggerMotion) Group() MotionAttrs {
	return MotionAttrs{Variant: "stagger-group", Once: true, Margin: s.Margin}
}

func (s StaggerMotion) Item(i int) MotionAttrs {
	return MotionAttrs{Variant: "stagger-item", Index: i}
}

type NoMotion struct{}

func (NoMotion) Group() MotionAttrs   { return MotionAttrs{} }
func (NoMotion) Item(int) MotionAttrs { return MotionAttrs{} }

var defaultMotion Motion = StaggerMotion{Margin: "-100px"}
