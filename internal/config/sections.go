package config

import (
	"fmt"

	"cuelang.org/go/cue"
)

func parseRenderSection(v cue.Value, r *Render) error {
	rv := v.LookupPath(cue.ParsePath("render"))
	if !rv.Exists() {
		return nil
	}
	if err := optionalInt(rv, "render.width", "width", &r.Width); err != nil {
		return err
	}
	if err := optionalInt(rv, "render.height", "height", &r.Height); err != nil {
		return err
	}
	if err := checkCanvasSize("render.width", r.Width); err != nil {
		return err
	}
	if err := checkCanvasSize("render.height", r.Height); err != nil {
		return err
	}
	if err := optionalString(rv, "render.title", "title", &r.Title); err != nil {
		return err
	}
	fv := rv.LookupPath(cue.ParsePath("fullDocument"))
	if fv.Exists() {
		if fv.Kind() != cue.BoolKind {
			return fmt.Errorf("invalid type for field: render.fullDocument (expected bool)")
		}
		if err := fv.Decode(&r.FullDocument); err != nil {
			return fmt.Errorf("invalid value for render.fullDocument: %v", err)
		}
	}
	return nil
}

func parseLinksSection(v cue.Value, l *Links) error {
	lv := v.LookupPath(cue.ParsePath("links"))
	if !lv.Exists() {
		return nil
	}
	return optionalString(lv, "links.inline", "inline", &l.Inline)
}

func parseLuaSection(v cue.Value, s *LuaSandbox) error {
	lv := v.LookupPath(cue.ParsePath("lua"))
	if !lv.Exists() {
		return nil
	}
	tv := lv.LookupPath(cue.ParsePath("timeoutMs"))
	if !tv.Exists() {
		return nil
	}
	if err := optionalInt(lv, "lua.timeoutMs", "timeoutMs", &s.TimeoutMs); err != nil {
		return err
	}
	if s.TimeoutMs < 0 {
		return fmt.Errorf("invalid value for lua.timeoutMs: %d (must be >= 0)", s.TimeoutMs)
	}
	s.HasTimeoutMs = true
	return nil
}

func optionalInt(v cue.Value, full, name string, dst *int) error {
	f := v.LookupPath(cue.ParsePath(name))
	if !f.Exists() {
		return nil
	}
	if f.Kind() != cue.IntKind {
		return fmt.Errorf("invalid type for field: %s (expected int)", full)
	}
	if err := f.Decode(dst); err != nil {
		return fmt.Errorf("invalid value for %s: %v", full, err)
	}
	return nil
}

func optionalString(v cue.Value, full, name string, dst *string) error {
	f := v.LookupPath(cue.ParsePath(name))
	if !f.Exists() {
		return nil
	}
	if f.Kind() != cue.StringKind {
		return fmt.Errorf("invalid type for field: %s (expected string)", full)
	}
	if err := f.Decode(dst); err != nil {
		return fmt.Errorf("invalid value for %s: %v", full, err)
	}
	return nil
}

func checkCanvasSize(name string, size int) error {
	if size < MinCanvasSize || size > MaxCanvasSize {
		return fmt.Errorf("invalid value for %s: %d (must be between %d and %d)", name, size, MinCanvasSize, MaxCanvasSize)
	}
	return nil
}
