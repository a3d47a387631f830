package debug

import (
	"os"
	"strconv"
)

type debug struct {
	LoadEnv   bool
	ExpandEnv bool
	Resolve   bool
	Value     bool
	Merge     bool
	Subst     bool
	Apply     bool
	Pipeline  bool
}

var d *debug

func init() {
	d = &debug{}
	d.LoadEnv = boolEnv("XPATCH_DEBUG_LOAD_ENV")
	d.ExpandEnv = boolEnv("XPATCH_DEBUG_EXPAND_ENV")
	d.Resolve = boolEnv("XPATCH_DEBUG_RESOLVE")
	d.Value = boolEnv("XPATCH_DEBUG_VALUE")
	d.Merge = boolEnv("XPATCH_DEBUG_MERGE")
	d.Subst = boolEnv("XPATCH_DEBUG_SUBST")
	d.Apply = boolEnv("XPATCH_DEBUG_APPLY")
	d.Pipeline = boolEnv("XPATCH_DEBUG_PIPELINE")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func LoadEnv() bool {
	return d.LoadEnv
}
func ExpandEnv() bool {
	return d.ExpandEnv
}
func Resolve() bool {
	return d.Resolve
}
func Value() bool {
	return d.Value
}
func Merge() bool {
	return d.Merge
}
func Subst() bool {
	return d.Subst
}
func Apply() bool {
	return d.Apply
}
func Pipeline() bool {
	return d.Pipeline
}
