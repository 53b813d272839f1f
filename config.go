package xmalloc

import "fmt"

import "github.com/cloudfoundry/gosigar"

// Config carries startup settings by string key, panicking typed accessors,
// following the configuration idiom used throughout this allocator's
// lineage rather than a typed struct: the set of tunables is small and
// rarely grows, but the panic-on-missing-key discipline is still the right
// default because a misconfigured allocator should fail at startup, not
// silently substitute a zero value mid-run.
type Config map[string]interface{}

func (cfg Config) value(key string) interface{} {
	v, ok := cfg[key]
	if !ok {
		panic(fmt.Errorf("xmalloc: config: missing key %q", key))
	}
	return v
}

// Int64 returns the int64 value stored at key, panicking if the key is
// absent or holds a different type.
func (cfg Config) Int64(key string) int64 {
	v, ok := cfg.value(key).(int64)
	if !ok {
		panic(fmt.Errorf("xmalloc: config: key %q is not an int64", key))
	}
	return v
}

// Bool returns the bool value stored at key, panicking if absent or
// mistyped.
func (cfg Config) Bool(key string) bool {
	v, ok := cfg.value(key).(bool)
	if !ok {
		panic(fmt.Errorf("xmalloc: config: key %q is not a bool", key))
	}
	return v
}

// String returns the string value stored at key, panicking if absent or
// mistyped.
func (cfg Config) String(key string) string {
	v, ok := cfg.value(key).(string)
	if !ok {
		panic(fmt.Errorf("xmalloc: config: key %q is not a string", key))
	}
	return v
}

// Defaultsettings queries the host's free memory via gosigar and derives a
// default "capacity" setting from it, the way this allocator's sibling
// packages size their default pool capacity from the same source. capacity
// is advisory only (see NewAllocator): bucket pages grow on demand
// regardless of this figure, and neither NewAllocator nor Stats reads it,
// so undersizing it does not make the allocator refuse requests.
func Defaultsettings() Config {
	total, _, free := getsysmem()
	capacity := free / 4
	if capacity == 0 {
		capacity = total / 8
	}
	return Config{
		"capacity":           int64(capacity),
		"preallocate":        true,
		"advise_empty_pages": true,
		"loglevel":           "info",
	}
}

func getsysmem() (total, used, free uint64) {
	mem := sigar.Mem{}
	mem.Get()
	return mem.Total, mem.Used, mem.Free
}
