package main

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/fatedier/pktgen/client"
)

// configKeys maps toml keys, which are also the flag names, onto options.
var configKeys = map[string]func(dst *client.Options, src client.Options){
	"software_id":  func(dst *client.Options, src client.Options) { dst.SoftwareID = src.SoftwareID },
	"wire_order":   func(dst *client.Options, src client.Options) { dst.WireOrder = src.WireOrder },
	"size":         func(dst *client.Options, src client.Options) { dst.Size = src.Size },
	"count":        func(dst *client.Options, src client.Options) { dst.Count = src.Count },
	"min_size":     func(dst *client.Options, src client.Options) { dst.MinSize = src.MinSize },
	"max_size":     func(dst *client.Options, src client.Options) { dst.MaxSize = src.MaxSize },
	"seed":         func(dst *client.Options, src client.Options) { dst.Seed = src.Seed },
	"target":       func(dst *client.Options, src client.Options) { dst.Target = src.Target },
	"rate":         func(dst *client.Options, src client.Options) { dst.Rate = src.Rate },
	"progress":     func(dst *client.Options, src client.Options) { dst.Progress = src.Progress },
	"hexdump":      func(dst *client.Options, src client.Options) { dst.HexDump = src.HexDump },
	"quiet":        func(dst *client.Options, src client.Options) { dst.Quiet = src.Quiet },
	"debug":        func(dst *client.Options, src client.Options) { dst.DebugMode = src.DebugMode },
	"log_file":     func(dst *client.Options, src client.Options) { dst.LogFile = src.LogFile },
	"log_level":    func(dst *client.Options, src client.Options) { dst.LogLevel = src.LogLevel },
	"log_max_days": func(dst *client.Options, src client.Options) { dst.LogMaxDays = src.LogMaxDays },
}

// loadConfig overlays the keys set in the file onto base, skipping every key
// whose flag was given explicitly.
func loadConfig(path string, base client.Options, flagChanged func(string) bool) (client.Options, error) {
	var raw client.Options
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return client.Options{}, fmt.Errorf("load pktgen config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return client.Options{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}

	cfg := base
	for key, apply := range configKeys {
		if meta.IsDefined(key) && !flagChanged(key) {
			apply(&cfg, raw)
		}
	}
	return cfg, nil
}
