package aliasing

import "log/slog"

// Resolver maps device-reported sensor IDs to canonical sensor IDs.
// Thread-safe for concurrent use (immutable after construction).
type Resolver struct {
	aliases map[int64]int64
}

// NewResolver creates a resolver from config.
//
// Aliases mapping an ID to itself or to a non-positive ID are skipped with a
// warning. If config is nil or has no aliases, the resolver is a no-op
// (passthrough).
func NewResolver(cfg *Config) *Resolver {
	if cfg == nil || len(cfg.SensorAliases) == 0 {
		return &Resolver{aliases: map[int64]int64{}}
	}

	valid := make(map[int64]int64, len(cfg.SensorAliases))

	for reported, canonical := range cfg.SensorAliases {
		if canonical <= 0 {
			slog.Warn("Skipping sensor alias with non-positive canonical ID",
				slog.Int64("reported", reported),
				slog.Int64("canonical", canonical))

			continue
		}

		if reported == canonical {
			slog.Warn("Skipping self-referential sensor alias",
				slog.Int64("sensor", reported))

			continue
		}

		valid[reported] = canonical

		slog.Debug("Registered sensor alias",
			slog.Int64("reported", reported),
			slog.Int64("canonical", canonical))
	}

	return &Resolver{aliases: valid}
}

// AliasCount returns the number of registered aliases.
func (r *Resolver) AliasCount() int {
	if r == nil {
		return 0
	}

	return len(r.aliases)
}

// Resolve returns the canonical sensor ID for a device-reported ID, or the
// input unchanged when no alias is registered.
func (r *Resolver) Resolve(sensorID int64) int64 {
	if r == nil || len(r.aliases) == 0 {
		return sensorID
	}

	if canonical, ok := r.aliases[sensorID]; ok {
		return canonical
	}

	return sensorID
}
