package aliasing

import "testing"

func TestNewResolverFiltersInvalidAliases(t *testing.T) {
	if !testing.Short() {
		t.Skip("skipping unit test in non-short mode")
	}

	resolver := NewResolver(&Config{
		SensorAliases: map[int64]int64{
			99: 1,  // valid
			50: 50, // self-referential, skipped
			60: -1, // non-positive canonical, skipped
			70: 0,  // non-positive canonical, skipped
		},
	})

	if got := resolver.AliasCount(); got != 1 {
		t.Errorf("AliasCount() = %d, want 1", got)
	}
}

func TestResolve(t *testing.T) {
	if !testing.Short() {
		t.Skip("skipping unit test in non-short mode")
	}

	resolver := NewResolver(&Config{
		SensorAliases: map[int64]int64{99: 1},
	})

	tests := []struct {
		name     string
		sensorID int64
		want     int64
	}{
		{"aliased id is rewritten", 99, 1},
		{"unaliased id passes through", 2, 2},
		{"canonical id passes through", 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolver.Resolve(tt.sensorID); got != tt.want {
				t.Errorf("Resolve(%d) = %d, want %d", tt.sensorID, got, tt.want)
			}
		})
	}
}

func TestResolveOnNilOrEmptyResolver(t *testing.T) {
	if !testing.Short() {
		t.Skip("skipping unit test in non-short mode")
	}

	var nilResolver *Resolver

	if got := nilResolver.Resolve(7); got != 7 {
		t.Errorf("nil resolver Resolve(7) = %d, want 7", got)
	}

	if got := nilResolver.AliasCount(); got != 0 {
		t.Errorf("nil resolver AliasCount() = %d, want 0", got)
	}

	empty := NewResolver(nil)
	if got := empty.Resolve(7); got != 7 {
		t.Errorf("empty resolver Resolve(7) = %d, want 7", got)
	}
}
