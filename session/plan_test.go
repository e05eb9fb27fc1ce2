package session

import "testing"

func TestComputeBatchSize(t *testing.T) {
	tests := []struct {
		name        string
		requested   int
		availableMB float64
		itemMB      float64
		want        int
	}{
		{"ample memory keeps requested", 20, 1000, 10, 20},
		{"tight memory halves down", 20, 50, 10, 10},
		{"very tight memory floors at one", 20, 1, 10, 1},
		{"zero item size keeps requested", 20, 100, 0, 20},
		{"negative item size keeps requested", 20, 100, -5, 20},
		{"requested below one is raised", 0, 1000, 10, 1},
		{"fractional safe size truncates", 20, 75, 10, 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeBatchSize(tt.requested, tt.availableMB, tt.itemMB)
			if got != tt.want {
				t.Errorf("ComputeBatchSize(%d, %v, %v) = %d, want %d",
					tt.requested, tt.availableMB, tt.itemMB, got, tt.want)
			}
		})
	}
}

func TestComputeBatchSize_NeverZero(t *testing.T) {
	if got := ComputeBatchSize(20, 0, 10); got != 1 {
		t.Errorf("ComputeBatchSize with no memory = %d, want 1", got)
	}
}

func TestCheckFeasible(t *testing.T) {
	tests := []struct {
		name        string
		availableMB float64
		batchSize   int
		itemMB      float64
		want        bool
	}{
		{"fits comfortably", 1000, 20, 10, true},
		{"exactly equal is infeasible", 200, 20, 10, false},
		{"does not fit", 50, 20, 10, false},
		{"single item fits", 11, 1, 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CheckFeasible(tt.availableMB, tt.batchSize, tt.itemMB)
			if got != tt.want {
				t.Errorf("CheckFeasible(%v, %d, %v) = %v, want %v",
					tt.availableMB, tt.batchSize, tt.itemMB, got, tt.want)
			}
		})
	}
}

func TestNewPlan(t *testing.T) {
	p := NewPlan(20, 50, 10)
	if p.Size != 10 {
		t.Errorf("Size = %d, want 10", p.Size)
	}
	if p.EstItemMB != 10 {
		t.Errorf("EstItemMB = %v, want 10", p.EstItemMB)
	}
}
