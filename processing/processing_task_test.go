package processing

import "testing"

func Test_statusToMap(t *testing.T) {
	tests := []struct {
		name   string
		status string
		want   map[string]int
	}{
		{
			"empty",
			"",
			map[string]int{},
		},
		{
			"single",
			"matchguests:2",
			map[string]int{"matchguests": 2},
		},
		{
			"multiple",
			"matchguests:2,other:3",
			map[string]int{"matchguests": 2, "other": 3},
		},
		{
			"garbage entries are skipped",
			"matchguests:2,garbage",
			map[string]int{"matchguests": 2},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pt := ProcessingTask{Status: tt.status}
			got := pt.statusToMap()
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("key %s: got %d, want %d", k, got[k], v)
				}
			}
		})
	}
}

func Test_updateWithRoundTrip(t *testing.T) {
	pt := ProcessingTask{}
	pt.updateWith(map[string]int{"matchguests": Done, "other": Failed})
	got := pt.statusToMap()
	if got["matchguests"] != Done || got["other"] != Failed {
		t.Errorf("round trip lost data: %v", got)
	}
}
