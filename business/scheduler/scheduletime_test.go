package scheduler

import (
	"testing"
	"time"
)

func TestMakeScheduleTime(t *testing.T) {
	location, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Errorf("Unable to get testing time zone location")
		return
	}
	type args struct {
		timeAt12        time.Time
		scheduleSeconds int
	}
	tests := []struct {
		name string
		args args
		want time.Time
	}{
		{
			name: "12am",
			args: args{
				timeAt12:        time.Date(2022, 5, 23, 0, 0, 0, 0, location),
				scheduleSeconds: 0,
			},
			want: time.Date(2022, 5, 23, 0, 0, 0, 0, location),
		},
		{
			name: "5:20pm",
			args: args{
				timeAt12:        time.Date(2022, 5, 23, 0, 0, 0, 0, location),
				scheduleSeconds: 62400,
			},
			want: time.Date(2022, 5, 23, 17, 20, 0, 0, location),
		},
		{
			name: "12:30pm, on forward day",
			args: args{
				timeAt12:        time.Date(2022, 11, 6, 0, 0, 0, 0, location),
				scheduleSeconds: 45000,
			},
			want: time.Date(2022, 11, 6, 12, 30, 0, 0, location),
		},
		{
			name: "12:30pm, on back day",
			args: args{
				timeAt12:        time.Date(2022, 3, 13, 0, 0, 0, 0, location),
				scheduleSeconds: 45000,
			},
			want: time.Date(2022, 3, 13, 12, 30, 0, 0, location),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MakeScheduleTime(tt.args.timeAt12, tt.args.scheduleSeconds)
			if !got.Equal(tt.want) {
				t.Errorf("MakeScheduleTime() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGet12AmTime(t *testing.T) {
	location, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Errorf("Unable to get testing time zone location")
		return
	}
	at := time.Date(2022, 5, 23, 18, 42, 11, 0, location)
	want := time.Date(2022, 5, 23, 0, 0, 0, 0, location)
	if got := Get12AmTime(at); !got.Equal(want) {
		t.Errorf("Get12AmTime() = %v, want %v", got, want)
	}
}
