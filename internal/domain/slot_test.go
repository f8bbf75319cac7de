package domain

import (
	"testing"
	"time"
)

func TestStartOfHour(t *testing.T) {
	kolkata, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		t.Fatalf("LoadLocation error: %v", err)
	}

	tests := []struct {
		name string
		in   time.Time
		loc  *time.Location
		want time.Time
	}{
		{
			name: "drops minutes and seconds",
			in:   time.Date(2025, 3, 10, 9, 30, 15, 500, time.UTC),
			loc:  time.UTC,
			want: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
		},
		{
			name: "already aligned is unchanged",
			in:   time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
			loc:  time.UTC,
			want: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
		},
		{
			name: "nil location means UTC",
			in:   time.Date(2025, 3, 10, 23, 59, 59, 0, time.UTC),
			loc:  nil,
			want: time.Date(2025, 3, 10, 23, 0, 0, 0, time.UTC),
		},
		{
			name: "half hour offset truncates on local wall clock",
			in:   time.Date(2025, 3, 10, 4, 0, 0, 0, time.UTC), // 09:30 IST
			loc:  kolkata,
			want: time.Date(2025, 3, 10, 9, 0, 0, 0, kolkata),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StartOfHour(tt.in, tt.loc)
			if !got.Equal(tt.want) {
				t.Fatalf("StartOfHour = %v, want %v", got, tt.want)
			}
			if got.Minute() != 0 || got.Second() != 0 || got.Nanosecond() != 0 {
				t.Fatalf("not hour aligned: %v", got)
			}
		})
	}
}

func TestStartOfHour_Idempotent(t *testing.T) {
	in := time.Date(2025, 3, 10, 9, 47, 3, 0, time.UTC)
	once := StartOfHour(in, time.UTC)
	twice := StartOfHour(once, time.UTC)
	if !once.Equal(twice) {
		t.Fatalf("StartOfHour not idempotent: %v vs %v", once, twice)
	}
}

func TestStartOfDay(t *testing.T) {
	got := StartOfDay(time.Date(2025, 3, 10, 17, 5, 0, 0, time.UTC), time.UTC)
	want := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("StartOfDay = %v, want %v", got, want)
	}
}

func TestFormatSlot(t *testing.T) {
	got := FormatSlot(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC), time.UTC)
	if got != "10-03-2025 09:00" {
		t.Fatalf("FormatSlot = %q, want %q", got, "10-03-2025 09:00")
	}
}

func TestAppointmentTypeValid(t *testing.T) {
	for _, typ := range []AppointmentType{AppointmentTypeConsultation, AppointmentTypeFollowUp, AppointmentTypeProcedure} {
		if !typ.Valid() {
			t.Fatalf("%q should be valid", typ)
		}
	}
	if AppointmentType("haircut").Valid() {
		t.Fatalf("unknown type reported valid")
	}
}

func TestUserAvatarURL(t *testing.T) {
	u := User{ID: "u1", Avatar: "abc.png"}
	if got := u.AvatarURL("https://api.example.com/"); got != "https://api.example.com/files/abc.png" {
		t.Fatalf("AvatarURL = %q", got)
	}

	u.Avatar = ""
	if got := u.AvatarURL("https://api.example.com"); got != "" {
		t.Fatalf("AvatarURL = %q, want empty", got)
	}
}

func TestNotificationBeforeInsert(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	n := Notification{Content: "c", RecipientID: "p1"}
	if err := n.BeforeInsert(now); err != nil {
		t.Fatalf("BeforeInsert error: %v", err)
	}
	if n.ID == "" {
		t.Fatalf("expected generated id")
	}
	if !n.CreatedAt.Equal(now) || !n.UpdatedAt.Equal(now) {
		t.Fatalf("timestamps = %v/%v, want %v", n.CreatedAt, n.UpdatedAt, now)
	}

	id := n.ID
	if err := n.BeforeInsert(now.Add(time.Hour)); err != nil {
		t.Fatalf("BeforeInsert error: %v", err)
	}
	if n.ID != id || !n.CreatedAt.Equal(now) {
		t.Fatalf("existing fields overwritten")
	}
}
