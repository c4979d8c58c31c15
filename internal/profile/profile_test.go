package profile

import (
	"testing"
	"time"
)

func TestTemplateDefaults(t *testing.T) {
	p := Template()
	if p.Hearts != MaxHearts {
		t.Errorf("hearts = %d, want %d", p.Hearts, MaxHearts)
	}
	if p.CurrentSubject != SubjectCzech {
		t.Errorf("subject = %q, want czech", p.CurrentSubject)
	}
	if p.WeeklyGoal != 500 {
		t.Errorf("weekly goal = %d, want 500", p.WeeklyGoal)
	}
	if p.Inventory.DoubleXPPotions != 1 {
		t.Errorf("potions = %d, want 1", p.Inventory.DoubleXPPotions)
	}
	if p.ActivePowerUp != PowerUpNone {
		t.Errorf("power-up = %q, want none", p.ActivePowerUp)
	}
	if p.Theme != ThemeLight || p.Avatar != DefaultAvatar {
		t.Errorf("theme/avatar = %q/%q", p.Theme, p.Avatar)
	}
}

func TestLevelFor(t *testing.T) {
	tests := []struct {
		xp   int
		want int
	}{
		{0, 1},
		{499, 1},
		{500, 2},
		{999, 2},
		{1500, 4},
	}
	for _, tt := range tests {
		if got := LevelFor(tt.xp); got != tt.want {
			t.Errorf("LevelFor(%d) = %d, want %d", tt.xp, got, tt.want)
		}
	}
}

func TestDecodeMergesOverTemplate(t *testing.T) {
	// Stored by an older version: no inventory, no stats, no theme.
	data := []byte(`{"username":"eva","hearts":3,"xp":740,"streak":4,"completedLessons":["cz-1"]}`)

	p, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.Username != "eva" || p.Hearts != 3 || p.XP != 740 || p.Streak != 4 {
		t.Errorf("stored fields lost: %+v", p)
	}
	if p.Inventory.DoubleXPPotions != 1 {
		t.Errorf("potions = %d, want template default 1", p.Inventory.DoubleXPPotions)
	}
	if p.Theme != ThemeLight {
		t.Errorf("theme = %q, want template default", p.Theme)
	}
	if p.Stats.TopicCounts == nil || p.Stats.SubjectXP == nil {
		t.Error("stats maps should be initialized")
	}
	if p.Badges == nil {
		t.Error("badges should be an empty set, not nil")
	}
}

func TestDecodeNullCollections(t *testing.T) {
	p, err := Decode([]byte(`{"badges":null,"stats":{"topicCounts":null},"hearts":9}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.Badges == nil || p.Stats.TopicCounts == nil {
		t.Error("null collections should be repaired")
	}
	if p.Hearts != MaxHearts {
		t.Errorf("hearts = %d, want clamp to %d", p.Hearts, MaxHearts)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := Decode([]byte("{not json")); err == nil {
		t.Fatal("expected error for unparseable profile")
	}
}

func TestEncodeDecodeKeepsPowerUp(t *testing.T) {
	p := New("jan", time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC))
	p.ActivePowerUp = PowerUpDoubleXP
	p.Stats.TopicCounts["Zlomky"] = 2

	data, err := Encode(p)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ActivePowerUp != PowerUpDoubleXP {
		t.Errorf("power-up = %q", got.ActivePowerUp)
	}
	if got.Stats.TopicCounts["Zlomky"] != 2 {
		t.Errorf("topic count = %d", got.Stats.TopicCounts["Zlomky"])
	}
	if !got.CreatedAt.Equal(p.CreatedAt) {
		t.Errorf("createdAt = %v, want %v", got.CreatedAt, p.CreatedAt)
	}
}

func TestCloneIsDeep(t *testing.T) {
	p := Template()
	p.Badges = append(p.Badges, "first_lesson")
	p.Stats.TopicCounts["x"] = 1

	c := p.Clone()
	c.Badges[0] = "changed"
	c.Stats.TopicCounts["x"] = 99

	if p.Badges[0] != "first_lesson" {
		t.Error("clone shares badge slice")
	}
	if p.Stats.TopicCounts["x"] != 1 {
		t.Error("clone shares topic map")
	}
}

func TestAvatarUnlock(t *testing.T) {
	king, ok := FindAvatar("king")
	if !ok {
		t.Fatal("king avatar missing")
	}
	if king.Unlocked(29) {
		t.Error("king should be locked at streak 29")
	}
	if !king.Unlocked(30) {
		t.Error("king should unlock at streak 30")
	}
	if _, ok := FindAvatar("dragon"); ok {
		t.Error("unknown avatar should not be found")
	}
}
