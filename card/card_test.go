package card

import "testing"

func TestParseLabel(t *testing.T) {
	cases := []struct {
		label string
		want  Card
	}{
		{"AS", CardSpadeA},
		{"as", CardSpadeA},
		{"10H", CardHeartT},
		{"TH", CardHeartT},
		{"kd", CardDiamondK},
		{"2c", CardClub2},
		{"QH", CardHeartQ},
	}
	for _, tc := range cases {
		got, err := ParseLabel(tc.label)
		if err != nil {
			t.Fatalf("ParseLabel(%q) err: %v", tc.label, err)
		}
		if got != tc.want {
			t.Fatalf("ParseLabel(%q) = %v, want %v", tc.label, got, tc.want)
		}
	}
}

func TestParseLabel_Invalid(t *testing.T) {
	for _, label := range []string{"", "A", "1S", "XX", "10", "AZ"} {
		if _, err := ParseLabel(label); err == nil {
			t.Fatalf("ParseLabel(%q) expected error", label)
		}
	}
}

func TestBlackjackValue(t *testing.T) {
	cases := []struct {
		c    Card
		want int
	}{
		{CardSpadeA, 11},
		{CardHeart2, 2},
		{CardClub9, 9},
		{CardDiamondT, 10},
		{CardSpadeJ, 10},
		{CardHeartQ, 10},
		{CardClubK, 10},
	}
	for _, tc := range cases {
		if got := tc.c.BlackjackValue(); got != tc.want {
			t.Fatalf("%v.BlackjackValue() = %d, want %d", tc.c, got, tc.want)
		}
	}
}

func TestSpokenName(t *testing.T) {
	if got := CardSpadeK.SpokenName(); got != "king of spades" {
		t.Fatalf("unexpected spoken name: %q", got)
	}
	if got := CardHeartA.SpokenName(); got != "ace of hearts" {
		t.Fatalf("unexpected spoken name: %q", got)
	}
	if got := CardDiamondT.SpokenName(); got != "ten of diamonds" {
		t.Fatalf("unexpected spoken name: %q", got)
	}
}

func TestSpokenList(t *testing.T) {
	hand := CardList{CardSpadeA, CardHeart9}
	want := "ace of spades and nine of hearts"
	if got := hand.SpokenList(); got != want {
		t.Fatalf("SpokenList = %q, want %q", got, want)
	}
	if got := (CardList{}).SpokenList(); got != "no cards" {
		t.Fatalf("empty SpokenList = %q", got)
	}
	three := CardList{CardSpade2, CardHeart3, CardClub4}
	want = "two of spades, three of hearts and four of clubs"
	if got := three.SpokenList(); got != want {
		t.Fatalf("SpokenList = %q, want %q", got, want)
	}
}
